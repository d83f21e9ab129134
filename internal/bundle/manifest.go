package bundle

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/arcops/diagnostics/internal/errors"
	"github.com/arcops/diagnostics/internal/signer"
)

// Entry is one manifest line: the digest of a bundled file and its
// archive-relative path.
type Entry struct {
	Digest string
	Path   string
}

// Line renders the entry in sha256sum format.
func (e Entry) Line() string {
	return fmt.Sprintf("%s  %s", e.Digest, e.Path)
}

// computeManifest hashes every staged file. Hashing runs concurrently for
// throughput, but the returned entries are sorted by archive path so the
// manifest is a deterministic function of the bundle contents, not of
// hashing completion order.
func computeManifest(files []stagedFile) ([]Entry, error) {
	entries := make([]Entry, len(files))
	hashErrs := make([]error, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f stagedFile) {
			defer wg.Done()
			digest, err := signer.HashFile(f.sourcePath)
			if err != nil {
				hashErrs[i] = err
				return
			}
			entries[i] = Entry{Digest: digest, Path: f.archivePath}
		}(i, f)
	}
	wg.Wait()

	for _, err := range hashErrs {
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileReadFailed, "hash bundle file", err)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	return entries, nil
}

// writeManifest writes the sorted manifest lines to path.
func writeManifest(files []stagedFile, path string) error {
	entries, err := computeManifest(files)
	if err != nil {
		return err
	}

	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(entry.Line())
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "write manifest", err)
	}

	return nil
}

// ParseManifest reads sha256sum-format lines back into entries, for
// verification tooling and tests.
func ParseManifest(data []byte) []Entry {
	var entries []Entry
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "  ", 2)
		if len(parts) != 2 {
			continue
		}
		entries = append(entries, Entry{Digest: parts[0], Path: parts[1]})
	}
	return entries
}
