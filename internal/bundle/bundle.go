// Package bundle merges per-probe findings into one combined report,
// manifests every packaged file with its digest, and archives the lot
// into a portable zip for audit or support hand-off.
package bundle

import (
	"fmt"

	"github.com/arcops/diagnostics/internal/errors"
)

// Well-known file names inside a bundle output directory.
const (
	FindingsFileName  = "findings.json"
	ManifestFileName  = "sha256sum.txt"
	ArchiveFileName   = "bundle.zip"
	SignatureFileName = "bundle.sig.json"
)

// Options controls a bundle build.
type Options struct {
	// InputPaths are files or directories to merge. Findings-shaped JSON
	// files contribute their checks to the combined report; other files
	// become log attachments when IncludeLogs is set.
	InputPaths []string

	// OutputDir is the directory under which <runId>/ is created.
	OutputDir string

	// RunID overrides the generated run identifier.
	RunID string

	// IncludeLogs attaches non-JSON input files under logs/.
	IncludeLogs bool

	// Sign writes a detached signature file next to the archive.
	Sign bool

	// KeyPath is an SSH private key for real signing. When empty and Sign
	// is set, an explicitly-labeled unsigned stub is written instead.
	KeyPath string

	// SignerID identifies the signer in the signature file.
	SignerID string
}

// Validate checks the options for fatal misconfiguration.
func (o *Options) Validate() error {
	if o.OutputDir == "" {
		return errors.New(errors.ErrCodeOutputDir, "output directory is required")
	}
	return nil
}

// Result reports what a bundle build produced.
type Result struct {
	BundlePath    string   `json:"bundlePath"`
	ManifestPath  string   `json:"manifestPath"`
	FindingsPath  string   `json:"findingsPath"`
	SignaturePath string   `json:"signaturePath,omitempty"`
	RunID         string   `json:"runId"`
	FileCount     int      `json:"fileCount"`
	TotalChecks   int      `json:"totalChecks"`
	Signed        bool     `json:"signed"`
	Warnings      []string `json:"warnings,omitempty"`
}

// stagedFile is one file destined for the archive.
type stagedFile struct {
	sourcePath  string
	archivePath string
}

func (f stagedFile) String() string {
	return fmt.Sprintf("%s -> %s", f.sourcePath, f.archivePath)
}
