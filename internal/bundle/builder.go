package bundle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arcops/diagnostics/internal/errors"
	"github.com/arcops/diagnostics/internal/findings"
	"github.com/arcops/diagnostics/internal/log"
)

// logExtensions are the non-JSON file types picked up from scanned
// directories when IncludeLogs is set.
var logExtensions = map[string]bool{
	".log":  true,
	".txt":  true,
	".yaml": true,
	".yml":  true,
}

// Builder assembles one diagnostics bundle.
type Builder struct {
	opts     Options
	logger   *log.Logger
	combined *findings.Findings
	staged    []stagedFile
	seen      map[string]bool
	seenRuns  map[string]string
	usedPaths map[string]bool
	warnings  []string
}

// NewBuilder creates a bundle builder with the given options.
func NewBuilder(opts Options) (*Builder, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bundle options: %w", err)
	}

	return &Builder{
		opts:      opts,
		logger:    log.DefaultLogger(),
		seen:      make(map[string]bool),
		seenRuns:  make(map[string]string),
		usedPaths: make(map[string]bool),
	}, nil
}

// WithLogger replaces the builder's logger.
func (b *Builder) WithLogger(logger *log.Logger) *Builder {
	b.logger = logger
	return b
}

// Build merges all inputs, writes the combined findings and manifest,
// packages everything into the archive, and optionally writes a detached
// signature. Individual bad inputs are recorded as warnings and skipped;
// only failures that prevent producing any output return an error.
func (b *Builder) Build() (*Result, error) {
	runID := b.opts.RunID
	if runID == "" {
		runID = findings.NewRunID()
	}

	outDir := filepath.Join(b.opts.OutputDir, runID)
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, errors.Wrap(errors.ErrCodeOutputDir, "create output directory", err)
	}

	b.combined = findings.New(findings.TargetBundle,
		findings.WithRunID(runID),
		findings.WithTool("arcops.diagnostics.bundle", ""),
	)
	b.combined.Metadata.BundleType = "diagnostics"

	for _, inputPath := range b.opts.InputPaths {
		b.processPath(inputPath)
	}

	// The combined report joins the staged files before hashing so its
	// manifest entry is computed the same way as every source file's.
	findingsPath := filepath.Join(outDir, FindingsFileName)
	if err := b.combined.Write(findingsPath); err != nil {
		return nil, err
	}
	b.staged = append(b.staged, stagedFile{sourcePath: findingsPath, archivePath: FindingsFileName})

	manifestPath := filepath.Join(outDir, ManifestFileName)
	if err := writeManifest(b.staged, manifestPath); err != nil {
		return nil, err
	}
	b.staged = append(b.staged, stagedFile{sourcePath: manifestPath, archivePath: ManifestFileName})

	bundlePath := filepath.Join(outDir, ArchiveFileName)
	if err := writeArchive(b.staged, bundlePath); err != nil {
		return nil, err
	}

	result := &Result{
		BundlePath:   bundlePath,
		ManifestPath: manifestPath,
		FindingsPath: findingsPath,
		RunID:        runID,
		FileCount:    len(b.staged),
		TotalChecks:  b.combined.Summary.Total,
		Warnings:     b.warnings,
	}

	if b.opts.Sign {
		sigPath, signed, err := writeSignature(bundlePath, b.opts.SignerID, b.opts.KeyPath)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeBundleSigning, "sign bundle", err)
		}
		result.SignaturePath = sigPath
		result.Signed = signed
	}

	b.logger.Info("bundle built",
		"runId", runID,
		"files", result.FileCount,
		"checks", result.TotalChecks,
		"signed", result.Signed)

	return result, nil
}

// processPath stages one input file or directory. Problems with a single
// input are warnings, never fatal: partial diagnostic value beats none.
func (b *Builder) processPath(inputPath string) {
	info, err := os.Stat(inputPath)
	if err != nil {
		b.warn(fmt.Sprintf("skipping unreadable input %s: %v", inputPath, err))
		return
	}

	if info.IsDir() {
		b.processDirectory(inputPath)
		return
	}

	if strings.EqualFold(filepath.Ext(inputPath), ".json") {
		b.processJSONFile(inputPath)
	} else if b.opts.IncludeLogs && !b.alreadySeen(inputPath) {
		b.stage(inputPath, "logs/"+filepath.Base(inputPath))
	}
}

// processDirectory scans one level of a directory, merging findings files
// and attaching recognized log files.
func (b *Builder) processDirectory(dirPath string) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		b.warn(fmt.Sprintf("skipping unreadable directory %s: %v", dirPath, err))
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dirPath, entry.Name())
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".json" {
			b.processJSONFile(path)
		} else if b.opts.IncludeLogs && logExtensions[ext] && !b.alreadySeen(path) {
			b.stage(path, "logs/"+entry.Name())
		}
	}
}

// processJSONFile merges a findings-shaped document into the combined
// report and stages the file itself. Parseable JSON that is not
// findings-shaped is raw evaluation data: it ships in the archive but
// contributes no checks. Unparseable JSON is skipped with a warning.
func (b *Builder) processJSONFile(path string) {
	if b.alreadySeen(path) {
		return
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		b.warn(fmt.Sprintf("skipping unreadable file %s: %v", path, err))
		return
	}

	if !json.Valid(raw) {
		b.warn(fmt.Sprintf("skipping malformed JSON %s", path))
		return
	}

	if !findings.LooksLikeFindings(raw) {
		b.logger.Info("staging non-findings JSON without merging", "file", path)
		b.stage(path, "findings/"+filepath.Base(path))
		return
	}

	source, err := findings.Load(path)
	if err != nil {
		b.warn(fmt.Sprintf("skipping malformed findings %s: %v", path, err))
		return
	}

	b.mergeFindings(path, source)
	b.stage(path, "findings/"+filepath.Base(path))
}

// mergeFindings appends every check from source into the combined report
// and records provenance. Checks from distinct files are never deduplicated
// by runId or check id: a probe may legitimately re-run the same check and
// both results must survive for the audit trail.
func (b *Builder) mergeFindings(path string, source *findings.Findings) {
	if prev, dup := b.seenRuns[source.RunID]; dup && source.RunID != "" {
		b.logger.Warn("duplicate run id across inputs",
			"runId", source.RunID, "file", path, "previous", prev)
	} else if source.RunID != "" {
		b.seenRuns[source.RunID] = path
	}

	for _, check := range source.Checks {
		if err := b.combined.AddCheck(check); err != nil {
			b.warn(fmt.Sprintf("skipping check %q from %s: %v", check.ID, path, err))
		}
	}

	b.combined.Sources = append(b.combined.Sources, findings.Provenance{
		File:      filepath.Base(path),
		Target:    string(source.Target),
		Timestamp: source.Timestamp,
		RunID:     source.RunID,
	})
}

// alreadySeen deduplicates inputs by resolved path so overlapping input
// directories cannot inflate the summary counts.
func (b *Builder) alreadySeen(path string) bool {
	resolved, err := filepath.Abs(path)
	if err != nil {
		resolved = path
	}
	if b.seen[resolved] {
		b.logger.Warn("input file listed more than once, merging once", "file", path)
		return true
	}
	b.seen[resolved] = true
	return false
}

// stage queues a file for the archive, disambiguating colliding archive
// paths so inputs with the same basename from different directories keep
// the manifest a deterministic function of the inputs.
func (b *Builder) stage(sourcePath, archivePath string) {
	archivePath = b.uniqueArchivePath(archivePath)
	b.staged = append(b.staged, stagedFile{sourcePath: sourcePath, archivePath: archivePath})
}

func (b *Builder) uniqueArchivePath(path string) string {
	if !b.usedPaths[path] {
		b.usedPaths[path] = true
		return path
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d%s", base, i, ext)
		if !b.usedPaths[candidate] {
			b.usedPaths[candidate] = true
			return candidate
		}
	}
}

func (b *Builder) warn(msg string) {
	b.logger.Warn(msg)
	b.warnings = append(b.warnings, msg)
}
