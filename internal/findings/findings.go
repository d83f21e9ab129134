// Package findings defines the report shape every probe produces and the
// invariant-preserving mutators used to populate it.
package findings

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/arcops/diagnostics/internal/errors"
)

// SchemaVersion is the findings document version written by this build.
const SchemaVersion = "0.1.0"

// NewRunID generates a unique, sortable run identifier of the form
// 20260115-094237-3fa85f64.
func NewRunID() string {
	ts := time.Now().UTC().Format("20060102-150405")
	return fmt.Sprintf("%s-%s", ts, uuid.NewString()[:8])
}

// Option customizes a new report.
type Option func(*Findings)

// WithRunID overrides the generated run ID.
func WithRunID(runID string) Option {
	return func(f *Findings) {
		if runID != "" {
			f.RunID = runID
		}
	}
}

// WithTool sets the tool name and version in the report metadata.
func WithTool(name, version string) Option {
	return func(f *Findings) {
		f.Metadata.ToolName = name
		if version != "" {
			f.Metadata.ToolVersion = version
		}
	}
}

// WithMode records the execution mode (e.g. "online", "offline") in metadata.
func WithMode(mode string) Option {
	return func(f *Findings) {
		f.Metadata.Mode = mode
	}
}

// New creates an empty report for the given target with a zeroed summary.
func New(target Target, opts ...Option) *Findings {
	hostname, _ := os.Hostname()

	f := &Findings{
		Version:   SchemaVersion,
		Target:    target,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RunID:     NewRunID(),
		Metadata: Metadata{
			ToolVersion: SchemaVersion,
			Hostname:    hostname,
		},
		Checks: []Check{},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// AddCheck appends a check and updates the summary counts in the same step,
// preserving the invariant summary.total == len(checks). A check with an
// unknown status is rejected without mutating the report.
func (f *Findings) AddCheck(check Check) error {
	if !check.Status.Valid() {
		return errors.NewUnknownStatusError(string(check.Status))
	}

	f.Checks = append(f.Checks, check)
	f.Summary.Total++
	f.Summary.count(check.Status)

	return nil
}

func (s *Summary) count(status Status) {
	switch status {
	case StatusPass:
		s.Pass++
	case StatusFail:
		s.Fail++
	case StatusWarn:
		s.Warn++
	case StatusSkipped:
		s.Skipped++
	}
}
