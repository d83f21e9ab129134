package findings

// Target identifies what kind of system a report describes.
type Target string

const (
	TargetCluster Target = "cluster"
	TargetHost    Target = "host"
	TargetSite    Target = "site"
	TargetGateway Target = "gateway"
	TargetBundle  Target = "bundle"
)

// Status is the outcome of a single check.
type Status string

const (
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusWarn    Status = "warn"
	StatusSkipped Status = "skipped"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPass, StatusFail, StatusWarn, StatusSkipped:
		return true
	}
	return false
}

// Severity classifies how serious a failing check is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SourceRef points at documentation or evidence backing a check.
type SourceRef struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Check is one atomic diagnostic result produced by a probe.
// Checks are append-only: once added to a report they are never mutated.
type Check struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Severity    Severity       `json:"severity"`
	Status      Status         `json:"status"`
	Description string         `json:"description,omitempty"`
	Evidence    map[string]any `json:"evidence,omitempty"`
	Hint        string         `json:"hint,omitempty"`
	Sources     []SourceRef    `json:"sources,omitempty"`
	DurationMS  int64          `json:"duration_ms,omitempty"`
}

// Summary holds per-status counts over a report's checks.
// Total always equals len(Findings.Checks).
type Summary struct {
	Total   int `json:"total"`
	Pass    int `json:"pass"`
	Fail    int `json:"fail"`
	Warn    int `json:"warn"`
	Skipped int `json:"skipped"`
}

// Metadata describes the probe that produced a report.
type Metadata struct {
	ToolName    string `json:"toolName"`
	ToolVersion string `json:"toolVersion"`
	Hostname    string `json:"hostname,omitempty"`
	Mode        string `json:"mode,omitempty"`
	BundleType  string `json:"bundleType,omitempty"`
}

// Provenance records where merged checks came from.
type Provenance struct {
	File      string `json:"file"`
	Target    string `json:"target,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	RunID     string `json:"runId,omitempty"`
}

// Findings is an ordered collection of checks plus summary counts,
// the unit of diagnostic output. Check order is execution order and
// is significant for audit trails.
type Findings struct {
	Version   string       `json:"version"`
	Target    Target       `json:"target"`
	Timestamp string       `json:"timestamp"`
	RunID     string       `json:"runId"`
	Metadata  Metadata     `json:"metadata"`
	Sources   []Provenance `json:"sources,omitempty"`
	Checks    []Check      `json:"checks"`
	Summary   Summary      `json:"summary"`
}
