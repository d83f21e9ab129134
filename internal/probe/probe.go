// Package probe defines the interface diagnostic probes implement and an
// explicit registry for them. The registry is constructed once at process
// start and passed by handle to whatever needs to run probes; there is no
// hidden package-level registry.
package probe

import (
	"context"

	"github.com/arcops/diagnostics/internal/findings"
)

// Probe produces one findings report per run. Implementations wrap
// external command-line tools or vendor modules; the core only consumes
// their output through the findings shape.
type Probe interface {
	// Name is the probe's stable dotted identifier, e.g. "aks.arc.connectivity".
	Name() string

	// Describe is a one-line human summary of what the probe checks.
	Describe() string

	// Run executes the probe. Callers impose timeouts through ctx.
	Run(ctx context.Context) (*findings.Findings, error)
}

// StaticProbe returns a fixed set of checks. It exists for tests and for
// exercising the pipeline without external tooling.
type StaticProbe struct {
	ProbeName   string
	Description string
	Target      findings.Target
	Checks      []findings.Check
}

// Name implements Probe.
func (p *StaticProbe) Name() string { return p.ProbeName }

// Describe implements Probe.
func (p *StaticProbe) Describe() string { return p.Description }

// Run implements Probe.
func (p *StaticProbe) Run(_ context.Context) (*findings.Findings, error) {
	f := findings.New(p.Target, findings.WithTool(p.ProbeName, ""))
	for _, check := range p.Checks {
		if err := f.AddCheck(check); err != nil {
			return nil, err
		}
	}
	return f, nil
}
