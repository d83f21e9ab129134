package probe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcops/diagnostics/internal/findings"
)

func smokeProbe(name string) *StaticProbe {
	return &StaticProbe{
		ProbeName:   name,
		Description: "test probe",
		Target:      findings.TargetHost,
		Checks: []findings.Check{
			{ID: name + ".ok", Status: findings.StatusPass},
			{ID: name + ".degraded", Status: findings.StatusWarn},
		},
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(smokeProbe("net.egress")))

	p, err := registry.Get("net.egress")
	require.NoError(t, err)
	assert.Equal(t, "net.egress", p.Name())

	_, err = registry.Get("net.ingress")
	assert.Error(t, err)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(smokeProbe("gpu.health")))
	assert.Error(t, registry.Register(smokeProbe("gpu.health")))
}

func TestRegistryListSorted(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"zeta.check", "alpha.check", "mid.check"} {
		require.NoError(t, registry.Register(smokeProbe(name)))
	}

	assert.Equal(t, []string{"alpha.check", "mid.check", "zeta.check"}, registry.List())
}

func TestStaticProbeRun(t *testing.T) {
	p := smokeProbe("host.smoke")

	f, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, findings.TargetHost, f.Target)
	assert.Equal(t, "host.smoke", f.Metadata.ToolName)
	assert.Equal(t, 2, f.Summary.Total)
	assert.Equal(t, 1, f.Summary.Pass)
	assert.Equal(t, 1, f.Summary.Warn)
}

func TestStaticProbeRejectsBadChecks(t *testing.T) {
	p := &StaticProbe{
		ProbeName: "bad.probe",
		Target:    findings.TargetHost,
		Checks:    []findings.Check{{ID: "x", Status: findings.Status("nope")}},
	}

	_, err := p.Run(context.Background())
	assert.Error(t, err)
}
