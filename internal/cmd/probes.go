package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcops/diagnostics/internal/findings"
	"github.com/arcops/diagnostics/internal/probe"
)

var probesCmd = &cobra.Command{
	Use:   "probes",
	Short: "List available diagnostic probes",
}

var probesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered probes",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := builtinProbes()
		for _, name := range registry.List() {
			p, err := registry.Get(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-32s %s\n", name, p.Describe())
		}
		return nil
	},
}

// builtinProbes constructs the registry of probes this binary ships with.
// Real probes wrap external tooling and register here; the smoke probe
// exists so the pipeline can be exercised end to end without any.
func builtinProbes() *probe.Registry {
	registry := probe.NewRegistry()

	_ = registry.Register(&probe.StaticProbe{
		ProbeName:   "arcops.selftest.smoke",
		Description: "Emits one passing check to exercise the pipeline",
		Target:      findings.TargetHost,
		Checks: []findings.Check{
			{
				ID:       "arcops.selftest.smoke.ok",
				Title:    "Self-test probe executed",
				Severity: findings.SeverityLow,
				Status:   findings.StatusPass,
			},
		},
	})

	return registry
}

func init() {
	probesCmd.AddCommand(probesListCmd)
	rootCmd.AddCommand(probesCmd)
}
