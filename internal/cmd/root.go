package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/arcops/diagnostics/internal/errors"
	"github.com/arcops/diagnostics/internal/log"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "arcops",
	Short: "Diagnostics aggregation, policy evaluation and bundle packaging",
	Long: `arcops merges structured diagnostic results from independent probes,
evaluates organizational policy rules against them, and packages the
outcome into a tamper-evident bundle suitable for audit or support
hand-off.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := log.DefaultConfig()
		cfg.Level = log.ParseLevel(logLevel)
		cfg.Format = log.ParseFormat(logFormat)
		log.SetDefaultLogger(log.New(cfg))
	},
}

// ExecuteContext runs the root command with the given context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	// Flag parse failures must exit with the usage code, not the
	// general one.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.Wrap(errors.ErrCodeUsage, "invalid command usage", err)
	})
}
