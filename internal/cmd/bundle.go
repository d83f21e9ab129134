package cmd

import (
	"github.com/spf13/cobra"

	"github.com/arcops/diagnostics/internal/bundle"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Diagnostics bundle management",
	Long: `Create diagnostics bundles.

A bundle merges findings files from multiple probes into one combined
report, manifests every packaged file with its SHA-256 digest, and
archives everything into a portable zip.`,
}

var (
	buildInputs      []string
	buildOut         string
	buildRunID       string
	buildIncludeLogs bool
	buildSign        bool
	buildKeyPath     string
	buildSignerID    string
	buildOutputFmt   string
)

var bundleBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a diagnostics bundle",
	Long: `Merge findings files into a combined report and package a bundle.

For every input path, findings-shaped JSON files contribute their checks
to the combined report; directories are scanned one level deep; other
files are attached as logs when --include-logs is set.

The output directory receives findings.json (combined), sha256sum.txt
(manifest, sorted by archive path), bundle.zip, and optionally a detached
signature file.

Examples:
  # Bundle two findings files
  arcops bundle build --input probe-a.json --input probe-b.json --out ./artifacts

  # Bundle a directory of probe output including raw logs
  arcops bundle build --input ./runs/latest --include-logs --out ./artifacts

  # Sign the bundle with an SSH key
  arcops bundle build --input ./runs/latest --out ./artifacts --sign --key ~/.ssh/id_ed25519`,
	RunE: runBundleBuild,
}

func runBundleBuild(cmd *cobra.Command, args []string) error {
	builder, err := bundle.NewBuilder(bundle.Options{
		InputPaths:  buildInputs,
		OutputDir:   buildOut,
		RunID:       buildRunID,
		IncludeLogs: buildIncludeLogs,
		Sign:        buildSign,
		KeyPath:     buildKeyPath,
		SignerID:    buildSignerID,
	})
	if err != nil {
		return err
	}

	result, err := builder.Build()
	if err != nil {
		return err
	}

	return writeOutput(cmd.OutOrStdout(), buildOutputFmt, result)
}

func init() {
	bundleBuildCmd.Flags().StringArrayVar(&buildInputs, "input", nil, "input file or directory (repeatable)")
	bundleBuildCmd.Flags().StringVar(&buildOut, "out", "./artifacts", "output directory")
	bundleBuildCmd.Flags().StringVar(&buildRunID, "run-id", "", "override the generated run id")
	bundleBuildCmd.Flags().BoolVar(&buildIncludeLogs, "include-logs", true, "attach non-JSON input files as logs")
	bundleBuildCmd.Flags().BoolVar(&buildSign, "sign", false, "write a detached signature file")
	bundleBuildCmd.Flags().StringVar(&buildKeyPath, "key", "", "SSH private key for signing (stub signature without it)")
	bundleBuildCmd.Flags().StringVar(&buildSignerID, "signer", "arcops", "signer identity recorded in the signature")
	bundleBuildCmd.Flags().StringVar(&buildOutputFmt, "output", "json", "result output format (json, yaml)")

	bundleCmd.AddCommand(bundleBuildCmd)
	rootCmd.AddCommand(bundleCmd)
}
