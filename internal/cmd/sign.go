package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/arcops/diagnostics/internal/errors"
	"github.com/arcops/diagnostics/internal/signer"
)

var (
	signIn    string
	signOut   string
	signIdent string
	signAlgo  string
	verifyIn  string
	verifySig string
	verifyZip string
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Stamp an artifact with a canonical content hash",
	Long: `Add signedBy, signedAt and artifactHash fields to a JSON artifact.

The hash is a canonical content digest: object keys are sorted
recursively and serialization is deterministic, so two structurally
identical artifacts hash identically regardless of key order.

Examples:
  arcops sign --in findings.json --out findings.signed.json
  arcops sign --in result.json --signer ci-pipeline --algo blake3`,
	RunE: runSign,
}

func runSign(cmd *cobra.Command, args []string) error {
	artifact, err := readArtifact(signIn)
	if err != nil {
		return err
	}

	algo, err := signer.ParseAlgorithm(signAlgo)
	if err != nil {
		return err
	}

	signed, err := signer.New(signIdent, signer.WithAlgorithm(algo)).Sign(artifact)
	if err != nil {
		return err
	}

	if signOut == "" {
		return writeOutput(cmd.OutOrStdout(), "json", signed)
	}

	data, err := json.MarshalIndent(signed, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileMarshal, "marshal signed artifact", err)
	}
	if err := os.WriteFile(signOut, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "write signed artifact", err)
	}

	return nil
}

func readArtifact(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, "read artifact", err)
	}

	var artifact map[string]any
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, errors.NewFileUnmarshalError(path, "JSON", err)
	}

	return artifact, nil
}

func init() {
	signCmd.Flags().StringVar(&signIn, "in", "", "artifact JSON file to sign")
	signCmd.Flags().StringVar(&signOut, "out", "", "output file (stdout when omitted)")
	signCmd.Flags().StringVar(&signIdent, "signer", "arcops", "signer identity")
	signCmd.Flags().StringVar(&signAlgo, "algo", "sha256", "digest algorithm (sha256, blake3)")
	_ = signCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(signCmd)
}
