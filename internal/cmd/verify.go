package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcops/diagnostics/internal/bundle"
	"github.com/arcops/diagnostics/internal/errors"
	"github.com/arcops/diagnostics/internal/signer"
)

var verifyAlgo string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify artifact hashes and bundle signatures",
	Long: `Verify a signed artifact or a detached bundle signature.

With --in, the artifact's canonical hash is recomputed and compared with
its artifactHash field. With --sig and --bundle, the detached SSH
signature is checked against the archive. Either way a mismatch exits
with code 4.

Examples:
  arcops verify --in findings.signed.json
  arcops verify --sig bundle.sig.json --bundle bundle.zip`,
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	if verifySig != "" {
		return verifyBundleSignature(cmd)
	}
	if verifyIn == "" {
		return fmt.Errorf("either --in or --sig/--bundle is required")
	}

	artifact, err := readArtifact(verifyIn)
	if err != nil {
		return err
	}

	algo, err := signer.ParseAlgorithm(verifyAlgo)
	if err != nil {
		return err
	}

	if !signer.New("", signer.WithAlgorithm(algo)).Verify(artifact) {
		if _, ok := artifact[signer.FieldHash]; !ok {
			return errors.New(errors.ErrCodeHashMissing,
				fmt.Sprintf("artifact %s carries no %s field", verifyIn, signer.FieldHash))
		}
		return errors.New(errors.ErrCodeHashMismatch,
			fmt.Sprintf("artifact %s failed hash verification", verifyIn)).
			WithSuggestion("The artifact was modified after signing")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "OK: %s verified\n", verifyIn)
	return nil
}

func verifyBundleSignature(cmd *cobra.Command) error {
	if verifyZip == "" {
		return fmt.Errorf("--bundle is required with --sig")
	}

	sig, err := bundle.LoadSignature(verifySig)
	if err != nil {
		return err
	}

	if !sig.Signed {
		return errors.New(errors.ErrCodeHashMissing,
			fmt.Sprintf("%s is an unsigned stub, nothing to verify", verifySig))
	}

	if !bundle.VerifySignature(sig, verifyZip) {
		return errors.New(errors.ErrCodeHashMismatch,
			fmt.Sprintf("bundle %s failed signature verification", verifyZip))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "OK: %s verified against %s (key %s)\n",
		verifyZip, verifySig, sig.PublicKeyFingerprint)
	return nil
}

func init() {
	verifyCmd.Flags().StringVar(&verifyIn, "in", "", "signed artifact JSON file")
	verifyCmd.Flags().StringVar(&verifyAlgo, "algo", "sha256", "digest algorithm used at signing time")
	verifyCmd.Flags().StringVar(&verifySig, "sig", "", "detached bundle signature file")
	verifyCmd.Flags().StringVar(&verifyZip, "bundle", "", "bundle archive the signature covers")

	rootCmd.AddCommand(verifyCmd)
}
