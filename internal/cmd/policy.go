package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arcops/diagnostics/internal/errors"
	"github.com/arcops/diagnostics/internal/policy"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Policy rule evaluation",
}

var (
	evalRulesPath string
	evalDataPath  string
	evalVerdicts  string
	evalOutputFmt string
)

var policyEvalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate a rule set against diagnostic data",
	Long: `Evaluate every rule in a rule-set document against a JSON data tree.

Each rule is evaluated independently; the final verdict is the single
worst label among failed rules, or the vocabulary's all-clear label when
nothing fails. The command exits with code 3 when the final verdict is
the worst label in the vocabulary.

Examples:
  # Evaluate supply-chain gate rules against scan output
  arcops policy eval --rules gate.yaml --data scan.json

  # Use the PASS/WARN/FAIL vocabulary
  arcops policy eval --rules checks.yaml --data data.json --verdicts pass-warn-fail`,
	RunE: runPolicyEval,
}

func runPolicyEval(cmd *cobra.Command, args []string) error {
	ruleSet, err := policy.Load(evalRulesPath)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(evalDataPath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileReadFailed, "read data file", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return errors.NewFileUnmarshalError(evalDataPath, "JSON", err)
	}

	order, err := verdictOrder(evalVerdicts)
	if err != nil {
		return err
	}

	result := policy.NewEngine(order).Evaluate(ruleSet, data)

	if err := writeOutput(cmd.OutOrStdout(), evalOutputFmt, result); err != nil {
		return err
	}

	if result.Verdict == order.Worst() && result.RulesFailed > 0 {
		return errors.New(errors.ErrCodeVerdictWorst,
			fmt.Sprintf("policy %s verdict is %s (%d rules failed)",
				result.PolicyName, result.Verdict, result.RulesFailed))
	}

	return nil
}

func verdictOrder(name string) (policy.VerdictOrder, error) {
	switch name {
	case "", "green-amber-red":
		return policy.DefaultVerdictOrder, nil
	case "pass-warn-fail":
		return policy.StatusVerdictOrder, nil
	default:
		return nil, fmt.Errorf("unknown verdict vocabulary: %q", name)
	}
}

func init() {
	policyEvalCmd.Flags().StringVar(&evalRulesPath, "rules", "", "rule-set YAML file")
	policyEvalCmd.Flags().StringVar(&evalDataPath, "data", "", "JSON data tree to evaluate")
	policyEvalCmd.Flags().StringVar(&evalVerdicts, "verdicts", "green-amber-red", "verdict vocabulary (green-amber-red, pass-warn-fail)")
	policyEvalCmd.Flags().StringVar(&evalOutputFmt, "output", "json", "result output format (json, yaml)")
	_ = policyEvalCmd.MarkFlagRequired("rules")
	_ = policyEvalCmd.MarkFlagRequired("data")

	policyCmd.AddCommand(policyEvalCmd)
	rootCmd.AddCommand(policyCmd)
}
