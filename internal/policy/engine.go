// Package policy loads declarative rule sets and evaluates them against
// nested diagnostic data to reach a severity-ordered verdict.
package policy

import (
	"fmt"

	"github.com/arcops/diagnostics/internal/condition"
	"github.com/arcops/diagnostics/internal/log"
)

// VerdictOrder is an ordered verdict vocabulary, best first. The first
// label is the all-clear verdict; later labels are worse. The ordering is
// configuration so the same engine serves both vocabularies used around
// the system.
type VerdictOrder []string

var (
	// DefaultVerdictOrder is the bundle-policy vocabulary.
	DefaultVerdictOrder = VerdictOrder{"GREEN", "AMBER", "RED"}

	// StatusVerdictOrder is the per-check status vocabulary.
	StatusVerdictOrder = VerdictOrder{"PASS", "WARN", "FAIL"}
)

// AllClear returns the best label in the order.
func (o VerdictOrder) AllClear() string {
	if len(o) == 0 {
		return ""
	}
	return o[0]
}

// Worst returns the worst label in the order.
func (o VerdictOrder) Worst() string {
	if len(o) == 0 {
		return ""
	}
	return o[len(o)-1]
}

func (o VerdictOrder) priority(verdict string) int {
	for i, v := range o {
		if v == verdict {
			return i
		}
	}
	// Unknown labels never outrank known ones.
	return -1
}

// Engine evaluates rule sets. Construct with NewEngine; the zero value is
// not usable.
type Engine struct {
	order  VerdictOrder
	logger *log.Logger
}

// NewEngine creates an engine using the given verdict vocabulary.
func NewEngine(order VerdictOrder) *Engine {
	return &Engine{
		order:  order,
		logger: log.DefaultLogger(),
	}
}

// WithLogger replaces the engine's logger.
func (e *Engine) WithLogger(logger *log.Logger) *Engine {
	e.logger = logger
	return e
}

// Evaluate runs every rule independently against data and reduces the
// failed rules' verdicts to the single worst label. It always completes
// and returns a result: a rule whose condition the grammar cannot parse
// counts as failed, never as an error, so evaluation is safe to run on
// arbitrary or partial data mid-session.
func (e *Engine) Evaluate(rs *RuleSet, data map[string]any) *PolicyResult {
	result := &PolicyResult{
		PolicyName:    rs.Name,
		PolicyVersion: rs.Version,
		Verdict:       e.order.AllClear(),
		Results:       []RuleResult{},
		Failures:      []Failure{},
	}

	for _, rule := range rs.Rules {
		name := rule.Name
		if name == "" {
			name = "unnamed"
		}
		passVerdict := rule.Verdict
		if passVerdict == "" {
			passVerdict = e.order.AllClear()
		}
		failVerdict := rule.FailVerdict
		if failVerdict == "" {
			failVerdict = e.order.Worst()
		}
		severity := rule.Severity
		if severity == "" {
			severity = "medium"
		}

		outcome := condition.Evaluate(rule.Condition, data, rs.Settings)
		if outcome == condition.OutcomeNoMatch {
			// Malformed condition: the rule fails loudly instead of
			// silently passing.
			e.logger.Warn("rule condition matched no grammar pattern",
				"rule", name, "condition", rule.Condition)
		}
		passed := outcome == condition.OutcomeTrue

		rr := RuleResult{
			Name:     name,
			Passed:   passed,
			Severity: severity,
		}
		if passed {
			rr.Verdict = passVerdict
			rr.Reason = rule.Description
		} else {
			rr.Verdict = failVerdict
			rr.Reason = fmt.Sprintf("Failed: %s", rule.Description)
		}
		result.Results = append(result.Results, rr)

		if passed {
			result.RulesPassed++
			continue
		}

		result.RulesFailed++
		reason := rule.Description
		if reason == "" {
			reason = fmt.Sprintf("Condition not met: %s", rule.Condition)
		}
		result.Failures = append(result.Failures, Failure{
			Rule:     name,
			Reason:   reason,
			Severity: severity,
		})

		if e.order.priority(failVerdict) > e.order.priority(result.Verdict) {
			result.Verdict = failVerdict
		}
	}

	result.RulesEvaluated = len(rs.Rules)
	return result
}
