// Package condition evaluates the fixed mini-grammar used in policy rule
// conditions against a nested data tree.
//
// The grammar is deliberately small: boolean identity, integer
// equality/inequality, integer comparison, and membership in a named
// settings list. A condition matching none of the patterns never passes.
package condition

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Outcome distinguishes a condition that evaluated to false from one the
// grammar could not parse at all. Both fail the rule, but callers may want
// to warn loudly about the latter: it usually means a policy authoring bug.
type Outcome int

const (
	// OutcomeNoMatch means the condition matched no grammar pattern.
	OutcomeNoMatch Outcome = iota
	// OutcomeFalse means the condition parsed and evaluated to false.
	OutcomeFalse
	// OutcomeTrue means the condition parsed and evaluated to true.
	OutcomeTrue
)

// String returns the outcome name for logging.
func (o Outcome) String() string {
	switch o {
	case OutcomeTrue:
		return "true"
	case OutcomeFalse:
		return "false"
	default:
		return "no-match"
	}
}

// Pattern order matters: the first pattern matching the trimmed condition
// wins. `==` against true/false must precede `==` against integers.
var patterns = []struct {
	re   *regexp.Regexp
	eval func(m []string, data map[string]any, settings map[string][]any) bool
}{
	{
		regexp.MustCompile(`^(\S+)\s*==\s*true$`),
		func(m []string, data map[string]any, _ map[string][]any) bool {
			v, ok := lookup(data, m[1])
			return ok && v == true
		},
	},
	{
		regexp.MustCompile(`^(\S+)\s*==\s*false$`),
		func(m []string, data map[string]any, _ map[string][]any) bool {
			v, ok := lookup(data, m[1])
			return ok && v == false
		},
	},
	{
		regexp.MustCompile(`^(\S+)\s*==\s*(\d+)$`),
		func(m []string, data map[string]any, _ map[string][]any) bool {
			v, ok := lookup(data, m[1])
			if !ok {
				return false
			}
			n, numeric := toFloat(v)
			want, _ := strconv.Atoi(m[2])
			return numeric && n == float64(want)
		},
	},
	{
		regexp.MustCompile(`^(\S+)\s*!=\s*(\d+)$`),
		func(m []string, data map[string]any, _ map[string][]any) bool {
			v, ok := lookup(data, m[1])
			if !ok {
				// An absent value is never equal, so != holds.
				return true
			}
			n, numeric := toFloat(v)
			want, _ := strconv.Atoi(m[2])
			return !numeric || n != float64(want)
		},
	},
	{
		regexp.MustCompile(`^(\S+)\s*>=\s*(\d+)$`),
		compareNumeric(func(a, b float64) bool { return a >= b }),
	},
	{
		regexp.MustCompile(`^(\S+)\s*<=\s*(\d+)$`),
		compareNumeric(func(a, b float64) bool { return a <= b }),
	},
	{
		regexp.MustCompile(`^(\S+)\s*>\s*(\d+)$`),
		compareNumeric(func(a, b float64) bool { return a > b }),
	},
	{
		regexp.MustCompile(`^(\S+)\s*<\s*(\d+)$`),
		compareNumeric(func(a, b float64) bool { return a < b }),
	},
	{
		regexp.MustCompile(`^(\S+)\s+in\s+(\w+)$`),
		func(m []string, data map[string]any, settings map[string][]any) bool {
			v, ok := lookup(data, m[1])
			if !ok {
				return false
			}
			for _, allowed := range settings[m[2]] {
				if valueEquals(v, allowed) {
					return true
				}
			}
			return false
		},
	},
}

// compareNumeric builds an evaluator for the ordering operators. Absent or
// non-numeric values compare false (fail-safe).
func compareNumeric(cmp func(a, b float64) bool) func([]string, map[string]any, map[string][]any) bool {
	return func(m []string, data map[string]any, _ map[string][]any) bool {
		v, ok := lookup(data, m[1])
		if !ok {
			return false
		}
		n, numeric := toFloat(v)
		if !numeric {
			return false
		}
		want, _ := strconv.Atoi(m[2])
		return cmp(n, float64(want))
	}
}

// Evaluate runs cond against data and settings, reporting the tagged outcome.
func Evaluate(cond string, data map[string]any, settings map[string][]any) Outcome {
	trimmed := strings.TrimSpace(cond)

	for _, p := range patterns {
		if m := p.re.FindStringSubmatch(trimmed); m != nil {
			if p.eval(m, data, settings) {
				return OutcomeTrue
			}
			return OutcomeFalse
		}
	}

	return OutcomeNoMatch
}

// Eval is the strict boolean form of Evaluate. An unparseable condition is
// false, so an unrecognized rule can never silently pass.
func Eval(cond string, data map[string]any, settings map[string][]any) bool {
	return Evaluate(cond, data, settings) == OutcomeTrue
}

// lookup resolves a dot-separated path through nested maps, short-circuiting
// to absent if any segment is missing or not a map.
func lookup(data map[string]any, path string) (any, bool) {
	var current any = data

	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// toFloat normalizes the numeric types JSON and YAML decoders produce.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// valueEquals compares a resolved data value against a settings literal,
// coercing across the numeric types the two decoders produce.
func valueEquals(a, b any) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
		return false
	}
	return a == b
}
