package policy

// Rule is one policy statement: a named condition plus the verdict labels
// emitted on pass and on fail.
type Rule struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Condition   string `yaml:"condition" json:"condition"`
	Severity    string `yaml:"severity,omitempty" json:"severity,omitempty"`
	Verdict     string `yaml:"verdict,omitempty" json:"verdict,omitempty"`
	FailVerdict string `yaml:"failVerdict,omitempty" json:"failVerdict,omitempty"`
}

// RuleSet is a declarative rule list plus the named settings lists the
// `in` operator references.
type RuleSet struct {
	Name     string           `yaml:"name" json:"name"`
	Version  string           `yaml:"version" json:"version"`
	Settings map[string][]any `yaml:"settings,omitempty" json:"settings,omitempty"`
	Rules    []Rule           `yaml:"rules" json:"rules"`
}

// RuleResult is the outcome of evaluating a single rule.
type RuleResult struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Verdict  string `json:"verdict"`
	Reason   string `json:"reason"`
	Severity string `json:"severity"`
}

// Failure is the reporting view of a failed rule.
type Failure struct {
	Rule     string `json:"rule"`
	Reason   string `json:"reason"`
	Severity string `json:"severity"`
}

// PolicyResult is the outcome of evaluating a whole rule set against one
// data tree. Verdict is the single worst label among failed rules.
type PolicyResult struct {
	PolicyName     string       `json:"policyName"`
	PolicyVersion  string       `json:"policyVersion"`
	RulesEvaluated int          `json:"rulesEvaluated"`
	RulesPassed    int          `json:"rulesPassed"`
	RulesFailed    int          `json:"rulesFailed"`
	Verdict        string       `json:"verdict"`
	Results        []RuleResult `json:"results"`
	Failures       []Failure    `json:"failures"`
}
