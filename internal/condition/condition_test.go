package condition

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData(t *testing.T) map[string]any {
	t.Helper()

	// Decode from JSON so value types match what real evaluations see.
	raw := `{
		"signature": {"validated": true, "revoked": false},
		"sbom": {"vulnerabilities": {"critical": 0, "high": 3}},
		"cluster": {"region": "eastus", "nodes": 5},
		"gpu": {"driver": "535.104"}
	}`

	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	return data
}

func TestEval(t *testing.T) {
	settings := map[string][]any{
		"allowedRegions": {"eastus", "westeurope"},
		"allowedCounts":  {3, 5},
	}

	tests := []struct {
		name string
		cond string
		want bool
	}{
		{"bool true match", "signature.validated == true", true},
		{"bool true mismatch", "signature.revoked == true", false},
		{"bool false match", "signature.revoked == false", true},
		{"bool false on absent path", "signature.missing == false", false},
		{"int equality", "sbom.vulnerabilities.high == 3", true},
		{"int equality mismatch", "sbom.vulnerabilities.high == 4", false},
		{"int equality absent path", "sbom.vulnerabilities.unknown == 0", false},
		{"int inequality", "sbom.vulnerabilities.high != 4", true},
		{"int inequality absent is never equal", "sbom.vulnerabilities.unknown != 0", true},
		{"greater or equal", "cluster.nodes >= 5", true},
		{"less or equal", "sbom.vulnerabilities.critical <= 0", true},
		{"strictly greater", "cluster.nodes > 4", true},
		{"strictly less", "cluster.nodes < 5", false},
		{"comparison on non-numeric is false", "gpu.driver >= 500", false},
		{"comparison on absent path is false", "gpu.memory >= 1", false},
		{"membership", "cluster.region in allowedRegions", true},
		{"membership miss", "gpu.driver in allowedRegions", false},
		{"membership numeric", "cluster.nodes in allowedCounts", true},
		{"membership absent setting", "cluster.region in noSuchSetting", false},
		{"membership absent path", "cluster.zone in allowedRegions", false},
		{"path through non-map short-circuits", "cluster.nodes.count == 5", false},
		{"unrecognized operator", "foo ~= bar", false},
		{"free text", "always allow everything", false},
		{"empty condition", "", false},
		{"trailing garbage breaks the match", "signature.validated == trueish", false},
		{"whitespace is trimmed", "  signature.validated == true  ", true},
	}

	data := testData(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Eval(tt.cond, data, settings))
		})
	}
}

func TestEvaluateTagsOutcomes(t *testing.T) {
	data := testData(t)

	tests := []struct {
		name string
		cond string
		want Outcome
	}{
		{"parsed and true", "signature.validated == true", OutcomeTrue},
		{"parsed and false", "signature.revoked == true", OutcomeFalse},
		{"no grammar match", "foo ~= bar", OutcomeNoMatch},
		{"empty string", "", OutcomeNoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.cond, data, nil))
		})
	}
}

func TestFirstPatternWins(t *testing.T) {
	// "== true" must be tried before "== <integer>": a data value of
	// boolean true is not the integer 1.
	data := map[string]any{"flag": true}
	assert.True(t, Eval("flag == true", data, nil))
	assert.False(t, Eval("flag == 1", data, nil))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "true", OutcomeTrue.String())
	assert.Equal(t, "false", OutcomeFalse.String())
	assert.Equal(t, "no-match", OutcomeNoMatch.String())
}
