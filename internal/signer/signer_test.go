package signer

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeIgnoresKeyInsertionOrder(t *testing.T) {
	// Decode the same object from differently-ordered JSON documents.
	docA := `{"b": {"y": 2, "x": 1}, "a": [3, 2, 1], "c": "v"}`
	docB := `{"c": "v", "a": [3, 2, 1], "b": {"x": 1, "y": 2}}`

	var a, b map[string]any
	require.NoError(t, json.Unmarshal([]byte(docA), &a))
	require.NoError(t, json.Unmarshal([]byte(docB), &b))

	canonA, err := Canonicalize(a)
	require.NoError(t, err)
	canonB, err := Canonicalize(b)
	require.NoError(t, err)

	assert.Equal(t, string(canonA), string(canonB))
}

func TestCanonicalizePreservesArrayOrder(t *testing.T) {
	canonA, err := Canonicalize(map[string]any{"checks": []any{"first", "second"}})
	require.NoError(t, err)
	canonB, err := Canonicalize(map[string]any{"checks": []any{"second", "first"}})
	require.NoError(t, err)

	assert.NotEqual(t, string(canonA), string(canonB))
}

func TestCanonicalizeCompactSeparators(t *testing.T) {
	canonical, err := Canonicalize(map[string]any{"a": 1, "b": "two"})
	require.NoError(t, err)

	assert.Equal(t, `{"a":1,"b":"two"}`, string(canonical))
}

func TestComputeHashExcludesHashField(t *testing.T) {
	s := New("test-signer")

	artifact := map[string]any{"verdict": "GREEN", "rulesFailed": 0}
	hashBefore, err := s.ComputeHash(artifact)
	require.NoError(t, err)

	artifact[FieldHash] = "sha256:bogus"
	hashAfter, err := s.ComputeHash(artifact)
	require.NoError(t, err)

	assert.Equal(t, hashBefore, hashAfter)
}

func TestComputeHashAlgorithmTags(t *testing.T) {
	artifact := map[string]any{"k": "v"}

	sha, err := New("s").ComputeHash(artifact)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sha, "sha256:"))
	assert.Len(t, strings.TrimPrefix(sha, "sha256:"), 64)

	b3, err := New("s", WithAlgorithm(AlgorithmBLAKE3)).ComputeHash(artifact)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(b3, "blake3:"))
	assert.Len(t, strings.TrimPrefix(b3, "blake3:"), 64)

	assert.NotEqual(t, strings.TrimPrefix(sha, "sha256:"), strings.TrimPrefix(b3, "blake3:"))
}

func TestSignThenVerify(t *testing.T) {
	s := New("arcops-test")

	artifact := map[string]any{
		"policyName": "supply-chain-gate",
		"verdict":    "GREEN",
		"results":    []any{map[string]any{"name": "r1", "passed": true}},
	}

	signed, err := s.Sign(artifact)
	require.NoError(t, err)

	assert.Equal(t, "arcops-test", signed[FieldSignedBy])
	assert.NotEmpty(t, signed[FieldSignedAt])
	assert.NotEmpty(t, signed[FieldHash])
	assert.True(t, s.Verify(signed))

	// Signing must not mutate the input.
	_, hasHash := artifact[FieldHash]
	assert.False(t, hasHash)
}

func TestVerifyDetectsTampering(t *testing.T) {
	s := New("arcops-test")

	signed, err := s.Sign(map[string]any{
		"verdict":     "GREEN",
		"rulesFailed": 0,
		"nested":      map[string]any{"flag": true},
	})
	require.NoError(t, err)
	require.True(t, s.Verify(signed))

	tests := []struct {
		name   string
		tamper func(m map[string]any)
	}{
		{"flip scalar", func(m map[string]any) { m["verdict"] = "RED" }},
		{"flip number", func(m map[string]any) { m["rulesFailed"] = 1 }},
		{"flip nested bool", func(m map[string]any) {
			m["nested"].(map[string]any)["flag"] = false
		}},
		{"add field", func(m map[string]any) { m["extra"] = "x" }},
		{"remove field", func(m map[string]any) { delete(m, "rulesFailed") }},
		{"corrupt hash", func(m map[string]any) { m[FieldHash] = "sha256:ffff" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			copied := map[string]any{}
			data, _ := json.Marshal(signed)
			require.NoError(t, json.Unmarshal(data, &copied))

			tt.tamper(copied)
			assert.False(t, s.Verify(copied))
		})
	}
}

func TestVerifyMissingHashIsFalse(t *testing.T) {
	s := New("arcops-test")
	assert.False(t, s.Verify(map[string]any{"verdict": "GREEN"}))
	assert.False(t, s.Verify(map[string]any{FieldHash: 42}))
	assert.False(t, s.Verify(map[string]any{}))
}

func TestVerifyAcrossSignerIdentities(t *testing.T) {
	// Verification depends only on content, not on who verifies.
	signed, err := New("signer-a").Sign(map[string]any{"k": "v"})
	require.NoError(t, err)

	assert.True(t, New("signer-b").Verify(signed))
}

func TestParseAlgorithm(t *testing.T) {
	alg, err := ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, AlgorithmSHA256, alg)

	alg, err = ParseAlgorithm("blake3")
	require.NoError(t, err)
	assert.Equal(t, AlgorithmBLAKE3, alg)

	_, err = ParseAlgorithm("md5")
	assert.Error(t, err)
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.bin")
	content := []byte("diagnostic log line\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	got, err := HashFile(path)
	require.NoError(t, err)

	want := sha256.Sum256(content)
	assert.Equal(t, hex.EncodeToString(want[:]), got)
}

func TestHashFileMissing(t *testing.T) {
	_, err := HashFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
