package bundle

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

// writeTestKey generates an ed25519 SSH private key on disk.
func writeTestKey(t *testing.T, dir string) string {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	block, err := ssh.MarshalPrivateKey(priv, "")
	require.NoError(t, err)

	path := filepath.Join(dir, "id_ed25519")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0o600))
	return path
}

func buildSigned(t *testing.T, keyPath string) *Result {
	t.Helper()

	inputDir := t.TempDir()
	writeFindingsFile(t, inputDir, "probe-a.json", "run-a", 2)

	return build(t, Options{
		InputPaths: []string{inputDir},
		OutputDir:  t.TempDir(),
		Sign:       true,
		KeyPath:    keyPath,
		SignerID:   "ci-pipeline",
	})
}

func TestStubSignatureWithoutKey(t *testing.T) {
	result := buildSigned(t, "")

	assert.False(t, result.Signed)
	require.NotEmpty(t, result.SignaturePath)

	sig, err := LoadSignature(result.SignaturePath)
	require.NoError(t, err)

	assert.False(t, sig.Signed)
	assert.Equal(t, "none", sig.Algorithm)
	assert.Contains(t, sig.Warning, "unsigned stub")
	assert.Equal(t, ArchiveFileName, sig.Bundle)
	assert.Contains(t, sig.Digest, "sha256:")

	// A stub never verifies, by definition.
	assert.False(t, VerifySignature(sig, result.BundlePath))
}

func TestSSHSignatureRoundTrip(t *testing.T) {
	keyPath := writeTestKey(t, t.TempDir())
	result := buildSigned(t, keyPath)

	assert.True(t, result.Signed)

	sig, err := LoadSignature(result.SignaturePath)
	require.NoError(t, err)

	assert.True(t, sig.Signed)
	assert.Equal(t, "ci-pipeline", sig.SignedBy)
	assert.NotEmpty(t, sig.Signature)
	assert.NotEmpty(t, sig.PublicKey)
	assert.NotEmpty(t, sig.PublicKeyFingerprint)
	assert.Empty(t, sig.Warning)

	assert.True(t, VerifySignature(sig, result.BundlePath))
}

func TestSSHSignatureDetectsTampering(t *testing.T) {
	keyPath := writeTestKey(t, t.TempDir())
	result := buildSigned(t, keyPath)

	sig, err := LoadSignature(result.SignaturePath)
	require.NoError(t, err)
	require.True(t, VerifySignature(sig, result.BundlePath))

	// Append a byte to the archive: digest no longer matches.
	f, err := os.OpenFile(result.BundlePath, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte{0x0})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.False(t, VerifySignature(sig, result.BundlePath))
}

func TestSSHSignatureDetectsMetadataTampering(t *testing.T) {
	keyPath := writeTestKey(t, t.TempDir())
	result := buildSigned(t, keyPath)

	sig, err := LoadSignature(result.SignaturePath)
	require.NoError(t, err)

	// Reassigning the signature to another signer breaks the signed message.
	sig.SignedBy = "somebody-else"
	assert.False(t, VerifySignature(sig, result.BundlePath))
}

func TestSigningWithBadKeyFails(t *testing.T) {
	badKey := filepath.Join(t.TempDir(), "not-a-key")
	require.NoError(t, os.WriteFile(badKey, []byte("garbage"), 0o600))

	inputDir := t.TempDir()
	writeFindingsFile(t, inputDir, "probe-a.json", "run-a", 1)

	builder, err := NewBuilder(Options{
		InputPaths: []string{inputDir},
		OutputDir:  t.TempDir(),
		Sign:       true,
		KeyPath:    badKey,
	})
	require.NoError(t, err)

	_, err = builder.Build()
	assert.Error(t, err)
}

func TestVerifySignatureNilAndMalformed(t *testing.T) {
	assert.False(t, VerifySignature(nil, "whatever"))

	sig := &Signature{Signed: true, Digest: "sha256:0000", PublicKey: "junk", Signature: "!!!"}
	assert.False(t, VerifySignature(sig, filepath.Join(t.TempDir(), "missing.zip")))
}
