package bundle

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/arcops/diagnostics/internal/signer"
)

// Signature is the detached signature-metadata file written next to the
// archive. When no signing key is configured the file is an explicitly
// labeled unsigned stub: the digest still provides tamper evidence, the
// Signed flag tells consumers not to treat it as a signature.
type Signature struct {
	Bundle    string `json:"bundle"`
	Digest    string `json:"digest"`
	SignedBy  string `json:"signedBy,omitempty"`
	SignedAt  string `json:"signedAt"`
	Signed    bool   `json:"signed"`
	Algorithm string `json:"algorithm"`

	// SSH signature fields, present only when Signed is true.
	Signature            string `json:"signature,omitempty"`
	PublicKey            string `json:"publicKey,omitempty"`
	PublicKeyFingerprint string `json:"publicKeyFingerprint,omitempty"`

	Warning string `json:"warning,omitempty"`
}

// writeSignature produces the detached signature file for the archive at
// bundlePath. With a key it carries a real SSH signature over the bundle
// digest; without one it is a stub.
func writeSignature(bundlePath, signerID, keyPath string) (string, bool, error) {
	digest, err := signer.HashFile(bundlePath)
	if err != nil {
		return "", false, fmt.Errorf("hash bundle: %w", err)
	}

	sig := Signature{
		Bundle:   filepath.Base(bundlePath),
		Digest:   fmt.Sprintf("sha256:%s", digest),
		SignedBy: signerID,
		SignedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if keyPath != "" {
		if err := signWithSSH(&sig, keyPath); err != nil {
			return "", false, err
		}
	} else {
		sig.Algorithm = "none"
		sig.Warning = "unsigned stub: no signing key configured"
	}

	sigPath := strings.TrimSuffix(bundlePath, filepath.Ext(bundlePath)) + ".sig.json"
	data, err := json.MarshalIndent(sig, "", "  ")
	if err != nil {
		return "", false, fmt.Errorf("marshal signature: %w", err)
	}
	if err := os.WriteFile(sigPath, data, 0o644); err != nil {
		return "", false, fmt.Errorf("write signature file: %w", err)
	}

	return sigPath, sig.Signed, nil
}

// signWithSSH signs the bundle digest with an SSH private key and embeds
// the signature, public key and fingerprint into sig.
func signWithSSH(sig *Signature, keyPath string) error {
	privateKeyBytes, err := os.ReadFile(keyPath)
	if err != nil {
		return fmt.Errorf("read private key: %w", err)
	}

	sshSigner, err := ssh.ParsePrivateKey(privateKeyBytes)
	if err != nil {
		return fmt.Errorf("parse private key: %w", err)
	}

	publicKey := sshSigner.PublicKey()
	sig.PublicKey = strings.TrimSpace(string(ssh.MarshalAuthorizedKey(publicKey)))
	sig.PublicKeyFingerprint = ssh.FingerprintSHA256(publicKey)

	message := formatSignMessage(sig)
	sshSig, err := sshSigner.Sign(rand.Reader, []byte(message))
	if err != nil {
		return fmt.Errorf("sign digest: %w", err)
	}

	sig.Signature = base64.StdEncoding.EncodeToString(ssh.Marshal(sshSig))
	sig.Algorithm = sshSig.Format
	sig.Signed = true

	return nil
}

// VerifySignature checks a signed Signature against the archive it claims
// to cover. It returns false for stubs, digest mismatches and invalid
// signatures; it never panics or errors on malformed input.
func VerifySignature(sig *Signature, bundlePath string) bool {
	if sig == nil || !sig.Signed {
		return false
	}

	digest, err := signer.HashFile(bundlePath)
	if err != nil {
		return false
	}
	if sig.Digest != fmt.Sprintf("sha256:%s", digest) {
		return false
	}

	publicKey, _, _, _, err := ssh.ParseAuthorizedKey([]byte(sig.PublicKey))
	if err != nil {
		return false
	}

	raw, err := base64.StdEncoding.DecodeString(sig.Signature)
	if err != nil {
		return false
	}
	var sshSig ssh.Signature
	if err := ssh.Unmarshal(raw, &sshSig); err != nil {
		return false
	}

	message := formatSignMessage(sig)
	return publicKey.Verify([]byte(message), &sshSig) == nil
}

// LoadSignature reads a detached signature file.
func LoadSignature(path string) (*Signature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signature file: %w", err)
	}

	var sig Signature
	if err := json.Unmarshal(data, &sig); err != nil {
		return nil, fmt.Errorf("parse signature file: %w", err)
	}

	return &sig, nil
}

// formatSignMessage renders the byte string the SSH signature covers:
// the digest plus the signer identity and timestamp, so replaying the
// signature onto another bundle or signer fails verification.
func formatSignMessage(sig *Signature) string {
	return fmt.Sprintf("arcops-bundle-v1\ndigest:%s\nsignedBy:%s\nsignedAt:%s\n",
		sig.Digest, sig.SignedBy, sig.SignedAt)
}
