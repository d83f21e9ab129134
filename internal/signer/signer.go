// Package signer stamps structured artifacts with a canonical content
// digest so post-hoc tampering is detectable. This is tamper evidence,
// not non-repudiation: there is no private-key signature here. A real
// signature scheme wraps this digest in a signing envelope (see the
// bundle package) without altering the canonicalization contract.
package signer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/zeebo/blake3"
)

// Artifact field names added by signing.
const (
	FieldHash     = "artifactHash"
	FieldSignedBy = "signedBy"
	FieldSignedAt = "signedAt"
)

// Algorithm selects the digest function used for artifact hashes.
type Algorithm string

const (
	AlgorithmSHA256 Algorithm = "sha256"
	AlgorithmBLAKE3 Algorithm = "blake3"
)

// ParseAlgorithm maps a string onto a supported Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AlgorithmSHA256, "":
		return AlgorithmSHA256, nil
	case AlgorithmBLAKE3:
		return AlgorithmBLAKE3, nil
	}
	return "", fmt.Errorf("unsupported digest algorithm: %q", s)
}

// Signer computes, attaches and verifies artifact digests.
type Signer struct {
	identity  string
	algorithm Algorithm
}

// Option customizes a Signer.
type Option func(*Signer)

// WithAlgorithm selects the digest algorithm (default sha256).
func WithAlgorithm(alg Algorithm) Option {
	return func(s *Signer) {
		s.algorithm = alg
	}
}

// New creates a Signer with the given identity string.
func New(identity string, opts ...Option) *Signer {
	s := &Signer{
		identity:  identity,
		algorithm: AlgorithmSHA256,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ComputeHash canonicalizes the artifact minus the excluded fields and
// returns the digest tagged with its algorithm, e.g. "sha256:6f1a2e...".
// When no exclusions are given, the hash field itself is excluded so an
// artifact's hash never covers itself.
func (s *Signer) ComputeHash(artifact map[string]any, exclude ...string) (string, error) {
	if len(exclude) == 0 {
		exclude = []string{FieldHash}
	}

	excluded := make(map[string]bool, len(exclude))
	for _, field := range exclude {
		excluded[field] = true
	}

	toHash := make(map[string]any, len(artifact))
	for k, v := range artifact {
		if !excluded[k] {
			toHash[k] = v
		}
	}

	canonical, err := Canonicalize(toHash)
	if err != nil {
		return "", err
	}

	return s.digest(canonical), nil
}

// Sign returns a copy of the artifact with signer metadata and the content
// hash attached. The input is not mutated.
func (s *Signer) Sign(artifact map[string]any) (map[string]any, error) {
	signed := make(map[string]any, len(artifact)+3)
	for k, v := range artifact {
		signed[k] = v
	}

	signed[FieldSignedBy] = s.identity
	signed[FieldSignedAt] = time.Now().UTC().Format(time.RFC3339)

	hash, err := s.ComputeHash(signed)
	if err != nil {
		return nil, err
	}
	signed[FieldHash] = hash

	return signed, nil
}

// Verify recomputes the artifact hash over the same exclusion set and
// compares it with the stored one. It never returns an error: a missing
// or mismatched hash is simply false.
func (s *Signer) Verify(artifact map[string]any) bool {
	stored, ok := artifact[FieldHash].(string)
	if !ok || stored == "" {
		return false
	}

	computed, err := s.ComputeHash(artifact)
	if err != nil {
		return false
	}

	return stored == computed
}

func (s *Signer) digest(data []byte) string {
	switch s.algorithm {
	case AlgorithmBLAKE3:
		sum := blake3.Sum256(data)
		return fmt.Sprintf("%s:%s", AlgorithmBLAKE3, hex.EncodeToString(sum[:]))
	default:
		sum := sha256.Sum256(data)
		return fmt.Sprintf("%s:%s", AlgorithmSHA256, hex.EncodeToString(sum[:]))
	}
}

// HashFile computes the streaming SHA-256 of a file's bytes, hex encoded
// without an algorithm tag. The bundle manifest uses this form.
func HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for hashing: %w", err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("hash file %s: %w", path, err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
