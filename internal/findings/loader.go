package findings

import (
	"encoding/json"
	"os"

	"github.com/arcops/diagnostics/internal/errors"
)

// Load reads a findings document from a JSON file.
func Load(path string) (*Findings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFoundError(path)
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, "read findings file", err)
	}

	var f Findings
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.NewFileUnmarshalError(path, "JSON", err)
	}

	return &f, nil
}

// Write serializes the report to path as indented JSON.
func (f *Findings) Write(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileMarshal, "marshal findings", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "write findings file", err)
	}

	return nil
}

// LooksLikeFindings reports whether raw parses as JSON with a top-level
// "checks" array. The bundle builder uses this to tell findings documents
// apart from opaque log attachments.
func LooksLikeFindings(raw []byte) bool {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false
	}

	checks, ok := doc["checks"]
	if !ok {
		return false
	}

	var list []json.RawMessage
	return json.Unmarshal(checks, &list) == nil
}

// ToMap converts the report to a generic map, the shape the artifact
// signer operates on.
func (f *Findings) ToMap() (map[string]any, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileMarshal, "marshal findings", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileUnmarshal, "round-trip findings", err)
	}

	return m, nil
}
