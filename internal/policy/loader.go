package policy

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arcops/diagnostics/internal/errors"
)

// Load reads a RuleSet from a YAML file.
func Load(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewPolicyNotFoundError(path)
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, "read policy file", err)
	}

	rs, err := Parse(data)
	if err != nil {
		return nil, errors.NewPolicyInvalidError(path, err)
	}

	return rs, nil
}

// Parse unmarshals a RuleSet from YAML bytes and fills in defaults.
func Parse(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, err
	}

	if rs.Name == "" {
		rs.Name = "unknown"
	}
	if rs.Version == "" {
		rs.Version = "1.0"
	}
	if rs.Settings == nil {
		rs.Settings = map[string][]any{}
	}

	return &rs, nil
}

// Save writes a RuleSet to a YAML file.
func Save(rs *RuleSet, path string) error {
	data, err := yaml.Marshal(rs)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileMarshal, "marshal policy", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "write policy file", err)
	}

	return nil
}
