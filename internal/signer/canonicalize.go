package signer

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Canonicalize returns a deterministic JSON representation of v: object
// keys recursively sorted, compact separators, array order preserved
// (check order is semantically significant). Two structurally identical
// values always canonicalize to the same bytes regardless of key
// insertion order.
func Canonicalize(v any) ([]byte, error) {
	normalized, err := normalize(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sortKeys(normalized))
}

// normalize round-trips v through JSON so structs, typed maps and numeric
// variants collapse into the generic map/slice/float64 shape.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("canonicalize round-trip: %w", err)
	}

	return generic, nil
}

// sortKeys recursively sorts map keys for stable JSON output.
func sortKeys(v any) any {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sorted := make(map[string]any, len(val))
		for _, k := range keys {
			sorted[k] = sortKeys(val[k])
		}
		return sorted

	case []any:
		for i, item := range val {
			val[i] = sortKeys(item)
		}
		return val

	default:
		return v
	}
}
