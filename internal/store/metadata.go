package store

import (
	"encoding/json"
	"fmt"
)

// Metadata is the opaque JSON object attached to each artifact. Values are
// restricted to JSON-compatible kinds (string, number, bool, nested map/list,
// nil); Encode rejects anything else at the boundary instead of letting an
// unmarshalable value surface later.
type Metadata map[string]any

// Encode serializes metadata for storage. Nil maps encode as an empty object.
func (m Metadata) Encode() (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	for key, value := range m {
		if !jsonCompatible(value) {
			return "", fmt.Errorf("metadata key %q holds unsupported type %T", key, value)
		}
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	return string(raw), nil
}

// DecodeMetadata parses stored metadata. Empty input yields an empty map.
func DecodeMetadata(raw string) (Metadata, error) {
	if raw == "" {
		return Metadata{}, nil
	}
	var m Metadata
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if m == nil {
		m = Metadata{}
	}
	return m, nil
}

// Clone returns a shallow copy of the metadata map.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	cp := make(Metadata, len(m))
	for key, value := range m {
		cp[key] = value
	}
	return cp
}

func jsonCompatible(value any) bool {
	switch v := value.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return true
	case []any:
		for _, item := range v {
			if !jsonCompatible(item) {
				return false
			}
		}
		return true
	case []string, []int, []float64:
		return true
	case map[string]any:
		for _, item := range v {
			if !jsonCompatible(item) {
				return false
			}
		}
		return true
	case Metadata:
		for _, item := range v {
			if !jsonCompatible(item) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
