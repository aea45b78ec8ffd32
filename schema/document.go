package schema

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ErrNotObject is returned when a document does not decode to a mapping.
var ErrNotObject = errors.New("schema: document root is not an object")

// DecodeDocument decodes a JSON or YAML OpenAPI document. Input whose first
// non-space byte is '{' is treated as JSON; anything else goes through YAML,
// which also accepts JSON.
func DecodeDocument(data []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrNotObject
	}
	if trimmed[0] == '{' {
		var m map[string]any
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return nil, fmt.Errorf("schema: decode json: %w", err)
		}
		if m == nil {
			return nil, ErrNotObject
		}
		return m, nil
	}
	var node any
	if err := yaml.Unmarshal(trimmed, &node); err != nil {
		return nil, fmt.Errorf("schema: decode yaml: %w", err)
	}
	m := yamlAnyToStringMap(node)
	if m == nil {
		return nil, ErrNotObject
	}
	return m, nil
}

// yamlAnyToStringMap converts YAML-decoded values (which may contain
// map[any]any) into JSON-like map[string]any recursively. Non-map roots
// return nil.
func yamlAnyToStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = yamlNormalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

// yamlNormalizeValue also widens YAML integers to float64 so both decoders
// hand the extractor the same value shapes.
func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return yamlAnyToStringMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = yamlNormalizeValue(t[i])
		}
		return out
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	default:
		return v
	}
}
