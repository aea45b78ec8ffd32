package schema

import (
	"sort"

	lif "github.com/LIF-Initiative/lif-core"
	"github.com/LIF-Initiative/lif-core/internal/strcase"
)

// MaxDepth bounds extraction recursion. Reference resolution leaves cycles
// unexpanded, so the bound only trips on pathological documents.
const MaxDepth = 64

// Extract flattens a dereferenced schema fragment into Fields, parents before
// children. Properties are visited in key order. Items describe the element
// shape of an array and are extracted under the same path prefix.
// Non-map input yields nil.
func Extract(node any, pathPrefix string) []Field {
	var out []Field
	extract(node, pathPrefix, 0, &out)
	return out
}

func extract(node any, prefix string, depth int, out *[]Field) {
	obj, ok := node.(map[string]any)
	if !ok || depth > MaxDepth {
		return
	}
	attrs := extractAttributes(obj)
	*out = append(*out, Field{
		JSONPath:    strcase.CamelPath(prefix),
		Description: description(obj),
		Attributes:  attrs,
	})

	if props, ok := obj["properties"].(map[string]any); ok {
		keys := make([]string, 0, len(props))
		for k := range props {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			p := k
			if prefix != "" {
				p = prefix + "." + k
			}
			extract(props[k], p, depth+1, out)
		}
	}
	switch items := obj["items"].(type) {
	case map[string]any:
		extract(items, prefix, depth+1, out)
	case []any: // tuple validation
		for _, it := range items {
			extract(it, prefix, depth+1, out)
		}
	}
}

// description prefers the upper-case Description key.
func description(obj map[string]any) string {
	if s, _ := obj["Description"].(string); s != "" {
		return s
	}
	s, _ := obj["description"].(string)
	return s
}

func isBranch(obj map[string]any) bool {
	if props, ok := obj["properties"].(map[string]any); ok && len(props) > 0 {
		return true
	}
	switch items := obj["items"].(type) {
	case map[string]any:
		return true
	case []any:
		return len(items) > 0
	}
	return false
}

func isArray(obj map[string]any) bool {
	if t, _ := obj["type"].(string); t == "array" {
		return true
	}
	_, ok := obj["items"]
	return ok
}

// extractAttributes pulls the recognized source keys (case-sensitive) and
// re-keys them to their camelCase attribute names.
func extractAttributes(obj map[string]any) Attributes {
	a := Attributes{DataType: DefaultDataType}
	a.Queryable = lif.Truthy(obj["x-queryable"])
	a.Mutable = lif.Truthy(obj["x-mutable"])
	if v, ok := obj["DataType"].(string); ok && v != "" {
		a.DataType = v
	}
	if v, ok := obj["Required"]; ok {
		a.Required = yesNo(v)
	}
	a.UniqueName, _ = obj["UniqueName"].(string)
	if v, ok := obj["enum"].([]any); ok {
		a.Enum = append([]any(nil), v...)
	}
	switch {
	case obj["type"] != nil:
		a.Type, _ = obj["type"].(string)
	case obj["DataType"] != nil:
		a.Type, _ = obj["DataType"].(string)
	}
	if v, ok := obj["Array"]; ok {
		a.Array = yesNo(v)
	} else if isArray(obj) {
		a.Array = "Yes"
	} else {
		a.Array = "No"
	}
	a.Branch = isBranch(obj)
	a.Leaf = !a.Branch
	return a
}
