package schema

import "strings"

// ResolveRefs replaces local JSON-pointer $refs (#/components/schemas/X,
// #/definitions/X, #/$defs/X and other local pointers) with deep copies of
// their targets. Keys declared next to a $ref win over the target's keys.
// A ref that is already being expanded higher up the same branch is left in
// place and reported as a warning, so cyclic documents terminate.
// The input document is not modified.
func ResolveRefs(doc map[string]any) (map[string]any, Diag) {
	d := &simpleDiag{}
	out, _ := resolveValue(doc, doc, d, map[string]bool{}).(map[string]any)
	return out, d
}

func resolveValue(v any, doc map[string]any, d *simpleDiag, visited map[string]bool) any {
	switch t := v.(type) {
	case map[string]any:
		return resolveOne(t, doc, d, visited)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = resolveValue(e, doc, d, visited)
		}
		return out
	default:
		return v
	}
}

// resolveOne expands a single schema map, merging the target shallowly under
// the explicit siblings of $ref.
func resolveOne(s map[string]any, doc map[string]any, d *simpleDiag, visited map[string]bool) map[string]any {
	ref, isRef := s["$ref"].(string)
	if !isRef {
		out := make(map[string]any, len(s))
		for k, v := range s {
			out[k] = resolveValue(v, doc, d, visited)
		}
		return out
	}
	if !strings.HasPrefix(ref, "#/") && ref != "#" {
		d.warnf("$ref %q not supported (local refs only)", ref)
		return deepCopyMap(s)
	}
	target, ok := lookupPointer(doc, ref)
	if !ok {
		d.warnf("$ref to unknown target %s", ref)
		return deepCopyMap(s)
	}
	if visited[ref] {
		d.warnf("cyclic $ref detected at %s (skipping expansion)", ref)
		return deepCopyMap(s)
	}
	visited[ref] = true
	expanded := resolveOne(target, doc, d, visited)
	delete(visited, ref)

	out := make(map[string]any, len(s)+len(expanded))
	for k, v := range expanded {
		out[k] = v
	}
	for k, v := range s {
		if k == "$ref" {
			continue
		}
		out[k] = resolveValue(v, doc, d, visited)
	}
	return out
}

// lookupPointer walks a local JSON pointer ("#/a/b") through nested maps.
func lookupPointer(doc map[string]any, ref string) (map[string]any, bool) {
	ptr := strings.TrimPrefix(strings.TrimPrefix(ref, "#"), "/")
	if ptr == "" {
		return doc, true
	}
	var cur any = doc
	for _, tok := range strings.Split(ptr, "/") {
		tok = strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[tok]; !ok {
			return nil, false
		}
	}
	m, ok := cur.(map[string]any)
	return m, ok
}

func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}
