package schema

import (
	"fmt"
	"sort"

	lif "github.com/LIF-Initiative/lif-core"
)

// ResolveRoot returns the schema node registered under root, searching
// components.schemas first and definitions second. The returned name is the
// path prefix for extraction.
func ResolveRoot(doc map[string]any, root string) (map[string]any, string, error) {
	var candidates []string
	if comps, ok := doc["components"].(map[string]any); ok {
		if schemas, ok := comps["schemas"].(map[string]any); ok {
			if node, ok := schemas[root].(map[string]any); ok {
				return node, root, nil
			}
			candidates = appendKeys(candidates, schemas)
		}
	}
	if defs, ok := doc["definitions"].(map[string]any); ok {
		if node, ok := defs[root].(map[string]any); ok {
			return node, root, nil
		}
		candidates = appendKeys(candidates, defs)
	}
	sort.Strings(candidates)
	return nil, "", &lif.ConfigError{
		Root:      root,
		Msg:       fmt.Sprintf("root schema %q not found", root),
		Available: candidates,
	}
}

// Names lists every schema name registered in the document, sorted.
func Names(doc map[string]any) []string {
	var out []string
	if comps, ok := doc["components"].(map[string]any); ok {
		if schemas, ok := comps["schemas"].(map[string]any); ok {
			out = appendKeys(out, schemas)
		}
	}
	if defs, ok := doc["definitions"].(map[string]any); ok {
		out = appendKeys(out, defs)
	}
	sort.Strings(out)
	return out
}

func appendKeys(dst []string, m map[string]any) []string {
	for k := range m {
		dst = append(dst, k)
	}
	return dst
}
