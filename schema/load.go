package schema

import (
	"bytes"
	"fmt"
	"os"
)

// Load resolves $refs in doc, locates root and flattens it. An empty root
// extracts the whole document with an empty path prefix.
func Load(doc map[string]any, root string) ([]Field, Diag, error) {
	resolved, d := ResolveRefs(doc)
	node, prefix := resolved, ""
	if root != "" {
		var err error
		node, prefix, err = ResolveRoot(resolved, root)
		if err != nil {
			return nil, d, err
		}
	}
	return Extract(node, prefix), d, nil
}

// LoadBytes decodes a JSON or YAML document and loads root from it. Keys
// duplicated within one JSON object are reported as warnings.
func LoadBytes(data []byte, root string) ([]Field, Diag, error) {
	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, &simpleDiag{}, err
	}
	fields, d, err := Load(doc, root)
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		// the document already decoded, so the token walk cannot fail
		dups, _ := DuplicateKeys(trimmed)
		if len(dups) > 0 {
			merged := &simpleDiag{}
			for _, p := range dups {
				merged.warnf("duplicate key at %s, last value kept", p)
			}
			merged.ws = append(merged.ws, d.Warnings()...)
			d = merged
		}
	}
	return fields, d, err
}

// LoadFile reads the document at path and loads root from it.
func LoadFile(path, root string) ([]Field, Diag, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &simpleDiag{}, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return LoadBytes(data, root)
}
