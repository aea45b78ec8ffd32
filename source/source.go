// Package source supplies the OpenAPI document the API is generated from:
// the metadata registry (MDR), a local file, a fallback chain of the two and
// an optional Redis-backed cache in front of any of them.
package source

import (
	"context"

	"github.com/LIF-Initiative/lif-core/schema"
)

// Provider returns the decoded schema document. Implementations wrap their
// failures in *lif.SourceError.
type Provider interface {
	Name() string
	Document(ctx context.Context) (map[string]any, error)
}

// Fields loads the document from p and flattens the subtree under root.
func Fields(ctx context.Context, p Provider, root string) ([]schema.Field, schema.Diag, error) {
	doc, err := p.Document(ctx)
	if err != nil {
		return nil, nil, err
	}
	return schema.Load(doc, root)
}
