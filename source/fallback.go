package source

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	lif "github.com/LIF-Initiative/lif-core"
)

// Fallback tries Primary and, when it fails, Secondary. A nil Secondary makes
// it a plain pass-through.
type Fallback struct {
	Primary   Provider
	Secondary Provider
	log       *zap.Logger
}

func NewFallback(primary, secondary Provider, log *zap.Logger) *Fallback {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fallback{Primary: primary, Secondary: secondary, log: log}
}

func (f *Fallback) Name() string {
	if f.Secondary == nil {
		return f.Primary.Name()
	}
	return f.Primary.Name() + " (fallback: " + f.Secondary.Name() + ")"
}

func (f *Fallback) Document(ctx context.Context) (map[string]any, error) {
	doc, err := f.Primary.Document(ctx)
	if err == nil {
		return doc, nil
	}
	if f.Secondary == nil {
		return nil, err
	}
	f.log.Warn("schema source failed, falling back",
		zap.String("source", f.Primary.Name()),
		zap.String("fallback", f.Secondary.Name()),
		zap.Error(err))
	doc, err2 := f.Secondary.Document(ctx)
	if err2 != nil {
		return nil, &lif.SourceError{Source: f.Name(), Err: multierr.Combine(err, err2)}
	}
	return doc, nil
}
