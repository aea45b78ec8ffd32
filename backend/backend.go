// Package backend forwards validated filters and mutations to the query
// execution service.
package backend

import (
	"context"
	"errors"
)

// Backend executes reads and writes for one root entity. Filter and input
// are JSON-safe maps (nil when absent); selected lists the dotted field paths
// the caller asked for. Implementations must honor ctx cancellation.
type Backend interface {
	Query(ctx context.Context, filter map[string]any, selected []string) ([]map[string]any, error)
	Update(ctx context.Context, filter, input map[string]any, selected []string) ([]map[string]any, error)
}

// ErrNotConfigured is returned by Funcs when the called operation has no
// implementation.
var ErrNotConfigured = errors.New("backend: operation not configured")

// Funcs adapts plain functions to Backend.
type Funcs struct {
	QueryFunc  func(ctx context.Context, filter map[string]any, selected []string) ([]map[string]any, error)
	UpdateFunc func(ctx context.Context, filter, input map[string]any, selected []string) ([]map[string]any, error)
}

var _ Backend = Funcs{}

func (f Funcs) Query(ctx context.Context, filter map[string]any, selected []string) ([]map[string]any, error) {
	if f.QueryFunc == nil {
		return nil, ErrNotConfigured
	}
	return f.QueryFunc(ctx, filter, selected)
}

func (f Funcs) Update(ctx context.Context, filter, input map[string]any, selected []string) ([]map[string]any, error) {
	if f.UpdateFunc == nil {
		return nil, ErrNotConfigured
	}
	return f.UpdateFunc(ctx, filter, input, selected)
}

type ctxKey int

const requestIDKey ctxKey = iota

// WithRequestID attaches a request id that HTTP forwards as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request id attached to ctx, if any.
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}
