package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	lif "github.com/LIF-Initiative/lif-core"
	"github.com/LIF-Initiative/lif-core/internal/strcase"
)

// HeaderRequestID carries the request id to the query planner.
const HeaderRequestID = "X-Request-ID"

// DefaultTimeout bounds a single forwarded call when none is configured.
const DefaultTimeout = 20 * time.Second

// maxErrorBody caps how much of a failed response is kept in the error.
const maxErrorBody = 512

// HTTP talks to the query planner:
//
//	query:  POST QueryURL  {"filter": {"<root>": filter}|null, "selected_fields": [...]}
//	update: POST UpdateURL {"update<Root>": {"filter": ..., "input": ..., "selected_fields": [...]}}
//
// Query responses are a list of {"<root>": [records]} envelopes that are
// flattened in order; update responses are {"<root>": [records] | record}.
//
// selected_fields entries are dotted paths rooted at the lower-cased root
// entity ("person.name.firstName") for every operation. They are not
// prefixed with the GraphQL field name ("persons", "updatePerson"), so a
// planner that keyed on the operation name must strip the root segment
// instead.
type HTTP struct {
	queryURL  string
	updateURL string
	root      string
	client    *http.Client
	timeout   time.Duration
	log       *zap.Logger
}

var _ Backend = (*HTTP)(nil)

// HTTPOption configures HTTP.
type HTTPOption func(*HTTP)

// WithClient replaces the default http.Client.
func WithClient(c *http.Client) HTTPOption {
	return func(h *HTTP) {
		if c != nil {
			h.client = c
		}
	}
}

// WithTimeout bounds each call. Zero or negative keeps the default.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) HTTPOption {
	return func(h *HTTP) {
		if l != nil {
			h.log = l
		}
	}
}

// NewHTTP returns a backend posting to queryURL and updateURL. root is the
// entity name ("Person"); payload envelopes use its lower camelCase form.
func NewHTTP(queryURL, updateURL, root string, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		queryURL:  queryURL,
		updateURL: updateURL,
		root:      strcase.LowerFirst(root),
		client:    http.DefaultClient,
		timeout:   DefaultTimeout,
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

func (h *HTTP) wrapFilter(filter map[string]any) any {
	if filter == nil {
		return nil
	}
	return map[string]any{h.root: filter}
}

// Query posts filter and selected to the query URL.
func (h *HTTP) Query(ctx context.Context, filter map[string]any, selected []string) ([]map[string]any, error) {
	payload := map[string]any{
		"filter":          h.wrapFilter(filter),
		"selected_fields": nonNil(selected),
	}
	body, err := h.post(ctx, "query", h.queryURL, payload)
	if err != nil {
		return nil, err
	}
	var envelopes []any
	if err := json.Unmarshal(body, &envelopes); err != nil {
		return nil, &lif.BackendError{Op: "query", URL: h.queryURL, Err: fmt.Errorf("decode response: %w", err)}
	}
	var out []map[string]any
	for _, env := range envelopes {
		m, ok := env.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, records(m[h.root])...)
	}
	return out, nil
}

// Update posts filter, input and selected to the update URL under the
// update<Root> key.
func (h *HTTP) Update(ctx context.Context, filter, input map[string]any, selected []string) ([]map[string]any, error) {
	var in any
	if input != nil {
		in = input
	}
	payload := map[string]any{
		"update" + strcase.UpperFirst(h.root): map[string]any{
			"filter":          h.wrapFilter(filter),
			"input":           in,
			"selected_fields": nonNil(selected),
		},
	}
	body, err := h.post(ctx, "update", h.updateURL, payload)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, &lif.BackendError{Op: "update", URL: h.updateURL, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return records(data[h.root]), nil
}

func (h *HTTP) post(ctx context.Context, op, url string, payload any) ([]byte, error) {
	if url == "" {
		return nil, &lif.BackendError{Op: op, Err: errors.New("backend URL is not configured")}
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, &lif.BackendError{Op: op, URL: url, Err: fmt.Errorf("encode payload: %w", err)}
	}
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return nil, &lif.BackendError{Op: op, URL: url, Err: err}
	}
	rid, ok := RequestID(ctx)
	if !ok {
		rid = uuid.NewString()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, rid)

	start := time.Now()
	h.log.Debug("backend request", zap.String("op", op), zap.String("url", url),
		zap.String("request_id", rid), zap.ByteString("payload", buf))
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &lif.BackendError{Op: op, URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &lif.BackendError{Op: op, URL: url, Status: resp.StatusCode, Err: err}
	}
	h.log.Debug("backend response", zap.String("op", op), zap.Int("status", resp.StatusCode),
		zap.String("request_id", rid), zap.Duration("elapsed", time.Since(start)))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(body))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody] + "..."
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &lif.BackendError{Op: op, URL: url, Status: resp.StatusCode, Err: errors.New(msg)}
	}
	return body, nil
}

// records accepts a list of objects or a single object.
func records(v any) []map[string]any {
	switch t := v.(type) {
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, e := range t {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		return []map[string]any{t}
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
