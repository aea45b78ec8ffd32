package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	lif "github.com/LIF-Initiative/lif-core"
	"github.com/LIF-Initiative/lif-core/schema"
)

// HeaderAPIKey carries the MDR auth token.
const HeaderAPIKey = "X-API-Key"

// DefaultRegistryTimeout bounds one document download.
const DefaultRegistryTimeout = 30 * time.Second

// ErrNoModelID is returned when the registry has no data model id to fetch.
var ErrNoModelID = errors.New("no data model id configured")

// Registry downloads the OpenAPI export of one data model from the MDR.
type Registry struct {
	baseURL string
	modelID string
	token   string
	client  *http.Client
	timeout time.Duration
	log     *zap.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

func WithHTTPClient(c *http.Client) RegistryOption {
	return func(r *Registry) {
		if c != nil {
			r.client = c
		}
	}
}

func WithRegistryTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithRegistryLogger(l *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRegistry returns a provider for model modelID served under baseURL.
func NewRegistry(baseURL, modelID, token string, opts ...RegistryOption) *Registry {
	r := &Registry{
		baseURL: strings.TrimRight(baseURL, "/"),
		modelID: modelID,
		token:   token,
		client:  http.DefaultClient,
		timeout: DefaultRegistryTimeout,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Registry) Name() string { return "registry " + r.baseURL }

// URL is the full export URL of the configured data model.
func (r *Registry) URL() string {
	q := url.Values{}
	q.Set("download", "true")
	q.Set("include_entity_md", "true")
	q.Set("include_attr_md", "true")
	q.Set("full_export", "true")
	return fmt.Sprintf("%s/datamodels/open_api_schema/%s?%s", r.baseURL, url.PathEscape(r.modelID), q.Encode())
}

// Fetch returns the raw export body.
func (r *Registry) Fetch(ctx context.Context) ([]byte, error) {
	if r.modelID == "" {
		return nil, &lif.SourceError{Source: r.Name(), Err: ErrNoModelID}
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL(), nil)
	if err != nil {
		return nil, &lif.SourceError{Source: r.Name(), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if r.token != "" {
		req.Header.Set(HeaderAPIKey, r.token)
	}
	r.log.Debug("fetching schema document", zap.String("url", r.URL()))
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &lif.SourceError{Source: r.Name(), Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &lif.SourceError{Source: r.Name(), Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &lif.SourceError{Source: r.Name(), Err: fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, 256))}
	}
	return body, nil
}

// Document fetches and decodes the export.
func (r *Registry) Document(ctx context.Context) (map[string]any, error) {
	body, err := r.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := schema.DecodeDocument(body)
	if err != nil {
		return nil, &lif.SourceError{Source: r.Name(), Err: err}
	}
	return doc, nil
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
