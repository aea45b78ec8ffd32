package server_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/LIF-Initiative/lif-core/backend"
	"github.com/LIF-Initiative/lif-core/gql"
	"github.com/LIF-Initiative/lif-core/internal/server"
	"github.com/LIF-Initiative/lif-core/schema"
)

func leaf(path, dataType string, queryable, mutable bool) schema.Field {
	return schema.Field{
		JSONPath: path,
		Attributes: schema.Attributes{
			Queryable: queryable,
			Mutable:   mutable,
			DataType:  dataType,
			Array:     "No",
			Leaf:      true,
		},
	}
}

func newServer(t *testing.T, be backend.Backend, log *zap.Logger) http.Handler {
	t.Helper()
	s, err := gql.BuildSchema(gql.Config{
		Root: "Person",
		Fields: []schema.Field{
			leaf("person.name", "xsd:string", true, true),
			leaf("person.age", "xsd:integer", false, true),
			leaf("person.birthDate", "xsd:date", false, true),
		},
		Backend: be,
	})
	require.NoError(t, err)
	return server.New(s, server.Options{Logger: log})
}

type gqlResponse struct {
	Data   map[string]any `json:"data"`
	Errors []struct {
		Message    string         `json:"message"`
		Extensions map[string]any `json:"extensions"`
	} `json:"errors"`
}

func post(t *testing.T, h http.Handler, query string, header http.Header) (*httptest.ResponseRecorder, gqlResponse) {
	t.Helper()
	body, err := json.Marshal(map[string]any{"query": query})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out gqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestServer_QueryForwardsRequestID(t *testing.T) {
	var seen string
	be := backend.Funcs{QueryFunc: func(ctx context.Context, _ map[string]any, _ []string) ([]map[string]any, error) {
		seen, _ = backend.RequestID(ctx)
		return []map[string]any{{"name": "Ann", "age": 41}}, nil
	}}
	core, logs := observer.New(zap.InfoLevel)
	h := newServer(t, be, zap.New(core))

	rec, out := post(t, h, `{ persons(filter: {name: "Ann"}) { name age } }`, http.Header{server.HeaderRequestID: {"req-1"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, out.Errors)
	assert.Equal(t, []any{map[string]any{"name": "Ann", "age": float64(41)}}, out.Data["persons"])
	assert.Equal(t, "req-1", seen)
	assert.Equal(t, "req-1", rec.Header().Get(server.HeaderRequestID))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
}

func TestServer_GeneratesRequestID(t *testing.T) {
	var seen string
	be := backend.Funcs{QueryFunc: func(ctx context.Context, _ map[string]any, _ []string) ([]map[string]any, error) {
		seen, _ = backend.RequestID(ctx)
		return nil, nil
	}}
	rec, _ := post(t, newServer(t, be, nil), `{ person(filter: {name: "Ann"}) { name } }`, nil)
	assert.Len(t, rec.Header().Get(server.HeaderRequestID), 36)
	assert.Equal(t, rec.Header().Get(server.HeaderRequestID), seen)
}

func TestServer_ValidationIssuesInExtensions(t *testing.T) {
	called := false
	be := backend.Funcs{UpdateFunc: func(context.Context, map[string]any, map[string]any, []string) ([]map[string]any, error) {
		called = true
		return nil, nil
	}}
	_, out := post(t, newServer(t, be, nil), `mutation { updatePerson(filter: {name: "Ann"}, input: {birthDate: "1984-13-45"}) { name } }`, nil)
	assert.False(t, called)
	require.Len(t, out.Errors, 1)
	ext := out.Errors[0].Extensions
	assert.Equal(t, "VALIDATION_FAILED", ext["code"])
	require.Len(t, ext["issues"], 1)
	issue := ext["issues"].([]any)[0].(map[string]any)
	assert.Equal(t, "/birthDate", issue["path"])
	assert.Equal(t, "invalid_format", issue["code"])
}

func TestServer_BackendErrorExtensions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "planner down", http.StatusBadGateway)
	}))
	defer srv.Close()
	be := backend.NewHTTP(srv.URL+"/query", srv.URL+"/update", "Person")

	_, out := post(t, newServer(t, be, nil), `{ persons(filter: {name: "Ann"}) { name } }`, nil)
	require.Len(t, out.Errors, 1)
	assert.Contains(t, out.Errors[0].Message, "planner down")
	assert.Equal(t, "BACKEND_ERROR", out.Errors[0].Extensions["code"])
	assert.Equal(t, float64(http.StatusBadGateway), out.Errors[0].Extensions["status"])
}

func TestServer_Healthz(t *testing.T) {
	h := newServer(t, backend.Funcs{}, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "Person", body["root"])
	assert.Equal(t, map[string]any{"single": "person", "list": "persons", "update": "updatePerson"}, body["operations"])
}
