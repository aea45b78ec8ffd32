package source_test

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	lif "github.com/LIF-Initiative/lif-core"
	"github.com/LIF-Initiative/lif-core/source"
)

func TestFallback_UsesSecondaryAndWarns(t *testing.T) {
	srv, _ := mdrServer(t, http.StatusInternalServerError)
	core, logs := observer.New(zap.WarnLevel)
	fb := source.NewFallback(
		source.NewRegistry(srv.URL, "17", ""),
		source.NewFile(personFile(t)),
		zap.New(core),
	)
	doc, err := fb.Document(context.Background())
	require.NoError(t, err)
	assert.Contains(t, doc, "components")
	assert.Equal(t, 1, logs.FilterMessage("schema source failed, falling back").Len())
}

func TestFallback_PrimaryWins(t *testing.T) {
	srv, _ := mdrServer(t, http.StatusOK)
	fb := source.NewFallback(source.NewRegistry(srv.URL, "17", ""), source.NewFile("missing.json"), nil)
	_, err := fb.Document(context.Background())
	assert.NoError(t, err)
}

func TestFallback_BothFail(t *testing.T) {
	fb := source.NewFallback(
		source.NewRegistry("http://127.0.0.1:1", "", ""),
		source.NewFile(filepath.Join(t.TempDir(), "missing.json")),
		nil,
	)
	_, err := fb.Document(context.Background())
	var se *lif.SourceError
	require.True(t, errors.As(err, &se))
	assert.ErrorIs(t, err, source.ErrNoModelID)
	assert.Contains(t, err.Error(), "missing.json")
}

func TestFallback_NoSecondary(t *testing.T) {
	fb := source.NewFallback(source.NewRegistry("http://127.0.0.1:1", "", ""), nil, nil)
	_, err := fb.Document(context.Background())
	assert.ErrorIs(t, err, source.ErrNoModelID)
}
