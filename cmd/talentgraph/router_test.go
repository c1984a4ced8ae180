package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/0xAtelerix/talentgraph/config"
	"github.com/0xAtelerix/talentgraph/library"
)

type fixedCursor struct {
	next uint64
	err  error
}

func (c fixedCursor) NextBlock(context.Context) (uint64, error) {
	return c.next, c.err
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newRouter(fixedCursor{next: 42}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var h health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
	require.Equal(t, "ok", h.Status)
	require.Equal(t, uint64(42), h.NextBlock)
}

func TestHealthzUnavailable(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newRouter(fixedCursor{err: library.ErrCorruptedValue}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "corrupted value")
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newRouter(fixedCursor{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := newLogger(config.LogConfig{Level: "warn"}, &buf)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"message":"shown"`)

	buf.Reset()

	logger = newLogger(config.LogConfig{Level: "bogus"}, &buf)
	require.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}
