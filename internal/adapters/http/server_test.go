package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpAdapter "github.com/StariusTechnologies/appeal-modmail-plugins/internal/adapters/http"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/adapters/memory"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/domain"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/observability"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/waiter"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	reg := prometheus.NewRegistry()
	observability.NewMetrics(reg)

	handler := httpAdapter.NewHandler(store, waiter.New(), func() bool { return true }, reg)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, store
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["gateway_connected"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestConfigInspection(t *testing.T) {
	srv, store := newTestServer(t)

	resp, err := http.Get(srv.URL + "/config/guild-1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.NoError(t, store.UpsertMerge(context.Background(), "guild-1", map[string]any{
		domain.FieldQuestions: []string{"Q1"},
		domain.FieldMoveTo:    "cat-1",
	}))

	resp, err = http.Get(srv.URL + "/config/guild-1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cfg domain.QuestionnaireConfig
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cfg))
	assert.Equal(t, []string{"Q1"}, cfg.Questions)
	assert.Equal(t, "cat-1", cfg.MoveTo)
}
