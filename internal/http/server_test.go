package http

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/cuentas/internal/bootstrap"
	"github.com/dropDatabas3/cuentas/internal/migrate"
	"github.com/dropDatabas3/cuentas/internal/registry"
	"github.com/dropDatabas3/cuentas/internal/runtime"
)

func containerWith(outcome migrate.Outcome, reason string) *bootstrap.Container {
	return &bootstrap.Container{
		Context:   runtime.Local,
		Registry:  registry.NewRegistry(nil),
		Migration: migrate.Result{Outcome: outcome, Reason: reason},
	}
}

func TestReadyz_AppliedIs200(t *testing.T) {
	router := NewRouter(containerWith(migrate.Applied, ""))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))

	require.Equal(t, 200, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["ready"])
	assert.Equal(t, "applied", body["migration_outcome"])
}

func TestReadyz_DegradedIs503(t *testing.T) {
	for _, tc := range []struct {
		outcome migrate.Outcome
		reason  string
	}{
		{migrate.Aborted, "no connection string"},
		{migrate.GaveUp, "retry budget exhausted"},
	} {
		router := NewRouter(containerWith(tc.outcome, tc.reason))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))

		require.Equal(t, 503, rec.Code, tc.outcome.String())
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["ready"])
		assert.Equal(t, tc.reason, body["migration_reason"])
	}
}

func TestMetricsEndpointExists(t *testing.T) {
	router := NewRouter(containerWith(migrate.Applied, ""))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
}
