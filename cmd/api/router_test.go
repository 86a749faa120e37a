package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leadflow/crm-directory/internal/config"
	"github.com/leadflow/crm-directory/internal/infra/database"
	"github.com/leadflow/crm-directory/internal/infra/http/handlers"
	"github.com/leadflow/crm-directory/internal/infra/http/middleware"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return newTestRouterWithProxy(t, false)
}

func newTestRouterWithProxy(t *testing.T, trustProxy bool) http.Handler {
	t.Helper()
	cfg := &config.Config{StorageBackend: config.BackendMemory, StorageKey: "crm_mock_db_v3"}
	store := database.NewMemorySnapshotStore()
	dir := newDirectory(cfg, store, zap.NewNop(), nil)
	require.NoError(t, dir.Open(context.Background()))

	return newRouter(routerDeps{
		Directory:      dir,
		Health:         handlers.NewHealthHandler(store, cfg.StorageBackend, nil, false, Version),
		ImportLimiter:  middleware.NewRateLimiter(1, time.Minute),
		AllowedOrigins: []string{"http://localhost:5173"},
		TrustProxy:     trustProxy,
		Logger:         zap.NewNop(),
	})
}

func TestRouterServesHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"storage_backend":"memory"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestRouterMountsDirectoryRoutes(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/employees", "/leads", "/leads/lead_103/follow-ups", "/customers"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouterRateLimitsImports(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/leads/import/sample", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/leads/import/sample", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRouterKeysImportLimitOnForwardedClientBehindProxy(t *testing.T) {
	r := newTestRouterWithProxy(t, true)

	for _, client := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodPost, "/leads/import/sample", nil)
		req.Header.Set("X-Forwarded-For", client)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code, client)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/leads", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
