package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/warehouse-console/api/controllers"
	"github.com/angelmondragon/warehouse-console/internal/catalog"
	"github.com/angelmondragon/warehouse-console/internal/resource"
	"github.com/angelmondragon/warehouse-console/internal/resource/resourcetest"
	"github.com/angelmondragon/warehouse-console/pkg/config"
	"github.com/angelmondragon/warehouse-console/pkg/logger"
	"github.com/angelmondragon/warehouse-console/pkg/metrics"
	"github.com/angelmondragon/warehouse-console/pkg/types"
)

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Env: "dev", CORSOrigins: []string{"http://localhost:5173"}},
		Metrics: config.MetricsConfig{Enabled: true},
	}
}

type testRouter struct {
	http.Handler
	env *resourcetest.Env
}

func newTestRouter(t *testing.T, backend *resourcetest.Backend) testRouter {
	t.Helper()

	env := resourcetest.New(t, backend, time.Time{})
	mutator, err := resource.NewMutator(resource.MutatorParams{
		Cache:    env.Deps.Cache,
		Registry: env.Deps.Registry,
		Notifier: resource.ContextNotifier{Next: env.Notices},
	})
	require.NoError(t, err)
	env.Deps.Mutator = mutator

	catalogSvc, err := catalog.NewService(env.Deps)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	handler := NewRouter(
		testConfig(),
		logger.Nop(),
		Observability{Gatherer: reg, HTTP: metrics.NewHTTPMetrics(reg)},
		Services{Catalog: catalogSvc},
		map[string]controllers.Pinger{
			"backend": controllers.PingFunc(func(context.Context) error { return nil }),
		},
	)
	return testRouter{Handler: handler, env: env}
}

func (tr testRouter) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	tr.ServeHTTP(rec, req)
	return rec
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter(t, resourcetest.NewBackend())

	live := router.do(http.MethodGet, "/health/live", "")
	require.Equal(t, http.StatusOK, live.Code)
	assert.NotEmpty(t, live.Header().Get("X-Request-Id"))

	ready := router.do(http.MethodGet, "/health/ready", "")
	require.Equal(t, http.StatusOK, ready.Code)
}

func TestProductListIsCachedAcrossRequests(t *testing.T) {
	backend := resourcetest.NewBackend()
	backend.JSON(http.MethodGet, "/products", http.StatusOK, []map[string]any{
		{"id": 1, "name": "Widget", "sku": "W-1", "category_id": 1, "stock_level": 3},
	})
	router := newTestRouter(t, backend)

	for i := 0; i < 2; i++ {
		rec := router.do(http.MethodGet, "/api/v1/products", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Data catalog.ProductList `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.Len(t, body.Data.Items, 1)
		assert.Equal(t, "Low Stock", body.Data.Items[0].StockLabel)
		assert.Equal(t, 1, body.Data.Summary.LowStockCount)
	}
	assert.Equal(t, 1, backend.Count(http.MethodGet, "/products"))
}

func TestProductListFiltersFromQuery(t *testing.T) {
	backend := resourcetest.NewBackend()
	backend.JSON(http.MethodGet, "/products", http.StatusOK, []map[string]any{
		{"id": 1, "name": "Widget", "sku": "W-1", "category_id": 1, "stock_level": 3},
		{"id": 2, "name": "Gadget", "sku": "G-1", "category_id": 2, "stock_level": 30},
		{"id": 3, "name": "Gizmo", "sku": "G-2", "category_id": 2, "stock_level": 0},
	})
	router := newTestRouter(t, backend)

	rec := router.do(http.MethodGet, "/api/v1/products?q=g-&sort=stock_level&order=desc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data catalog.ProductList `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Data.Items, 2)
	assert.Equal(t, "Gadget", body.Data.Items[0].Name)
	assert.Equal(t, "Gizmo", body.Data.Items[1].Name)
	assert.Equal(t, 3, body.Data.Summary.TotalItems, "counters cover the whole inventory")

	bad := router.do(http.MethodGet, "/api/v1/products?sort=price", "")
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestCreateCategoryReturnsNoticeAndInvalidates(t *testing.T) {
	backend := resourcetest.NewBackend()
	backend.JSON(http.MethodGet, "/categories", http.StatusOK, []map[string]any{})
	backend.JSON(http.MethodPost, "/categories", http.StatusCreated, map[string]any{"id": 5, "name": "Snacks"})
	router := newTestRouter(t, backend)

	require.Equal(t, http.StatusOK, router.do(http.MethodGet, "/api/v1/categories", "").Code)

	rec := router.do(http.MethodPost, "/api/v1/categories", `{"name":"Snacks"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Notices []resource.Notice `json:"notices"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Notices, 1)
	assert.Equal(t, "Category added successfully!", body.Notices[0].Description)

	// The cached list was refetched after the create.
	assert.Equal(t, 2, backend.Count(http.MethodGet, "/categories"))
}

func TestInvalidFormNeverReachesBackend(t *testing.T) {
	backend := resourcetest.NewBackend()
	router := newTestRouter(t, backend)

	rec := router.do(http.MethodPost, "/api/v1/categories", `{"name":"A"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Empty(t, backend.Requests())
}

func TestUpstreamConflictPassesThrough(t *testing.T) {
	backend := resourcetest.NewBackend()
	backend.JSON(http.MethodPost, "/suppliers", http.StatusConflict, map[string]any{"error": "Supplier already exists"})
	router := newTestRouter(t, backend)

	rec := router.do(http.MethodPost, "/api/v1/suppliers", `{"name":"Acme"}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	var body types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "409: Supplier already exists", body.Error.Message)
}

func TestUnknownRouteIsJSONNotFound(t *testing.T) {
	router := newTestRouter(t, resourcetest.NewBackend())

	rec := router.do(http.MethodGet, "/api/v1/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestWrongMethodIsJSONMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, resourcetest.NewBackend())

	rec := router.do(http.MethodPatch, "/api/v1/products", `{}`)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "METHOD_NOT_ALLOWED", body.Error.Code)
	assert.Equal(t, "method not allowed", body.Error.Message)
}

func TestMetricsEndpointExposesRequestCounter(t *testing.T) {
	router := newTestRouter(t, resourcetest.NewBackend())
	router.do(http.MethodGet, "/health/live", "")

	rec := router.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `console_http_requests_total{method="GET",route="/health/live",status="200"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, resourcetest.NewBackend())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/products", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
