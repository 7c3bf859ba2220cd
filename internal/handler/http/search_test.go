package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ProductSearchGo/internal/domain"
	"github.com/utafrali/ProductSearchGo/internal/engine/memory"
	"github.com/utafrali/ProductSearchGo/internal/service"
	"github.com/utafrali/ProductSearchGo/pkg/health"
)

// envelope mirrors the httputil response wrapper for decoding in tests.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "Laptop Pro 15", Brand: "TechPro", Category: "Electronics", Price: 1299.99, Rating: 4.7, ReviewCount: 820, InStock: true, Tags: []string{"Bestseller"}},
		{ID: "p2", Name: "Laptop Air 13", Brand: "TechPro", Category: "Electronics", Price: 899.00, Rating: 4.3, ReviewCount: 415, InStock: true},
		{ID: "p3", Name: "Gaming Laptop X", Brand: "NovaTech", Category: "Electronics", Price: 1799.50, Rating: 4.5, ReviewCount: 230, InStock: false},
		{ID: "p4", Name: "Trail Running Shoes", Brand: "PeakForm", Category: "Sports & Outdoors", Price: 119.95, Rating: 4.4, ReviewCount: 95, InStock: true},
	}
}

func newTestHandler(t *testing.T) *SearchHandler {
	t.Helper()
	eng := memory.New()
	_, err := eng.BulkIndex(context.Background(), testProducts())
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewSearchService(eng, nil, 20, logger)
	return NewSearchHandler(svc, logger)
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	h := newTestHandler(t)
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/search/suggest", h.Suggest)
		r.Get("/search/filters", h.Filters)
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Post("/search", h.Search)
			r.Post("/seed", h.Seed)
		})
	})
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// --- Search ---

func TestSearch_ReturnsMatchingProducts(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/search", `{"query":"laptop"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	require.Nil(t, env.Error)

	var result domain.SearchResponse
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 3, result.Total)
}

func TestSearch_EmptyBodyFiltersOnly(t *testing.T) {
	router := newTestRouter(t)

	body := `{"filters":{"categories":["Electronics"],"inStock":true}}`
	w := doJSON(t, router, http.MethodPost, "/api/v1/search", body)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	var result domain.SearchResponse
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 2, result.Total)
}

func TestSearch_InclusivePriceBounds(t *testing.T) {
	router := newTestRouter(t)

	body := `{"filters":{"priceRange":{"min":899,"max":1299.99}}}`
	w := doJSON(t, router, http.MethodPost, "/api/v1/search", body)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	var result domain.SearchResponse
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 2, result.Total)
}

func TestSearch_MalformedBodyReturns400(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/search", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
}

func TestSearch_InvalidSortFieldReturns400(t *testing.T) {
	router := newTestRouter(t)

	body := `{"sort":{"field":"popularity","order":"desc"}}`
	w := doJSON(t, router, http.MethodPost, "/api/v1/search", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearch_InvertedPriceRangeReturns400(t *testing.T) {
	router := newTestRouter(t)

	body := `{"filters":{"priceRange":{"min":500,"max":100}}}`
	w := doJSON(t, router, http.MethodPost, "/api/v1/search", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_PARAMETER", env.Error.Code)
}

func TestSearch_PageSizeOverLimitReturns400(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/search", `{"pageSize":500}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearch_RejectsNonJSONContentType(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader("query=laptop"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

// --- Suggest ---

func TestSuggest_ReturnsSuggestions(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/search/suggest?q=laptop", "")
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	var result domain.AutocompleteResponse
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.NotEmpty(t, result.Suggestions)
	assert.NotEmpty(t, result.Products)
}

func TestSuggest_ShortQueryReturnsEmptyLists(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/search/suggest?q=a", "")
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	var result domain.AutocompleteResponse
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Empty(t, result.Suggestions)
	assert.Empty(t, result.Products)
}

// --- Filters ---

func TestFilters_ReturnsCatalog(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/search/filters", "")
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	var result domain.AvailableFilters
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.ElementsMatch(t, []string{"Electronics", "Sports & Outdoors"}, result.Categories)
	assert.Contains(t, result.Brands, "TechPro")
	assert.InDelta(t, 119.95, result.PriceRange.Min, 0.001)
	assert.InDelta(t, 1799.50, result.PriceRange.Max, 0.001)
}

// --- Health ---

func TestHealth_ReportsHealthyEngine(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	var status HealthStatus
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.Equal(t, "healthy", status.Status)
	require.NotNil(t, status.Info)
	assert.Equal(t, "memory", status.Info.Name)
}

// --- Seed ---

func TestSeed_PopulatesIndex(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/seed", `{}`)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	var result SeedResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.True(t, result.Success)
	assert.Equal(t, 20, result.Count)

	// The seeded catalog replaces the fixture data.
	w = doJSON(t, router, http.MethodPost, "/api/v1/search", `{"query":"Laptop Pro 15"}`)
	require.Equal(t, http.StatusOK, w.Code)
}

// --- Full router ---

func TestRouter_HealthAndMetricsEndpoints(t *testing.T) {
	eng := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewSearchService(eng, nil, 20, logger)

	healthHandler := health.NewHandler()
	healthHandler.Register("engine", func(ctx context.Context) error {
		return eng.Ping(ctx)
	})

	router := NewRouter(svc, healthHandler, RouterConfig{Environment: "development"}, logger)

	for _, path := range []string{"/health/live", "/health/ready", "/metrics"} {
		w := doJSON(t, router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
