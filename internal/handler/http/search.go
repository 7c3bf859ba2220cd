package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/utafrali/ProductSearchGo/internal/domain"
	"github.com/utafrali/ProductSearchGo/internal/service"
	"github.com/utafrali/ProductSearchGo/pkg/httputil"
	"github.com/utafrali/ProductSearchGo/pkg/validator"
)

// SearchHandler handles HTTP requests for search endpoints.
type SearchHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewSearchHandler creates a new search HTTP handler.
func NewSearchHandler(svc *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// PriceRangeRequest bounds a price filter. Both bounds are inclusive and
// optional.
type PriceRangeRequest struct {
	Min *float64 `json:"min" validate:"omitempty,gte=0"`
	Max *float64 `json:"max" validate:"omitempty,gte=0"`
}

// FiltersRequest narrows a search. Every field is optional and filters
// combine with AND semantics.
type FiltersRequest struct {
	Categories []string           `json:"categories" validate:"omitempty,dive,min=1"`
	Brands     []string           `json:"brands" validate:"omitempty,dive,min=1"`
	PriceRange *PriceRangeRequest `json:"priceRange"`
	Rating     *float64           `json:"rating" validate:"omitempty,gte=0,lte=5"`
	InStock    bool               `json:"inStock"`
	Tags       []string           `json:"tags" validate:"omitempty,dive,min=1"`
}

// SortRequest selects the result ordering.
type SortRequest struct {
	Field string `json:"field" validate:"required,oneof=price rating name createdAt _score"`
	Order string `json:"order" validate:"required,oneof=asc desc"`
}

// SearchRequest is the JSON request body for POST /api/v1/search.
type SearchRequest struct {
	Query    string          `json:"query"`
	Filters  *FiltersRequest `json:"filters"`
	Sort     *SortRequest    `json:"sort"`
	Page     int             `json:"page" validate:"omitempty,gte=1"`
	PageSize int             `json:"pageSize" validate:"omitempty,gte=1,lte=100"`
}

func (r *SearchRequest) toDomain() *domain.SearchRequest {
	req := &domain.SearchRequest{
		Query:    r.Query,
		Page:     r.Page,
		PageSize: r.PageSize,
	}
	if r.Filters != nil {
		req.Filters = &domain.SearchFilters{
			Categories: r.Filters.Categories,
			Brands:     r.Filters.Brands,
			Rating:     r.Filters.Rating,
			InStock:    r.Filters.InStock,
			Tags:       r.Filters.Tags,
		}
		if r.Filters.PriceRange != nil {
			req.Filters.PriceRange = &domain.PriceRange{
				Min: r.Filters.PriceRange.Min,
				Max: r.Filters.PriceRange.Max,
			}
		}
	}
	if r.Sort != nil {
		req.Sort = &domain.SearchSort{
			Field: r.Sort.Field,
			Order: r.Sort.Order,
		}
	}
	return req
}

// --- Handlers ---

// Search handles POST /api/v1/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if pr := req.Filters; pr != nil && pr.PriceRange != nil &&
		pr.PriceRange.Min != nil && pr.PriceRange.Max != nil &&
		*pr.PriceRange.Min > *pr.PriceRange.Max {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "priceRange.min must not exceed priceRange.max"},
		})
		return
	}

	result, err := h.service.Search(r.Context(), req.toDomain())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Suggest handles GET /api/v1/search/suggest?q=
func (h *SearchHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Autocomplete(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Filters handles GET /api/v1/search/filters
func (h *SearchHandler) Filters(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.AvailableFilters(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// HealthStatus is the response body for GET /api/v1/health.
type HealthStatus struct {
	Status string             `json:"status"`
	Info   *domain.EngineInfo `json:"info,omitempty"`
}

// Health handles GET /api/v1/health
func (h *SearchHandler) Health(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Health(r.Context())
	if err != nil {
		h.logger.WarnContext(r.Context(), "engine health check failed", slog.String("error", err.Error()))
		httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.Response{
			Data: HealthStatus{Status: "unhealthy"},
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: HealthStatus{Status: "healthy", Info: info},
	})
}

// SeedResult is the response body for POST /api/v1/seed.
type SeedResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// Seed handles POST /api/v1/seed
func (h *SearchHandler) Seed(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Seed(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	msg := fmt.Sprintf("indexed %d products", result.Count)
	if failed := len(result.Errors); failed > 0 {
		msg = fmt.Sprintf("indexed %d products, %d rejected", result.Count-failed, failed)
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: SeedResult{Success: true, Message: msg, Count: result.Count - len(result.Errors)},
	})
}
