package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/utafrali/ProductSearchGo/pkg/errors"

	"github.com/utafrali/ProductSearchGo/internal/cache"
	"github.com/utafrali/ProductSearchGo/internal/domain"
	"github.com/utafrali/ProductSearchGo/internal/engine"
	"github.com/utafrali/ProductSearchGo/internal/seed"
)

// Autocomplete limits: inputs shorter than minAutocompleteChars never reach
// the engine, and at most maxSuggestions names and previews come back.
const (
	minAutocompleteChars = 2
	maxSuggestions       = 5
)

// ResponseCache is the subset of the Redis cache the service uses. A nil
// cache disables caching entirely.
type ResponseCache interface {
	SearchKey(req *domain.SearchRequest) string
	GetSearch(ctx context.Context, key string) (*domain.SearchResponse, error)
	SetSearch(ctx context.Context, key string, resp *domain.SearchResponse) error
	GetFilters(ctx context.Context) (*domain.AvailableFilters, error)
	SetFilters(ctx context.Context, filters *domain.AvailableFilters) error
	Invalidate(ctx context.Context) error
}

// SearchService implements the gateway business logic over a SearchEngine.
type SearchService struct {
	engine    engine.SearchEngine
	cache     ResponseCache
	seedCount int
	logger    *slog.Logger
}

// NewSearchService creates a new search service. cache may be nil.
func NewSearchService(eng engine.SearchEngine, cache ResponseCache, seedCount int, logger *slog.Logger) *SearchService {
	if seedCount <= 0 {
		seedCount = seed.DefaultCount
	}
	return &SearchService{
		engine:    eng,
		cache:     cache,
		seedCount: seedCount,
		logger:    logger,
	}
}

// Search runs a full search request: pagination defaults applied, sort
// validated, result served from cache when possible.
func (s *SearchService) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
	req.Normalize()

	if req.Sort != nil && !domain.IsValidSortField(req.Sort.Field) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown sort field %q", req.Sort.Field))
	}

	var cacheKey string
	if s.cache != nil {
		cacheKey = s.cache.SearchKey(req)
		if resp, err := s.cache.GetSearch(ctx, cacheKey); err == nil {
			s.logger.DebugContext(ctx, "search served from cache", slog.String("key", cacheKey))
			return resp, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			s.logger.WarnContext(ctx, "search cache read failed", slog.String("error", err.Error()))
		}
	}

	resp, err := s.engine.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetSearch(ctx, cacheKey, resp); err != nil {
			s.logger.WarnContext(ctx, "search cache write failed", slog.String("error", err.Error()))
		}
	}

	s.logger.DebugContext(ctx, "search executed",
		slog.String("query", req.Query),
		slog.Int("total", resp.Total),
		slog.Int64("took_ms", resp.Took),
	)

	return resp, nil
}

// Autocomplete returns name suggestions and a product preview list for a
// text fragment. Inputs shorter than two characters return empty lists
// without contacting the engine.
func (s *SearchService) Autocomplete(ctx context.Context, text string) (*domain.AutocompleteResponse, error) {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minAutocompleteChars {
		return &domain.AutocompleteResponse{
			Suggestions: []string{},
			Products:    []domain.Product{},
		}, nil
	}

	products, err := s.engine.Autocomplete(ctx, trimmed, maxSuggestions)
	if err != nil {
		return nil, fmt.Errorf("autocomplete: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}

	// Deduplicate names in first-seen order, exact case-sensitive match.
	seen := make(map[string]struct{}, len(products))
	suggestions := make([]string, 0, maxSuggestions)
	for _, p := range products {
		if _, ok := seen[p.Name]; ok {
			continue
		}
		seen[p.Name] = struct{}{}
		suggestions = append(suggestions, p.Name)
		if len(suggestions) == maxSuggestions {
			break
		}
	}

	return &domain.AutocompleteResponse{
		Suggestions: suggestions,
		Products:    products,
	}, nil
}

// AvailableFilters returns the unconstrained facet catalog, cached when a
// cache is configured.
func (s *SearchService) AvailableFilters(ctx context.Context) (*domain.AvailableFilters, error) {
	if s.cache != nil {
		if filters, err := s.cache.GetFilters(ctx); err == nil {
			s.logger.DebugContext(ctx, "filter catalog served from cache")
			return filters, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			s.logger.WarnContext(ctx, "filter cache read failed", slog.String("error", err.Error()))
		}
	}

	filters, err := s.engine.AvailableFilters(ctx)
	if err != nil {
		return nil, fmt.Errorf("available filters: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetFilters(ctx, filters); err != nil {
			s.logger.WarnContext(ctx, "filter cache write failed", slog.String("error", err.Error()))
		}
	}

	return filters, nil
}

// IndexProduct validates and indexes a single product. Used by the event
// consumer to keep the catalog in sync.
func (s *SearchService) IndexProduct(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	if err := s.engine.Index(ctx, product); err != nil {
		return fmt.Errorf("index product: %w", err)
	}

	s.logger.InfoContext(ctx, "product indexed",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name),
	)
	return nil
}

// DeleteProduct removes a product from the index.
func (s *SearchService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("delete product: id is required")
	}

	if err := s.engine.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.logger.InfoContext(ctx, "product deleted from index",
		slog.String("product_id", id),
	)
	return nil
}

// SeedResult reports the outcome of a seed run. Per-document bulk failures
// are collected but do not fail the run.
type SeedResult struct {
	Count  int
	Errors []engine.BulkError
}

// Seed destroys and recreates the index, then bulk-loads a freshly generated
// synthetic catalog, waiting until it is searchable. Any cached responses are
// invalidated afterwards.
func (s *SearchService) Seed(ctx context.Context) (*SeedResult, error) {
	if err := s.engine.ResetIndex(ctx); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	products := seed.NewGenerator(time.Now().UnixNano()).Products(s.seedCount)

	bulkErrs, err := s.engine.BulkIndex(ctx, products)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	for _, be := range bulkErrs {
		s.logger.ErrorContext(ctx, "seed document rejected",
			slog.String("id", be.ID),
			slog.Int("status", be.Status),
			slog.String("reason", be.Reason),
		)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.WarnContext(ctx, "cache invalidation failed", slog.String("error", err.Error()))
		}
	}

	s.logger.InfoContext(ctx, "seed completed",
		slog.Int("count", len(products)),
		slog.Int("failed", len(bulkErrs)),
	)

	return &SeedResult{Count: len(products), Errors: bulkErrs}, nil
}

// Health reports the engine's identity, or an error when it is unreachable
// or unhealthy.
func (s *SearchService) Health(ctx context.Context) (*domain.EngineInfo, error) {
	info, err := s.engine.Health(ctx)
	if err != nil {
		return nil, fmt.Errorf("health: %w", err)
	}
	return info, nil
}
