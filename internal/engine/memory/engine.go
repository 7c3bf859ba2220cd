// Package memory implements the SearchEngine interface with simple in-memory
// matching. It backs unit tests and local development without a running
// Elasticsearch cluster.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/utafrali/ProductSearchGo/internal/domain"
	"github.com/utafrali/ProductSearchGo/internal/engine"
)

// Engine is an in-memory implementation of the SearchEngine interface. Text
// matching is case-insensitive substring search over name, description,
// brand, and tags. Thread-safe via sync.RWMutex.
type Engine struct {
	mu       sync.RWMutex
	products map[string]domain.Product
	order    []string
}

// New creates a new in-memory search engine.
func New() *Engine {
	return &Engine{
		products: make(map[string]domain.Product),
	}
}

// Index adds or updates a single product.
func (e *Engine) Index(_ context.Context, product *domain.Product) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.upsert(*product)
	return nil
}

// Delete removes a product by its ID. Absent IDs are ignored.
func (e *Engine) Delete(_ context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.products[id]; !ok {
		return nil
	}
	delete(e.products, id)
	for i, oid := range e.order {
		if oid == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return nil
}

// BulkIndex adds or updates multiple products. The in-memory engine has no
// per-document failure mode.
func (e *Engine) BulkIndex(_ context.Context, products []domain.Product) ([]engine.BulkError, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range products {
		e.upsert(products[i])
	}
	return nil, nil
}

// ResetIndex drops all documents.
func (e *Engine) ResetIndex(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.products = make(map[string]domain.Product)
	e.order = nil
	return nil
}

// Ping always succeeds.
func (e *Engine) Ping(_ context.Context) error {
	return nil
}

// Health reports a static engine identity.
func (e *Engine) Health(_ context.Context) (*domain.EngineInfo, error) {
	return &domain.EngineInfo{
		Name:        "memory",
		Version:     "0",
		ClusterName: "in-memory",
	}, nil
}

// upsert inserts or replaces a product, keeping insertion order stable.
// Callers must hold the write lock.
func (e *Engine) upsert(p domain.Product) {
	if _, ok := e.products[p.ID]; !ok {
		e.order = append(e.order, p.ID)
	}
	e.products[p.ID] = p
}

// Search executes a search request against the in-memory index, computing
// facet aggregations over the matched set.
func (e *Engine) Search(_ context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
	start := time.Now()

	r := *req
	r.Normalize()

	e.mu.RLock()
	defer e.mu.RUnlock()

	textLower := strings.ToLower(strings.TrimSpace(r.Query))

	matched := make([]domain.Product, 0)
	for _, id := range e.order {
		p := e.products[id]
		if !matchesText(p, textLower) {
			continue
		}
		if !matchesFilters(p, r.Filters) {
			continue
		}
		matched = append(matched, p)
	}

	sortProducts(matched, r.Sort)

	total := len(matched)
	offset := r.Offset()
	if offset > total {
		offset = total
	}
	end := offset + r.PageSize
	if end > total {
		end = total
	}

	hits := make([]domain.ProductHit, 0, end-offset)
	for _, p := range matched[offset:end] {
		hits = append(hits, domain.ProductHit{Product: p})
	}

	return &domain.SearchResponse{
		Hits:         hits,
		Total:        total,
		Took:         time.Since(start).Milliseconds(),
		Aggregations: aggregate(matched),
	}, nil
}

// Autocomplete returns up to limit products whose name or brand starts with
// or contains the given text, case-insensitively.
func (e *Engine) Autocomplete(_ context.Context, text string, limit int) ([]domain.Product, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	textLower := strings.ToLower(text)

	out := make([]domain.Product, 0, limit)
	for _, id := range e.order {
		p := e.products[id]
		if !strings.Contains(strings.ToLower(p.Name), textLower) &&
			!strings.HasPrefix(strings.ToLower(p.Brand), textLower) {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// AvailableFilters returns the distinct facet values and global price bounds
// over the whole corpus.
func (e *Engine) AvailableFilters(_ context.Context) (*domain.AvailableFilters, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	all := make([]domain.Product, 0, len(e.order))
	for _, id := range e.order {
		all = append(all, e.products[id])
	}

	aggs := aggregate(all)

	tagSet := make(map[string]int)
	for _, p := range all {
		for _, tag := range p.Tags {
			tagSet[tag]++
		}
	}

	return &domain.AvailableFilters{
		Categories: bucketKeys(aggs.Categories),
		Brands:     bucketKeys(aggs.Brands),
		Tags:       bucketKeys(countBuckets(tagSet)),
		PriceRange: aggs.PriceRange,
	}, nil
}

// matchesText reports whether the product matches the free-text query over
// the same field family the real engine searches. An empty query matches
// everything.
func matchesText(p domain.Product, textLower string) bool {
	if textLower == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Name), textLower) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), textLower) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Brand), textLower) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), textLower) {
			return true
		}
	}
	return false
}

// matchesFilters applies every set filter independently; all must pass.
// Price and rating bounds are inclusive.
func matchesFilters(p domain.Product, f *domain.SearchFilters) bool {
	if f == nil {
		return true
	}

	if len(f.Categories) > 0 && !contains(f.Categories, p.Category) {
		return false
	}
	if len(f.Brands) > 0 && !contains(f.Brands, p.Brand) {
		return false
	}
	if f.PriceRange != nil {
		if f.PriceRange.Min != nil && p.Price < *f.PriceRange.Min {
			return false
		}
		if f.PriceRange.Max != nil && p.Price > *f.PriceRange.Max {
			return false
		}
	}
	if f.Rating != nil && p.Rating < *f.Rating {
		return false
	}
	if f.InStock && !p.InStock {
		return false
	}
	if len(f.Tags) > 0 {
		found := false
		for _, want := range f.Tags {
			for _, tag := range p.Tags {
				if tag == want {
					found = true
					break
				}
			}
		}
		if !found {
			return false
		}
	}

	return true
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

// sortProducts orders the matched set. Relevance keeps insertion order;
// rating sorts break ties on review count descending.
func sortProducts(products []domain.Product, s *domain.SearchSort) {
	if s == nil || s.Field == domain.SortFieldScore {
		return
	}

	asc := s.Order != domain.SortDesc

	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		switch s.Field {
		case domain.SortFieldPrice:
			if asc {
				return a.Price < b.Price
			}
			return a.Price > b.Price
		case domain.SortFieldRating:
			if a.Rating != b.Rating {
				if asc {
					return a.Rating < b.Rating
				}
				return a.Rating > b.Rating
			}
			return a.ReviewCount > b.ReviewCount
		case domain.SortFieldName:
			if asc {
				return a.Name < b.Name
			}
			return a.Name > b.Name
		case domain.SortFieldCreatedAt:
			if asc {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.CreatedAt.After(b.CreatedAt)
		default:
			return false
		}
	})
}

// aggregate computes the facet summary over a matched set: category and
// brand counts in descending count order, price bounds, and average rating.
func aggregate(products []domain.Product) domain.SearchAggregations {
	categories := make(map[string]int)
	brands := make(map[string]int)

	aggs := domain.SearchAggregations{
		Categories: []domain.Bucket{},
		Brands:     []domain.Bucket{},
	}

	var ratingSum float64
	for i, p := range products {
		categories[p.Category]++
		brands[p.Brand]++
		ratingSum += p.Rating

		if i == 0 || p.Price < aggs.PriceRange.Min {
			aggs.PriceRange.Min = p.Price
		}
		if i == 0 || p.Price > aggs.PriceRange.Max {
			aggs.PriceRange.Max = p.Price
		}
	}

	aggs.Categories = countBuckets(categories)
	aggs.Brands = countBuckets(brands)
	if len(products) > 0 {
		aggs.AvgRating = ratingSum / float64(len(products))
	}
	return aggs
}

// countBuckets turns a value→count map into buckets ordered by descending
// count, with ties broken by key for determinism.
func countBuckets(counts map[string]int) []domain.Bucket {
	buckets := make([]domain.Bucket, 0, len(counts))
	for key, count := range counts {
		buckets = append(buckets, domain.Bucket{Key: key, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}

func bucketKeys(buckets []domain.Bucket) []string {
	keys := make([]string, 0, len(buckets))
	for _, b := range buckets {
		keys = append(keys, b.Key)
	}
	return keys
}
