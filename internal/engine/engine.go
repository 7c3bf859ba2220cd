package engine

import (
	"context"

	"github.com/utafrali/ProductSearchGo/internal/domain"
)

// BulkError describes a single document that failed during a bulk write.
// Partial failures are reported, not fatal: the rest of the batch stands.
type BulkError struct {
	ID     string `json:"id"`
	Status int    `json:"status"`
	Reason string `json:"reason"`
}

// SearchEngine defines the operations the gateways need from a search
// backend. Implementations may use Elasticsearch or in-memory storage.
type SearchEngine interface {
	// Search executes a full search request and returns the normalized
	// response including facet aggregations.
	Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error)

	// Autocomplete returns up to limit lightweight product previews for a
	// prefix/fuzzy suggestion query. Callers are responsible for the
	// short-input short-circuit; the engine always issues the query.
	Autocomplete(ctx context.Context, text string, limit int) ([]domain.Product, error)

	// AvailableFilters returns the unconstrained facet catalog.
	AvailableFilters(ctx context.Context) (*domain.AvailableFilters, error)

	// Index adds or updates a single product document.
	Index(ctx context.Context, product *domain.Product) error

	// Delete removes a product by ID. Deleting an absent document is not an
	// error.
	Delete(ctx context.Context, id string) error

	// BulkIndex writes a batch of products, waiting until the write is
	// visible to searches. Per-document failures are returned alongside a
	// nil error.
	BulkIndex(ctx context.Context, products []domain.Product) ([]BulkError, error)

	// ResetIndex destroys and recreates the backing index with the fixed
	// schema, dropping all documents.
	ResetIndex(ctx context.Context) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Health reports backend identity when the backend is healthy.
	Health(ctx context.Context) (*domain.EngineInfo, error)
}
