package domain

// Pagination defaults for search requests.
const (
	DefaultPage     = 1
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// Sortable fields. SortFieldScore is the engine's relevance score and the
// default when no sort is given.
const (
	SortFieldPrice     = "price"
	SortFieldRating    = "rating"
	SortFieldName      = "name"
	SortFieldCreatedAt = "createdAt"
	SortFieldScore     = "_score"
)

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// IsValidSortField reports whether the given field is sortable.
func IsValidSortField(field string) bool {
	switch field {
	case SortFieldPrice, SortFieldRating, SortFieldName, SortFieldCreatedAt, SortFieldScore:
		return true
	}
	return false
}

// SearchSort selects a sort field and direction.
type SearchSort struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

// PriceRange is an inclusive price window. A nil bound is unconstrained.
type PriceRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// SearchFilters holds the optional facet selections of a search request.
// Every field is optional; absence means unconstrained. Filters gate
// eligibility only and never contribute to the relevance score.
type SearchFilters struct {
	Categories []string    `json:"categories,omitempty"`
	Brands     []string    `json:"brands,omitempty"`
	PriceRange *PriceRange `json:"priceRange,omitempty"`
	Rating     *float64    `json:"rating,omitempty"`
	InStock    bool        `json:"inStock,omitempty"`
	Tags       []string    `json:"tags,omitempty"`
}

// Empty reports whether no filter is set.
func (f *SearchFilters) Empty() bool {
	if f == nil {
		return true
	}
	return len(f.Categories) == 0 &&
		len(f.Brands) == 0 &&
		f.PriceRange == nil &&
		f.Rating == nil &&
		!f.InStock &&
		len(f.Tags) == 0
}

// SearchRequest holds all parameters of a search call. Page is 1-based.
type SearchRequest struct {
	Query    string         `json:"query"`
	Filters  *SearchFilters `json:"filters,omitempty"`
	Sort     *SearchSort    `json:"sort,omitempty"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

// Normalize applies pagination defaults and caps in place.
func (r *SearchRequest) Normalize() {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.PageSize < 1 {
		r.PageSize = DefaultPageSize
	}
	if r.PageSize > MaxPageSize {
		r.PageSize = MaxPageSize
	}
}

// Offset returns the zero-based document offset for the current page.
func (r *SearchRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// Bucket is a single facet value with its document count.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// PriceBounds is the observed min/max price over a result set.
type PriceBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SearchAggregations is the facet summary recomputed for every search.
type SearchAggregations struct {
	Categories []Bucket    `json:"categories"`
	Brands     []Bucket    `json:"brands"`
	PriceRange PriceBounds `json:"priceRange"`
	AvgRating  float64     `json:"avgRating"`
}

// SearchResponse is the normalized, UI-facing search result.
type SearchResponse struct {
	Hits         []ProductHit       `json:"hits"`
	Total        int                `json:"total"`
	Took         int64              `json:"took"`
	Aggregations SearchAggregations `json:"aggregations"`
}

// AvailableFilters is the unconstrained facet catalog, independent of any
// active query. It pre-populates the filter UI before a search is run.
type AvailableFilters struct {
	Categories []string    `json:"categories"`
	Brands     []string    `json:"brands"`
	Tags       []string    `json:"tags"`
	PriceRange PriceBounds `json:"priceRange"`
}

// AutocompleteResponse holds deduplicated name suggestions plus a small
// product preview list for the suggestion dropdown.
type AutocompleteResponse struct {
	Suggestions []string  `json:"suggestions"`
	Products    []Product `json:"products"`
}

// EngineInfo describes the backing cluster, reported by the health endpoint.
type EngineInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	ClusterName string `json:"clusterName"`
}
