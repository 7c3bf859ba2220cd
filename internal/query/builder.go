package query

import (
	"strings"

	"github.com/utafrali/ProductSearchGo/internal/domain"
)

// Index field names the builders target. They must stay in lockstep with the
// mapping the seed operation creates.
const (
	FieldName        = "name"
	FieldNameKeyword = "name.keyword"
	FieldDescription = "description"
	FieldBrand       = "brand"
	FieldCategory    = "category"
	FieldPrice       = "price"
	FieldRating      = "rating"
	FieldReviewCount = "reviewCount"
	FieldInStock     = "inStock"
	FieldTags        = "tags"
	FieldCreatedAt   = "createdAt"
)

// AutocompleteSearchAnalyzer tokenizes autocomplete input without the
// edge-n-gram expansion applied at index time.
const AutocompleteSearchAnalyzer = "autocomplete_search_analyzer"

// Aggregation names shared between builders and the response normalizer.
const (
	AggCategories = "categories"
	AggBrands     = "brands"
	AggTags       = "tags"
	AggPriceStats = "price_stats"
	AggAvgRating  = "avg_rating"
)

// Facet bucket limits.
const (
	categoryAggSize     = 50
	brandAggSize        = 50
	brandCatalogAggSize = 100
	tagAggSize          = 50
)

// Search assembles the boolean query for a free-text search with optional
// filters. The text clause scores in must context; filters are filter-context
// only, so they gate eligibility without touching relevance. With neither
// text nor filters the query matches everything.
func Search(text string, filters *domain.SearchFilters) Clause {
	var must []Clause
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		must = append(must, MultiMatch{
			Query:        trimmed,
			Fields:       []string{FieldName + "^3", FieldDescription, FieldBrand + "^2", FieldTags},
			Fuzziness:    "AUTO",
			PrefixLength: 2,
			Operator:     "or",
		})
	}

	filter := Filters(filters)

	if len(must) == 0 && len(filter) == 0 {
		return MatchAll{}
	}
	return Bool{Must: must, Filter: filter}
}

// Filters translates facet selections into independent filter-context
// clauses. Each selection composes without affecting the others.
func Filters(f *domain.SearchFilters) []Clause {
	if f == nil {
		return nil
	}

	var clauses []Clause

	if len(f.Categories) > 0 {
		clauses = append(clauses, Terms{Field: FieldCategory, Values: f.Categories})
	}
	if len(f.Brands) > 0 {
		clauses = append(clauses, Terms{Field: FieldBrand, Values: f.Brands})
	}
	if f.PriceRange != nil && (f.PriceRange.Min != nil || f.PriceRange.Max != nil) {
		clauses = append(clauses, Range{Field: FieldPrice, GTE: f.PriceRange.Min, LTE: f.PriceRange.Max})
	}
	if f.Rating != nil {
		clauses = append(clauses, Range{Field: FieldRating, GTE: f.Rating})
	}
	if f.InStock {
		clauses = append(clauses, Term{Field: FieldInStock, Value: true})
	}
	if len(f.Tags) > 0 {
		clauses = append(clauses, Terms{Field: FieldTags, Values: f.Tags})
	}

	return clauses
}

// SearchAggs is the facet summary computed alongside every search. Buckets
// reflect the current text query; a field's own active filter is not excluded
// from its own aggregation.
func SearchAggs() map[string]Agg {
	return map[string]Agg{
		AggCategories: TermsAgg{Field: FieldCategory, Size: categoryAggSize},
		AggBrands:     TermsAgg{Field: FieldBrand, Size: brandAggSize},
		AggPriceStats: StatsAgg{Field: FieldPrice},
		AggAvgRating:  AvgAgg{Field: FieldRating},
	}
}

// CatalogAggs is the aggregation-only request behind the filter catalog: the
// full unconstrained facet value sets plus global price bounds.
func CatalogAggs() map[string]Agg {
	return map[string]Agg{
		AggCategories: TermsAgg{Field: FieldCategory, Size: categoryAggSize},
		AggBrands:     TermsAgg{Field: FieldBrand, Size: brandCatalogAggSize},
		AggTags:       TermsAgg{Field: FieldTags, Size: tagAggSize},
		AggPriceStats: StatsAgg{Field: FieldPrice},
	}
}

// Highlight marking configuration.
const (
	HighlightPreTag  = "<mark>"
	HighlightPostTag = "</mark>"

	descriptionFragmentSize = 150
)

// Highlight returns the highlight specification: the full name field as a
// single fragment, and the best 150-character description fragment, both
// wrapped in <mark> tags.
func Highlight() map[string]any {
	return map[string]any{
		"fields": map[string]any{
			FieldName: map[string]any{
				"pre_tags":            []string{HighlightPreTag},
				"post_tags":           []string{HighlightPostTag},
				"number_of_fragments": 0,
			},
			FieldDescription: map[string]any{
				"pre_tags":            []string{HighlightPreTag},
				"post_tags":           []string{HighlightPostTag},
				"fragment_size":       descriptionFragmentSize,
				"number_of_fragments": 1,
			},
		},
	}
}

// Sort translates a sort directive into engine sort clauses. Relevance
// (descending score) is the default. Rating sorts break ties on review count
// descending. Name sorts on the keyword subfield; text fields are not
// sortable.
func Sort(s *domain.SearchSort) []SortClause {
	if s == nil || s.Field == domain.SortFieldScore {
		return []SortClause{{Field: domain.SortFieldScore, Order: domain.SortDesc}}
	}

	field := s.Field
	if field == domain.SortFieldName {
		field = FieldNameKeyword
	}

	primary := SortClause{Field: field, Order: s.Order}
	if s.Field == domain.SortFieldRating {
		return []SortClause{primary, {Field: FieldReviewCount, Order: domain.SortDesc}}
	}
	return []SortClause{primary}
}

// Autocomplete weights for the three suggestion clauses.
const (
	autocompleteNameBoost   = 3
	autocompletePrefixBoost = 2
	autocompleteBrandBoost  = 1.5
)

// Autocomplete assembles the weighted OR query behind suggestions: an
// edge-n-gram match on name, a phrase-prefix match on name, and a match on
// brand, in descending weight order.
func Autocomplete(text string) Clause {
	return Bool{
		Should: []Clause{
			Match{Field: FieldName, Query: text, Analyzer: AutocompleteSearchAnalyzer, Boost: autocompleteNameBoost},
			MatchPhrasePrefix{Field: FieldName, Query: text, Boost: autocompletePrefixBoost},
			Match{Field: FieldBrand, Query: text, Boost: autocompleteBrandBoost},
		},
	}
}

// AutocompleteSourceFields is the lightweight projection fetched for the
// suggestion preview list.
func AutocompleteSourceFields() []string {
	return []string{"id", "name", "price", "imageUrl", "rating", "brand"}
}
