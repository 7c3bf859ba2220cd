package elasticsearch

import (
	"encoding/json"
	"fmt"

	"github.com/utafrali/ProductSearchGo/internal/domain"
)

// TotalHits normalizes the two total-count shapes Elasticsearch may return: a
// bare integer (older wire format) or a {value, relation} object. The
// relation ("eq", "gte") is discarded; track_total_hits keeps counts exact.
type TotalHits struct {
	Value int
}

func (t *TotalHits) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		t.Value = n
		return nil
	}

	var obj struct {
		Value    int    `json:"value"`
		Relation string `json:"relation"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("total hits: unexpected shape: %w", err)
	}
	t.Value = obj.Value
	return nil
}

// esHit is a single search hit with its stored document and optional
// highlight fragments.
type esHit struct {
	Source    domain.Product    `json:"_source"`
	Highlight *domain.Highlight `json:"highlight"`
}

// esBuckets decodes a terms aggregation result.
type esBuckets struct {
	Buckets []struct {
		Key      string `json:"key"`
		DocCount int    `json:"doc_count"`
	} `json:"buckets"`
}

// esStats decodes a stats aggregation result. Values are pointers because an
// empty index yields nulls.
type esStats struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
	Avg *float64 `json:"avg"`
}

// esValue decodes a single-value metric aggregation result.
type esValue struct {
	Value *float64 `json:"value"`
}

// esAggs holds every aggregation this service ever requests; absent members
// stay nil and normalize to empty slices or zero stats.
type esAggs struct {
	Categories *esBuckets `json:"categories"`
	Brands     *esBuckets `json:"brands"`
	Tags       *esBuckets `json:"tags"`
	PriceStats *esStats   `json:"price_stats"`
	AvgRating  *esValue   `json:"avg_rating"`
}

// esSearchResponse is the structure used to decode Elasticsearch search responses.
type esSearchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Total TotalHits `json:"total"`
		Hits  []esHit   `json:"hits"`
	} `json:"hits"`
	Aggregations esAggs `json:"aggregations"`
}

// esErrorResponse is used to decode Elasticsearch error responses.
type esErrorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

// esBulkResponse is the structure used to decode Elasticsearch bulk responses.
type esBulkResponse struct {
	Errors bool `json:"errors"`
	Items  []struct {
		Index struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
			Error  struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"index"`
	} `json:"items"`
}

// esInfoResponse decodes the cluster info endpoint.
type esInfoResponse struct {
	Name        string `json:"name"`
	ClusterName string `json:"cluster_name"`
	Version     struct {
		Number string `json:"number"`
	} `json:"version"`
}

// normalizeHits flattens raw hits into products carrying their highlights.
func normalizeHits(hits []esHit) []domain.ProductHit {
	out := make([]domain.ProductHit, 0, len(hits))
	for _, hit := range hits {
		out = append(out, domain.ProductHit{
			Product:   hit.Source,
			Highlight: hit.Highlight,
		})
	}
	return out
}

// normalizeBuckets converts terms buckets to {key, count} pairs in the
// engine's returned order. A missing aggregation becomes an empty slice.
func normalizeBuckets(b *esBuckets) []domain.Bucket {
	if b == nil {
		return []domain.Bucket{}
	}
	out := make([]domain.Bucket, 0, len(b.Buckets))
	for _, bucket := range b.Buckets {
		out = append(out, domain.Bucket{Key: bucket.Key, Count: bucket.DocCount})
	}
	return out
}

// bucketKeys extracts just the facet values from a terms aggregation.
func bucketKeys(b *esBuckets) []string {
	if b == nil {
		return []string{}
	}
	out := make([]string, 0, len(b.Buckets))
	for _, bucket := range b.Buckets {
		out = append(out, bucket.Key)
	}
	return out
}

// normalizePriceBounds reads min/max from a stats aggregation, defaulting to
// zero when the index is empty.
func normalizePriceBounds(s *esStats) domain.PriceBounds {
	bounds := domain.PriceBounds{}
	if s == nil {
		return bounds
	}
	if s.Min != nil {
		bounds.Min = *s.Min
	}
	if s.Max != nil {
		bounds.Max = *s.Max
	}
	return bounds
}

// normalizeAggs shapes the raw aggregation payload into the UI-facing facet
// summary.
func normalizeAggs(aggs esAggs) domain.SearchAggregations {
	out := domain.SearchAggregations{
		Categories: normalizeBuckets(aggs.Categories),
		Brands:     normalizeBuckets(aggs.Brands),
		PriceRange: normalizePriceBounds(aggs.PriceStats),
	}
	if aggs.AvgRating != nil && aggs.AvgRating.Value != nil {
		out.AvgRating = *aggs.AvgRating.Value
	}
	return out
}

// normalizeSearchResponse produces the full UI-facing search response from a
// decoded engine payload.
func normalizeSearchResponse(resp *esSearchResponse) *domain.SearchResponse {
	return &domain.SearchResponse{
		Hits:         normalizeHits(resp.Hits.Hits),
		Total:        resp.Hits.Total.Value,
		Took:         resp.Took,
		Aggregations: normalizeAggs(resp.Aggregations),
	}
}

// normalizeAvailableFilters shapes a catalog aggregation payload into the
// unconstrained facet catalog.
func normalizeAvailableFilters(aggs esAggs) *domain.AvailableFilters {
	return &domain.AvailableFilters{
		Categories: bucketKeys(aggs.Categories),
		Brands:     bucketKeys(aggs.Brands),
		Tags:       bucketKeys(aggs.Tags),
		PriceRange: normalizePriceBounds(aggs.PriceStats),
	}
}
