package elasticsearch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ProductSearchGo/internal/domain"
)

func TestTotalHits_BareInteger(t *testing.T) {
	var total TotalHits
	require.NoError(t, json.Unmarshal([]byte(`42`), &total))
	assert.Equal(t, 42, total.Value)
}

func TestTotalHits_ValueRelationObject(t *testing.T) {
	var total TotalHits
	require.NoError(t, json.Unmarshal([]byte(`{"value":42,"relation":"eq"}`), &total))
	assert.Equal(t, 42, total.Value)

	// The relation is discarded even when it is not "eq".
	require.NoError(t, json.Unmarshal([]byte(`{"value":10000,"relation":"gte"}`), &total))
	assert.Equal(t, 10000, total.Value)
}

func TestTotalHits_RejectsUnexpectedShape(t *testing.T) {
	var total TotalHits
	assert.Error(t, json.Unmarshal([]byte(`"forty-two"`), &total))
}

func TestNormalizeSearchResponse(t *testing.T) {
	raw := `{
		"took": 7,
		"hits": {
			"total": {"value": 2, "relation": "eq"},
			"hits": [
				{
					"_source": {"id": "p1", "name": "Laptop Pro", "price": 999.99},
					"highlight": {"name": ["<mark>Laptop</mark> Pro"]}
				},
				{
					"_source": {"id": "p2", "name": "Laptop Air", "price": 799.0}
				}
			]
		},
		"aggregations": {
			"categories": {"buckets": [
				{"key": "Electronics", "doc_count": 2}
			]},
			"brands": {"buckets": [
				{"key": "TechPro", "doc_count": 1},
				{"key": "NovaTech", "doc_count": 1}
			]},
			"price_stats": {"min": 799.0, "max": 999.99, "avg": 899.495},
			"avg_rating": {"value": 4.4}
		}
	}`

	var decoded esSearchResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))

	resp := normalizeSearchResponse(&decoded)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, int64(7), resp.Took)
	require.Len(t, resp.Hits, 2)

	assert.Equal(t, "p1", resp.Hits[0].ID)
	require.NotNil(t, resp.Hits[0].Highlight)
	assert.Equal(t, []string{"<mark>Laptop</mark> Pro"}, resp.Hits[0].Highlight.Name)
	assert.Nil(t, resp.Hits[1].Highlight)

	assert.Equal(t, []domain.Bucket{{Key: "Electronics", Count: 2}}, resp.Aggregations.Categories)
	assert.Equal(t, []domain.Bucket{{Key: "TechPro", Count: 1}, {Key: "NovaTech", Count: 1}}, resp.Aggregations.Brands)
	assert.InDelta(t, 799.0, resp.Aggregations.PriceRange.Min, 0.001)
	assert.InDelta(t, 999.99, resp.Aggregations.PriceRange.Max, 0.001)
	assert.InDelta(t, 4.4, resp.Aggregations.AvgRating, 0.001)
}

func TestNormalizeSearchResponse_MissingAggregations(t *testing.T) {
	var decoded esSearchResponse
	require.NoError(t, json.Unmarshal([]byte(`{"took":1,"hits":{"total":0,"hits":[]}}`), &decoded))

	resp := normalizeSearchResponse(&decoded)
	assert.Zero(t, resp.Total)
	assert.NotNil(t, resp.Hits)
	assert.Empty(t, resp.Hits)
	assert.NotNil(t, resp.Aggregations.Categories)
	assert.Empty(t, resp.Aggregations.Categories)
	assert.NotNil(t, resp.Aggregations.Brands)
	assert.Empty(t, resp.Aggregations.Brands)
	assert.Zero(t, resp.Aggregations.PriceRange.Min)
	assert.Zero(t, resp.Aggregations.PriceRange.Max)
	assert.Zero(t, resp.Aggregations.AvgRating)
}

func TestNormalizePriceBounds_NullStats(t *testing.T) {
	// An empty index returns null min/max in the stats aggregation.
	var stats esStats
	require.NoError(t, json.Unmarshal([]byte(`{"min":null,"max":null,"avg":null}`), &stats))

	bounds := normalizePriceBounds(&stats)
	assert.Zero(t, bounds.Min)
	assert.Zero(t, bounds.Max)
}

func TestNormalizeAvailableFilters(t *testing.T) {
	raw := `{
		"categories": {"buckets": [
			{"key": "Electronics", "doc_count": 40},
			{"key": "Clothing", "doc_count": 35}
		]},
		"brands": {"buckets": [{"key": "TechPro", "doc_count": 12}]},
		"tags": {"buckets": [{"key": "On Sale", "doc_count": 30}]},
		"price_stats": {"min": 19.99, "max": 1999.99, "avg": 400.0}
	}`

	var aggs esAggs
	require.NoError(t, json.Unmarshal([]byte(raw), &aggs))

	filters := normalizeAvailableFilters(aggs)
	assert.Equal(t, []string{"Electronics", "Clothing"}, filters.Categories)
	assert.Equal(t, []string{"TechPro"}, filters.Brands)
	assert.Equal(t, []string{"On Sale"}, filters.Tags)
	assert.InDelta(t, 19.99, filters.PriceRange.Min, 0.001)
	assert.InDelta(t, 1999.99, filters.PriceRange.Max, 0.001)
}

func TestDecodeBulkResponseErrors(t *testing.T) {
	raw := `{
		"errors": true,
		"items": [
			{"index": {"_id": "p1", "status": 201}},
			{"index": {"_id": "p2", "status": 400, "error": {"type": "mapper_parsing_exception", "reason": "failed to parse field [price]"}}}
		]
	}`

	var decoded esBulkResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))

	assert.True(t, decoded.Errors)
	require.Len(t, decoded.Items, 2)
	assert.Equal(t, 201, decoded.Items[0].Index.Status)
	assert.Equal(t, "p2", decoded.Items[1].Index.ID)
	assert.Equal(t, "failed to parse field [price]", decoded.Items[1].Index.Error.Reason)
}
