package elasticsearch

// DefaultIndexName is the default Elasticsearch index used for product documents.
const DefaultIndexName = "products"

// buildIndexMapping returns the full JSON settings and mapping for the
// products index. The name field carries a custom edge-n-gram analyzer
// (min gram 2, max gram 20) for autocomplete, with a keyword subfield for
// sorting. Field names here are the contract the query builder relies on.
func buildIndexMapping() string {
	return `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0,
    "analysis": {
      "analyzer": {
        "autocomplete_analyzer": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": ["lowercase", "autocomplete_filter"]
        },
        "autocomplete_search_analyzer": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": ["lowercase"]
        }
      },
      "filter": {
        "autocomplete_filter": {
          "type": "edge_ngram",
          "min_gram": 2,
          "max_gram": 20
        }
      }
    }
  },
  "mappings": {
    "properties": {
      "id":             { "type": "keyword" },
      "name":           { "type": "text", "analyzer": "autocomplete_analyzer", "search_analyzer": "autocomplete_search_analyzer", "fields": { "keyword": { "type": "keyword", "ignore_above": 256 } } },
      "description":    { "type": "text", "analyzer": "standard" },
      "brand":          { "type": "keyword", "fields": { "text": { "type": "text" } } },
      "category":       { "type": "keyword" },
      "subcategory":    { "type": "keyword" },
      "price":          { "type": "float" },
      "originalPrice":  { "type": "float" },
      "discount":       { "type": "integer" },
      "rating":         { "type": "float" },
      "reviewCount":    { "type": "integer" },
      "imageUrl":       { "type": "keyword", "index": false },
      "images":         { "type": "keyword", "index": false },
      "inStock":        { "type": "boolean" },
      "stockCount":     { "type": "integer" },
      "tags":           { "type": "keyword" },
      "features":       { "type": "text" },
      "specifications": { "type": "object", "enabled": false },
      "color":          { "type": "keyword" },
      "size":           { "type": "keyword" },
      "createdAt":      { "type": "date" },
      "updatedAt":      { "type": "date" }
    }
  }
}`
}
