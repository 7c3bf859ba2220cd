// Package elasticsearch implements the SearchEngine interface against an
// Elasticsearch cluster using the official v8 client.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/utafrali/ProductSearchGo/internal/domain"
	"github.com/utafrali/ProductSearchGo/internal/query"
)

// Config holds the connection settings for the Elasticsearch engine. Either
// Addresses or CloudID+APIKey must be set.
type Config struct {
	Addresses []string
	CloudID   string
	APIKey    string
	Index     string
}

// Engine is an Elasticsearch-backed implementation of the SearchEngine
// interface. The client is created once and reused for the process lifetime;
// construct it in app wiring and pass it to the service layer.
type Engine struct {
	client    *elasticsearch.Client
	indexName string
	logger    *slog.Logger
}

// New creates a new Elasticsearch engine. It ensures the products index
// exists, creating it with the fixed mapping if necessary. If cfg.Index is
// empty, DefaultIndexName is used.
func New(cfg Config, logger *slog.Logger) (*Engine, error) {
	if cfg.Index == "" {
		cfg.Index = DefaultIndexName
	}

	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
		CloudID:   cfg.CloudID,
		APIKey:    cfg.APIKey,
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: failed to create client: %w", err)
	}

	e := &Engine{
		client:    client,
		indexName: cfg.Index,
		logger:    logger,
	}

	if err := e.ensureIndex(); err != nil {
		return nil, fmt.Errorf("elasticsearch: failed to ensure index: %w", err)
	}

	return e, nil
}

// Ping checks whether the Elasticsearch cluster is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	res, err := e.client.Ping(e.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: unexpected status %s", res.Status())
	}
	return nil
}

// Health verifies the cluster is green or yellow and returns its identity.
func (e *Engine) Health(ctx context.Context) (*domain.EngineInfo, error) {
	res, err := e.client.Cluster.Health(e.client.Cluster.Health.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch cluster health: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch cluster health: unexpected status %s", res.Status())
	}

	var health struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(res.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("elasticsearch cluster health: decode response: %w", err)
	}
	if health.Status != "green" && health.Status != "yellow" {
		return nil, fmt.Errorf("elasticsearch cluster is %s", health.Status)
	}

	infoRes, err := e.client.Info(e.client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer func() { _ = infoRes.Body.Close() }()

	if infoRes.IsError() {
		return nil, fmt.Errorf("elasticsearch info: unexpected status %s", infoRes.Status())
	}

	var info esInfoResponse
	if err := json.NewDecoder(infoRes.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("elasticsearch info: decode response: %w", err)
	}

	return &domain.EngineInfo{
		Name:        info.Name,
		Version:     info.Version.Number,
		ClusterName: info.ClusterName,
	}, nil
}

// ensureIndex checks whether the products index exists and creates it if not.
func (e *Engine) ensureIndex() error {
	res, err := e.client.Indices.Exists([]string{e.indexName})
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	// Status 200 means the index exists.
	if res.StatusCode == 200 {
		e.logger.Info("elasticsearch index already exists", "index", e.indexName)
		return nil
	}

	if err := e.createIndex(); err != nil {
		return err
	}

	e.logger.Info("elasticsearch index created", "index", e.indexName)
	return nil
}

// createIndex creates the products index with the fixed mapping.
func (e *Engine) createIndex() error {
	mapping := buildIndexMapping()
	res, err := e.client.Indices.Create(
		e.indexName,
		e.client.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return e.decodeError(res.Body, res.Status(), "create index")
	}
	return nil
}

// Search executes a full search request: boolean query, facet aggregations,
// highlighting, sorting, and pagination in one round trip. Exact totals are
// requested via track_total_hits.
func (e *Engine) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
	body := map[string]any{
		"query":     query.Search(req.Query, req.Filters).Body(),
		"aggs":      query.AggsBody(query.SearchAggs()),
		"highlight": query.Highlight(),
		"sort":      query.SortBodies(query.Sort(req.Sort)),
		"from":      req.Offset(),
		"size":      req.PageSize,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: marshal query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithIndex(e.indexName),
		e.client.Search.WithBody(bytes.NewReader(data)),
		e.client.Search.WithContext(ctx),
		e.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, e.decodeError(res.Body, res.Status(), "elasticsearch search")
	}

	var esResp esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, fmt.Errorf("elasticsearch search: decode response: %w", err)
	}

	return normalizeSearchResponse(&esResp), nil
}

// Autocomplete issues the weighted suggestion query, projecting only the
// fields the preview list needs.
func (e *Engine) Autocomplete(ctx context.Context, text string, limit int) ([]domain.Product, error) {
	body := map[string]any{
		"query":   query.Autocomplete(text).Body(),
		"size":    limit,
		"_source": query.AutocompleteSourceFields(),
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch autocomplete: marshal query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithIndex(e.indexName),
		e.client.Search.WithBody(bytes.NewReader(data)),
		e.client.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch autocomplete: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, e.decodeError(res.Body, res.Status(), "elasticsearch autocomplete")
	}

	var esResp esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, fmt.Errorf("elasticsearch autocomplete: decode response: %w", err)
	}

	products := make([]domain.Product, 0, len(esResp.Hits.Hits))
	for _, hit := range esResp.Hits.Hits {
		products = append(products, hit.Source)
	}
	return products, nil
}

// AvailableFilters issues a zero-hit, aggregation-only query for the full
// facet catalog.
func (e *Engine) AvailableFilters(ctx context.Context) (*domain.AvailableFilters, error) {
	body := map[string]any{
		"size": 0,
		"aggs": query.AggsBody(query.CatalogAggs()),
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch filters: marshal query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithIndex(e.indexName),
		e.client.Search.WithBody(bytes.NewReader(data)),
		e.client.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch filters: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, e.decodeError(res.Body, res.Status(), "elasticsearch filters")
	}

	var esResp esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, fmt.Errorf("elasticsearch filters: decode response: %w", err)
	}

	return normalizeAvailableFilters(esResp.Aggregations), nil
}

// decodeError turns an engine error response into a descriptive error.
func (e *Engine) decodeError(body io.Reader, status, op string) error {
	var errResp esErrorResponse
	if decErr := json.NewDecoder(body).Decode(&errResp); decErr == nil && errResp.Error.Type != "" {
		return fmt.Errorf("%s: %s: %s", op, errResp.Error.Type, errResp.Error.Reason)
	}
	return fmt.Errorf("%s: unexpected status %s", op, status)
}
