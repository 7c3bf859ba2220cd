package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/utafrali/ProductSearchGo/internal/domain"
	"github.com/utafrali/ProductSearchGo/internal/engine"
)

// Index adds or updates a single product document.
func (e *Engine) Index(ctx context.Context, product *domain.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("elasticsearch index: marshal product: %w", err)
	}

	res, err := e.client.Index(
		e.indexName,
		bytes.NewReader(data),
		e.client.Index.WithDocumentID(product.ID),
		e.client.Index.WithRefresh("true"),
		e.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return e.decodeError(res.Body, res.Status(), "elasticsearch index")
	}

	e.logger.Debug("indexed product", "id", product.ID, "name", product.Name)
	return nil
}

// Delete removes a product document by its ID. A 404 is ignored since the
// document might not exist.
func (e *Engine) Delete(ctx context.Context, id string) error {
	res, err := e.client.Delete(
		e.indexName,
		id,
		e.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch delete: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() && res.StatusCode != 404 {
		return e.decodeError(res.Body, res.Status(), "elasticsearch delete")
	}

	e.logger.Debug("deleted product", "id", id)
	return nil
}

// BulkIndex writes a batch of products via the bulk NDJSON API, waiting for
// the refresh so the batch is searchable when the call returns. Per-document
// failures come back as BulkErrors; the rest of the batch stands.
func (e *Engine) BulkIndex(ctx context.Context, products []domain.Product) ([]engine.BulkError, error) {
	if len(products) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer

	for i := range products {
		// Action line.
		action := map[string]any{
			"index": map[string]any{
				"_index": e.indexName,
				"_id":    products[i].ID,
			},
		}
		if err := json.NewEncoder(&buf).Encode(action); err != nil {
			return nil, fmt.Errorf("elasticsearch bulk index: encode action: %w", err)
		}

		// Document line.
		if err := json.NewEncoder(&buf).Encode(products[i]); err != nil {
			return nil, fmt.Errorf("elasticsearch bulk index: encode document: %w", err)
		}
	}

	res, err := e.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		e.client.Bulk.WithIndex(e.indexName),
		e.client.Bulk.WithRefresh("wait_for"),
		e.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch bulk index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, e.decodeError(res.Body, res.Status(), "elasticsearch bulk index")
	}

	var bulkResp esBulkResponse
	if err := json.NewDecoder(res.Body).Decode(&bulkResp); err != nil {
		return nil, fmt.Errorf("elasticsearch bulk index: decode response: %w", err)
	}

	var bulkErrs []engine.BulkError
	if bulkResp.Errors {
		for _, item := range bulkResp.Items {
			if item.Index.Error.Type == "" {
				continue
			}
			bulkErrs = append(bulkErrs, engine.BulkError{
				ID:     item.Index.ID,
				Status: item.Index.Status,
				Reason: fmt.Sprintf("%s: %s", item.Index.Error.Type, item.Index.Error.Reason),
			})
		}
	}

	e.logger.Info("bulk indexed products",
		slog.Int("count", len(products)),
		slog.Int("failed", len(bulkErrs)),
	)
	return bulkErrs, nil
}

// ResetIndex destroys and recreates the products index with the fixed
// mapping, dropping all documents. A 404 on delete means the index was
// already absent.
func (e *Engine) ResetIndex(ctx context.Context) error {
	res, err := e.client.Indices.Delete(
		[]string{e.indexName},
		e.client.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch delete index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() && res.StatusCode != 404 {
		return e.decodeError(res.Body, res.Status(), "elasticsearch delete index")
	}

	if err := e.createIndex(); err != nil {
		return err
	}

	e.logger.Info("elasticsearch index reset", "index", e.indexName)
	return nil
}
