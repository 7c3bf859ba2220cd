package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/ProductSearchGo/internal/domain"
	"github.com/utafrali/ProductSearchGo/internal/service"
	pkgkafka "github.com/utafrali/ProductSearchGo/pkg/kafka"
)

// Product domain event topics consumed by the search indexer.
var (
	TopicProductUpserted = pkgkafka.Topic("product", "upserted")
	TopicProductDeleted  = pkgkafka.Topic("product", "deleted")
)

// ProductDeletedData represents the payload from a product.deleted event.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// Consumer handles Kafka events that keep the search index in sync with the
// product catalog.
type Consumer struct {
	searchService *service.SearchService
	logger        *slog.Logger
}

// NewConsumer creates a new event consumer for the search service.
func NewConsumer(searchService *service.SearchService, logger *slog.Logger) *Consumer {
	return &Consumer{
		searchService: searchService,
		logger:        logger,
	}
}

// Handle processes a Kafka event based on its type.
func (c *Consumer) Handle(ctx context.Context, event *pkgkafka.Event) error {
	switch event.EventType {
	case TopicProductUpserted:
		return c.handleProductUpserted(ctx, event)
	case TopicProductDeleted:
		return c.handleProductDeleted(ctx, event)
	default:
		c.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}
}

// handleProductUpserted indexes a created or updated product. The event
// carries the full product document.
func (c *Consumer) handleProductUpserted(ctx context.Context, event *pkgkafka.Event) error {
	var product domain.Product
	if err := event.UnmarshalData(&product); err != nil {
		return fmt.Errorf("unmarshal product.upserted data: %w", err)
	}

	if err := c.searchService.IndexProduct(ctx, &product); err != nil {
		return fmt.Errorf("index product from upserted event: %w", err)
	}

	c.logger.InfoContext(ctx, "indexed product from upserted event",
		slog.String("product_id", product.ID),
	)

	return nil
}

// handleProductDeleted removes a deleted product from the index.
func (c *Consumer) handleProductDeleted(ctx context.Context, event *pkgkafka.Event) error {
	var data ProductDeletedData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal product.deleted data: %w", err)
	}

	if err := c.searchService.DeleteProduct(ctx, data.ID); err != nil {
		return fmt.Errorf("delete product from deleted event: %w", err)
	}

	c.logger.InfoContext(ctx, "removed product from index",
		slog.String("product_id", data.ID),
	)

	return nil
}
