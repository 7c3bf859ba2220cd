package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/utafrali/ProductSearchGo/internal/cache"
	"github.com/utafrali/ProductSearchGo/internal/config"
	"github.com/utafrali/ProductSearchGo/internal/engine"
	esengine "github.com/utafrali/ProductSearchGo/internal/engine/elasticsearch"
	"github.com/utafrali/ProductSearchGo/internal/engine/memory"
	"github.com/utafrali/ProductSearchGo/internal/event"
	handler "github.com/utafrali/ProductSearchGo/internal/handler/http"
	"github.com/utafrali/ProductSearchGo/internal/service"
	"github.com/utafrali/ProductSearchGo/pkg/health"
	pkgkafka "github.com/utafrali/ProductSearchGo/pkg/kafka"
	"github.com/utafrali/ProductSearchGo/pkg/tracing"
)

// App wires together all dependencies and runs the search service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	responseCache   *cache.ResponseCache
	consumers       []*pkgkafka.Consumer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Tracing is a no-op unless explicitly enabled.
	tracingCfg := tracing.DefaultConfig("search")
	tracingCfg.Environment = cfg.Environment
	tracingCfg.OTLPEndpoint = cfg.TracingEndpoint
	tracingCfg.Enabled = cfg.TracingEnabled
	tracingShutdown, err := tracing.InitTracer(ctx, tracingCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Initialize search engine based on configuration.
	var eng engine.SearchEngine
	var esEng *esengine.Engine
	switch cfg.SearchEngine {
	case config.EngineElasticsearch:
		esEng, err = esengine.New(esengine.Config{
			Addresses: []string{cfg.ElasticsearchURL},
			CloudID:   cfg.ElasticsearchCloudID,
			APIKey:    cfg.ElasticsearchAPIKey,
			Index:     cfg.ElasticsearchIndex,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("init elasticsearch engine: %w", err)
		}
		eng = esEng
		logger.Info("elasticsearch search engine initialized",
			slog.String("url", cfg.ElasticsearchURL),
			slog.String("index", cfg.ElasticsearchIndex),
		)
	default:
		eng = memory.New()
		logger.Info("in-memory search engine initialized")
	}

	// Optional Redis response cache.
	var responseCache *cache.ResponseCache
	if cfg.CacheEnabled() {
		responseCache, err = cache.New(ctx, cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		}, "search")
		if err != nil {
			return nil, fmt.Errorf("init response cache: %w", err)
		}
		logger.Info("redis response cache initialized",
			slog.String("addr", cfg.RedisAddr),
			slog.Duration("ttl", cfg.CacheTTL),
		)
	}

	// Build the service layer. A nil cache disables caching.
	var svcCache service.ResponseCache
	if responseCache != nil {
		svcCache = responseCache
	}
	searchService := service.NewSearchService(eng, svcCache, cfg.SeedCount, logger)

	// Optional Kafka consumers keeping the index in sync with product events.
	var consumers []*pkgkafka.Consumer
	if cfg.KafkaEnabled() {
		eventConsumer := event.NewConsumer(searchService, logger)
		topics := []string{
			event.TopicProductUpserted,
			event.TopicProductDeleted,
		}
		for _, topic := range topics {
			consumerCfg := pkgkafka.ConsumerConfig{
				Brokers:  cfg.KafkaBrokers,
				GroupID:  cfg.KafkaGroupID,
				Topic:    topic,
				MinBytes: 1,
				MaxBytes: 10e6, // 10 MB
			}
			consumers = append(consumers, pkgkafka.NewConsumer(consumerCfg, eventConsumer.Handle, logger))
		}
		logger.Info("kafka consumers initialized",
			slog.Any("brokers", cfg.KafkaBrokers),
			slog.Int("topic_count", len(topics)),
		)
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("engine", eng.Ping)
	if cfg.KafkaEnabled() {
		healthHandler.Register("kafka", func(ctx context.Context) error {
			return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers)
		})
	}

	// HTTP router.
	router := handler.NewRouter(searchService, healthHandler, handler.RouterConfig{
		Environment:    cfg.Environment,
		AllowedOrigins: cfg.AllowedOrigins,
	}, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		responseCache:   responseCache,
		consumers:       consumers,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and Kafka consumers, blocking until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1+len(a.consumers))

	// Start Kafka consumers in background goroutines.
	for _, c := range a.consumers {
		go func() {
			if err := c.Start(ctx); err != nil {
				errCh <- fmt.Errorf("kafka consumer: %w", err)
			}
		}()
	}

	// Start HTTP server.
	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// Close Kafka consumers.
	for _, c := range a.consumers {
		if err := c.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.responseCache != nil {
		if err := a.responseCache.Close(); err != nil {
			a.logger.Error("response cache close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
