package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/utafrali/ProductSearchGo/pkg/config"
)

// Engine backend selectors.
const (
	EngineElasticsearch = "elasticsearch"
	EngineMemory        = "memory"
)

// Config holds all configuration for the search service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort       int      `env:"SEARCH_HTTP_PORT" envDefault:"8010"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// Search engine selection (elasticsearch or memory)
	SearchEngine string `env:"SEARCH_ENGINE" envDefault:"elasticsearch"`

	// Elasticsearch
	ElasticsearchURL     string `env:"ELASTICSEARCH_URL" envDefault:"http://localhost:9200"`
	ElasticsearchIndex   string `env:"ELASTICSEARCH_INDEX" envDefault:"products"`
	ElasticsearchAPIKey  string `env:"ELASTICSEARCH_API_KEY"`
	ElasticsearchCloudID string `env:"ELASTICSEARCH_CLOUD_ID"`

	// Seed catalog size
	SeedCount int `env:"SEED_COUNT" envDefault:"150"`

	// Redis response cache. Caching is disabled when RedisAddr is empty.
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"30s"`

	// Kafka index-sync consumer. Disabled when KafkaBrokers is empty.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaGroupID string   `env:"KAFKA_GROUP_ID" envDefault:"search-indexer"`

	// Tracing
	TracingEnabled  bool   `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint string `env:"TRACING_ENDPOINT" envDefault:"localhost:4318"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load search config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.SearchEngine != EngineElasticsearch && c.SearchEngine != EngineMemory {
		return fmt.Errorf("invalid search engine %q, must be %q or %q",
			c.SearchEngine, EngineElasticsearch, EngineMemory)
	}
	if c.SearchEngine == EngineElasticsearch && c.ElasticsearchURL == "" && c.ElasticsearchCloudID == "" {
		return fmt.Errorf("ELASTICSEARCH_URL or ELASTICSEARCH_CLOUD_ID is required")
	}
	if c.SeedCount < 1 {
		return fmt.Errorf("invalid seed count: %d", c.SeedCount)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("invalid cache TTL: %s", c.CacheTTL)
	}
	return nil
}

// CacheEnabled reports whether a Redis response cache should be wired.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// KafkaEnabled reports whether the index-sync consumer should be started.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
