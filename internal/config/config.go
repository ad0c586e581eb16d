// Package config provides unified configuration loading for the chatbot engine.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the chatbot engine.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Assistant     AssistantConfig     `yaml:"assistant"`
	Retrieval     RetrievalConfig     `yaml:"retrieval"`
	Index         IndexConfig         `yaml:"index"`
	Embedding     EmbeddingConfig     `yaml:"embedding"`
	Generation    GenerationConfig    `yaml:"generation"`
	Catalog       CatalogConfig       `yaml:"catalog"`
	Cache         CacheConfig         `yaml:"cache"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
}

// AssistantConfig holds the assistant persona settings.
type AssistantConfig struct {
	BusinessName string `yaml:"business_name"`
}

// RetrievalConfig holds retrieval and context fusion settings.
type RetrievalConfig struct {
	TopK            int  `yaml:"top_k"`
	FetchK          int  `yaml:"fetch_k"`
	MaxContextChars int  `yaml:"max_context_chars"`
	RewriteEnabled  bool `yaml:"rewrite_enabled"`
}

// IndexConfig holds semantic index settings.
type IndexConfig struct {
	SnapshotPath string `yaml:"snapshot_path"`
	AutoBuild    bool   `yaml:"auto_build"`
	KnowledgePath string `yaml:"knowledge_path"`
}

// EmbeddingConfig holds embedding client settings.
type EmbeddingConfig struct {
	APIKey    string        `yaml:"api_key"`
	BaseURL   string        `yaml:"base_url"`
	Model     string        `yaml:"model"`
	Dimension int           `yaml:"dimension"`
	BatchSize int           `yaml:"batch_size"`
	Timeout   time.Duration `yaml:"timeout"`
}

// GenerationConfig holds generation provider settings.
type GenerationConfig struct {
	Provider       string           `yaml:"provider"` // cloudflare or ollama
	MinAnswerChars int              `yaml:"min_answer_chars"`
	Cloudflare     CloudflareConfig `yaml:"cloudflare"`
	Ollama         OllamaConfig     `yaml:"ollama"`
}

// CloudflareConfig holds Cloudflare Workers AI settings.
type CloudflareConfig struct {
	AccountID string        `yaml:"account_id"`
	APIToken  string        `yaml:"api_token"`
	Model     string        `yaml:"model"`
	Timeout   time.Duration `yaml:"timeout"`
}

// OllamaConfig holds local Ollama settings.
type OllamaConfig struct {
	Enabled bool          `yaml:"enabled"`
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// CatalogConfig holds live catalog service settings.
type CatalogConfig struct {
	URL      string        `yaml:"url"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
	Keywords []string      `yaml:"keywords"`
}

// CacheConfig holds query-embedding cache settings.
type CacheConfig struct {
	Driver     string        `yaml:"driver"` // memory or redis
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
	Redis      RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8000,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     90 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
			AllowedOrigins: []string{
				"http://localhost:8080",
				"http://localhost:5173",
				"http://localhost:3000",
			},
		},
		Assistant: AssistantConfig{
			BusinessName: "Thrive Wellness",
		},
		Retrieval: RetrievalConfig{
			TopK:            7,
			FetchK:          20,
			MaxContextChars: 3000,
			RewriteEnabled:  true,
		},
		Index: IndexConfig{
			SnapshotPath:  "knowledge_index.json",
			AutoBuild:     true,
			KnowledgePath: "knowledge_base.json",
		},
		Embedding: EmbeddingConfig{
			BaseURL:   "https://openrouter.ai/api/v1",
			Model:     "sentence-transformers/all-minilm-l6-v2",
			Dimension: 384,
			BatchSize: 100,
			Timeout:   30 * time.Second,
		},
		Generation: GenerationConfig{
			Provider:       "cloudflare",
			MinAnswerChars: 10,
			Cloudflare: CloudflareConfig{
				Model:   "@cf/meta/llama-3.1-8b-instruct",
				Timeout: 60 * time.Second,
			},
			Ollama: OllamaConfig{
				Enabled: false,
				BaseURL: "http://localhost:11434",
				Model:   "llama3",
				Timeout: 120 * time.Second,
			},
		},
		Catalog: CatalogConfig{
			Timeout:  10 * time.Second,
			Keywords: DefaultCatalogKeywords(),
		},
		Cache: CacheConfig{
			Driver:     "memory",
			TTL:        5 * time.Minute,
			MaxEntries: 10000,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				DB:       0,
				PoolSize: 10,
			},
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			ServiceName: "chatbot-engine",
		},
	}
}

// DefaultCatalogKeywords returns the lexical cues that mark a query as
// product-related: purchase intent words plus the storefront's product and
// flavor vocabulary.
func DefaultCatalogKeywords() []string {
	return []string{
		"price", "cost", "how much", "buy", "purchase", "product", "products",
		"bottle", "glacier", "iceberg", "surge", "peak", "protein", "electrolyte",
		"shaker", "anchor", "bundle", "alo", "peloton", "fall bundle",
		"supplement", "accessory", "accessories", "water bottle",
		"flavor", "flavors", "chocolate", "vanilla", "pumpkin", "lemonade",
		"strawberry", "tropical", "cucumber", "apple cider", "fruit punch",
		"blue raspberry", "pina colada", "inventory", "stock", "available",
		"sell", "selling", "offer", "catalog", "menu", "list",
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Generation.Provider != "cloudflare" && c.Generation.Provider != "ollama" && c.Generation.Provider != "none" {
		return fmt.Errorf("invalid generation provider: %s", c.Generation.Provider)
	}

	if c.Cache.Driver != "memory" && c.Cache.Driver != "redis" {
		return fmt.Errorf("invalid cache driver: %s", c.Cache.Driver)
	}

	if c.Retrieval.TopK < 0 {
		return fmt.Errorf("top_k must not be negative")
	}

	if c.Retrieval.MaxContextChars < 1 {
		return fmt.Errorf("max_context_chars must be positive")
	}

	return nil
}

// CatalogConfigured reports whether the live catalog endpoint is usable.
func (c *Config) CatalogConfigured() bool {
	return c.Catalog.URL != "" && c.Catalog.APIKey != ""
}

// applyEnvOverrides applies environment variable overrides to config.
// The names match the original deployment so existing .env files keep working.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v, ok := envInt("PORT"); ok {
		cfg.Server.Port = v
	}

	if v := os.Getenv("PUBLIC_SITE_URL"); v != "" {
		cfg.Server.AllowedOrigins = append(cfg.Server.AllowedOrigins, strings.TrimRight(v, "/"))
	}

	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.Generation.Provider = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv("CF_ACCOUNT_ID"); v != "" {
		cfg.Generation.Cloudflare.AccountID = strings.TrimSpace(v)
	}

	if v := os.Getenv("CF_API_TOKEN"); v != "" {
		cfg.Generation.Cloudflare.APIToken = strings.TrimSpace(v)
	}

	if v := os.Getenv("CF_AI_MODEL"); v != "" {
		cfg.Generation.Cloudflare.Model = strings.TrimSpace(v)
	}

	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		cfg.Generation.Ollama.Model = v
		cfg.Generation.Ollama.Enabled = true
	}

	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		cfg.Generation.Ollama.BaseURL = v
	}

	if v, ok := envInt("RAG_TOP_K"); ok {
		cfg.Retrieval.TopK = v
	}

	if v, ok := envInt("RAG_FETCH_K"); ok {
		cfg.Retrieval.FetchK = v
	}

	if v, ok := envInt("RAG_MAX_CONTEXT_CHARS"); ok {
		cfg.Retrieval.MaxContextChars = v
	}

	if v := os.Getenv("RAG_ENABLE_QUERY_REWRITE"); v != "" {
		cfg.Retrieval.RewriteEnabled = v == "1" || strings.EqualFold(v, "true")
	}

	if v := os.Getenv("SUPABASE_URL"); v != "" {
		cfg.Catalog.URL = v
	}

	if v := os.Getenv("SUPABASE_ANON_KEY"); v != "" {
		cfg.Catalog.APIKey = v
	}

	if v := os.Getenv("EMBEDDING_API_KEY"); v != "" {
		cfg.Embedding.APIKey = v
	}

	if v := os.Getenv("EMBEDDING_BASE_URL"); v != "" {
		cfg.Embedding.BaseURL = v
	}

	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}

	if v := os.Getenv("KNOWLEDGE_INDEX_PATH"); v != "" {
		cfg.Index.SnapshotPath = v
	}

	if v := os.Getenv("AUTO_BUILD_INDEX"); v != "" {
		cfg.Index.AutoBuild = v == "1" || strings.EqualFold(v, "true")
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.Driver = "redis"
		cfg.Cache.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
