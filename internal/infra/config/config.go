package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Valkey    ValkeyConfig    `yaml:"valkey"`
	Storage   StorageConfig   `yaml:"storage"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// AuthConfig holds the bearer token verification settings. Token issuance
// happens in the identity service, this side only verifies.
type AuthConfig struct {
	JWTSecret string `yaml:"jwtSecret"`
}

// EmbeddingConfig contains settings for the OpenAI-compatible embeddings API.
type EmbeddingConfig struct {
	Provider       string        `yaml:"provider"`
	APIKey         string        `yaml:"apiKey"`
	BaseURL        string        `yaml:"baseUrl"`
	Model          string        `yaml:"model"`
	Dimensions     int           `yaml:"dimensions"`
	MaxInputTokens int           `yaml:"maxInputTokens"`
	Timeout        time.Duration `yaml:"timeout"`
}

// SearchConfig controls semantic search behavior.
type SearchConfig struct {
	DefaultLimit int `yaml:"defaultLimit"`
	MaxLimit     int `yaml:"maxLimit"`
	TrendingSize int `yaml:"trendingSize"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for the trending store.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// StorageConfig contains S3-compatible object storage settings for
// question image attachments.
type StorageConfig struct {
	Endpoint  string        `yaml:"endpoint"`
	AccessKey string        `yaml:"accessKey"`
	SecretKey string        `yaml:"secretKey"`
	Bucket    string        `yaml:"bucket"`
	Region    string        `yaml:"region"`
	URLExpiry time.Duration `yaml:"urlExpiry"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = isTruthy(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("AUTH_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("EMBEDDING_PROVIDER"); v != "" {
		cfg.Embedding.Provider = v
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
	if v := os.Getenv("EMBEDDING_DIMENSIONS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Embedding.Dimensions = parsed
		}
	}
	if v := os.Getenv("EMBEDDING_MAX_INPUT_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Embedding.MaxInputTokens = parsed
		}
	}
	if v := os.Getenv("EMBEDDING_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Embedding.Timeout = parsed
		}
	}
	if v := os.Getenv("SEARCH_DEFAULT_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Search.DefaultLimit = parsed
		}
	}
	if v := os.Getenv("SEARCH_MAX_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Search.MaxLimit = parsed
		}
	}
	if v := os.Getenv("SEARCH_TRENDING_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Search.TrendingSize = parsed
		}
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("VALKEY_ENABLED"); v != "" {
		cfg.Valkey.Enabled = isTruthy(v)
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Valkey.Addr = v
	}
	if v := os.Getenv("STORAGE_ENDPOINT"); v != "" {
		cfg.Storage.Endpoint = v
	}
	if v := os.Getenv("STORAGE_ACCESS_KEY"); v != "" {
		cfg.Storage.AccessKey = v
	}
	if v := os.Getenv("STORAGE_SECRET_KEY"); v != "" {
		cfg.Storage.SecretKey = v
	}
	if v := os.Getenv("STORAGE_BUCKET"); v != "" {
		cfg.Storage.Bucket = v
	}
	if v := os.Getenv("STORAGE_REGION"); v != "" {
		cfg.Storage.Region = v
	}
	if v := os.Getenv("STORAGE_URL_EXPIRY"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Storage.URLExpiry = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		Embedding: EmbeddingConfig{
			Provider:       "openai",
			Model:          "text-embedding-3-small",
			Dimensions:     768,
			MaxInputTokens: 8192,
			Timeout:        30 * time.Second,
		},
		Search: SearchConfig{
			DefaultLimit: 3,
			MaxLimit:     25,
			TrendingSize: 10,
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
			MinConns: 0,
		},
		Storage: StorageConfig{
			Bucket:    "question-images",
			URLExpiry: 15 * time.Minute,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	switch c.Embedding.Provider {
	case "openai", "deterministic":
	default:
		return errors.New("embedding.provider must be openai or deterministic")
	}
	if strings.TrimSpace(c.Embedding.Model) == "" {
		return errors.New("embedding.model cannot be empty")
	}
	if c.Embedding.Dimensions <= 0 {
		return errors.New("embedding.dimensions must be positive")
	}
	if c.Embedding.MaxInputTokens <= 0 {
		return errors.New("embedding.maxInputTokens must be positive")
	}
	if c.Search.DefaultLimit <= 0 {
		return errors.New("search.defaultLimit must be positive")
	}
	if c.Search.MaxLimit < c.Search.DefaultLimit {
		return errors.New("search.maxLimit cannot be below search.defaultLimit")
	}
	if c.Search.TrendingSize < 0 {
		return errors.New("search.trendingSize cannot be negative")
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when the trending store is enabled")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func isTruthy(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}
