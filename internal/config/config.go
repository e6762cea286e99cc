package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const (
	defaultAPIBaseURL = "https://www.googleapis.com/youtube/v3"

	StoreSQLite = "sqlite"
	StoreRedis  = "redis"

	// MaxResults bounds; the upper one is the API page limit.
	minMaxResults = 1
	maxMaxResults = 50
)

// Config holds runtime settings for the CLI app. Every field is read from a
// MYTUBE_* environment variable.
type Config struct {
	APIBaseURL  string        `envconfig:"API_BASE_URL" default:"https://www.googleapis.com/youtube/v3"`
	APIKey      string        `envconfig:"API_KEY"`
	Store       string        `envconfig:"STORE" default:"sqlite"`
	DBPath      string        `envconfig:"DB_PATH" default:"mytube.db"`
	RedisURL    string        `envconfig:"REDIS_URL"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
	LogPath     string        `envconfig:"LOG_PATH" default:"mytube.log"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	MaxRetries  uint64        `envconfig:"MAX_RETRIES" default:"2"`
	MaxResults  int           `envconfig:"MAX_RESULTS" default:"50"`
	CacheTTL    time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	SyncBaseURL string        `envconfig:"SYNC_BASE_URL" default:"https://mytube.local/"`
}

func LoadFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("mytube", &cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	cfg.MaxResults = lo.Clamp(cfg.MaxResults, minMaxResults, maxMaxResults)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("APIBaseURL is required")
	}
	if strings.HasSuffix(c.APIBaseURL, "/") {
		return fmt.Errorf("APIBaseURL must not end with '/': %s", c.APIBaseURL)
	}
	switch c.Store {
	case StoreSQLite:
		if c.DBPath == "" {
			return errors.New("DBPath is required")
		}
	case StoreRedis:
		if c.RedisURL == "" {
			return errors.New("MYTUBE_REDIS_URL is required when MYTUBE_STORE=redis")
		}
	default:
		return fmt.Errorf("Store must be sqlite or redis: %s", c.Store)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LogLevel %q: %w", c.LogLevel, err)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTPTimeout must be positive: %s", c.HTTPTimeout)
	}
	if c.MaxResults < minMaxResults || c.MaxResults > maxMaxResults {
		return fmt.Errorf("MaxResults must be between %d and %d: %d", minMaxResults, maxMaxResults, c.MaxResults)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CacheTTL must be positive: %s", c.CacheTTL)
	}
	return nil
}
