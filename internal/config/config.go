package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Port          string
	StorageDriver string
	PostgresURL   string

	JWTSecret string
	TokenTTL  time.Duration

	TMDBBaseURL  string
	TMDBAPIKey   string
	TMDBLanguage string
	TMDBTimeout  time.Duration

	MaxProfiles int

	LogLevel  string
	LogFormat string

	CORSOrigins   []string
	AuthRateLimit int

	SentryDSN string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, defaults applied.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:          env("PORT", "8080"),
		StorageDriver: strings.ToLower(env("STORAGE_DRIVER", StorageDriverPostgres)),
		PostgresURL:   env("POSTGRES_URL", ""),
		JWTSecret:     env("JWT_SECRET", ""),
		TMDBBaseURL:   env("TMDB_API_URL", "https://api.themoviedb.org/3"),
		TMDBAPIKey:    env("TMDB_API_KEY", ""),
		TMDBLanguage:  env("TMDB_LANGUAGE", "en-US"),
		LogLevel:      env("LOG_LEVEL", "info"),
		LogFormat:     env("LOG_FORMAT", "json"),
		SentryDSN:     env("SENTRY_DSN", ""),
	}

	var err error
	if cfg.TokenTTL, err = time.ParseDuration(env("TOKEN_TTL", "168h")); err != nil {
		return nil, fmt.Errorf("TOKEN_TTL: %w", err)
	}
	if cfg.TMDBTimeout, err = time.ParseDuration(env("TMDB_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("TMDB_TIMEOUT: %w", err)
	}
	if cfg.MaxProfiles, err = strconv.Atoi(env("MAX_PROFILES", "5")); err != nil {
		return nil, fmt.Errorf("MAX_PROFILES: %w", err)
	}
	if cfg.AuthRateLimit, err = strconv.Atoi(env("AUTH_RATE_LIMIT", "10")); err != nil {
		return nil, fmt.Errorf("AUTH_RATE_LIMIT: %w", err)
	}

	for _, origin := range strings.Split(env("CORS_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.TMDBAPIKey == "" {
		errs = append(errs, errors.New("TMDB_API_KEY is required"))
	}
	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.PostgresURL == "" {
			errs = append(errs, errors.New("POSTGRES_URL is required when STORAGE_DRIVER=postgres"))
		}
	case StorageDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.TMDBTimeout <= 0 {
		errs = append(errs, errors.New("TMDB_TIMEOUT must be positive"))
	}
	if c.MaxProfiles < 1 {
		errs = append(errs, errors.New("MAX_PROFILES must be at least 1"))
	}
	if c.AuthRateLimit < 1 {
		errs = append(errs, errors.New("AUTH_RATE_LIMIT must be at least 1"))
	}
	return errors.Join(errs...)
}
