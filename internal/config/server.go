package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Data sources the proxy can serve windows from.
const (
	SourceHTTP = "http"
	SourceDB   = "db"
)

// ServerConfig holds the proxy configuration, read from the environment.
type ServerConfig struct {
	Port            string
	UpstreamURL     string
	UpstreamTimeout time.Duration
	Source          string // SourceHTTP or SourceDB
	DatabaseURL     string
	RedisURL        string // empty disables caching
	CacheTTL        time.Duration
	CORSOrigins     []string
	Env             string
}

// Production reports whether the proxy runs with APP_ENV=production.
func (c *ServerConfig) Production() bool {
	return c.Env == "production"
}

// LoadServer reads the proxy configuration. A .env file in the working
// directory is loaded first when present; real environment variables win.
func LoadServer() (*ServerConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("load .env", "error", err)
	}

	cfg := &ServerConfig{
		Port:        getEnv("PORT", "8081"),
		UpstreamURL: getEnv("UPSTREAM_URL", "https://api.sampleapis.com"),
		Source:      strings.ToLower(getEnv("SOURCE", SourceHTTP)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		Env:         getEnv("APP_ENV", "development"),
	}

	var err error
	if cfg.UpstreamTimeout, err = getDuration("UPSTREAM_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}

	switch cfg.Source {
	case SourceHTTP:
	case SourceDB:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("SOURCE=%s requires DATABASE_URL", SourceDB)
		}
	default:
		return nil, fmt.Errorf("unknown SOURCE %q", cfg.Source)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
