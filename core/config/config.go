package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"worksearch.app/aggregator/internal/model"
)

type Config struct {
	OTel       OTelConfig
	Tracker    TrackerConfig
	Redmine    RedmineConfig
	GitLab     GitLabConfig
	Mattermost MattermostConfig
	Cache      CacheConfig
	Env        string
	Port       string
	Timezone   string
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type TrackerConfig struct {
	Provider model.Provider // "redmine" or "gitlab"
}

type RedmineConfig struct {
	URL    string
	APIKey string
}

type GitLabConfig struct {
	URL   string // Optional: self-hosted instance, defaults to gitlab.com
	Token string
}

type MattermostConfig struct {
	URL               string // API root, e.g. https://chat.example.com/api/v4
	Token             string
	Channels          []string
	RequestsPerSecond float64
	ThreadConcurrency int
}

type CacheConfig struct {
	Backend   string // "memory" or "redis"
	TTL       time.Duration
	RedisURL  string
	KeyPrefix string
}

type ServiceType string

const (
	ServiceTypeServer ServiceType = "server"
	ServiceTypeChat   ServiceType = "chat"
)

// Load loads configuration from environment variables.
// In development, it loads from service-specific .env files:
//   - .env.server for the API server
//   - .env.chat for the interactive query shell
//
// Falls back to .env if service-specific file doesn't exist.
func Load(serviceType ServiceType) (Config, error) {
	if getEnv("APP_ENV", "development") == "development" {
		envFile := fmt.Sprintf(".env.%s", serviceType)
		if err := godotenv.Load(envFile); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	cfg := Config{
		Env:      getEnv("APP_ENV", "development"),
		Port:     getEnv("PORT", "8080"),
		Timezone: getEnv("TIMEZONE", "Local"),
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "worksearch"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		Tracker: TrackerConfig{
			Provider: model.Provider(strings.ToLower(getEnv("TRACKER_PROVIDER", string(model.ProviderRedmine)))),
		},
		Redmine: RedmineConfig{
			URL:    getEnv("REDMINE_URL", ""),
			APIKey: getEnv("REDMINE_API_KEY", ""),
		},
		GitLab: GitLabConfig{
			URL:   getEnv("GITLAB_URL", ""),
			Token: getEnv("GITLAB_TOKEN", ""),
		},
		Mattermost: MattermostConfig{
			URL:               getEnv("MATTERMOST_URL", ""),
			Token:             getEnv("MATTERMOST_TOKEN", ""),
			Channels:          getEnvList("MATTERMOST_CHANNELS"),
			RequestsPerSecond: getEnvFloat("MATTERMOST_RPS", 10),
			ThreadConcurrency: getEnvInt("THREAD_CONCURRENCY", 4),
		},
		Cache: CacheConfig{
			Backend:   getEnv("CACHE_BACKEND", "memory"),
			TTL:       getEnvDuration("CACHE_TTL", 30*time.Minute),
			RedisURL:  getEnv("REDIS_URL", "redis://localhost:6379/0"),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "worksearch:results"),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.Tracker.Provider {
	case model.ProviderRedmine, model.ProviderGitLab:
	default:
		return fmt.Errorf("TRACKER_PROVIDER must be redmine or gitlab, got %q", c.Tracker.Provider)
	}

	if c.Mattermost.Enabled() && len(c.Mattermost.Channels) == 0 {
		return fmt.Errorf("MATTERMOST_CHANNELS is required when MATTERMOST_URL is set")
	}

	if c.Mattermost.ThreadConcurrency < 1 {
		return fmt.Errorf("THREAD_CONCURRENCY must be at least 1")
	}

	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("CACHE_BACKEND must be memory or redis, got %q", c.Cache.Backend)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Location resolves Timezone. Upstream timestamps are rendered in it.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c RedmineConfig) Enabled() bool {
	return c.URL != "" && c.APIKey != ""
}

func (c GitLabConfig) Enabled() bool {
	return c.Token != ""
}

func (c MattermostConfig) Enabled() bool {
	return c.URL != "" && c.Token != ""
}

func (c CacheConfig) UsesRedis() bool {
	return c.Backend == "redis"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
