package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string

	// InternalAPIURL is the consultation API base URL used by this server.
	// PublicAPIURL is the one handed to browser scripts; it differs when the
	// server reaches the backend over a private network.
	InternalAPIURL string
	PublicAPIURL   string
	APITimeout     time.Duration

	PageSize       int
	NeighborRadius int

	SummaryPollInterval time.Duration
	SummaryWaitTimeout  time.Duration
	SummaryRatePerSec   float64
	SummaryRateBurst    int64

	RedisURL        string
	PatientCacheTTL time.Duration

	HealthProbeInterval time.Duration
	CORSAllowedOrigins  []string
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production the environment is authoritative and .env may not exist.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:    env,
		Port:           getEnv("PORT", "3000"),
		InternalAPIURL: strings.TrimSuffix(getEnv("INTERNAL_API_URL", "http://localhost:8000/api"), "/"),
		RedisURL:       os.Getenv("REDIS_URL"),
	}
	cfg.PublicAPIURL = strings.TrimSuffix(firstEnv(cfg.InternalAPIURL, "PUBLIC_API_URL", "NEXT_PUBLIC_API_URL"), "/")
	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"))

	var err error
	if cfg.PageSize, err = getInt("PAGE_SIZE", 10); err != nil {
		return nil, err
	}
	if cfg.NeighborRadius, err = getInt("PAGE_NEIGHBOR_RADIUS", 1); err != nil {
		return nil, err
	}
	if cfg.APITimeout, err = getDuration("API_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.SummaryPollInterval, err = getDuration("SUMMARY_POLL_INTERVAL", 3*time.Second); err != nil {
		return nil, err
	}
	if cfg.SummaryWaitTimeout, err = getDuration("SUMMARY_WAIT_TIMEOUT", 25*time.Second); err != nil {
		return nil, err
	}
	if cfg.SummaryRatePerSec, err = getFloat("SUMMARY_RATE_PER_SEC", 1); err != nil {
		return nil, err
	}
	burst, err := getInt("SUMMARY_RATE_BURST", 5)
	if err != nil {
		return nil, err
	}
	cfg.SummaryRateBurst = int64(burst)
	if cfg.PatientCacheTTL, err = getDuration("PATIENT_CACHE_TTL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.HealthProbeInterval, err = getDuration("HEALTH_PROBE_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if p, err := strconv.Atoi(c.Port); err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT %q: must be a number between 1 and 65535", c.Port)
	}
	for name, raw := range map[string]string{"INTERNAL_API_URL": c.InternalAPIURL, "PUBLIC_API_URL": c.PublicAPIURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s %q: must be an absolute URL", name, raw)
		}
	}
	if c.PageSize < 1 || c.PageSize > 50 {
		return fmt.Errorf("invalid PAGE_SIZE %d: must be between 1 and 50", c.PageSize)
	}
	if c.NeighborRadius < 0 {
		return fmt.Errorf("invalid PAGE_NEIGHBOR_RADIUS %d: must not be negative", c.NeighborRadius)
	}
	if c.SummaryPollInterval <= 0 {
		return fmt.Errorf("invalid SUMMARY_POLL_INTERVAL: must be positive")
	}
	if c.SummaryWaitTimeout < c.SummaryPollInterval {
		return fmt.Errorf("invalid SUMMARY_WAIT_TIMEOUT: must be at least SUMMARY_POLL_INTERVAL")
	}
	if c.SummaryRatePerSec <= 0 || c.SummaryRateBurst < 1 {
		return fmt.Errorf("invalid summary rate limit: rate and burst must be positive")
	}
	if c.HealthProbeInterval < time.Second {
		return fmt.Errorf("invalid HEALTH_PROBE_INTERVAL: must be at least 1s")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string { return ":" + c.Port }

// IsProduction reports whether GO_ENV is production.
func (c *Config) IsProduction() bool { return c.Environment == "production" }

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// firstEnv returns the first non-empty variable among keys, or def.
func firstEnv(def string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return def
}

func getInt(key string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getFloat(key string, def float64) (float64, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
