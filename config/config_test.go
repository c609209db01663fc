package config

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GO_ENV", "production") // skip .env lookup
	for _, k := range []string{
		"PORT", "INTERNAL_API_URL", "PUBLIC_API_URL", "NEXT_PUBLIC_API_URL", "API_TIMEOUT",
		"PAGE_SIZE", "PAGE_NEIGHBOR_RADIUS", "SUMMARY_POLL_INTERVAL", "SUMMARY_WAIT_TIMEOUT",
		"SUMMARY_RATE_PER_SEC", "SUMMARY_RATE_BURST", "REDIS_URL", "PATIENT_CACHE_TTL",
		"HEALTH_PROBE_INTERVAL", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, "http://localhost:8000/api", cfg.InternalAPIURL)
	assert.Equal(t, cfg.InternalAPIURL, cfg.PublicAPIURL)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 1, cfg.NeighborRadius)
	assert.Equal(t, 3*time.Second, cfg.SummaryPollInterval)
	assert.Equal(t, 25*time.Second, cfg.SummaryWaitTimeout)
	assert.Equal(t, int64(5), cfg.SummaryRateBurst)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("INTERNAL_API_URL", "http://backend:8000/api/")
	t.Setenv("NEXT_PUBLIC_API_URL", "https://api.example.com/api")
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("PAGE_NEIGHBOR_RADIUS", "0")
	t.Setenv("SUMMARY_POLL_INTERVAL", "500ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://backend:8000/api", cfg.InternalAPIURL)
	assert.Equal(t, "https://api.example.com/api", cfg.PublicAPIURL)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, 0, cfg.NeighborRadius)
	assert.Equal(t, 500*time.Millisecond, cfg.SummaryPollInterval)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"non numeric page size", "PAGE_SIZE", "ten", "PAGE_SIZE"},
		{"page size above backend max", "PAGE_SIZE", "51", "PAGE_SIZE"},
		{"negative radius", "PAGE_NEIGHBOR_RADIUS", "-1", "PAGE_NEIGHBOR_RADIUS"},
		{"bad duration", "SUMMARY_POLL_INTERVAL", "soon", "SUMMARY_POLL_INTERVAL"},
		{"bad port", "PORT", "99999", "PORT"},
		{"relative api url", "INTERNAL_API_URL", "/api", "INTERNAL_API_URL"},
		{"wait shorter than interval", "SUMMARY_WAIT_TIMEOUT", "1s", "SUMMARY_WAIT_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewLogger_LevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "production", "warn")
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))

	logger.Warn("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"service":"healthconsultant"`)

	buf.Reset()
	text := newLogger(&buf, "development", "bogus")
	assert.True(t, text.Enabled(context.Background(), slog.LevelInfo))
	text.Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}
