package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "CACHE_TTL", "RUN_MIGRATIONS", "CORS_ALLOW_ORIGINS", "SESSION_TTL"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("RUN_MIGRATIONS", "no")
	t.Setenv("PUBLISH_EVENTS", "0")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://shop.example, https://admin.example ,")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.RunMigrations)
	assert.False(t, cfg.PublishEvents)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.CORSAllowOrigins)
}

func TestHelpers(t *testing.T) {
	tests := map[string]struct {
		in   string
		want time.Duration
	}{
		"valid":    {in: "150ms", want: 150 * time.Millisecond},
		"garbage":  {in: "soon", want: time.Second},
		"negative": {in: "-5s", want: time.Second},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseDuration(tc.in, time.Second))
		})
	}

	t.Setenv("FLAG", "maybe")
	assert.True(t, envBool("FLAG", true))
	assert.Equal(t, []string{"*"}, splitCSV(" , "))
}
