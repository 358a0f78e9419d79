// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: lease-client
  version: 1.2.0
gateway:
  endpoint: http://localhost:4000/graphql
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:4000/graphql", cfg.Gateway.Endpoint)
	assert.Equal(t, 15000, cfg.Gateway.Timeout)
	assert.Equal(t, float64(5), cfg.Gateway.RateLimitRPS)
	assert.Equal(t, 5, cfg.Gateway.RateLimitBurst)
	assert.Equal(t, "lease-client/1.2.0", cfg.Gateway.UserAgent)
	assert.Equal(t, ModeZipCode, cfg.Search.DefaultMode)
	assert.Equal(t, float64(50), cfg.Payment.DefaultApplicationFee)
	assert.Equal(t, 24*time.Hour, cfg.DraftTTL())
	assert.Equal(t, ":9090", cfg.Metrics.Address)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
}

func TestLoadFromFile_ExplicitValues(t *testing.T) {
	path := writeConfig(t, `
gateway:
  endpoint: https://api.example.com/graphql
  timeout: 2500
  rate_limit_rps: 1.5
  rate_limit_burst: 3
search:
  default_mode: state
payment:
  default_application_fee: 75.5
drafts:
  enabled: true
  ttl_minutes: 30
database:
  redis:
    address: localhost:6379
    db: 2
logging:
  level: debug
  format: json
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 2500*time.Millisecond, GetDuration(cfg.Gateway.Timeout))
	assert.Equal(t, 1.5, cfg.Gateway.RateLimitRPS)
	assert.Equal(t, 3, cfg.Gateway.RateLimitBurst)
	assert.Equal(t, ModeState, cfg.Search.DefaultMode)
	assert.Equal(t, 75.5, cfg.Payment.DefaultApplicationFee)
	assert.True(t, cfg.Drafts.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.DraftTTL())
	assert.Equal(t, "localhost:6379", cfg.Database.Redis.Address)
	assert.Equal(t, 2, cfg.Database.Redis.DB)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile_EnvPlaceholderExpansion(t *testing.T) {
	t.Setenv("TEST_LEASE_HOST", "gateway.internal")
	path := writeConfig(t, `
gateway:
  endpoint: http://${TEST_LEASE_HOST}:4000/graphql
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://gateway.internal:4000/graphql", cfg.Gateway.Endpoint)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("LEASE_GATEWAY_ENDPOINT", "http://override:4000/graphql")
	t.Setenv("LEASE_SEARCH_DEFAULT_MODE", "state")
	path := writeConfig(t, `
gateway:
  endpoint: http://localhost:4000/graphql
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://override:4000/graphql", cfg.Gateway.Endpoint)
	assert.Equal(t, ModeState, cfg.Search.DefaultMode)
}

func TestLoadFromFile_ValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		errContains string
	}{
		{
			name:        "missing endpoint",
			body:        "app:\n  name: x\n",
			errContains: "gateway.endpoint is required",
		},
		{
			name:        "non-http endpoint",
			body:        "gateway:\n  endpoint: ftp://nope\n",
			errContains: "must be an http(s) URL",
		},
		{
			name:        "unknown search mode",
			body:        "gateway:\n  endpoint: http://x\nsearch:\n  default_mode: city\n",
			errContains: "search.default_mode",
		},
		{
			name:        "negative fee",
			body:        "gateway:\n  endpoint: http://x\npayment:\n  default_application_fee: -1\n",
			errContains: "default_application_fee",
		},
		{
			name:        "drafts without redis",
			body:        "gateway:\n  endpoint: http://x\ndrafts:\n  enabled: true\n",
			errContains: "database.redis.address is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
