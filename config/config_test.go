package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBytesDefaults(t *testing.T) {
	cfg, err := LoadBytes(nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.Query.Vendor)
	assert.False(t, cfg.Query.Update.Unguarded)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 200*time.Millisecond, cfg.Database.Query.Slow.Threshold)
	assert.Equal(t, defaultMaxQueryLength, cfg.Database.Query.Log.MaxLength)
	assert.Equal(t, int32(25), cfg.Database.Pool.Max)
	assert.Equal(t, 30*time.Minute, cfg.Database.Pool.Lifetime)
	assert.NotNil(t, cfg.Koanf())
}

func TestLoadBytesOverridesDefaults(t *testing.T) {
	content := []byte(`
query:
  vendor: oracle
  update:
    unguarded: true
database:
  type: postgresql
  host: localhost
  port: 5432
  database: app
  query:
    slow:
      threshold: 1s
log:
  level: debug
custom:
  feature: enabled
`)

	cfg, err := LoadBytes(content)
	require.NoError(t, err)

	assert.Equal(t, "oracle", cfg.Query.Vendor)
	assert.True(t, cfg.Query.Update.Unguarded)
	assert.Equal(t, "postgresql", cfg.Database.Type)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, time.Second, cfg.Database.Query.Slow.Threshold)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "enabled", cfg.GetString("custom.feature"))
	assert.Equal(t, "fallback", cfg.GetString("custom.missing", "fallback"))
}

func TestEnvironmentOverridesYAML(t *testing.T) {
	t.Setenv("DTOQUERY_QUERY_VENDOR", "postgresql")
	t.Setenv("DTOQUERY_LOG_LEVEL", "warn")

	cfg, err := LoadBytes([]byte("query:\n  vendor: oracle\n"))
	require.NoError(t, err)

	assert.Equal(t, "postgresql", cfg.Query.Vendor)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadBytesInvalidYAML(t *testing.T) {
	_, err := LoadBytes([]byte("query: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse yaml")
}

func TestLoadBytesRejectsUnknownVendor(t *testing.T) {
	_, err := LoadBytes([]byte("query:\n  vendor: sqlite\n"))
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "invalid", cfgErr.Category)
	assert.Equal(t, "query.vendor", cfgErr.Field)
	assert.Contains(t, cfgErr.Action, "postgresql")
}

func TestLoadBytesObservability(t *testing.T) {
	cfg, err := LoadBytes(nil)
	require.NoError(t, err)

	assert.False(t, cfg.Observability.Enabled)
	assert.Equal(t, "dtoquery", cfg.Observability.Service.Name)
	assert.Equal(t, "stdout", cfg.Observability.Trace.Endpoint)
	assert.InDelta(t, 1.0, cfg.Observability.Trace.SampleRate, 1e-9)
	assert.Equal(t, time.Minute, cfg.Observability.Metrics.Interval)

	cfg, err = LoadBytes([]byte(`
observability:
  enabled: true
  service:
    name: household-service
  trace:
    endpoint: collector:4317
    protocol: grpc
    insecure: true
    headers:
      x-tenant: pb
  metrics:
    enabled: false
`))
	require.NoError(t, err)

	assert.True(t, cfg.Observability.Enabled)
	assert.Equal(t, "household-service", cfg.Observability.Service.Name)
	assert.Equal(t, "grpc", cfg.Observability.Trace.Protocol)
	assert.True(t, cfg.Observability.Trace.Insecure)
	assert.Equal(t, map[string]string{"x-tenant": "pb"}, cfg.Observability.Trace.Headers)
	assert.False(t, cfg.Observability.Metrics.Enabled)
}
