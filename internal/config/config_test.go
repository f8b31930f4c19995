package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "observerd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "observerd", cfg.Service.Name)
	assert.Equal(t, "info", cfg.Service.LogLevel)
	assert.Equal(t, ":9090", cfg.Server.ListenAddr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 1000, cfg.Store.Capacity)
	assert.Equal(t, 500, cfg.Store.LowWater)
	assert.True(t, cfg.Sampling.Enabled)
	assert.Equal(t, "@every 15s", cfg.Sampling.Schedule)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
service:
  name: checkout-observer
  log_level: debug
server:
  listen_addr: ":8088"
store:
  capacity: 200
  low_water: 50
sampling:
  schedule: "@every 1m"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "checkout-observer", cfg.Service.Name)
	assert.Equal(t, "debug", cfg.Service.LogLevel)
	assert.Equal(t, ":8088", cfg.Server.ListenAddr)
	assert.Equal(t, 200, cfg.Store.Capacity)
	assert.Equal(t, 50, cfg.Store.LowWater)
	assert.Equal(t, "@every 1m", cfg.Sampling.Schedule)

	// Fields absent from the file keep their defaults.
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.Sampling.Enabled)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_addr: ":8088"
`)
	t.Setenv("OBSERVERD_LISTEN_ADDR", ":7070")
	t.Setenv("OBSERVERD_STORE_CAPACITY", "64")
	t.Setenv("OBSERVERD_STORE_LOW_WATER", "16")
	t.Setenv("OBSERVERD_SAMPLING_ENABLED", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.ListenAddr)
	assert.Equal(t, 64, cfg.Store.Capacity)
	assert.Equal(t, 16, cfg.Store.LowWater)
	assert.False(t, cfg.Sampling.Enabled)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "service: [not a mapping")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "low water above capacity",
			content: `
store:
  capacity: 10
  low_water: 20
`,
		},
		{
			name: "unknown log level",
			content: `
service:
  log_level: verbose
`,
		},
		{
			name: "empty listen address",
			content: `
server:
  listen_addr: ""
`,
		},
		{
			name: "sampling enabled without schedule",
			content: `
sampling:
  enabled: true
  schedule: ""
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfigFile(t, tt.content))
			require.Error(t, err)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.level)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseLogLevel("trace")
	require.Error(t, err)
}

func TestStoreConfigConversion(t *testing.T) {
	cfg := Default()
	cfg.Store.Capacity = 42
	cfg.Store.LowWater = 7

	sc := cfg.StoreConfig()
	assert.Equal(t, 42, sc.Capacity)
	assert.Equal(t, 7, sc.LowWater)
}
