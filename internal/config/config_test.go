package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KirkDiggler/robowars/internal/services/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "robowars_state", cfg.Storage.Key)
	assert.Equal(t, "robowars_sync", cfg.Sync.Channel)
	assert.Equal(t, 50*time.Millisecond, cfg.Sync.Debounce)
	assert.True(t, cfg.UsesRedis())
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "robowars.yaml", `
redis:
  addr: redis:6379
  db: 2
storage:
  driver: memory
sync:
  driver: nats
  debounce: 120ms
nats:
  url: nats://nats:4222
log:
  level: debug
  format: text
roster:
  - id: 1
    name: Alpha
  - id: 2
    name: Beta
scoring:
  damage:
    base: 12
    multipliers:
      Critical: 4
  aggression:
    base: 5
  control:
    base: 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, "robowars_state", cfg.Storage.Key)
	assert.Equal(t, SyncNATS, cfg.Sync.Driver)
	assert.Equal(t, 120*time.Millisecond, cfg.Sync.Debounce)
	assert.Equal(t, "robowars_sync", cfg.Sync.Channel)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []tournament.RosterTeam{{ID: 1, Name: "Alpha"}, {ID: 2, Name: "Beta"}}, cfg.Roster)
	require.NotNil(t, cfg.Scoring)
	assert.Equal(t, 12.0, cfg.Scoring.Damage.Base)
	assert.Equal(t, 4.0, cfg.Scoring.Damage.Multipliers["Critical"])
	assert.False(t, cfg.UsesRedis())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ROBOWARS_REDIS_ADDR", "cache:6380")
	t.Setenv("ROBOWARS_REDIS_DB", "3")
	t.Setenv("ROBOWARS_SYNC_DRIVER", "memory")
	t.Setenv("ROBOWARS_SYNC_DEBOUNCE", "10ms")
	t.Setenv("ROBOWARS_STORAGE_KEY", "event_2025")
	t.Setenv("ROBOWARS_METRICS_ADDR", "off")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, SyncMemory, cfg.Sync.Driver)
	assert.Equal(t, 10*time.Millisecond, cfg.Sync.Debounce)
	assert.Equal(t, "event_2025", cfg.Storage.Key)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestEnvOverrideErrors(t *testing.T) {
	t.Setenv("ROBOWARS_SYNC_DEBOUNCE", "soon")

	_, err := Load("")
	assert.ErrorContains(t, err, "ROBOWARS_SYNC_DEBOUNCE")
}

func TestLoadEnvFile(t *testing.T) {
	path := writeFile(t, ".env", "ROBOWARS_LOG_LEVEL=warn\n")
	t.Setenv("ROBOWARS_LOG_LEVEL", "")
	os.Unsetenv("ROBOWARS_LOG_LEVEL")

	require.NoError(t, LoadEnvFile(path))
	t.Cleanup(func() { os.Unsetenv("ROBOWARS_LOG_LEVEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)

	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown storage driver", func(c *Config) { c.Storage.Driver = "postgres" }},
		{"unknown sync driver", func(c *Config) { c.Sync.Driver = "carrier-pigeon" }},
		{"negative debounce", func(c *Config) { c.Sync.Debounce = -time.Millisecond }},
		{"redis without addr", func(c *Config) { c.Redis.Addr = "" }},
		{"nats without url", func(c *Config) {
			c.Sync.Driver = SyncNATS
			c.NATS.URL = ""
		}},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"duplicate roster id", func(c *Config) {
			c.Roster = []tournament.RosterTeam{{ID: 1, Name: "A"}, {ID: 1, Name: "B"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
