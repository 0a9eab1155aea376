package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/KirkDiggler/robowars/internal/common/logger"
	"github.com/KirkDiggler/robowars/internal/repositories/snapshot"
	"github.com/KirkDiggler/robowars/internal/scoring"
	"github.com/KirkDiggler/robowars/internal/services/statesync"
	"github.com/KirkDiggler/robowars/internal/services/tournament"
	"github.com/KirkDiggler/robowars/internal/transport"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Sync drivers
const (
	SyncRedis  = "redis"
	SyncMemory = "memory"
	SyncNATS   = "nats"
	SyncNone   = "none"
)

// Config holds the settings of one dashboard instance
type Config struct {
	Redis   RedisConfig   `yaml:"redis"`
	Storage StorageConfig `yaml:"storage"`
	Sync    SyncConfig    `yaml:"sync"`
	NATS    NATSConfig    `yaml:"nats"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`

	// Roster replaces the built-in team list when set
	Roster []tournament.RosterTeam `yaml:"roster"`

	// Scoring replaces the reference scoring table when set
	Scoring *scoring.Table `yaml:"scoring"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// StorageConfig selects where snapshots are persisted
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Key    string `yaml:"key"`
}

// SyncConfig selects how snapshots reach other instances
type SyncConfig struct {
	Driver   string        `yaml:"driver"`
	Channel  string        `yaml:"channel"`
	Debounce time.Duration `yaml:"debounce"`
}

// NATSConfig holds NATS connection settings
type NATSConfig struct {
	URL string `yaml:"url"`
}

// MetricsConfig holds the Prometheus endpoint settings; an empty address disables it
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Storage: StorageConfig{
			Driver: StorageRedis,
			Key:    snapshot.DefaultKey,
		},
		Sync: SyncConfig{
			Driver:   SyncRedis,
			Channel:  transport.DefaultChannel,
			Debounce: statesync.DefaultDebounce,
		},
		NATS: NATSConfig{
			URL: "nats://localhost:4222",
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadEnvFile loads variables from a .env file into the environment; a missing file is not an error
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Load reads the YAML file at path over the defaults, applies ROBOWARS_* environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("ROBOWARS_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := getenv("ROBOWARS_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := getenv("ROBOWARS_REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ROBOWARS_REDIS_DB value: %w", err)
		}
		c.Redis.DB = db
	}
	if v := getenv("ROBOWARS_STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := getenv("ROBOWARS_STORAGE_KEY"); v != "" {
		c.Storage.Key = v
	}
	if v := getenv("ROBOWARS_SYNC_DRIVER"); v != "" {
		c.Sync.Driver = v
	}
	if v := getenv("ROBOWARS_SYNC_CHANNEL"); v != "" {
		c.Sync.Channel = v
	}
	if v := getenv("ROBOWARS_SYNC_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid ROBOWARS_SYNC_DEBOUNCE value: %w", err)
		}
		c.Sync.Debounce = d
	}
	if v := getenv("ROBOWARS_NATS_URL"); v != "" {
		c.NATS.URL = v
	}
	if v, ok := lookup(getenv, "ROBOWARS_METRICS_ADDR"); ok {
		c.Metrics.Addr = v
	}
	if v := getenv("ROBOWARS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("ROBOWARS_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	return nil
}

// lookup treats "off" as an explicit empty value
func lookup(getenv func(string) string, key string) (string, bool) {
	v := getenv(key)
	switch {
	case v == "":
		return "", false
	case strings.EqualFold(v, "off"):
		return "", true
	}
	return v, true
}

// Validate checks drivers, addresses, the roster and the scoring table
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Sync.Driver {
	case SyncRedis, SyncMemory, SyncNATS, SyncNone:
	default:
		return fmt.Errorf("unknown sync driver %q", c.Sync.Driver)
	}

	if c.Sync.Debounce < 0 {
		return fmt.Errorf("sync debounce must not be negative, got %s", c.Sync.Debounce)
	}

	if c.UsesRedis() && c.Redis.Addr == "" {
		return errors.New("redis addr is required by the redis storage or sync driver")
	}

	if c.Sync.Driver == SyncNATS && c.NATS.URL == "" {
		return errors.New("nats url is required by the nats sync driver")
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	if len(c.Roster) > 0 {
		if err := tournament.ValidateRoster(c.Roster); err != nil {
			return fmt.Errorf("invalid roster: %w", err)
		}
	}

	if c.Scoring != nil {
		if err := c.Scoring.Validate(); err != nil {
			return fmt.Errorf("invalid scoring table: %w", err)
		}
	}

	return nil
}

// UsesRedis reports whether any driver needs a Redis connection
func (c *Config) UsesRedis() bool {
	return c.Storage.Driver == StorageRedis || c.Sync.Driver == SyncRedis
}
