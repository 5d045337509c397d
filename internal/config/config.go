package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/five82/pricewatch/internal/coingecko"
	"github.com/five82/pricewatch/internal/market"
)

// Config is the resolved pricewatch configuration.
type Config struct {
	AssetID          string        `mapstructure:"asset_id"`
	AssetSymbol      string        `mapstructure:"asset_symbol"`
	APIBaseURL       string        `mapstructure:"api_base_url"`
	APIKey           string        `mapstructure:"api_key"`
	SnapshotMode     string        `mapstructure:"snapshot_mode"`
	PollIntervalMs   int           `mapstructure:"poll_interval_ms"`
	DefaultTimeframe string        `mapstructure:"default_timeframe"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`

	Cache   CacheConfig   `mapstructure:"cache"`
	Log     LogConfig     `mapstructure:"log"`
	Tracing TracingConfig `mapstructure:"tracing"`

	// Path is the config file that was read, empty when defaults were used.
	Path string `mapstructure:"-"`
}

// CacheConfig enables the Redis response cache when RedisURL is set.
type CacheConfig struct {
	RedisURL    string        `mapstructure:"redis_url"`
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"`
	SeriesTTL   time.Duration `mapstructure:"series_ttl"`
}

// LogConfig controls the application log.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
	File   string `mapstructure:"file"`
}

// TracingConfig controls OTLP trace export.
type TracingConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

const (
	EnvPrefix = "PRICEWATCH"

	defaultConfigPath     = "~/.config/pricewatch/config.toml"
	defaultLogFile        = "~/.local/state/pricewatch/pricewatch.log"
	defaultAssetSymbol    = "TAO"
	defaultPollIntervalMs = 30000
	minPollIntervalMs     = 1000
)

// Load reads the config file at path (or the default location), applies
// PRICEWATCH_* environment overrides and validates the result. A missing file
// is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	found := false
	if _, err := os.Stat(resolved); err == nil {
		v.SetConfigFile(resolved)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		found = true
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if found {
		cfg.Path = resolved
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("asset_id", coingecko.DefaultAssetID)
	v.SetDefault("asset_symbol", defaultAssetSymbol)
	v.SetDefault("api_base_url", coingecko.DefaultBaseURL)
	v.SetDefault("api_key", "")
	v.SetDefault("snapshot_mode", string(coingecko.ModeFull))
	v.SetDefault("poll_interval_ms", defaultPollIntervalMs)
	v.SetDefault("default_timeframe", market.DefaultTimeframe.String())
	v.SetDefault("request_timeout", coingecko.DefaultTimeout)

	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.snapshot_ttl", 15*time.Second)
	v.SetDefault("cache.series_ttl", 5*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", defaultLogFile)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4317")
}

func (c *Config) normalize() error {
	c.AssetID = strings.TrimSpace(c.AssetID)
	if c.AssetID == "" {
		c.AssetID = coingecko.DefaultAssetID
	}
	c.AssetSymbol = strings.ToUpper(strings.TrimSpace(c.AssetSymbol))
	if c.AssetSymbol == "" {
		c.AssetSymbol = defaultAssetSymbol
	}
	c.APIBaseURL = strings.TrimSpace(c.APIBaseURL)
	if c.APIBaseURL == "" {
		c.APIBaseURL = coingecko.DefaultBaseURL
	}
	c.APIKey = strings.TrimSpace(c.APIKey)

	if _, ok := coingecko.ParseSnapshotMode(c.SnapshotMode); !ok {
		return fmt.Errorf("invalid snapshot_mode %q: want full or simple", c.SnapshotMode)
	}
	if c.PollIntervalMs < minPollIntervalMs {
		return fmt.Errorf("invalid poll_interval_ms %d: must be at least %d", c.PollIntervalMs, minPollIntervalMs)
	}
	if _, err := market.ParseTimeframe(c.DefaultTimeframe); err != nil {
		return fmt.Errorf("invalid default_timeframe: %w", err)
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = coingecko.DefaultTimeout
	}

	c.Cache.RedisURL = strings.TrimSpace(c.Cache.RedisURL)

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if strings.TrimSpace(c.Log.File) == "" {
		c.Log.File = defaultLogFile
	}
	c.Log.File = mustExpand(c.Log.File)
	return nil
}

// PollInterval returns the snapshot polling interval.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// Timeframe returns the configured default timeframe.
func (c Config) Timeframe() market.Timeframe {
	tf, err := market.ParseTimeframe(c.DefaultTimeframe)
	if err != nil {
		return market.DefaultTimeframe
	}
	return tf
}

// Mode returns the configured snapshot mode.
func (c Config) Mode() coingecko.SnapshotMode {
	mode, _ := coingecko.ParseSnapshotMode(c.SnapshotMode)
	return mode
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
