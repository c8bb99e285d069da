package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	TradeLog TradeLogConfig `mapstructure:"tradelog"`
	History  HistoryConfig  `mapstructure:"history"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Stream   StreamConfig   `mapstructure:"stream"`
}

type AppConfig struct {
	Env string `mapstructure:"env"` // "dev" or "prod"
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Encoding    string `mapstructure:"encoding"` // "json" or "console"
	Development bool   `mapstructure:"development"`
}

// TradeLogConfig locates the NDJSON trade log written by the autotrader.
type TradeLogConfig struct {
	Path   string `mapstructure:"path"`
	Dedupe bool   `mapstructure:"dedupe"` // collapse repeated order_id entries
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type SnapshotConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

type StreamConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// Load reads .env, then an optional YAML file at path, then TRADESTATS_* env overrides.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("TRADESTATS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", false)
	v.SetDefault("tradelog.path", "data/trades.jsonl")
	v.SetDefault("tradelog.dedupe", false)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "data/tradestats.db")
	v.SetDefault("snapshot.enabled", true)
	v.SetDefault("snapshot.schedule", "@every 15m")
	v.SetDefault("stream.interval", "5s")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.TradeLog.Path) == "" {
		return fmt.Errorf("tradelog.path is required")
	}
	if c.Log.Encoding != "json" && c.Log.Encoding != "console" {
		return fmt.Errorf("log.encoding must be 'json' or 'console', got %q", c.Log.Encoding)
	}
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	if c.Snapshot.Enabled && !c.History.Enabled {
		return fmt.Errorf("snapshot.enabled requires history.enabled")
	}
	if c.Snapshot.Enabled && strings.TrimSpace(c.Snapshot.Schedule) == "" {
		return fmt.Errorf("snapshot.schedule is required when snapshots are enabled")
	}
	if c.Stream.Interval <= 0 {
		return fmt.Errorf("stream.interval must be > 0, got %v", c.Stream.Interval)
	}
	return nil
}

// Path returns the config file location from TRADESTATS_CONFIG, defaulting to config.yaml.
func Path() string {
	if v := os.Getenv("TRADESTATS_CONFIG"); v != "" {
		return v
	}
	return "config.yaml"
}
