// Package config holds the tradedata configuration: a YAML or JSON file
// overlaid with TRADE_* environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradedata/market"
)

// Config represents the complete tradedata configuration
type Config struct {
	DataRoot string         `json:"data_root" yaml:"data_root" env:"TRADE_DATA" env-default:"/trade_data" env-description:"root of the dataset tree"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
	Log      LogConfig      `json:"log" yaml:"log"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Defaults DefaultsConfig `json:"defaults" yaml:"defaults"`
}

// CacheConfig controls the per-symbol kline cache
type CacheConfig struct {
	Dir       string        `json:"dir" yaml:"dir" env:"TRADE_CACHE_DIR" env-default:"_cache" env-description:"cache directory name below the kline root"`
	Retention time.Duration `json:"retention" yaml:"retention" env:"TRADE_CACHE_RETENTION" env-default:"24h" env-description:"age after which cache files are deleted"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level" env:"TRADE_LOG_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
	Format string `json:"format" yaml:"format" env:"TRADE_LOG_FORMAT" env-default:"pretty" env-description:"pretty, text or json"`
}

// JournalConfig selects where load records go
type JournalConfig struct {
	Type string `json:"type" yaml:"type" env:"TRADE_JOURNAL_TYPE" env-default:"none" env-description:"none, csv or sqlite"`
	Path string `json:"path,omitempty" yaml:"path,omitempty" env:"TRADE_JOURNAL_PATH" env-description:"journal file for csv or sqlite"`
}

// DefaultsConfig fills request fields the command line leaves empty
type DefaultsConfig struct {
	Source    string `json:"source" yaml:"source" env-default:"binance"`
	Market    string `json:"market" yaml:"market" env-default:"spot"`
	MarketSub string `json:"market_sub,omitempty" yaml:"market_sub,omitempty"`
	Timeframe string `json:"timeframe" yaml:"timeframe" env-default:"1m"`
}

// Load reads the configuration file at path, if any, then the environment.
// Fields left empty by both take their defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("read environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml and .yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DataRoot == "" {
		return fmt.Errorf("data_root is required")
	}
	if c.Cache.Dir == "" || strings.ContainsRune(c.Cache.Dir, filepath.Separator) {
		return fmt.Errorf("cache.dir must be a single directory name")
	}
	if c.Cache.Retention <= 0 {
		return fmt.Errorf("cache.retention must be positive")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error")
	}
	switch c.Log.Format {
	case "pretty", "text", "json":
	default:
		return fmt.Errorf("log.format must be pretty, text or json")
	}
	switch c.Journal.Type {
	case "none":
	case "csv", "sqlite":
		if c.Journal.Path == "" {
			return fmt.Errorf("journal.path required for %s journal", c.Journal.Type)
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	if c.Defaults.Timeframe != "" {
		if _, err := market.ParseTimeframe(c.Defaults.Timeframe); err != nil {
			return fmt.Errorf("defaults.timeframe: %w", err)
		}
	}
	if c.Defaults.Market != "" {
		ds := market.Dataset{
			Source:    c.Defaults.Source,
			Market:    c.Defaults.Market,
			MarketSub: c.Defaults.MarketSub,
			DataType:  market.AggKline,
		}
		if err := ds.Validate(); err != nil {
			return fmt.Errorf("defaults: %w", err)
		}
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		DataRoot: "/trade_data",
		Cache: CacheConfig{
			Dir:       "_cache",
			Retention: 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "pretty",
		},
		Journal: JournalConfig{
			Type: "none",
		},
		Defaults: DefaultsConfig{
			Source:    market.Binance,
			Market:    market.Spot,
			Timeframe: string(market.M1),
		},
	}
}

// Usage describes the environment variables Load reads.
func Usage() (string, error) {
	header := "Environment variables:"
	return cleanenv.GetDescription(&Config{}, &header)
}
