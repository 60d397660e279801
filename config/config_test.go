package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "/trade_data", cfg.DataRoot)
	assert.Equal(t, "_cache", cfg.Cache.Dir)
	assert.Equal(t, 24*time.Hour, cfg.Cache.Retention)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid config", func(*Config) {}, ""},
		{"missing data root", func(c *Config) { c.DataRoot = "" }, "data_root is required"},
		{"nested cache dir", func(c *Config) { c.Cache.Dir = "a/b" }, "cache.dir"},
		{"zero retention", func(c *Config) { c.Cache.Retention = 0 }, "cache.retention must be positive"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad journal type", func(c *Config) { c.Journal.Type = "postgres" }, "journal.type"},
		{"csv without path", func(c *Config) { c.Journal.Type = "csv" }, "journal.path required"},
		{"sqlite with path", func(c *Config) { c.Journal = JournalConfig{Type: "sqlite", Path: "loads.db"} }, ""},
		{"bad timeframe", func(c *Config) { c.Defaults.Timeframe = "2m" }, "defaults.timeframe"},
		{"future without sub market", func(c *Config) { c.Defaults.Market = "future" }, "market_sub"},
		{"future um", func(c *Config) { c.Defaults.Market, c.Defaults.MarketSub = "future", "um" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
		{"yml format", ".yml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.DataRoot = "/data/crypto"
			cfg.Cache.Retention = 6 * time.Hour
			cfg.Journal = JournalConfig{Type: "sqlite", Path: "loads.db"}
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))
			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("TRADE_DATA", "/mnt/trade")
	t.Setenv("TRADE_CACHE_RETENTION", "90m")
	t.Setenv("TRADE_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/mnt/trade", cfg.DataRoot)
	assert.Equal(t, 90*time.Minute, cfg.Cache.Retention)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "_cache", cfg.Cache.Dir)
	assert.Equal(t, "binance", cfg.Defaults.Source)
	assert.Equal(t, "1m", cfg.Defaults.Timeframe)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tradedata.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_root: /from/file\nlog:\n  level: warn\n"), 0o644))
	t.Setenv("TRADE_DATA", "/from/env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.DataRoot)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "pretty", cfg.Log.Format)
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)

	t.Setenv("TRADE_LOG_FORMAT", "xml")
	_, err = Load("")
	assert.ErrorContains(t, err, "log.format")
}

func TestUsage(t *testing.T) {
	u, err := Usage()
	require.NoError(t, err)
	assert.Contains(t, u, "TRADE_DATA")
	assert.Contains(t, u, "TRADE_CACHE_RETENTION")
}
