package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantagri/agritrack/market"
	"github.com/quantagri/agritrack/pnl"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "csv", cfg.Store.Type)
	assert.Len(t, cfg.Portfolio.Positions, 2)
	assert.Equal(t, "Wheat", cfg.Portfolio.Spread.Buy)
	assert.Equal(t, "Corn", cfg.Portfolio.Spread.Sell)

	timeout, err := cfg.Quote.ParseTimeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout)
}

func TestEntryPricesAreExact(t *testing.T) {
	t.Parallel()

	entry := Default().EntryPrices()
	assert.True(t, entry[market.Soybeans].Equal(decimal.RequireFromString("1062")))
	assert.True(t, entry[market.Sugar].Equal(decimal.RequireFromString("14.89")))
	assert.True(t, entry[market.Wheat].Equal(decimal.RequireFromString("512.5")))
	assert.True(t, entry[market.Corn].Equal(decimal.RequireFromString("444.5")))
}

func TestEngineFromConfig(t *testing.T) {
	t.Parallel()

	e := Default().Engine()
	require.Len(t, e.Positions, 2)
	assert.Equal(t, market.Soybeans, e.Positions[0].Instrument)
	assert.Equal(t, pnl.Short, e.Positions[0].Direction)
	assert.True(t, e.Positions[1].Multiplier.Equal(decimal.NewFromInt(360000)))
	assert.Equal(t, market.Wheat, e.Spread.Buy)
	assert.Equal(t, pnl.Long, e.Spread.Direction)
}

func mutated(fn func(*Config)) *Config {
	cfg := Default()
	fn(cfg)
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			config:  Default(),
			wantErr: false,
		},
		{
			name: "valid with seed window",
			config: mutated(func(c *Config) {
				c.Seed = SeedConfig{Start: "2025-03-28", Days: 5}
			}),
			wantErr: false,
		},
		{
			name: "missing entry price",
			config: mutated(func(c *Config) {
				delete(c.Portfolio.EntryPrices, "Wheat")
			}),
			wantErr: true,
			errMsg:  "entry_prices missing Wheat",
		},
		{
			name: "unknown entry instrument",
			config: mutated(func(c *Config) {
				c.Portfolio.EntryPrices["Cocoa"] = 100
			}),
			wantErr: true,
			errMsg:  "unknown instrument",
		},
		{
			name: "no positions",
			config: mutated(func(c *Config) {
				c.Portfolio.Positions = nil
			}),
			wantErr: true,
			errMsg:  "positions is required",
		},
		{
			name: "duplicate position",
			config: mutated(func(c *Config) {
				c.Portfolio.Positions = append(c.Portfolio.Positions, c.Portfolio.Positions[0])
			}),
			wantErr: true,
			errMsg:  "duplicate position",
		},
		{
			name: "bad direction",
			config: mutated(func(c *Config) {
				c.Portfolio.Positions[0].Direction = "sideways"
			}),
			wantErr: true,
			errMsg:  "direction",
		},
		{
			name: "zero multiplier",
			config: mutated(func(c *Config) {
				c.Portfolio.Positions[1].Multiplier = 0
			}),
			wantErr: true,
			errMsg:  "multiplier must be positive",
		},
		{
			name: "spread legs equal",
			config: mutated(func(c *Config) {
				c.Portfolio.Spread.Sell = c.Portfolio.Spread.Buy
			}),
			wantErr: true,
			errMsg:  "spread legs must differ",
		},
		{
			name: "bad store type",
			config: mutated(func(c *Config) {
				c.Store.Type = "postgres"
			}),
			wantErr: true,
			errMsg:  "store.type",
		},
		{
			name: "empty store path",
			config: mutated(func(c *Config) {
				c.Store.Path = ""
			}),
			wantErr: true,
			errMsg:  "store.path is required",
		},
		{
			name: "seed start without days",
			config: mutated(func(c *Config) {
				c.Seed = SeedConfig{Start: "2025-03-28"}
			}),
			wantErr: true,
			errMsg:  "seed requires both",
		},
		{
			name: "seed days without start",
			config: mutated(func(c *Config) {
				c.Seed = SeedConfig{Days: 5}
			}),
			wantErr: true,
			errMsg:  "seed requires both",
		},
		{
			name: "bad seed date",
			config: mutated(func(c *Config) {
				c.Seed = SeedConfig{Start: "someday", Days: 5}
			}),
			wantErr: true,
			errMsg:  "seed.start",
		},
		{
			name: "bad quote timeout",
			config: mutated(func(c *Config) {
				c.Quote.Timeout = "soon"
			}),
			wantErr: true,
			errMsg:  "quote.timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	for _, ext := range []string{".yaml", ".json"} {
		path := filepath.Join(tmpDir, "config"+ext)

		cfg := Default()
		cfg.Seed = SeedConfig{Start: "2025-03-28", Days: 5}
		require.NoError(t, cfg.SaveToFile(path))

		loaded, err := LoadFromFile(path)
		require.NoError(t, err, ext)
		assert.Equal(t, cfg.Portfolio, loaded.Portfolio, ext)
		assert.Equal(t, cfg.Seed, loaded.Seed, ext)
		assert.Equal(t, cfg.Store, loaded.Store, ext)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	cfg := Default()
	cfg.Store.Type = "postgres"
	require.NoError(t, cfg.SaveToFile(path))

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadGarbage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "garbage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{{not config"), 0644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}
