package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/quantagri/agritrack/market"
	"github.com/quantagri/agritrack/pnl"
)

// Config is the complete tracker configuration. Entry prices, position
// directions and multipliers are configuration, never runtime input.
type Config struct {
	Portfolio PortfolioConfig `json:"portfolio" yaml:"portfolio"`
	Seed      SeedConfig      `json:"seed,omitempty" yaml:"seed,omitempty"`
	Store     StoreConfig     `json:"store" yaml:"store"`
	Quote     QuoteConfig     `json:"quote,omitempty" yaml:"quote,omitempty"`
}

// PortfolioConfig fixes the hypothetical book: the price each position
// was entered at, the outright positions, and the spread leg.
type PortfolioConfig struct {
	EntryPrices map[string]float64 `json:"entry_prices" yaml:"entry_prices"`
	Positions   []PositionConfig   `json:"positions" yaml:"positions"`
	Spread      SpreadConfig       `json:"spread" yaml:"spread"`
}

// PositionConfig is one outright position.
type PositionConfig struct {
	Instrument string  `json:"instrument" yaml:"instrument"`
	Direction  string  `json:"direction" yaml:"direction"` // "long" or "short"
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
}

// SpreadConfig is the synthetic spread position, valued buy minus sell.
type SpreadConfig struct {
	Buy        string  `json:"buy" yaml:"buy"`
	Sell       string  `json:"sell" yaml:"sell"`
	Direction  string  `json:"direction" yaml:"direction"`
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
}

// SeedConfig describes the deterministic initial backfill written when
// no persisted series exists. Empty means start from an empty series.
type SeedConfig struct {
	Start string `json:"start,omitempty" yaml:"start,omitempty"` // YYYY-MM-DD
	Days  int    `json:"days,omitempty" yaml:"days,omitempty"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Type string `json:"type" yaml:"type"` // "csv" or "sqlite"
	Path string `json:"path" yaml:"path"`
}

// QuoteConfig tunes the market-data client.
type QuoteConfig struct {
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"` // e.g. "30s"
}

// ParseTimeout converts the timeout string to a time.Duration. Empty
// means the client default.
func (q QuoteConfig) ParseTimeout() (time.Duration, error) {
	if q.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(q.Timeout)
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file, format chosen by extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
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

// Validate checks the configuration is complete and consistent.
func (c *Config) Validate() error {
	// Every tracked instrument needs an entry price: it is both the
	// P&L reference and the fetch-failure fallback.
	for _, in := range market.All() {
		if _, ok := c.Portfolio.EntryPrices[string(in)]; !ok {
			return fmt.Errorf("portfolio.entry_prices missing %s", in)
		}
	}
	for name := range c.Portfolio.EntryPrices {
		if _, err := market.ParseInstrument(name); err != nil {
			return fmt.Errorf("portfolio.entry_prices: %w", err)
		}
	}

	if len(c.Portfolio.Positions) == 0 {
		return fmt.Errorf("portfolio.positions is required")
	}
	seen := map[string]bool{}
	for _, p := range c.Portfolio.Positions {
		if _, err := market.ParseInstrument(p.Instrument); err != nil {
			return fmt.Errorf("portfolio.positions: %w", err)
		}
		if seen[p.Instrument] {
			return fmt.Errorf("portfolio.positions: duplicate position for %s", p.Instrument)
		}
		seen[p.Instrument] = true
		if _, err := pnl.ParseDirection(p.Direction); err != nil {
			return fmt.Errorf("portfolio.positions[%s]: %w", p.Instrument, err)
		}
		if p.Multiplier <= 0 {
			return fmt.Errorf("portfolio.positions[%s]: multiplier must be positive", p.Instrument)
		}
	}

	sp := c.Portfolio.Spread
	if _, err := market.ParseInstrument(sp.Buy); err != nil {
		return fmt.Errorf("portfolio.spread.buy: %w", err)
	}
	if _, err := market.ParseInstrument(sp.Sell); err != nil {
		return fmt.Errorf("portfolio.spread.sell: %w", err)
	}
	if sp.Buy == sp.Sell {
		return fmt.Errorf("portfolio.spread legs must differ")
	}
	if _, err := pnl.ParseDirection(sp.Direction); err != nil {
		return fmt.Errorf("portfolio.spread: %w", err)
	}
	if sp.Multiplier <= 0 {
		return fmt.Errorf("portfolio.spread.multiplier must be positive")
	}

	if c.Store.Type != "csv" && c.Store.Type != "sqlite" {
		return fmt.Errorf("store.type must be 'csv' or 'sqlite'")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}

	if (c.Seed.Start == "") != (c.Seed.Days == 0) {
		return fmt.Errorf("seed requires both start and days, or neither")
	}
	if c.Seed.Days < 0 {
		return fmt.Errorf("seed.days must not be negative")
	}
	if c.Seed.Start != "" {
		if _, err := market.ParseDate(c.Seed.Start); err != nil {
			return fmt.Errorf("seed.start: %w", err)
		}
	}

	if _, err := c.Quote.ParseTimeout(); err != nil {
		return fmt.Errorf("quote.timeout: %w", err)
	}
	return nil
}

// EntryPrices returns the configured entry prices as decimals. Call
// Validate first.
func (c *Config) EntryPrices() map[market.Instrument]decimal.Decimal {
	out := make(map[market.Instrument]decimal.Decimal, len(c.Portfolio.EntryPrices))
	for name, price := range c.Portfolio.EntryPrices {
		out[market.Instrument(name)] = decimal.NewFromFloat(price)
	}
	return out
}

// Engine builds the P&L engine for the configured book. Call Validate
// first.
func (c *Config) Engine() *pnl.Engine {
	e := &pnl.Engine{Entry: c.EntryPrices()}
	for _, p := range c.Portfolio.Positions {
		e.Positions = append(e.Positions, pnl.Position{
			Instrument: market.Instrument(p.Instrument),
			Multiplier: decimal.NewFromFloat(p.Multiplier),
			Direction:  pnl.Direction(p.Direction),
		})
	}
	e.Spread = pnl.Spread{
		Buy:        market.Instrument(c.Portfolio.Spread.Buy),
		Sell:       market.Instrument(c.Portfolio.Spread.Sell),
		Multiplier: decimal.NewFromFloat(c.Portfolio.Spread.Multiplier),
		Direction:  pnl.Direction(c.Portfolio.Spread.Direction),
	}
	return e
}

// Default returns the Q1 2025 QuantAgri book: short Soybeans, short
// Sugar, long the Wheat-Corn spread.
func Default() *Config {
	return &Config{
		Portfolio: PortfolioConfig{
			EntryPrices: map[string]float64{
				"Soybeans": 1062.00,
				"Corn":     444.50,
				"Wheat":    512.50,
				"Sugar":    14.89,
			},
			Positions: []PositionConfig{
				{Instrument: "Soybeans", Direction: "short", Multiplier: 5000},
				{Instrument: "Sugar", Direction: "short", Multiplier: 360000},
			},
			Spread: SpreadConfig{
				Buy:        "Wheat",
				Sell:       "Corn",
				Direction:  "long",
				Multiplier: 5000,
			},
		},
		Store: StoreConfig{
			Type: "csv",
			Path: "./quantagri_tracker.csv",
		},
		Quote: QuoteConfig{
			Timeout: "30s",
		},
	}
}
