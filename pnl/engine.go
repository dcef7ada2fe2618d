// pnl/engine.go
package pnl

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/quantagri/agritrack/market"
	"github.com/quantagri/agritrack/series"
)

// Direction is the declared side of a position. It is configuration,
// fixed per leg; the P&L formula itself never special-cases signs.
type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// Sign returns +1 for long, -1 for short.
func (d Direction) Sign() decimal.Decimal {
	if d == Short {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// ParseDirection converts a config value.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Long, Short:
		return Direction(s), nil
	}
	return "", fmt.Errorf("direction must be %q or %q, got %q", Long, Short, s)
}

// Position is one outright futures position.
type Position struct {
	Instrument market.Instrument
	Multiplier decimal.Decimal
	Direction  Direction
}

// Spread is the synthetic two-leg position, valued as price(Buy) -
// price(Sell).
type Spread struct {
	Buy        market.Instrument
	Sell       market.Instrument
	Multiplier decimal.Decimal
	Direction  Direction
}

// Engine recomputes the derived columns of a series against fixed entry
// prices. It is a pure transform: same series prices and entry prices
// always produce the same derived columns.
type Engine struct {
	Entry     map[market.Instrument]decimal.Decimal
	Positions []Position
	Spread    Spread
}

// Recompute rewrites the derived columns of every row:
//
//	position P&L = sign(direction) × (price − entry) × multiplier
//	spread value = price(buy) − price(sell)
//	spread P&L   = sign(direction) × (spread − entry spread) × multiplier
//	total P&L    = Σ position P&L + spread P&L
//
// Every historical row is recomputed on every call, so a change of
// entry prices or directions is reflected uniformly across history.
func (e *Engine) Recompute(s *series.Series) {
	entrySpread := e.Entry[e.Spread.Buy].Sub(e.Entry[e.Spread.Sell])

	s.Apply(func(r *series.Row) {
		r.PnL = make(map[market.Instrument]decimal.Decimal, len(market.All()))
		for _, in := range market.All() {
			r.PnL[in] = decimal.Zero
		}

		total := decimal.Zero
		for _, p := range e.Positions {
			move := r.Prices[p.Instrument].Sub(e.Entry[p.Instrument])
			pl := p.Direction.Sign().Mul(move).Mul(p.Multiplier)
			r.PnL[p.Instrument] = pl
			total = total.Add(pl)
		}

		r.SpreadValue = r.Prices[e.Spread.Buy].Sub(r.Prices[e.Spread.Sell])
		r.SpreadPnL = e.Spread.Direction.Sign().Mul(r.SpreadValue.Sub(entrySpread)).Mul(e.Spread.Multiplier)
		r.TotalPnL = total.Add(r.SpreadPnL)
	})
}
