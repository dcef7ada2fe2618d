// series/store.go
package series

import (
	"errors"
	"time"

	"github.com/quantagri/agritrack/market"
)

// ErrCorruptStore reports persisted data that no longer matches the
// series schema. It is fatal for the update cycle; the store never
// auto-repairs and the prior file is left untouched.
var ErrCorruptStore = errors.New("corrupt series store")

// RunRecord is the audit entry written after a successful update cycle.
type RunRecord struct {
	RunID    string
	Time     time.Time
	Date     market.Date
	Fetched  int // instruments with a live quote
	Fallback int // instruments filled from entry price
}

// Store owns the persisted series.
type Store interface {
	// Load returns the persisted series, or an empty one when nothing
	// has been persisted yet. Unparseable data fails with a wrapped
	// ErrCorruptStore.
	Load() (*Series, error)

	// Save replaces the entire persisted copy with the given series.
	// All-or-nothing: a failed save leaves the prior copy intact.
	Save(*Series) error

	// RecordRun appends one update-cycle audit record.
	RecordRun(RunRecord) error

	Close() error
}

// priceColumns and pnlColumns give the stable column name per
// instrument, shared by the CSV header and the SQLite schema.
var priceColumns = map[market.Instrument]string{
	market.Soybeans: "soybeans_cents_bu",
	market.Corn:     "corn_cents_bu",
	market.Wheat:    "wheat_cents_bu",
	market.Sugar:    "sugar_cents_lb",
}

var pnlColumns = map[market.Instrument]string{
	market.Soybeans: "soybeans_pnl",
	market.Corn:     "corn_pnl",
	market.Wheat:    "wheat_pnl",
	market.Sugar:    "sugar_pnl",
}

// Columns returns the full schema in stable order: date, prices, then
// the derived P&L columns.
func Columns() []string {
	cols := []string{"date"}
	for _, in := range market.All() {
		cols = append(cols, priceColumns[in])
	}
	for _, in := range market.All() {
		cols = append(cols, pnlColumns[in])
	}
	return append(cols, "spread_value", "spread_pnl", "total_pnl")
}
