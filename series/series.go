// series/series.go
package series

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/quantagri/agritrack/market"
)

// Row is one day of the ledger: the observed price per instrument plus
// the derived mark-to-market columns. Derived columns are owned by the
// P&L engine; Upsert always resets them.
type Row struct {
	Date        market.Date
	Prices      map[market.Instrument]decimal.Decimal
	PnL         map[market.Instrument]decimal.Decimal
	SpreadValue decimal.Decimal
	SpreadPnL   decimal.Decimal
	TotalPnL    decimal.Decimal
}

// Series is the persisted day-by-day ledger, ordered by date with at
// most one row per calendar date.
type Series struct {
	rows []Row
}

// New returns an empty series.
func New() *Series { return &Series{} }

// Len returns the number of rows.
func (s *Series) Len() int { return len(s.rows) }

// Rows returns the rows in chronological order. The slice is the
// series' backing store; callers must not reorder it.
func (s *Series) Rows() []Row { return s.rows }

// Latest returns the most recent row, or false on an empty series.
func (s *Series) Latest() (Row, bool) {
	if len(s.rows) == 0 {
		return Row{}, false
	}
	return s.rows[len(s.rows)-1], true
}

// Get returns the row for the given date, if present.
func (s *Series) Get(on market.Date) (Row, bool) {
	for _, r := range s.rows {
		if r.Date == on {
			return r, true
		}
	}
	return Row{}, false
}

// Upsert merges one day's prices into the series. Afterwards exactly
// one row exists for the date, holding the given prices with derived
// columns zeroed; a pre-existing row for the same calendar date is
// replaced, never duplicated. Rows for other dates are untouched.
//
// This is a pure merge: no P&L is computed here.
func (s *Series) Upsert(on market.Date, prices market.Snapshot) {
	row := Row{
		Date:   on,
		Prices: make(map[market.Instrument]decimal.Decimal, len(prices)),
		PnL:    map[market.Instrument]decimal.Decimal{},
	}
	for in, p := range prices {
		row.Prices[in] = p
	}

	for i := range s.rows {
		if s.rows[i].Date == on {
			// Same calendar date: the latest run wins.
			s.rows[i] = row
			return
		}
	}

	s.rows = append(s.rows, row)
	sort.Slice(s.rows, func(i, j int) bool {
		return s.rows[i].Date.Before(s.rows[j].Date)
	})
}

// Apply calls fn on every row in chronological order, allowing in-place
// mutation of the derived columns.
func (s *Series) Apply(fn func(*Row)) {
	for i := range s.rows {
		fn(&s.rows[i])
	}
}
