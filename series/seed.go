// series/seed.go
package series

import (
	"github.com/shopspring/decimal"

	"github.com/quantagri/agritrack/market"
)

// Seed builds the deterministic initial backfill: days consecutive
// calendar dates starting at start, every row carrying the entry prices
// as placeholders. Used when a seeding window is configured and no
// persisted series exists yet.
func Seed(start market.Date, days int, entry map[market.Instrument]decimal.Decimal) *Series {
	s := New()
	for i := 0; i < days; i++ {
		prices := make(market.Snapshot, len(entry))
		for in, p := range entry {
			prices[in] = p
		}
		s.Upsert(start.Add(i), prices)
	}
	return s
}
