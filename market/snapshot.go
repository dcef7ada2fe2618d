// market/snapshot.go
package market

import "github.com/shopspring/decimal"

// Snapshot holds the prices observed in one fetch cycle. An instrument
// missing from the map means the fetch failed or returned no data for
// it; callers decide the fallback.
type Snapshot map[Instrument]decimal.Decimal

// Get returns the observed price for in, if any.
func (s Snapshot) Get(in Instrument) (decimal.Decimal, bool) {
	p, ok := s[in]
	return p, ok
}

// Complete returns a snapshot with every instrument in order present,
// filling gaps from fallback. The receiver is not modified.
func (s Snapshot) Complete(order []Instrument, fallback map[Instrument]decimal.Decimal) Snapshot {
	out := make(Snapshot, len(order))
	for _, in := range order {
		if p, ok := s[in]; ok {
			out[in] = p
			continue
		}
		out[in] = fallback[in]
	}
	return out
}

// Missing lists the instruments from order absent from the snapshot.
func (s Snapshot) Missing(order []Instrument) []Instrument {
	var out []Instrument
	for _, in := range order {
		if _, ok := s[in]; !ok {
			out = append(out, in)
		}
	}
	return out
}
