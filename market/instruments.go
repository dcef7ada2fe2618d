// market/instruments.go
package market

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Instrument identifies one of the tracked commodity futures contracts.
type Instrument string

const (
	Soybeans Instrument = "Soybeans"
	Corn     Instrument = "Corn"
	Wheat    Instrument = "Wheat"
	Sugar    Instrument = "Sugar"
)

// InstrumentMeta describes one tracked contract.
type InstrumentMeta struct {
	Name       Instrument
	Symbol     string // quote provider ticker
	Unit       string // price unit for display
	Multiplier decimal.Decimal // dollars per unit of price move, one contract
}

var Instruments = map[Instrument]InstrumentMeta{
	Soybeans: {
		Name:       Soybeans,
		Symbol:     "ZS=F",
		Unit:       "¢/bu",
		Multiplier: decimal.NewFromInt(5000),
	},
	Corn: {
		Name:       Corn,
		Symbol:     "ZC=F",
		Unit:       "¢/bu",
		Multiplier: decimal.NewFromInt(5000),
	},
	Wheat: {
		Name:       Wheat,
		Symbol:     "ZW=F",
		Unit:       "¢/bu",
		Multiplier: decimal.NewFromInt(5000),
	},
	Sugar: {
		Name:       Sugar,
		Symbol:     "SB=F",
		Unit:       "¢/lb",
		Multiplier: decimal.NewFromInt(360000),
	},
}

// All returns the tracked instruments in a stable order. Series columns
// and fetch loops rely on this order being fixed.
func All() []Instrument {
	return []Instrument{Soybeans, Corn, Wheat, Sugar}
}

// ParseInstrument converts a name from config or CLI input.
func ParseInstrument(s string) (Instrument, error) {
	in := Instrument(s)
	if _, ok := Instruments[in]; !ok {
		return "", fmt.Errorf("unknown instrument: %s", s)
	}
	return in, nil
}
