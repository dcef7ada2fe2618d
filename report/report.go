// report/report.go
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quantagri/agritrack/market"
	"github.com/quantagri/agritrack/pnl"
	"github.com/quantagri/agritrack/series"
)

// Summary formats the latest row for the console: one line per outright
// position, the spread, and the portfolio total.
func Summary(row series.Row, positions []pnl.Position, spread pnl.Spread) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 QuantAgri Tracker Updated: %s\n", row.Date)
	for _, p := range positions {
		meta := market.Instruments[p.Instrument]
		fmt.Fprintf(&b, "%s: %s %s | P&L: %s\n",
			p.Instrument,
			row.Prices[p.Instrument].StringFixed(2),
			meta.Unit,
			Money(row.PnL[p.Instrument]),
		)
	}
	fmt.Fprintf(&b, "Spread (%s-%s): %s | P&L: %s\n",
		spread.Buy, spread.Sell,
		row.SpreadValue.StringFixed(2),
		Money(row.SpreadPnL),
	)
	fmt.Fprintf(&b, "💰 Total Portfolio P&L: %s\n", Money(row.TotalPnL))
	return b.String()
}

// Line formats one row for history listings.
func Line(row series.Row) string {
	var prices []string
	for _, in := range market.All() {
		prices = append(prices, fmt.Sprintf("%s %s", in, row.Prices[in].StringFixed(2)))
	}
	return fmt.Sprintf("%s  %s  total %s", row.Date, strings.Join(prices, "  "), Money(row.TotalPnL))
}

// Money renders a dollar amount with thousands separators and no
// fractional cents, e.g. $-140,400.
func Money(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	digits := strings.TrimPrefix(s, "-")

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := "$" + strings.Join(groups, ",")
	if neg {
		out = "$-" + strings.Join(groups, ",")
	}
	return out
}
