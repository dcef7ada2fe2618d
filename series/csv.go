// series/csv.go
package series

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantagri/agritrack/market"
)

// CSVStore persists the series as a single flat CSV file, one row per
// date, plus a sidecar *_runs.csv audit log.
type CSVStore struct {
	path     string
	runsPath string
}

// NewCSV returns a store backed by the CSV file at path. The file is
// created on first Save.
func NewCSV(path string) *CSVStore {
	ext := filepath.Ext(path)
	runs := strings.TrimSuffix(path, ext) + "_runs" + ext
	return &CSVStore{path: path, runsPath: runs}
}

// Load reads the persisted series. A missing file yields an empty
// series; anything unparseable fails with ErrCorruptStore.
func (c *CSVStore) Load() (*Series, error) {
	f, err := os.Open(c.path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptStore, c.path, err)
	}
	if len(records) == 0 {
		return New(), nil
	}

	// Column order in the file is free, but every declared column must
	// be present.
	idx := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		idx[name] = i
	}
	for _, col := range Columns() {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s: missing column %q", ErrCorruptStore, c.path, col)
		}
	}

	s := New()
	for _, rec := range records[1:] {
		row, err := parseRecord(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorruptStore, c.path, err)
		}
		s.rows = append(s.rows, row)
	}
	sort.Slice(s.rows, func(i, j int) bool {
		return s.rows[i].Date.Before(s.rows[j].Date)
	})
	return s, nil
}

func parseRecord(rec []string, idx map[string]int) (Row, error) {
	field := func(col string) (string, error) {
		i := idx[col]
		if i >= len(rec) {
			return "", fmt.Errorf("short record, no %q field", col)
		}
		return rec[i], nil
	}
	dec := func(col string) (decimal.Decimal, error) {
		raw, err := field(col)
		if err != nil {
			return decimal.Zero, err
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("column %q: %v", col, err)
		}
		return d, nil
	}

	raw, err := field("date")
	if err != nil {
		return Row{}, err
	}
	on, err := market.ParseDate(raw)
	if err != nil {
		return Row{}, err
	}

	row := Row{
		Date:   on,
		Prices: map[market.Instrument]decimal.Decimal{},
		PnL:    map[market.Instrument]decimal.Decimal{},
	}
	for _, in := range market.All() {
		if row.Prices[in], err = dec(priceColumns[in]); err != nil {
			return Row{}, err
		}
		if row.PnL[in], err = dec(pnlColumns[in]); err != nil {
			return Row{}, err
		}
	}
	if row.SpreadValue, err = dec("spread_value"); err != nil {
		return Row{}, err
	}
	if row.SpreadPnL, err = dec("spread_pnl"); err != nil {
		return Row{}, err
	}
	if row.TotalPnL, err = dec("total_pnl"); err != nil {
		return Row{}, err
	}
	return row, nil
}

// Save serializes the whole series, fully replacing the prior file.
// The write goes to a temp file first and is renamed into place, so a
// failed save never clobbers the previous copy.
func (c *CSVStore) Save(s *Series) error {
	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".series-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(Columns()); err != nil {
		tmp.Close()
		return err
	}
	for _, row := range s.Rows() {
		rec := []string{row.Date.String()}
		for _, in := range market.All() {
			rec = append(rec, row.Prices[in].String())
		}
		for _, in := range market.All() {
			rec = append(rec, row.PnL[in].String())
		}
		rec = append(rec, row.SpreadValue.String(), row.SpreadPnL.String(), row.TotalPnL.String())
		if err := w.Write(rec); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.path)
}

// RecordRun appends one audit record to the runs sidecar, creating it
// with a header on first use.
func (c *CSVStore) RecordRun(r RunRecord) error {
	f, err := os.OpenFile(c.runsPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if st.Size() == 0 {
		if err := w.Write([]string{"run_id", "time", "date", "fetched", "fallback"}); err != nil {
			return err
		}
	}
	err = w.Write([]string{
		r.RunID,
		r.Time.Format(time.RFC3339),
		r.Date.String(),
		fmt.Sprintf("%d", r.Fetched),
		fmt.Sprintf("%d", r.Fallback),
	})
	if err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (c *CSVStore) Close() error { return nil }
