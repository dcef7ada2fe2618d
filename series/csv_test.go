package series

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantagri/agritrack/market"
)

func sampleSeries(t *testing.T) *Series {
	t.Helper()
	s := New()
	s.Upsert(market.MustParseDate("2025-04-01"), snapshot(1070, 450, 520, 14.50))
	s.Upsert(market.MustParseDate("2025-04-02"), snapshot(1075, 452, 523, 14.62))
	s.Apply(func(r *Row) {
		r.PnL[market.Soybeans] = decimal.NewFromInt(-40000)
		r.PnL[market.Sugar] = decimal.NewFromInt(140400)
		r.SpreadValue = decimal.NewFromInt(70)
		r.SpreadPnL = decimal.NewFromInt(10000)
		r.TotalPnL = decimal.NewFromInt(110400)
	})
	return s
}

func assertSameSeries(t *testing.T, want, got *Series) {
	t.Helper()
	require.Equal(t, want.Len(), got.Len())
	for i, w := range want.Rows() {
		g := got.Rows()[i]
		assert.Equal(t, w.Date, g.Date)
		for _, in := range market.All() {
			assert.True(t, g.Prices[in].Equal(w.Prices[in]), "row %d price %s", i, in)
			assert.True(t, g.PnL[in].Equal(w.PnL[in]), "row %d pnl %s", i, in)
		}
		assert.True(t, g.SpreadValue.Equal(w.SpreadValue), "row %d spread value", i)
		assert.True(t, g.SpreadPnL.Equal(w.SpreadPnL), "row %d spread pnl", i)
		assert.True(t, g.TotalPnL.Equal(w.TotalPnL), "row %d total pnl", i)
	}
}

func TestCSVSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tracker.csv")
	store := NewCSV(path)

	want := sampleSeries(t)
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assertSameSeries(t, want, got)
}

func TestCSVLoadMissingFileYieldsEmptySeries(t *testing.T) {
	t.Parallel()

	store := NewCSV(filepath.Join(t.TempDir(), "absent.csv"))
	s, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestCSVSaveOverwritesPriorCopy(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tracker.csv")
	store := NewCSV(path)

	first := New()
	first.Upsert(market.MustParseDate("2025-04-01"), snapshot(1070, 450, 520, 14.50))
	require.NoError(t, store.Save(first))

	second := New()
	second.Upsert(market.MustParseDate("2025-04-01"), snapshot(1080, 451, 521, 14.60))
	require.NoError(t, store.Save(second))

	got, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	row, _ := got.Get(market.MustParseDate("2025-04-01"))
	assert.True(t, row.Prices[market.Soybeans].Equal(decimal.NewFromInt(1080)))
}

func TestCSVLoadToleratesColumnOrder(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tracker.csv")

	// Write a file with the columns shuffled.
	cols := Columns()
	shuffled := append([]string{}, cols[len(cols)-1])
	shuffled = append(shuffled, cols[:len(cols)-1]...)

	values := map[string]string{"date": "2025-04-01", "total_pnl": "110400"}
	for _, c := range cols {
		if _, ok := values[c]; !ok {
			values[c] = "1"
		}
	}
	var rec []string
	for _, c := range shuffled {
		rec = append(rec, values[c])
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	w := csv.NewWriter(f)
	require.NoError(t, w.Write(shuffled))
	require.NoError(t, w.Write(rec))
	w.Flush()
	require.NoError(t, w.Error())
	require.NoError(t, f.Close())

	got, err := NewCSV(path).Load()
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	row := got.Rows()[0]
	assert.Equal(t, "2025-04-01", row.Date.String())
	assert.True(t, row.TotalPnL.Equal(decimal.NewFromInt(110400)))
}

func TestCSVLoadMissingColumnIsCorrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tracker.csv")
	data := "date,soybeans_cents_bu\n2025-04-01,1070\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	_, err := NewCSV(path).Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptStore)
	assert.Contains(t, err.Error(), "missing column")
}

func TestCSVLoadBadValueIsCorrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tracker.csv")
	store := NewCSV(path)
	require.NoError(t, store.Save(sampleSeries(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	mangled := strings.Replace(string(data), "1070", "not-a-number", 1)
	require.NoError(t, os.WriteFile(path, []byte(mangled), 0644))

	_, err = store.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptStore)
}

func TestCSVLoadBadDateIsCorrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tracker.csv")
	store := NewCSV(path)
	require.NoError(t, store.Save(sampleSeries(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	mangled := strings.Replace(string(data), "2025-04-01", "yesterday", 1)
	require.NoError(t, os.WriteFile(path, []byte(mangled), 0644))

	_, err = store.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptStore)
}

func TestCSVRecordRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "tracker.csv")
	store := NewCSV(path)

	rec := RunRecord{
		RunID:    "01HRUNID",
		Time:     time.Date(2025, 4, 1, 21, 0, 0, 0, time.UTC),
		Date:     market.MustParseDate("2025-04-01"),
		Fetched:  3,
		Fallback: 1,
	}
	require.NoError(t, store.RecordRun(rec))
	require.NoError(t, store.RecordRun(rec))

	data, err := os.ReadFile(filepath.Join(dir, "tracker_runs.csv"))
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + two records
	assert.Equal(t, []string{"run_id", "time", "date", "fetched", "fallback"}, rows[0])
	assert.Equal(t, []string{"01HRUNID", "2025-04-01T21:00:00Z", "2025-04-01", "3", "1"}, rows[1])
}
