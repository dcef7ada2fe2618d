// tracker/tracker.go
package tracker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/quantagri/agritrack/config"
	"github.com/quantagri/agritrack/market"
	"github.com/quantagri/agritrack/pkg/id"
	"github.com/quantagri/agritrack/pnl"
	"github.com/quantagri/agritrack/series"
)

// Source provides the latest prices for a set of instruments. A missing
// instrument in the snapshot means the fetch failed for it.
type Source interface {
	Fetch(ctx context.Context, instruments []market.Instrument) market.Snapshot
}

// Tracker runs one update cycle against a store and a price source.
// Cycles are run-to-completion and single-threaded; concurrent runs
// against the same store must be serialized by the caller.
type Tracker struct {
	engine *pnl.Engine
	cfg    *config.Config
	store  series.Store
	source Source

	// Now supplies the cycle's calendar date. Overridable in tests.
	Now func() market.Date
}

// New wires a tracker from validated configuration.
func New(cfg *config.Config, store series.Store, source Source) *Tracker {
	return &Tracker{
		engine: cfg.Engine(),
		cfg:    cfg,
		store:  store,
		source: source,
		Now:    market.Today,
	}
}

// Engine exposes the configured P&L engine, for reporting.
func (t *Tracker) Engine() *pnl.Engine { return t.engine }

// RunOnce executes one update cycle: load (or seed) the series, fetch
// prices, fill fetch gaps from the entry prices, upsert today's row,
// recompute P&L over the whole series, persist, and record the run.
// It returns the recomputed latest row.
//
// A corrupt store aborts before anything is written; the prior
// persisted copy stays untouched.
func (t *Tracker) RunOnce(ctx context.Context) (series.Row, error) {
	s, err := t.store.Load()
	if err != nil {
		return series.Row{}, fmt.Errorf("load series: %w", err)
	}

	entry := t.cfg.EntryPrices()
	if s.Len() == 0 && t.cfg.Seed.Start != "" {
		start := market.MustParseDate(t.cfg.Seed.Start) // validated at load
		s = series.Seed(start, t.cfg.Seed.Days, entry)
	}

	snap := t.source.Fetch(ctx, market.All())
	missing := snap.Missing(market.All())
	for _, in := range missing {
		log.Printf("warn: no quote for %s, using entry price %s", in, entry[in])
	}

	today := t.Now()
	s.Upsert(today, snap.Complete(market.All(), entry))
	t.engine.Recompute(s)

	if err := t.store.Save(s); err != nil {
		return series.Row{}, fmt.Errorf("save series: %w", err)
	}

	rec := series.RunRecord{
		RunID:    id.New(),
		Time:     time.Now().UTC(),
		Date:     today,
		Fetched:  len(snap),
		Fallback: len(missing),
	}
	if err := t.store.RecordRun(rec); err != nil {
		// The update itself is already durable; a failed audit record
		// is not worth failing the cycle over.
		log.Printf("warn: record run %s: %v", rec.RunID, err)
	}

	row, _ := s.Latest()
	return row, nil
}

// OpenStore builds the configured store backend.
func OpenStore(cfg *config.Config) (series.Store, error) {
	switch cfg.Store.Type {
	case "sqlite":
		return series.NewSQLite(cfg.Store.Path)
	default:
		return series.NewCSV(cfg.Store.Path), nil
	}
}
