// series/schema.go
package series

// Prices and P&L amounts are stored as TEXT so decimal values round-trip
// exactly.
const Schema = `
CREATE TABLE IF NOT EXISTS series (
	date TEXT PRIMARY KEY,
	soybeans_cents_bu TEXT NOT NULL,
	corn_cents_bu TEXT NOT NULL,
	wheat_cents_bu TEXT NOT NULL,
	sugar_cents_lb TEXT NOT NULL,
	soybeans_pnl TEXT NOT NULL,
	corn_pnl TEXT NOT NULL,
	wheat_pnl TEXT NOT NULL,
	sugar_pnl TEXT NOT NULL,
	spread_value TEXT NOT NULL,
	spread_pnl TEXT NOT NULL,
	total_pnl TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	date TEXT NOT NULL,
	fetched INTEGER NOT NULL,
	fallback INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_time ON runs(time);
`
