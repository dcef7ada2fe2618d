// series/sqlite.go
package series

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/quantagri/agritrack/market"
)

// SQLiteStore persists the series in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the database at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (q *SQLiteStore) Load() (*Series, error) {
	rows, err := q.db.Query(`SELECT ` + strings.Join(Columns(), ", ") + ` FROM series ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}
	defer rows.Close()

	s := New()
	for rows.Next() {
		fields := make([]string, len(Columns()))
		dest := make([]any, len(fields))
		for i := range fields {
			dest[i] = &fields[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
		}
		row, err := parseFields(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
		}
		s.rows = append(s.rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Slice(s.rows, func(i, j int) bool {
		return s.rows[i].Date.Before(s.rows[j].Date)
	})
	return s, nil
}

// parseFields decodes one record in Columns() order.
func parseFields(fields []string) (Row, error) {
	i := 0
	next := func() string {
		f := fields[i]
		i++
		return f
	}
	dec := func(col string) (decimal.Decimal, error) {
		d, err := decimal.NewFromString(next())
		if err != nil {
			return decimal.Zero, fmt.Errorf("column %q: %v", col, err)
		}
		return d, nil
	}

	on, err := market.ParseDate(next())
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
	}
	for _, in := range market.All() {
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

// Save replaces the persisted series in one transaction.
func (q *SQLiteStore) Save(s *Series) error {
	tx, err := q.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM series`); err != nil {
		return err
	}

	cols := Columns()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt, err := tx.Prepare(`INSERT INTO series (` + strings.Join(cols, ", ") + `) VALUES (` + placeholders + `)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range s.Rows() {
		args := []any{row.Date.String()}
		for _, in := range market.All() {
			args = append(args, row.Prices[in].String())
		}
		for _, in := range market.All() {
			args = append(args, row.PnL[in].String())
		}
		args = append(args, row.SpreadValue.String(), row.SpreadPnL.String(), row.TotalPnL.String())
		if _, err := stmt.Exec(args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (q *SQLiteStore) RecordRun(r RunRecord) error {
	_, err := q.db.Exec(`
		INSERT INTO runs (run_id, time, date, fetched, fallback)
		VALUES (?, ?, ?, ?, ?)`,
		r.RunID, r.Time, r.Date.String(), r.Fetched, r.Fallback,
	)
	return err
}

func (q *SQLiteStore) Close() error { return q.db.Close() }
