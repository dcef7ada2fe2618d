// market/date.go
package market

import (
	"fmt"
	"time"
)

// DateFormat is the ISO-8601 form dates take in files and on the wire.
const DateFormat = "2006-01-02"

// readDateFormat also accepts single-digit month and day on input.
const readDateFormat = "2006-1-2"

// Date is a calendar date with day granularity. Two runs on the same
// calendar day compare equal regardless of time of day, which is what
// makes the upsert key converge to a single row per day.
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns a normalized Date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.Time().Date()
	return d
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date { return NewDate(t.Date()) }

// Today returns the current calendar date.
func Today() Date { return DateOf(time.Now()) }

// Time returns the canonical time for the date, midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC)
}

// Add returns the date i days later (earlier for negative i).
func (d Date) Add(i int) Date { return NewDate(d.y, d.m, d.d+i) }

// Before reports whether d falls before x.
func (d Date) Before(x Date) bool { return d.Time().Before(x.Time()) }

// After reports whether d falls after x.
func (d Date) After(x Date) bool { return d.Time().After(x.Time()) }

func (d Date) String() string { return d.Time().Format(DateFormat) }

// ParseDate parses an ISO-8601 date, accepting "2025-7-1" as well as
// "2025-07-01".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(readDateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", s, err)
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate that panics on error, for fixed test and
// seed dates.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err.Error())
	}
	return d
}
