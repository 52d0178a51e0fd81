package ledger

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar day in UTC (arrival/departure and entry attribution dates)
// =============================================================================

// Date is a calendar day. The engine only ever reasons at day granularity;
// normalizing to midnight UTC keeps comparisons and month stepping exact.
type Date struct {
	Time time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a "2006-01-02" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }
func (d Date) IsZero() bool                  { return d.Time.IsZero() }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{Time: d.normalize().AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{Time: d.normalize().AddDate(0, n, 0)} }

// Properties
func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }

// StartOfMonth returns the first day of the date's month.
func (d Date) StartOfMonth() Date { return NewDate(d.Year(), d.Month(), 1) }

// ReportMonth returns the "YYYY-MM" reporting-period label for the date.
func (d Date) ReportMonth() string { return d.normalize().Format("2006-01") }

func (d Date) String() string { return d.normalize().Format("2006-01-02") }
