// Package analytics holds the per-file, per-user, per-day view ledger:
// file records, daily entries, day bucketing and the derived totals.
package analytics

import (
	"strings"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
)

// Layouts accepted by ParseDay and ParseMonth
const (
	DayLayout   = "2006-01-02"
	MonthLayout = "2006-01"
)

// Clock returns the current instant. Services take one so tests can pin "today".
type Clock func() time.Time

// SystemClock is the wall clock
func SystemClock() time.Time {
	return time.Now()
}

// DayOf returns the UTC start of the civil day containing t.
// Every bucket in the ledger is computed in UTC regardless of the caller's zone.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthOf returns the UTC start of the month containing t
func MonthOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of calendar days in the month containing t
func DaysInMonth(t time.Time) int {
	return MonthOf(t).AddDate(0, 1, -1).Day()
}

// DaysOf lists every day bucket of the month containing t, in order
func DaysOf(t time.Time) []time.Time {
	start := MonthOf(t)
	n := DaysInMonth(start)
	days := make([]time.Time, n)
	for i := 0; i < n; i++ {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// Period is a half-open [Start, End) range of day buckets
type Period struct {
	Start time.Time
	End   time.Time
}

// DayPeriod covers exactly one day bucket
func DayPeriod(t time.Time) Period {
	start := DayOf(t)
	return Period{Start: start, End: start.AddDate(0, 0, 1)}
}

// MonthPeriod covers the calendar month containing t
func MonthPeriod(t time.Time) Period {
	start := MonthOf(t)
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}

// ClosedAt reports whether no further views can land in the period,
// i.e. the period ends at or before the bucket of now.
func (p Period) ClosedAt(now time.Time) bool {
	return !p.End.After(DayOf(now))
}

// Contains reports whether day falls in the period
func (p Period) Contains(day time.Time) bool {
	d := DayOf(day)
	return !d.Before(p.Start) && d.Before(p.End)
}

// ParseDay parses "2006-01-02" or an RFC3339 instant into its UTC day bucket
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DayLayout, s); err == nil {
		return DayOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DayOf(t), nil
	}
	return time.Time{}, shared.NewDomainError(shared.CodeInvalidInput, "date must be formatted as YYYY-MM-DD")
}

// ParseMonth parses "2006-01", a day, or an RFC3339 instant into its UTC month bucket
func ParseMonth(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(MonthLayout, s); err == nil {
		return MonthOf(t), nil
	}
	if t, err := ParseDay(s); err == nil {
		return MonthOf(t), nil
	}
	return time.Time{}, shared.NewDomainError(shared.CodeInvalidInput, "month must be formatted as YYYY-MM")
}
