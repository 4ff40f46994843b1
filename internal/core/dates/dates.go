// Package dates provides business-date helpers.
// The ledger keys everything by calendar date, not timestamp: a business
// date is a time.Time normalized to midnight UTC.
package dates

import (
	"fmt"
	"time"
)

// Layout is the canonical wire format for business dates.
const Layout = "2006-01-02"

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Parse parses a YYYY-MM-DD string into a business date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// MustParse parses a YYYY-MM-DD string, panics on error. Use only in tests.
func MustParse(s string) time.Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Format renders a business date as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// Next returns the following calendar day.
func Next(t time.Time) time.Time {
	return Day(t).AddDate(0, 0, 1)
}

// Contains reports whether d falls within the half-open interval [from, to).
// A nil to means the interval is open-ended.
func Contains(d, from time.Time, to *time.Time) bool {
	if d.Before(from) {
		return false
	}
	return to == nil || d.Before(*to)
}

// Overlaps reports whether two half-open intervals [aFrom, aTo) and
// [bFrom, bTo) share at least one day. Nil end means open-ended.
func Overlaps(aFrom time.Time, aTo *time.Time, bFrom time.Time, bTo *time.Time) bool {
	// a starts before b ends, and b starts before a ends
	aBeforeBEnd := bTo == nil || aFrom.Before(*bTo)
	bBeforeAEnd := aTo == nil || bFrom.Before(*aTo)
	return aBeforeBEnd && bBeforeAEnd
}
