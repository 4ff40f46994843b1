// Package clock provides the business-date source for the ledger.
// Future-date validation depends on "today", so the engine takes it as
// a dependency instead of calling time.Now directly.
package clock

import (
	"time"

	"greenbook/internal/core/dates"
)

// Calendar reports the current business date.
type Calendar interface {
	// Today returns the current business date (midnight UTC).
	Today() time.Time
}

// System is the wall-clock backed Calendar.
type System struct{}

func (System) Today() time.Time {
	return dates.Day(time.Now())
}

// Fixed is a Calendar pinned to a single date, for tests.
type Fixed struct {
	Day time.Time
}

func (f Fixed) Today() time.Time {
	return dates.Day(f.Day)
}
