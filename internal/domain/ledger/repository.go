package ledger

import (
	"context"
	"time"
)

// Filter narrows event queries. Zero values mean "no constraint".
// From and To are inclusive business dates.
type Filter struct {
	Product string
	Kind    Kind
	From    *time.Time
	To      *time.Time
}

// Store is the append-only event store. No business rules live here;
// it guarantees durability, atomicity per call, and ordered retrieval.
type Store interface {
	// Append durably stores one event. All-or-nothing.
	Append(ctx context.Context, event *Event) error

	// AppendBatch durably stores several events as one atomic unit.
	AppendBatch(ctx context.Context, events []*Event) error

	// Query returns events matching the filter, ordered by event date
	// ascending with ties broken by id ascending (insertion order).
	Query(ctx context.Context, filter Filter) ([]Event, error)

	// LatestCheck returns the most recent stock-check for the product
	// with event date at or before the given date, or nil if none.
	// Same-day ties resolve to the last appended check.
	LatestCheck(ctx context.Context, product string, onOrBefore time.Time) (*Event, error)
}
