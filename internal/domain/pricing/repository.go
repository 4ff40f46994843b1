package pricing

import (
	"context"
	"time"
)

// Store persists price versions. Interval discipline (no overlaps, one
// active version per date) is enforced by the Service, not here.
type Store interface {
	// Insert stores a new price version.
	Insert(ctx context.Context, version *Version) error

	// Close sets the version's ValidTo to the given date.
	Close(ctx context.Context, versionID string, validTo time.Time) error

	// At returns the version active on the date for the product, or nil.
	At(ctx context.Context, product string, onDate time.Time) (*Version, error)

	// List returns all versions for the product ordered by ValidFrom
	// ascending. Empty product means all products.
	List(ctx context.Context, product string) ([]Version, error)
}
