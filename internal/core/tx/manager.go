// Package tx provides transaction management abstractions.
// Domain services depend on this interface, not on a concrete database,
// so the same ledger logic runs against postgres or the in-memory store.
package tx

import (
	"context"
)

// Manager defines the contract for transaction management.
// Implementations handle BEGIN, COMMIT, ROLLBACK, and nested transaction support.
type Manager interface {
	// RunInTransaction executes fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	//
	// Nested calls reuse the existing transaction from context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Nop is a no-op Manager for stores whose writes are already atomic
// (the in-memory store serializes writes under its own mutex).
type Nop struct{}

// RunInTransaction runs fn directly without transactional scope.
func (Nop) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var _ Manager = Nop{}
