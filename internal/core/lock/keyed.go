// Package lock provides per-key exclusive locks with bounded wait.
// Writers to the ledger are serialized per product to close the
// check-then-act race between the stock check and the append.
package lock

import (
	"context"
	"sort"
	"sync"
	"time"
)

// ErrTimeout is returned when the lock was not acquired within the configured wait.
// Callers translate it to their own error type.
type timeoutError struct{}

func (timeoutError) Error() string { return "lock acquisition timed out" }

var ErrTimeout error = timeoutError{}

// Keyed hands out one exclusive lock per string key.
// Lock entries are created lazily and never removed; the key space here
// is the fixed product catalog, so the map stays small.
type Keyed struct {
	mu      sync.Mutex
	waitMax time.Duration
	locks   map[string]chan struct{}
}

// NewKeyed creates a keyed lock set with the given maximum wait per acquisition.
func NewKeyed(waitMax time.Duration) *Keyed {
	return &Keyed{
		waitMax: waitMax,
		locks:   make(map[string]chan struct{}),
	}
}

func (k *Keyed) sem(key string) chan struct{} {
	k.mu.Lock()
	defer k.mu.Unlock()
	sem, ok := k.locks[key]
	if !ok {
		sem = make(chan struct{}, 1)
		k.locks[key] = sem
	}
	return sem
}

// Acquire takes the lock for key, waiting at most the configured maximum.
// Returns ErrTimeout on expiry, or the context error if ctx ends first.
// The returned release function must be called exactly once.
func (k *Keyed) Acquire(ctx context.Context, key string) (release func(), err error) {
	sem := k.sem(key)

	timer := time.NewTimer(k.waitMax)
	defer timer.Stop()

	select {
	case sem <- struct{}{}:
		return func() { <-sem }, nil
	case <-timer.C:
		return nil, ErrTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// AcquireAll takes the locks for every key, in sorted order so that two
// callers acquiring overlapping key sets cannot deadlock. Duplicates are
// collapsed. On failure, locks taken so far are released.
func (k *Keyed) AcquireAll(ctx context.Context, keys []string) (release func(), err error) {
	uniq := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		uniq = append(uniq, key)
	}
	sort.Strings(uniq)

	releases := make([]func(), 0, len(uniq))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, key := range uniq {
		rel, err := k.Acquire(ctx, key)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, rel)
	}

	return releaseAll, nil
}

// Do runs fn while holding the lock for key.
func (k *Keyed) Do(ctx context.Context, key string, fn func() error) error {
	release, err := k.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}
