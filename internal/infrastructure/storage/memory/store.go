// Package memory provides in-memory stores for tests and for running
// without PostgreSQL. Semantics mirror the postgres repositories.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"greenbook/internal/core/dates"
	"greenbook/internal/domain/ledger"
	"greenbook/internal/domain/pricing"
)

// EventStore implements ledger.Store in memory.
type EventStore struct {
	mu     sync.RWMutex
	events []ledger.Event
}

// NewEventStore creates an empty event store.
func NewEventStore() *EventStore {
	return &EventStore{}
}

func (s *EventStore) Append(ctx context.Context, event *ledger.Event) error {
	return s.AppendBatch(ctx, []*ledger.Event{event})
}

func (s *EventStore) AppendBatch(ctx context.Context, events []*ledger.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range events {
		s.events = append(s.events, *ev)
	}
	// Keep replay order: event date, then id (UUIDv7 sorts by time).
	sort.SliceStable(s.events, func(i, j int) bool {
		a, b := &s.events[i], &s.events[j]
		if !a.EventDate.Equal(b.EventDate) {
			return a.EventDate.Before(b.EventDate)
		}
		return strings.Compare(a.ID.String(), b.ID.String()) < 0
	})
	return nil
}

func (s *EventStore) Query(ctx context.Context, filter ledger.Filter) ([]ledger.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ledger.Event
	for i := range s.events {
		ev := &s.events[i]
		if filter.Product != "" && ev.Product != filter.Product {
			continue
		}
		if filter.Kind != "" && ev.Kind != filter.Kind {
			continue
		}
		if filter.From != nil && ev.EventDate.Before(dates.Day(*filter.From)) {
			continue
		}
		if filter.To != nil && ev.EventDate.After(dates.Day(*filter.To)) {
			continue
		}
		out = append(out, *ev)
	}
	return out, nil
}

func (s *EventStore) LatestCheck(ctx context.Context, product string, onOrBefore time.Time) (*ledger.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day := dates.Day(onOrBefore)
	// Events are kept sorted; the last match is the latest check.
	for i := len(s.events) - 1; i >= 0; i-- {
		ev := &s.events[i]
		if ev.Product != product || ev.Kind != ledger.KindStockCheck {
			continue
		}
		if ev.EventDate.After(day) {
			continue
		}
		found := *ev
		return &found, nil
	}
	return nil, nil
}

var _ ledger.Store = (*EventStore)(nil)

// PriceStore implements pricing.Store in memory.
type PriceStore struct {
	mu       sync.RWMutex
	versions []pricing.Version
}

// NewPriceStore creates an empty price store.
func NewPriceStore() *PriceStore {
	return &PriceStore{}
}

func (s *PriceStore) Insert(ctx context.Context, version *pricing.Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions = append(s.versions, *version)
	sort.SliceStable(s.versions, func(i, j int) bool {
		a, b := &s.versions[i], &s.versions[j]
		if a.Product != b.Product {
			return a.Product < b.Product
		}
		return a.ValidFrom.Before(b.ValidFrom)
	})
	return nil
}

func (s *PriceStore) Close(ctx context.Context, versionID string, validTo time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := dates.Day(validTo)
	for i := range s.versions {
		if s.versions[i].ID.String() == versionID {
			s.versions[i].ValidTo = &day
			return nil
		}
	}
	return nil
}

func (s *PriceStore) At(ctx context.Context, product string, onDate time.Time) (*pricing.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day := dates.Day(onDate)
	for i := range s.versions {
		v := &s.versions[i]
		if v.Product != product {
			continue
		}
		if dates.Contains(day, v.ValidFrom, v.ValidTo) {
			found := *v
			return &found, nil
		}
	}
	return nil, nil
}

func (s *PriceStore) List(ctx context.Context, product string) ([]pricing.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []pricing.Version
	for i := range s.versions {
		if product != "" && s.versions[i].Product != product {
			continue
		}
		out = append(out, s.versions[i])
	}
	return out, nil
}

var _ pricing.Store = (*PriceStore)(nil)
