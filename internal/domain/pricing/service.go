package pricing

import (
	"context"
	"errors"
	"time"

	"greenbook/internal/core/apperror"
	"greenbook/internal/core/dates"
	"greenbook/internal/core/lock"
	"greenbook/internal/core/tx"
	"greenbook/internal/core/types"
	"greenbook/internal/domain/catalog"
	"greenbook/pkg/logger"
)

// Service maintains the non-overlapping price timeline per product and
// resolves the price in effect on a date.
type Service struct {
	store    Store
	products *catalog.Catalog
	locks    *lock.Keyed
	txm      tx.Manager
}

// NewService creates a pricing service.
func NewService(store Store, products *catalog.Catalog, locks *lock.Keyed, txm tx.Manager) *Service {
	return &Service{
		store:    store,
		products: products,
		locks:    locks,
		txm:      txm,
	}
}

// Resolve returns the sale price active for the product on the date.
// Returns NO_PRICE_SET when no version covers the date; the caller must
// not fall back to any other version.
func (s *Service) Resolve(ctx context.Context, product string, onDate time.Time) (types.Money, error) {
	if err := s.products.Require(product); err != nil {
		return types.Zero(), err
	}

	day := dates.Day(onDate)
	version, err := s.store.At(ctx, product, day)
	if err != nil {
		return types.Zero(), err
	}
	if version == nil {
		return types.Zero(), apperror.NewNoPriceSet(product, dates.Format(day))
	}
	return version.SalePrice, nil
}

// SetPrice introduces a new open-ended price version starting at
// effectiveFrom. The currently open version, if its start precedes or
// equals effectiveFrom, is closed at effectiveFrom so the timeline stays
// gap-free at the transition. Any other version that would overlap the
// new one rejects the change.
func (s *Service) SetPrice(ctx context.Context, product string, salePrice types.Money, effectiveFrom time.Time) (*Version, error) {
	if err := s.products.Require(product); err != nil {
		return nil, err
	}

	version := NewVersion(product, salePrice, effectiveFrom)
	if err := version.Validate(); err != nil {
		return nil, err
	}

	err := s.locks.Do(ctx, product, func() error {
		return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
			existing, err := s.store.List(ctx, product)
			if err != nil {
				return err
			}

			for i := range existing {
				v := &existing[i]
				if !dates.Overlaps(version.ValidFrom, nil, v.ValidFrom, v.ValidTo) {
					continue
				}
				// The open-ended predecessor is truncated at the new
				// start instead of rejected. An equal start closes it
				// to an empty interval, which replaces the price for
				// that day while keeping the row in history.
				if v.ValidTo == nil && !v.ValidFrom.After(version.ValidFrom) {
					if err := s.store.Close(ctx, v.ID.String(), version.ValidFrom); err != nil {
						return err
					}
					continue
				}
				return apperror.NewOverlappingPrice(product, dates.Format(version.ValidFrom)).
					WithDetail("conflictingVersion", v.ID.String())
			}

			return s.store.Insert(ctx, version)
		})
	})
	if err != nil {
		if errors.Is(err, lock.ErrTimeout) {
			return nil, apperror.NewLockTimeout(product)
		}
		return nil, err
	}

	logger.Info(ctx, "price version set",
		"product", product,
		"salePrice", salePrice,
		"validFrom", dates.Format(version.ValidFrom),
	)

	return version, nil
}

// History returns the product's price versions ordered by validity start.
func (s *Service) History(ctx context.Context, product string) ([]Version, error) {
	if product != "" {
		if err := s.products.Require(product); err != nil {
			return nil, err
		}
	}
	return s.store.List(ctx, product)
}
