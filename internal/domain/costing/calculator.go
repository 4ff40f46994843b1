// Package costing derives the weighted-average purchase cost of a
// product as of a date. The cost basis is never stored; it is always
// recomputed from the purchase history.
package costing

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"greenbook/internal/core/dates"
	"greenbook/internal/core/types"
	"greenbook/internal/domain/ledger"
)

// Calculator computes weighted-average unit cost from the ledger's
// purchase events. Results are cached per (product, day); the cache is
// invalidated whenever a purchase is recorded for the product.
type Calculator struct {
	store ledger.Store

	mu    sync.RWMutex
	cache map[string]map[int64]types.Money
}

// NewCalculator creates a cost calculator over the given event store.
func NewCalculator(store ledger.Store) *Calculator {
	return &Calculator{
		store: store,
		cache: make(map[string]map[int64]types.Money),
	}
}

// UnitCost returns the weighted-average purchase cost of the product over
// all purchases with event date at or before asOf:
//
//	sum(price_i * qty_i) / sum(qty_i)
//
// Amounts accumulate as exact decimals and a single division happens at
// the end, so the result does not drift with the number of purchases.
// Returns zero when the product has no purchases in range.
func (c *Calculator) UnitCost(ctx context.Context, product string, asOf time.Time) (types.Money, error) {
	day := dates.Day(asOf)
	key := day.Unix()

	c.mu.RLock()
	if byDay, ok := c.cache[product]; ok {
		if cost, ok := byDay[key]; ok {
			c.mu.RUnlock()
			return cost, nil
		}
	}
	c.mu.RUnlock()

	purchases, err := c.store.Query(ctx, ledger.Filter{
		Product: product,
		Kind:    ledger.KindPurchase,
		To:      &day,
	})
	if err != nil {
		return types.Zero(), err
	}

	cost := weightedAverage(purchases)

	c.mu.Lock()
	byDay, ok := c.cache[product]
	if !ok {
		byDay = make(map[int64]types.Money)
		c.cache[product] = byDay
	}
	byDay[key] = cost
	c.mu.Unlock()

	return cost, nil
}

// Invalidate drops all cached costs for the product. Called after every
// purchase write; sales and stock checks do not change the cost basis.
func (c *Calculator) Invalidate(product string) {
	c.mu.Lock()
	delete(c.cache, product)
	c.mu.Unlock()
}

func weightedAverage(purchases []ledger.Event) types.Money {
	totalAmount := decimal.Zero
	totalQty := decimal.Zero
	for i := range purchases {
		qty := purchases[i].Quantity.Decimal()
		totalAmount = totalAmount.Add(purchases[i].UnitPrice.Mul(qty))
		totalQty = totalQty.Add(qty)
	}
	if totalQty.IsZero() {
		return types.Zero()
	}
	return totalAmount.Div(totalQty)
}

var _ ledger.CostBasis = (*Calculator)(nil)
