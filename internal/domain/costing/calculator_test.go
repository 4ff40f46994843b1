package costing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenbook/internal/core/dates"
	"greenbook/internal/core/types"
	"greenbook/internal/domain/costing"
	"greenbook/internal/domain/ledger"
	"greenbook/internal/infrastructure/storage/memory"
)

func purchase(product, price, qty, day string) *ledger.Event {
	return ledger.NewPurchase(product, types.MustMoney(price), types.MustQuantity(qty), dates.MustParse(day), "")
}

func TestUnitCostWeightedAverage(t *testing.T) {
	ctx := context.Background()
	store := memory.NewEventStore()
	require.NoError(t, store.AppendBatch(ctx, []*ledger.Event{
		purchase("daikon", "8", "100", "2026-03-01"),
		purchase("daikon", "12", "100", "2026-03-02"),
	}))

	calc := costing.NewCalculator(store)
	cost, err := calc.UnitCost(ctx, "daikon", dates.MustParse("2026-03-05"))
	require.NoError(t, err)
	assert.True(t, cost.Equal(types.MustMoney("10")), "cost = %s", cost)
}

func TestUnitCostCutsOffAtDate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewEventStore()
	require.NoError(t, store.AppendBatch(ctx, []*ledger.Event{
		purchase("daikon", "8", "100", "2026-03-01"),
		purchase("daikon", "20", "100", "2026-03-10"),
	}))

	calc := costing.NewCalculator(store)
	cost, err := calc.UnitCost(ctx, "daikon", dates.MustParse("2026-03-05"))
	require.NoError(t, err)
	assert.True(t, cost.Equal(types.MustMoney("8")))
}

func TestUnitCostNoPurchasesIsZero(t *testing.T) {
	calc := costing.NewCalculator(memory.NewEventStore())
	cost, err := calc.UnitCost(context.Background(), "daikon", dates.MustParse("2026-03-05"))
	require.NoError(t, err)
	assert.True(t, cost.IsZero())
}

func TestUnitCostExactWithManyPurchases(t *testing.T) {
	// 1/3-style divisions must not drift: 3 purchases of 1 unit at 1.00
	// each alongside one at 2.00 over 1 unit.
	ctx := context.Background()
	store := memory.NewEventStore()
	require.NoError(t, store.AppendBatch(ctx, []*ledger.Event{
		purchase("tatsoi", "1", "1", "2026-03-01"),
		purchase("tatsoi", "1", "1", "2026-03-02"),
		purchase("tatsoi", "2", "1", "2026-03-03"),
	}))

	calc := costing.NewCalculator(store)
	cost, err := calc.UnitCost(ctx, "tatsoi", dates.MustParse("2026-03-05"))
	require.NoError(t, err)

	// (1+1+2)/3 with decimal division semantics
	expected := types.MustMoney("4").Div(types.MustMoney("3"))
	assert.True(t, cost.Equal(expected), "cost = %s", cost)
}

func TestInvalidateDropsCachedCost(t *testing.T) {
	ctx := context.Background()
	store := memory.NewEventStore()
	require.NoError(t, store.Append(ctx, purchase("daikon", "8", "100", "2026-03-01")))

	calc := costing.NewCalculator(store)
	asOf := dates.MustParse("2026-03-05")

	cost, err := calc.UnitCost(ctx, "daikon", asOf)
	require.NoError(t, err)
	require.True(t, cost.Equal(types.MustMoney("8")))

	// A new purchase with the cache still warm would go unnoticed
	// without invalidation.
	require.NoError(t, store.Append(ctx, purchase("daikon", "12", "100", "2026-03-02")))
	calc.Invalidate("daikon")

	cost, err = calc.UnitCost(ctx, "daikon", asOf)
	require.NoError(t, err)
	assert.True(t, cost.Equal(types.MustMoney("10")), "cost = %s", cost)
}
