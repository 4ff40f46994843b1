package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenbook/internal/core/apperror"
	"greenbook/internal/core/clock"
	"greenbook/internal/core/dates"
	"greenbook/internal/core/lock"
	"greenbook/internal/core/tx"
	"greenbook/internal/core/types"
	"greenbook/internal/domain/audit"
	"greenbook/internal/domain/catalog"
	"greenbook/internal/domain/costing"
	"greenbook/internal/domain/ledger"
	"greenbook/internal/domain/pricing"
	"greenbook/internal/infrastructure/storage/memory"
)

type fixture struct {
	engine  *ledger.Engine
	pricing *pricing.Service
	events  *memory.EventStore
}

func newFixture(t *testing.T, today string) *fixture {
	t.Helper()

	events := memory.NewEventStore()
	prices := memory.NewPriceStore()
	products := catalog.Default()
	locks := lock.NewKeyed(time.Second)
	calendar := clock.Fixed{Day: dates.MustParse(today)}

	pricingSvc := pricing.NewService(prices, products, locks, tx.Nop{})
	costs := costing.NewCalculator(events)
	engine := ledger.NewEngine(events, products, pricingSvc, costs, calendar, locks, tx.Nop{}, audit.LogSink{})

	return &fixture{engine: engine, pricing: pricingSvc, events: events}
}

func (f *fixture) setPrice(t *testing.T, product, price, from string) {
	t.Helper()
	_, err := f.pricing.SetPrice(context.Background(), product, types.MustMoney(price), dates.MustParse(from))
	require.NoError(t, err)
}

func (f *fixture) purchase(t *testing.T, product, price, qty, day string) *ledger.Event {
	t.Helper()
	ev, err := f.engine.RecordPurchase(context.Background(), product, types.MustMoney(price), types.MustQuantity(qty), dates.MustParse(day), "")
	require.NoError(t, err)
	return ev
}

func (f *fixture) sale(t *testing.T, product, qty, day string) *ledger.Event {
	t.Helper()
	ev, err := f.engine.RecordSale(context.Background(), product, types.MustQuantity(qty), dates.MustParse(day), "")
	require.NoError(t, err)
	return ev
}

func TestWeightedAverageCostAndProfit(t *testing.T) {
	f := newFixture(t, "2026-03-10")
	ctx := context.Background()

	f.setPrice(t, "daikon", "17.5", "2026-03-01")
	f.purchase(t, "daikon", "8", "100", "2026-03-02")
	f.purchase(t, "daikon", "12", "100", "2026-03-03")

	sale := f.sale(t, "daikon", "100", "2026-03-04")
	assert.Equal(t, "17.5", sale.UnitPrice.String())

	// avg cost (8*100 + 12*100) / 200 = 10; profit (17.5 - 10) * 100 = 750
	profit, err := f.engine.ProfitForSale(ctx, sale)
	require.NoError(t, err)
	assert.True(t, profit.Equal(types.MustMoney("750")), "profit = %s", profit)
}

func TestProfitIgnoresLaterPurchases(t *testing.T) {
	f := newFixture(t, "2026-03-10")
	ctx := context.Background()

	f.setPrice(t, "tatsoi", "20", "2026-03-01")
	f.purchase(t, "tatsoi", "10", "50", "2026-03-02")
	sale := f.sale(t, "tatsoi", "20", "2026-03-03")

	before, err := f.engine.ProfitForSale(ctx, sale)
	require.NoError(t, err)

	// A purchase dated after the sale must not change its profit.
	f.purchase(t, "tatsoi", "99", "50", "2026-03-05")

	after, err := f.engine.ProfitForSale(ctx, sale)
	require.NoError(t, err)
	assert.True(t, before.Equal(after), "profit changed from %s to %s", before, after)
}

func TestStockReplayWithoutCheckpoint(t *testing.T) {
	f := newFixture(t, "2026-03-10")
	ctx := context.Background()

	f.setPrice(t, "choy sum", "5", "2026-03-01")
	f.purchase(t, "choy sum", "2", "30", "2026-03-02")
	f.purchase(t, "choy sum", "2.5", "20", "2026-03-03")
	f.sale(t, "choy sum", "15", "2026-03-04")

	stock, err := f.engine.StockAsOf(ctx, "choy sum", dates.MustParse("2026-03-04"))
	require.NoError(t, err)
	assert.Equal(t, types.MustQuantity("35"), stock)

	// Point-in-time: before the sale the full intake is still there.
	stock, err = f.engine.StockAsOf(ctx, "choy sum", dates.MustParse("2026-03-03"))
	require.NoError(t, err)
	assert.Equal(t, types.MustQuantity("50"), stock)
}

func TestStockCheckBecomesBaseline(t *testing.T) {
	f := newFixture(t, "2026-03-10")
	ctx := context.Background()

	f.setPrice(t, "napa cabbage", "6", "2026-03-01")
	f.purchase(t, "napa cabbage", "3", "40", "2026-03-02")
	f.sale(t, "napa cabbage", "10", "2026-03-03")

	// Expected 30, counted 27: shrinkage of 3.
	check, err := f.engine.RecordStockCheck(ctx, "napa cabbage", types.MustQuantity("27"), dates.MustParse("2026-03-04"), "")
	require.NoError(t, err)
	assert.Equal(t, types.MustQuantity("30"), check.Quantity)
	assert.Equal(t, types.MustQuantity("3"), check.LossQuantity)

	// After the check the count is the baseline; pre-check events no
	// longer participate in replay.
	f.purchase(t, "napa cabbage", "3", "10", "2026-03-05")
	stock, err := f.engine.StockAsOf(ctx, "napa cabbage", dates.MustParse("2026-03-05"))
	require.NoError(t, err)
	assert.Equal(t, types.MustQuantity("37"), stock)
}

func TestStockCheckSurplusIsNegativeLoss(t *testing.T) {
	f := newFixture(t, "2026-03-10")
	ctx := context.Background()

	f.purchase(t, "red radish", "4", "10", "2026-03-02")

	check, err := f.engine.RecordStockCheck(ctx, "red radish", types.MustQuantity("12"), dates.MustParse("2026-03-03"), "")
	require.NoError(t, err)
	assert.Equal(t, types.MustQuantity("-2"), check.LossQuantity)

	// The check carries the cost of the latest purchase at or before it.
	assert.Equal(t, "4", check.UnitPrice.String())
}

func TestSaleRejectedWhenStockInsufficient(t *testing.T) {
	f := newFixture(t, "2026-03-10")
	ctx := context.Background()

	f.setPrice(t, "leaf lettuce", "9", "2026-03-01")
	f.purchase(t, "leaf lettuce", "5", "10", "2026-03-02")

	_, err := f.engine.RecordSale(ctx, "leaf lettuce", types.MustQuantity("11"), dates.MustParse("2026-03-03"), "")
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))

	// The failed sale must not leave anything in the ledger.
	events, err := f.engine.Events(ctx, ledger.Filter{Product: "leaf lettuce", Kind: ledger.KindSale})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSaleBatchChecksSummedQuantityPerProduct(t *testing.T) {
	f := newFixture(t, "2026-03-10")
	ctx := context.Background()

	f.setPrice(t, "baby bok choy", "7", "2026-03-01")
	f.purchase(t, "baby bok choy", "3", "10", "2026-03-02")

	// Two lines of 6 sum to 12 against 10 in stock.
	_, err := f.engine.RecordSaleBatch(ctx, []ledger.SaleLine{
		{Product: "baby bok choy", Quantity: types.MustQuantity("6")},
		{Product: "baby bok choy", Quantity: types.MustQuantity("6")},
	}, dates.MustParse("2026-03-03"), "")
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))

	events, err := f.engine.Events(ctx, ledger.Filter{Product: "baby bok choy", Kind: ledger.KindSale})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSaleWithoutPriceRejected(t *testing.T) {
	f := newFixture(t, "2026-03-10")
	ctx := context.Background()

	f.purchase(t, "water spinach", "2", "100", "2026-03-02")

	_, err := f.engine.RecordSale(ctx, "water spinach", types.MustQuantity("5"), dates.MustParse("2026-03-03"), "")
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeNoPriceSet))
}

func TestFutureDatedEventsRejected(t *testing.T) {
	f := newFixture(t, "2026-03-10")
	ctx := context.Background()

	_, err := f.engine.RecordPurchase(ctx, "daikon", types.MustMoney("5"), types.MustQuantity("10"), dates.MustParse("2026-03-11"), "")
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = f.engine.RecordStockCheck(ctx, "daikon", types.MustQuantity("1"), dates.MustParse("2026-03-12"), "")
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestUnknownProductRejected(t *testing.T) {
	f := newFixture(t, "2026-03-10")
	ctx := context.Background()

	_, err := f.engine.RecordPurchase(ctx, "durian", types.MustMoney("5"), types.MustQuantity("1"), dates.MustParse("2026-03-02"), "")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.engine.StockAsOf(ctx, "durian", dates.MustParse("2026-03-02"))
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestPurchaseBatchIsAtomic(t *testing.T) {
	f := newFixture(t, "2026-03-10")
	ctx := context.Background()

	// Second line is invalid; nothing may be written.
	_, err := f.engine.RecordPurchaseBatch(ctx, []ledger.PurchaseLine{
		{Product: "daikon", UnitPrice: types.MustMoney("3"), Quantity: types.MustQuantity("10")},
		{Product: "daikon", UnitPrice: types.MustMoney("0"), Quantity: types.MustQuantity("5")},
	}, dates.MustParse("2026-03-02"), "")
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	events, err := f.engine.Events(ctx, ledger.Filter{Product: "daikon"})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventsReturnedInReplayOrder(t *testing.T) {
	f := newFixture(t, "2026-03-10")
	ctx := context.Background()

	f.purchase(t, "tatsoi", "2", "5", "2026-03-03")
	f.purchase(t, "tatsoi", "2", "5", "2026-03-01")
	f.purchase(t, "tatsoi", "2", "5", "2026-03-02")

	events, err := f.engine.Events(ctx, ledger.Filter{Product: "tatsoi"})
	require.NoError(t, err)
	require.Len(t, events, 3)
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].EventDate.Before(events[i-1].EventDate))
	}
}
