package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
	"greenbook/internal/domain/reports"
	"greenbook/internal/infrastructure/storage/memory"
)

func newAggregator(t *testing.T) (*reports.Aggregator, *ledger.Engine, *pricing.Service) {
	t.Helper()

	events := memory.NewEventStore()
	prices := memory.NewPriceStore()
	products := catalog.Default()
	locks := lock.NewKeyed(time.Second)
	calendar := clock.Fixed{Day: dates.MustParse("2026-03-31")}

	pricingSvc := pricing.NewService(prices, products, locks, tx.Nop{})
	costs := costing.NewCalculator(events)
	engine := ledger.NewEngine(events, products, pricingSvc, costs, calendar, locks, tx.Nop{}, audit.LogSink{})

	return reports.NewAggregator(engine), engine, pricingSvc
}

func TestSummarizeSingleProduct(t *testing.T) {
	agg, engine, pricingSvc := newAggregator(t)
	ctx := context.Background()

	_, err := pricingSvc.SetPrice(ctx, "daikon", types.MustMoney("17.5"), dates.MustParse("2026-03-01"))
	require.NoError(t, err)

	_, err = engine.RecordPurchase(ctx, "daikon", types.MustMoney("8"), types.MustQuantity("100"), dates.MustParse("2026-03-02"), "")
	require.NoError(t, err)
	_, err = engine.RecordPurchase(ctx, "daikon", types.MustMoney("12"), types.MustQuantity("100"), dates.MustParse("2026-03-03"), "")
	require.NoError(t, err)
	_, err = engine.RecordSale(ctx, "daikon", types.MustQuantity("100"), dates.MustParse("2026-03-04"), "")
	require.NoError(t, err)
	_, err = engine.RecordStockCheck(ctx, "daikon", types.MustQuantity("98"), dates.MustParse("2026-03-05"), "")
	require.NoError(t, err)

	report, err := agg.Summarize(ctx, dates.MustParse("2026-03-01"), dates.MustParse("2026-03-05"))
	require.NoError(t, err)
	require.Len(t, report.Products, 1)

	s := report.Products[0]
	assert.Equal(t, "daikon", s.Product)
	assert.Equal(t, types.MustQuantity("200"), s.PurchaseQuantity)
	assert.True(t, s.PurchaseAmount.Equal(types.MustMoney("2000")))
	assert.Equal(t, types.MustQuantity("100"), s.SaleQuantity)
	assert.True(t, s.SaleAmount.Equal(types.MustMoney("1750")))
	assert.True(t, s.Profit.Equal(types.MustMoney("750")), "profit = %s", s.Profit)
	assert.Equal(t, types.MustQuantity("2"), s.LossQuantity)
	assert.Equal(t, types.MustQuantity("98"), s.StockAtRangeEnd)

	assert.True(t, report.Totals.PurchaseAmount.Equal(types.MustMoney("2000")))
	assert.True(t, report.Totals.SaleAmount.Equal(types.MustMoney("1750")))
	assert.True(t, report.Totals.Profit.Equal(types.MustMoney("750")))
}

func TestSummarizeOmitsProductsWithoutActivity(t *testing.T) {
	agg, engine, _ := newAggregator(t)
	ctx := context.Background()

	_, err := engine.RecordPurchase(ctx, "tatsoi", types.MustMoney("3"), types.MustQuantity("5"), dates.MustParse("2026-03-02"), "")
	require.NoError(t, err)

	report, err := agg.Summarize(ctx, dates.MustParse("2026-03-01"), dates.MustParse("2026-03-10"))
	require.NoError(t, err)
	require.Len(t, report.Products, 1)
	assert.Equal(t, "tatsoi", report.Products[0].Product)
}

func TestSummarizeRangeExcludesOutsideEvents(t *testing.T) {
	agg, engine, _ := newAggregator(t)
	ctx := context.Background()

	_, err := engine.RecordPurchase(ctx, "daikon", types.MustMoney("5"), types.MustQuantity("10"), dates.MustParse("2026-03-01"), "")
	require.NoError(t, err)
	_, err = engine.RecordPurchase(ctx, "daikon", types.MustMoney("5"), types.MustQuantity("10"), dates.MustParse("2026-03-20"), "")
	require.NoError(t, err)

	report, err := agg.Summarize(ctx, dates.MustParse("2026-03-10"), dates.MustParse("2026-03-25"))
	require.NoError(t, err)
	require.Len(t, report.Products, 1)

	// Only the in-range purchase counts toward turnover, but stock at
	// range end reflects the full history.
	assert.Equal(t, types.MustQuantity("10"), report.Products[0].PurchaseQuantity)
	assert.Equal(t, types.MustQuantity("20"), report.Products[0].StockAtRangeEnd)
}

func TestSummarizeRejectsInvertedRange(t *testing.T) {
	agg, _, _ := newAggregator(t)

	_, err := agg.Summarize(context.Background(), dates.MustParse("2026-03-10"), dates.MustParse("2026-03-01"))
	require.Error(t, err)
}

func TestDailyIsSingleDayRange(t *testing.T) {
	agg, engine, _ := newAggregator(t)
	ctx := context.Background()

	_, err := engine.RecordPurchase(ctx, "daikon", types.MustMoney("5"), types.MustQuantity("10"), dates.MustParse("2026-03-02"), "")
	require.NoError(t, err)

	report, err := agg.Daily(ctx, dates.MustParse("2026-03-02"))
	require.NoError(t, err)
	assert.Equal(t, report.From, report.To)
	require.Len(t, report.Products, 1)
}
