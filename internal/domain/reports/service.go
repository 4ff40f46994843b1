package reports

import (
	"context"
	"sort"
	"time"

	"greenbook/internal/core/apperror"
	"greenbook/internal/core/dates"
	"greenbook/internal/core/types"
	"greenbook/internal/domain/ledger"
)

// Aggregator builds range reports from the ledger engine. It reuses the
// engine's stock projection and profit derivation rather than duplicating
// either rule.
type Aggregator struct {
	engine *ledger.Engine
}

// NewAggregator creates a report aggregator over the ledger engine.
func NewAggregator(engine *ledger.Engine) *Aggregator {
	return &Aggregator{engine: engine}
}

// Summarize aggregates activity per product over the inclusive date
// range [from, to]. Products with no events in range are omitted.
func (a *Aggregator) Summarize(ctx context.Context, from, to time.Time) (*Report, error) {
	fromDay := dates.Day(from)
	toDay := dates.Day(to)
	if toDay.Before(fromDay) {
		return nil, apperror.NewValidation("to date must not precede from date").
			WithDetail("from", dates.Format(fromDay)).
			WithDetail("to", dates.Format(toDay))
	}

	events, err := a.engine.Events(ctx, ledger.Filter{From: &fromDay, To: &toDay})
	if err != nil {
		return nil, err
	}

	byProduct := make(map[string]*Summary)
	for i := range events {
		ev := &events[i]
		s, ok := byProduct[ev.Product]
		if !ok {
			s = &Summary{
				Product:        ev.Product,
				PurchaseAmount: types.Zero(),
				SaleAmount:     types.Zero(),
				Profit:         types.Zero(),
			}
			byProduct[ev.Product] = s
		}

		switch ev.Kind {
		case ledger.KindPurchase:
			s.PurchaseQuantity += ev.Quantity
			s.PurchaseAmount = s.PurchaseAmount.Add(ev.Amount())
		case ledger.KindSale:
			s.SaleQuantity += ev.Quantity
			s.SaleAmount = s.SaleAmount.Add(ev.Amount())
			profit, err := a.engine.ProfitForSale(ctx, ev)
			if err != nil {
				return nil, err
			}
			s.Profit = s.Profit.Add(profit)
		case ledger.KindStockCheck:
			s.LossQuantity += ev.LossQuantity
		}
	}

	report := &Report{
		From: dates.Format(fromDay),
		To:   dates.Format(toDay),
		Totals: Totals{
			PurchaseAmount: types.Zero(),
			SaleAmount:     types.Zero(),
			Profit:         types.Zero(),
		},
	}

	products := make([]string, 0, len(byProduct))
	for p := range byProduct {
		products = append(products, p)
	}
	sort.Strings(products)

	for _, p := range products {
		s := byProduct[p]
		stock, err := a.engine.StockAsOf(ctx, p, toDay)
		if err != nil {
			return nil, err
		}
		s.StockAtRangeEnd = stock

		report.Products = append(report.Products, *s)
		report.Totals.PurchaseAmount = report.Totals.PurchaseAmount.Add(s.PurchaseAmount)
		report.Totals.SaleAmount = report.Totals.SaleAmount.Add(s.SaleAmount)
		report.Totals.Profit = report.Totals.Profit.Add(s.Profit)
	}

	return report, nil
}

// Daily is Summarize for a single business date.
func (a *Aggregator) Daily(ctx context.Context, day time.Time) (*Report, error) {
	d := dates.Day(day)
	return a.Summarize(ctx, d, d)
}
