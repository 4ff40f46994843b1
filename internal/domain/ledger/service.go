package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"greenbook/internal/core/apperror"
	"greenbook/internal/core/clock"
	appctx "greenbook/internal/core/context"
	"greenbook/internal/core/dates"
	"greenbook/internal/core/lock"
	"greenbook/internal/core/tx"
	"greenbook/internal/core/types"
	"greenbook/internal/domain/audit"
	"greenbook/internal/domain/catalog"
	"greenbook/pkg/logger"
)

// PriceResolver resolves the sale price in effect for a product on a date.
// Implemented by the pricing catalog.
type PriceResolver interface {
	Resolve(ctx context.Context, product string, onDate time.Time) (types.Money, error)
}

// CostBasis computes the weighted-average unit cost of a product as of a
// date. Implemented by the costing calculator.
type CostBasis interface {
	UnitCost(ctx context.Context, product string, asOf time.Time) (types.Money, error)
	Invalidate(product string)
}

// Engine is the orchestration core of the ledger: it validates and appends
// events, projects point-in-time stock via checkpoint replay, and derives
// profit. Derived values are never persisted, always recomputed.
type Engine struct {
	store    Store
	products *catalog.Catalog
	prices   PriceResolver
	costs    CostBasis
	calendar clock.Calendar
	locks    *lock.Keyed
	txm      tx.Manager
	sink     audit.Sink
}

// NewEngine creates a ledger engine.
func NewEngine(
	store Store,
	products *catalog.Catalog,
	prices PriceResolver,
	costs CostBasis,
	calendar clock.Calendar,
	locks *lock.Keyed,
	txm tx.Manager,
	sink audit.Sink,
) *Engine {
	return &Engine{
		store:    store,
		products: products,
		prices:   prices,
		costs:    costs,
		calendar: calendar,
		locks:    locks,
		txm:      txm,
		sink:     sink,
	}
}

// PurchaseLine is one product row in a batch purchase.
type PurchaseLine struct {
	Product   string
	UnitPrice types.Money
	Quantity  types.Quantity
}

// SaleLine is one product row in a batch sale.
type SaleLine struct {
	Product  string
	Quantity types.Quantity
}

// RecordPurchase validates and appends a purchase event.
func (e *Engine) RecordPurchase(ctx context.Context, product string, unitPrice types.Money, quantity types.Quantity, eventDate time.Time, notes string) (*Event, error) {
	events, err := e.RecordPurchaseBatch(ctx, []PurchaseLine{{Product: product, UnitPrice: unitPrice, Quantity: quantity}}, eventDate, notes)
	if err != nil {
		return nil, err
	}
	return &events[0], nil
}

// RecordPurchaseBatch validates and appends one purchase event per line,
// all-or-nothing. A whole market day's intake is typically one batch.
func (e *Engine) RecordPurchaseBatch(ctx context.Context, lines []PurchaseLine, eventDate time.Time, notes string) ([]Event, error) {
	if len(lines) == 0 {
		return nil, apperror.NewValidation("at least one line is required")
	}

	today := e.calendar.Today()
	events := make([]*Event, 0, len(lines))
	products := make([]string, 0, len(lines))
	for i, line := range lines {
		if err := e.products.Require(line.Product); err != nil {
			return nil, err
		}
		if !line.UnitPrice.IsPositive() {
			return nil, apperror.NewValidation("purchase price must be positive").
				WithDetail("lineNo", i+1).
				WithDetail("product", line.Product)
		}
		ev := NewPurchase(line.Product, line.UnitPrice, line.Quantity, eventDate, notes)
		if err := ev.Validate(today); err != nil {
			return nil, withLine(err, i+1)
		}
		events = append(events, ev)
		products = append(products, line.Product)
	}

	err := e.withProductLocks(ctx, products, func() error {
		return e.txm.RunInTransaction(ctx, func(ctx context.Context) error {
			return e.store.AppendBatch(ctx, events)
		})
	})
	if err != nil {
		return nil, err
	}

	for _, p := range products {
		e.costs.Invalidate(p)
	}

	e.report(ctx, "record_purchase", describe(events))
	logger.Info(ctx, "purchases recorded", "count", len(events), "date", dates.Format(dates.Day(eventDate)))

	return deref(events), nil
}

// RecordSale resolves the sale price for the event date, verifies stock
// would not go negative, and appends a sale event.
func (e *Engine) RecordSale(ctx context.Context, product string, quantity types.Quantity, eventDate time.Time, notes string) (*Event, error) {
	events, err := e.RecordSaleBatch(ctx, []SaleLine{{Product: product, Quantity: quantity}}, eventDate, notes)
	if err != nil {
		return nil, err
	}
	return &events[0], nil
}

// RecordSaleBatch records one sale per line, all-or-nothing. Prices are
// resolved per product from the price catalog; the stock guard is applied
// to the summed quantity per product.
func (e *Engine) RecordSaleBatch(ctx context.Context, lines []SaleLine, eventDate time.Time, notes string) ([]Event, error) {
	if len(lines) == 0 {
		return nil, apperror.NewValidation("at least one line is required")
	}

	day := dates.Day(eventDate)
	today := e.calendar.Today()
	if day.After(today) {
		return nil, apperror.NewValidation("event date must not be in the future").
			WithDetail("eventDate", dates.Format(day))
	}

	products := make([]string, 0, len(lines))
	totals := make(map[string]types.Quantity, len(lines))
	for i, line := range lines {
		if err := e.products.Require(line.Product); err != nil {
			return nil, err
		}
		if !line.Quantity.IsPositive() {
			return nil, apperror.NewValidation("quantity must be positive").
				WithDetail("lineNo", i+1).
				WithDetail("product", line.Product)
		}
		products = append(products, line.Product)
		totals[line.Product] += line.Quantity
	}

	var events []*Event
	err := e.withProductLocks(ctx, products, func() error {
		// Price resolution and the stock guard run under the lock so a
		// concurrent writer cannot invalidate the check before commit.
		events = events[:0]
		for i, line := range lines {
			price, err := e.prices.Resolve(ctx, line.Product, day)
			if err != nil {
				return withLine(err, i+1)
			}
			ev := NewSale(line.Product, price, line.Quantity, day, notes)
			if err := ev.Validate(today); err != nil {
				return withLine(err, i+1)
			}
			events = append(events, ev)
		}

		for product, requested := range totals {
			available, err := e.StockAsOf(ctx, product, day)
			if err != nil {
				return err
			}
			if available < requested {
				return apperror.NewInsufficientStock(product, requested.String(), available.String())
			}
		}

		return e.txm.RunInTransaction(ctx, func(ctx context.Context) error {
			return e.store.AppendBatch(ctx, events)
		})
	})
	if err != nil {
		return nil, err
	}

	e.report(ctx, "record_sale", describe(events))
	logger.Info(ctx, "sales recorded", "count", len(events), "date", dates.Format(day))

	return deref(events), nil
}

// RecordStockCheck projects the expected quantity for the product as of
// the event date, derives the signed loss against the counted quantity,
// and appends a stock-check event. The check becomes the new checkpoint
// baseline for all subsequent stock computations.
func (e *Engine) RecordStockCheck(ctx context.Context, product string, actualQuantity types.Quantity, eventDate time.Time, notes string) (*Event, error) {
	if err := e.products.Require(product); err != nil {
		return nil, err
	}

	day := dates.Day(eventDate)
	today := e.calendar.Today()

	var event *Event
	err := e.locks.Do(ctx, product, func() error {
		expected, err := e.StockAsOf(ctx, product, day)
		if err != nil {
			return err
		}

		lastCost, err := e.lastPurchaseCost(ctx, product, day)
		if err != nil {
			return err
		}

		event = NewStockCheck(product, lastCost, expected, actualQuantity, day, notes)
		if err := event.Validate(today); err != nil {
			return err
		}

		return e.txm.RunInTransaction(ctx, func(ctx context.Context) error {
			return e.store.Append(ctx, event)
		})
	})
	if err != nil {
		return nil, e.mapLockErr(err, product)
	}

	e.report(ctx, "record_stock_check", fmt.Sprintf(
		"%s: expected %s, counted %s, loss %s on %s",
		product, event.Quantity, event.ActualQuantity, event.LossQuantity, dates.Format(day),
	))
	logger.Info(ctx, "stock check recorded",
		"product", product,
		"expected", event.Quantity,
		"actual", event.ActualQuantity,
		"loss", event.LossQuantity,
	)

	return event, nil
}

// StockAsOf computes stock for the product at end of the target date via
// checkpoint-plus-delta replay: the latest stock check at or before the
// date is the baseline, and only purchases and sales after it are summed.
func (e *Engine) StockAsOf(ctx context.Context, product string, targetDate time.Time) (types.Quantity, error) {
	if err := e.products.Require(product); err != nil {
		return 0, err
	}

	target := dates.Day(targetDate)

	checkpoint, err := e.store.LatestCheck(ctx, product, target)
	if err != nil {
		return 0, err
	}

	var baseline types.Quantity
	filter := Filter{Product: product, To: &target}
	if checkpoint != nil {
		baseline = checkpoint.ActualQuantity
		from := dates.Next(checkpoint.EventDate)
		filter.From = &from
	}

	events, err := e.store.Query(ctx, filter)
	if err != nil {
		return 0, err
	}

	stock := baseline
	for i := range events {
		stock += events[i].SignedQuantity()
	}
	return stock, nil
}

// ProfitForSale derives profit for a sale event: (sale price − weighted
// average cost as of the sale date) × quantity. Purchases recorded after
// the sale's date never change the result.
func (e *Engine) ProfitForSale(ctx context.Context, sale *Event) (types.Money, error) {
	if sale == nil || sale.Kind != KindSale {
		return types.Zero(), apperror.NewValidation("profit is defined for sale events only")
	}

	cost, err := e.costs.UnitCost(ctx, sale.Product, sale.EventDate)
	if err != nil {
		return types.Zero(), err
	}

	return sale.UnitPrice.Sub(cost).Mul(sale.Quantity.Decimal()), nil
}

// Events returns ledger events matching the filter in replay order.
func (e *Engine) Events(ctx context.Context, filter Filter) ([]Event, error) {
	if filter.Product != "" {
		if err := e.products.Require(filter.Product); err != nil {
			return nil, err
		}
	}
	return e.store.Query(ctx, filter)
}

// lastPurchaseCost returns the unit price of the most recent purchase at
// or before the date, or zero when the product was never purchased.
func (e *Engine) lastPurchaseCost(ctx context.Context, product string, onOrBefore time.Time) (types.Money, error) {
	day := dates.Day(onOrBefore)
	purchases, err := e.store.Query(ctx, Filter{Product: product, Kind: KindPurchase, To: &day})
	if err != nil {
		return types.Zero(), err
	}
	if len(purchases) == 0 {
		return types.Zero(), nil
	}
	return purchases[len(purchases)-1].UnitPrice, nil
}

func (e *Engine) withProductLocks(ctx context.Context, products []string, fn func() error) error {
	release, err := e.locks.AcquireAll(ctx, products)
	if err != nil {
		if errors.Is(err, lock.ErrTimeout) {
			return apperror.NewLockTimeout(strings.Join(products, ","))
		}
		return err
	}
	defer release()
	return fn()
}

func (e *Engine) mapLockErr(err error, product string) error {
	if errors.Is(err, lock.ErrTimeout) {
		return apperror.NewLockTimeout(product)
	}
	return err
}

// report sends an audit entry. Sink failure is logged, never propagated:
// audit is not a correctness concern of the ledger.
func (e *Engine) report(ctx context.Context, action, detail string) {
	entry := audit.Entry{
		Actor:  appctx.GetActorID(ctx),
		Action: action,
		Detail: detail,
		At:     time.Now().UTC(),
	}
	if err := e.sink.Record(ctx, entry); err != nil {
		logger.Warn(ctx, "audit sink failed", "action", action, "error", err)
	}
}

func describe(events []*Event) string {
	parts := make([]string, 0, len(events))
	for _, ev := range events {
		parts = append(parts, fmt.Sprintf("%s: %s @ %s on %s",
			ev.Product, ev.Quantity, ev.UnitPrice, dates.Format(ev.EventDate)))
	}
	return strings.Join(parts, "; ")
}

func deref(events []*Event) []Event {
	out := make([]Event, len(events))
	for i, ev := range events {
		out[i] = *ev
	}
	return out
}

func withLine(err error, lineNo int) error {
	if appErr, ok := apperror.AsAppError(err); ok {
		return appErr.WithDetail("lineNo", lineNo)
	}
	return err
}
