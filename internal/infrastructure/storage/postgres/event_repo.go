package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"greenbook/internal/core/dates"
	"greenbook/internal/domain/ledger"
)

const eventsTable = "ledger_events"

var eventColumns = []string{
	"id", "product", "kind", "unit_price",
	"quantity", "actual_quantity", "loss_quantity",
	"event_date", "notes", "recorded_at",
}

// EventRepo implements ledger.Store on PostgreSQL.
type EventRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewEventRepo creates a ledger event repository.
func NewEventRepo(txManager *TxManager) *EventRepo {
	return &EventRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append inserts one event.
func (r *EventRepo) Append(ctx context.Context, event *ledger.Event) error {
	q := r.builder.Insert(eventsTable).
		Columns(eventColumns...).
		Values(eventValues(event)...)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}

// AppendBatch inserts all events atomically.
// Fast path: COPY when inside a transaction.
func (r *EventRepo) AppendBatch(ctx context.Context, events []*ledger.Event) error {
	if len(events) == 0 {
		return nil
	}

	if tx := r.txManager.GetTx(ctx); tx != nil {
		rows := make([][]any, 0, len(events))
		for _, ev := range events {
			rows = append(rows, eventValues(ev))
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{eventsTable}, eventColumns, pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("copy events: %w", err)
		}
		return nil
	}

	// Fallback: multi-values insert. Prefer calling AppendBatch within tx.
	q := r.builder.Insert(eventsTable).Columns(eventColumns...)
	for _, ev := range events {
		q = q.Values(eventValues(ev)...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert events: %w", err)
	}

	return nil
}

// Query returns events in replay order: event date ascending, then id
// ascending (UUIDv7, so insertion order within a day).
func (r *EventRepo) Query(ctx context.Context, filter ledger.Filter) ([]ledger.Event, error) {
	q := r.builder.Select(eventColumns...).From(eventsTable)

	if filter.Product != "" {
		q = q.Where(squirrel.Eq{"product": filter.Product})
	}
	if filter.Kind != "" {
		q = q.Where(squirrel.Eq{"kind": string(filter.Kind)})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"event_date": dates.Day(*filter.From)})
	}
	if filter.To != nil {
		q = q.Where(squirrel.LtOrEq{"event_date": dates.Day(*filter.To)})
	}

	q = q.OrderBy("event_date", "id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var events []ledger.Event
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &events, sql, args...); err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}

	return events, nil
}

// LatestCheck returns the most recent stock-check at or before the date,
// or nil when the product has never been checked.
func (r *EventRepo) LatestCheck(ctx context.Context, product string, onOrBefore time.Time) (*ledger.Event, error) {
	q := r.builder.Select(eventColumns...).From(eventsTable).
		Where(squirrel.Eq{"product": product}).
		Where(squirrel.Eq{"kind": string(ledger.KindStockCheck)}).
		Where(squirrel.LtOrEq{"event_date": dates.Day(onOrBefore)}).
		OrderBy("event_date DESC", "id DESC").
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var event ledger.Event
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &event, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest check: %w", err)
	}

	return &event, nil
}

func eventValues(ev *ledger.Event) []any {
	return []any{
		ev.ID, ev.Product, string(ev.Kind), ev.UnitPrice,
		ev.Quantity.Int64Scaled(), ev.ActualQuantity.Int64Scaled(), ev.LossQuantity.Int64Scaled(),
		ev.EventDate, ev.Notes, ev.RecordedAt,
	}
}

// Ensure interface compliance.
var _ ledger.Store = (*EventRepo)(nil)
