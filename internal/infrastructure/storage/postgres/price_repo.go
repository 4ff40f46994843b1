package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"greenbook/internal/core/dates"
	"greenbook/internal/domain/pricing"
)

const pricesTable = "price_versions"

var priceColumns = []string{
	"id", "product", "sale_price", "valid_from", "valid_to", "created_at",
}

// PriceRepo implements pricing.Store on PostgreSQL.
type PriceRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewPriceRepo creates a price version repository.
func NewPriceRepo(txManager *TxManager) *PriceRepo {
	return &PriceRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert stores a new price version.
func (r *PriceRepo) Insert(ctx context.Context, version *pricing.Version) error {
	q := r.builder.Insert(pricesTable).
		Columns(priceColumns...).
		Values(version.ID, version.Product, version.SalePrice,
			version.ValidFrom, version.ValidTo, version.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert price version: %w", err)
	}

	return nil
}

// Close sets the version's validity end.
func (r *PriceRepo) Close(ctx context.Context, versionID string, validTo time.Time) error {
	q := r.builder.Update(pricesTable).
		Set("valid_to", dates.Day(validTo)).
		Where(squirrel.Eq{"id": versionID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("close price version: %w", err)
	}

	return nil
}

// At returns the version active on the date, or nil.
func (r *PriceRepo) At(ctx context.Context, product string, onDate time.Time) (*pricing.Version, error) {
	day := dates.Day(onDate)
	q := r.builder.Select(priceColumns...).From(pricesTable).
		Where(squirrel.Eq{"product": product}).
		Where(squirrel.LtOrEq{"valid_from": day}).
		Where(squirrel.Or{
			squirrel.Eq{"valid_to": nil},
			squirrel.Gt{"valid_to": day},
		}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var version pricing.Version
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &version, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active price: %w", err)
	}

	return &version, nil
}

// List returns versions ordered by validity start. Empty product means
// all products.
func (r *PriceRepo) List(ctx context.Context, product string) ([]pricing.Version, error) {
	q := r.builder.Select(priceColumns...).From(pricesTable)
	if product != "" {
		q = q.Where(squirrel.Eq{"product": product})
	}
	q = q.OrderBy("product", "valid_from")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var versions []pricing.Version
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &versions, sql, args...); err != nil {
		return nil, fmt.Errorf("select price versions: %w", err)
	}

	return versions, nil
}

// Ensure interface compliance.
var _ pricing.Store = (*PriceRepo)(nil)
