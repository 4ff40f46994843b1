// Package pricing manages date-ranged sale price versions per product.
package pricing

import (
	"time"

	"greenbook/internal/core/apperror"
	"greenbook/internal/core/dates"
	"greenbook/internal/core/id"
	"greenbook/internal/core/types"
)

// Version is one sale price with a half-open validity interval
// [ValidFrom, ValidTo). A nil ValidTo means the price is open-ended.
// Versions of the same product never overlap.
type Version struct {
	ID        id.ID       `db:"id" json:"id"`
	Product   string      `db:"product" json:"product"`
	SalePrice types.Money `db:"sale_price" json:"salePrice"`
	ValidFrom time.Time   `db:"valid_from" json:"validFrom"`
	ValidTo   *time.Time  `db:"valid_to" json:"validTo,omitempty"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
}

// NewVersion builds an open-ended price version starting at effectiveFrom.
func NewVersion(product string, salePrice types.Money, effectiveFrom time.Time) *Version {
	return &Version{
		ID:        id.New(),
		Product:   product,
		SalePrice: salePrice,
		ValidFrom: dates.Day(effectiveFrom),
		CreatedAt: time.Now().UTC(),
	}
}

// Active reports whether the version is in effect on the given date.
func (v *Version) Active(onDate time.Time) bool {
	return dates.Contains(dates.Day(onDate), v.ValidFrom, v.ValidTo)
}

// Validate checks version shape.
func (v *Version) Validate() error {
	if v.Product == "" {
		return apperror.NewValidation("product is required")
	}
	if !v.SalePrice.IsPositive() {
		return apperror.NewValidation("sale price must be positive").
			WithDetail("salePrice", v.SalePrice.String())
	}
	if v.ValidFrom.IsZero() {
		return apperror.NewValidation("validFrom is required")
	}
	if v.ValidTo != nil && !v.ValidFrom.Before(*v.ValidTo) {
		return apperror.NewValidation("validTo must be after validFrom").
			WithDetail("validFrom", dates.Format(v.ValidFrom)).
			WithDetail("validTo", dates.Format(*v.ValidTo))
	}
	return nil
}
