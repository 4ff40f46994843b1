package dto

import (
	"time"

	"greenbook/internal/core/dates"
	"greenbook/internal/core/types"
	"greenbook/internal/domain/pricing"
)

// SetPriceRequest introduces a new sale price effective from a date.
type SetPriceRequest struct {
	Product       string      `json:"product" binding:"required"`
	SalePrice     types.Money `json:"salePrice" binding:"required"`
	EffectiveFrom string      `json:"effectiveFrom" binding:"required"`
}

// PriceVersionResponse represents a price version in API responses.
type PriceVersionResponse struct {
	ID        string    `json:"id"`
	Product   string    `json:"product"`
	SalePrice string    `json:"salePrice"`
	ValidFrom string    `json:"validFrom"`
	ValidTo   *string   `json:"validTo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromPriceVersion converts a price version to response DTO.
func FromPriceVersion(v pricing.Version) PriceVersionResponse {
	resp := PriceVersionResponse{
		ID:        v.ID.String(),
		Product:   v.Product,
		SalePrice: v.SalePrice.String(),
		ValidFrom: dates.Format(v.ValidFrom),
		CreatedAt: v.CreatedAt,
	}
	if v.ValidTo != nil {
		to := dates.Format(*v.ValidTo)
		resp.ValidTo = &to
	}
	return resp
}

// PriceVersionListResponse represents a list of price versions.
type PriceVersionListResponse struct {
	Items []PriceVersionResponse `json:"items"`
}
