// Package reports aggregates the ledger into per-product daily and
// range summaries. Reports are pure reads over the event log.
package reports

import (
	"greenbook/internal/core/types"
)

// Summary is the aggregate for one product over a date range.
type Summary struct {
	Product string `json:"product"`

	PurchaseQuantity types.Quantity `json:"purchaseQuantity"`
	PurchaseAmount   types.Money    `json:"purchaseAmount"`

	SaleQuantity types.Quantity `json:"saleQuantity"`
	SaleAmount   types.Money    `json:"saleAmount"`

	// Profit is the sum over sales of (sale price - weighted-average
	// cost as of the sale date) * quantity.
	Profit types.Money `json:"profit"`

	// LossQuantity is the signed sum of stock-check losses in range.
	LossQuantity types.Quantity `json:"lossQuantity"`

	// StockAtRangeEnd is the projected stock at end of the To date.
	StockAtRangeEnd types.Quantity `json:"stockAtRangeEnd"`
}

// Totals sums the monetary columns across products.
type Totals struct {
	PurchaseAmount types.Money `json:"purchaseAmount"`
	SaleAmount     types.Money `json:"saleAmount"`
	Profit         types.Money `json:"profit"`
}

// Report is a range summary across all products with activity.
type Report struct {
	From     string    `json:"from"`
	To       string    `json:"to"`
	Products []Summary `json:"products"`
	Totals   Totals    `json:"totals"`
}
