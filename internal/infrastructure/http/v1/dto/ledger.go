package dto

import (
	"time"

	"greenbook/internal/core/dates"
	"greenbook/internal/core/types"
	"greenbook/internal/domain/ledger"
)

// --- Request DTOs ---

// PurchaseRequest records one purchase.
type PurchaseRequest struct {
	Product   string         `json:"product" binding:"required"`
	UnitPrice types.Money    `json:"unitPrice" binding:"required"`
	Quantity  types.Quantity `json:"quantity" binding:"required"`
	EventDate string         `json:"eventDate" binding:"required"`
	Notes     string         `json:"notes"`
}

// PurchaseLineRequest is one product row in a batch purchase.
type PurchaseLineRequest struct {
	Product   string         `json:"product" binding:"required"`
	UnitPrice types.Money    `json:"unitPrice" binding:"required"`
	Quantity  types.Quantity `json:"quantity" binding:"required"`
}

// PurchaseBatchRequest records a whole intake as one atomic batch.
type PurchaseBatchRequest struct {
	Lines     []PurchaseLineRequest `json:"lines" binding:"required"`
	EventDate string                `json:"eventDate" binding:"required"`
	Notes     string                `json:"notes"`
}

// SaleRequest records one sale. The price comes from the price catalog,
// never from the request.
type SaleRequest struct {
	Product   string         `json:"product" binding:"required"`
	Quantity  types.Quantity `json:"quantity" binding:"required"`
	EventDate string         `json:"eventDate" binding:"required"`
	Notes     string         `json:"notes"`
}

// SaleLineRequest is one product row in a batch sale.
type SaleLineRequest struct {
	Product  string         `json:"product" binding:"required"`
	Quantity types.Quantity `json:"quantity" binding:"required"`
}

// SaleBatchRequest records several sales as one atomic batch.
type SaleBatchRequest struct {
	Lines     []SaleLineRequest `json:"lines" binding:"required"`
	EventDate string            `json:"eventDate" binding:"required"`
	Notes     string            `json:"notes"`
}

// StockCheckRequest records a physical count. The expected quantity is
// computed server-side.
type StockCheckRequest struct {
	Product        string         `json:"product" binding:"required"`
	ActualQuantity types.Quantity `json:"actualQuantity"`
	EventDate      string         `json:"eventDate" binding:"required"`
	Notes          string         `json:"notes"`
}

// --- Response DTOs ---

// EventResponse represents a ledger event in API responses.
type EventResponse struct {
	ID             string         `json:"id"`
	Product        string         `json:"product"`
	Kind           string         `json:"kind"`
	UnitPrice      string         `json:"unitPrice"`
	Quantity       types.Quantity `json:"quantity"`
	ActualQuantity types.Quantity `json:"actualQuantity,omitempty"`
	LossQuantity   types.Quantity `json:"lossQuantity,omitempty"`
	EventDate      string         `json:"eventDate"`
	Notes          string         `json:"notes,omitempty"`
	RecordedAt     time.Time      `json:"recordedAt"`
}

// FromEvent converts a ledger event to response DTO.
func FromEvent(ev ledger.Event) EventResponse {
	return EventResponse{
		ID:             ev.ID.String(),
		Product:        ev.Product,
		Kind:           string(ev.Kind),
		UnitPrice:      ev.UnitPrice.String(),
		Quantity:       ev.Quantity,
		ActualQuantity: ev.ActualQuantity,
		LossQuantity:   ev.LossQuantity,
		EventDate:      dates.Format(ev.EventDate),
		Notes:          ev.Notes,
		RecordedAt:     ev.RecordedAt,
	}
}

// FromEvents converts a slice of ledger events.
func FromEvents(events []ledger.Event) []EventResponse {
	out := make([]EventResponse, len(events))
	for i, ev := range events {
		out[i] = FromEvent(ev)
	}
	return out
}

// EventListResponse represents a list of ledger events.
type EventListResponse struct {
	Items      []EventResponse `json:"items"`
	TotalCount int             `json:"totalCount"`
}

// StockResponse represents projected stock for a product on a date.
type StockResponse struct {
	Product  string         `json:"product"`
	Date     string         `json:"date"`
	Quantity types.Quantity `json:"quantity"`
}
