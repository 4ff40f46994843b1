// Package ledger provides the append-only inventory ledger and its engine.
package ledger

import (
	"time"

	"greenbook/internal/core/apperror"
	"greenbook/internal/core/dates"
	"greenbook/internal/core/id"
	"greenbook/internal/core/types"
)

// Kind discriminates ledger event variants.
type Kind string

const (
	KindPurchase   Kind = "purchase"
	KindSale       Kind = "sale"
	KindStockCheck Kind = "stock_check"
)

// Valid reports whether k is a known event kind.
func (k Kind) Valid() bool {
	switch k {
	case KindPurchase, KindSale, KindStockCheck:
		return true
	}
	return false
}

// Event is one immutable ledger record. Events are never updated after
// append; corrections are new events.
type Event struct {
	// ID is a UUIDv7 assigned at append time. Time-ordered, so sorting
	// by id within a day reproduces insertion order.
	ID id.ID `db:"id" json:"id"`

	Product string `db:"product" json:"product"`
	Kind    Kind   `db:"kind" json:"kind"`

	// UnitPrice is the purchase cost, the resolved sale price, or the
	// last-known purchase cost at stock-check time.
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// Quantity is the transacted quantity for purchases and sales.
	// For stock checks it is the expected quantity computed by the
	// engine at check time, never user input.
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// ActualQuantity is the physically counted quantity (stock checks only).
	ActualQuantity types.Quantity `db:"actual_quantity" json:"actualQuantity"`

	// LossQuantity = Quantity - ActualQuantity for stock checks; signed,
	// negative means surplus. Zero for purchases and sales.
	LossQuantity types.Quantity `db:"loss_quantity" json:"lossQuantity"`

	// EventDate is the business date the transaction applies to (midnight UTC).
	EventDate time.Time `db:"event_date" json:"eventDate"`

	Notes string `db:"notes" json:"notes,omitempty"`

	// RecordedAt is the append timestamp. Audit only, never used in
	// business computation.
	RecordedAt time.Time `db:"recorded_at" json:"recordedAt"`
}

// NewPurchase builds an unvalidated purchase event.
func NewPurchase(product string, unitPrice types.Money, quantity types.Quantity, eventDate time.Time, notes string) *Event {
	return &Event{
		ID:         id.New(),
		Product:    product,
		Kind:       KindPurchase,
		UnitPrice:  unitPrice,
		Quantity:   quantity,
		EventDate:  dates.Day(eventDate),
		Notes:      notes,
		RecordedAt: time.Now().UTC(),
	}
}

// NewSale builds an unvalidated sale event with an already-resolved price.
func NewSale(product string, unitPrice types.Money, quantity types.Quantity, eventDate time.Time, notes string) *Event {
	return &Event{
		ID:         id.New(),
		Product:    product,
		Kind:       KindSale,
		UnitPrice:  unitPrice,
		Quantity:   quantity,
		EventDate:  dates.Day(eventDate),
		Notes:      notes,
		RecordedAt: time.Now().UTC(),
	}
}

// NewStockCheck builds a stock-check event. Expected is the engine's
// projection at check time; loss is derived and signed.
func NewStockCheck(product string, lastCost types.Money, expected, actual types.Quantity, eventDate time.Time, notes string) *Event {
	return &Event{
		ID:             id.New(),
		Product:        product,
		Kind:           KindStockCheck,
		UnitPrice:      lastCost,
		Quantity:       expected,
		ActualQuantity: actual,
		LossQuantity:   expected - actual,
		EventDate:      dates.Day(eventDate),
		Notes:          notes,
		RecordedAt:     time.Now().UTC(),
	}
}

// Validate checks the event shape against a business-date ceiling.
func (e *Event) Validate(today time.Time) error {
	if !e.Kind.Valid() {
		return apperror.NewValidation("unknown event kind").WithDetail("kind", string(e.Kind))
	}
	if e.Product == "" {
		return apperror.NewValidation("product is required")
	}
	if e.EventDate.IsZero() {
		return apperror.NewValidation("event date is required")
	}
	if e.EventDate.After(today) {
		return apperror.NewValidation("event date must not be in the future").
			WithDetail("eventDate", dates.Format(e.EventDate)).
			WithDetail("today", dates.Format(today))
	}
	if e.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price must not be negative")
	}

	switch e.Kind {
	case KindPurchase, KindSale:
		if !e.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("quantity", e.Quantity.String())
		}
	case KindStockCheck:
		if e.ActualQuantity.IsNegative() {
			return apperror.NewValidation("counted quantity must not be negative").
				WithDetail("actualQuantity", e.ActualQuantity.String())
		}
	}

	return nil
}

// SignedQuantity returns the stock delta this event contributes during
// replay: purchases add, sales subtract, checks contribute nothing
// (they reset the baseline instead).
func (e *Event) SignedQuantity() types.Quantity {
	switch e.Kind {
	case KindPurchase:
		return e.Quantity
	case KindSale:
		return e.Quantity.Neg()
	}
	return 0
}

// Amount returns unit price times quantity.
func (e *Event) Amount() types.Money {
	return e.UnitPrice.Mul(e.Quantity.Decimal())
}
