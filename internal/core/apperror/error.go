// Package apperror provides structured error handling for the ledger core.
// All business errors must use AppError so callers can branch on codes.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced by the ledger core
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeStorage  = "STORAGE_ERROR"

	// Validation errors (400)
	CodeValidation = "VALIDATION_ERROR"

	// Business rule violations (422)
	CodeNoPriceSet        = "NO_PRICE_SET"
	CodeOverlappingPrice  = "OVERLAPPING_PRICE"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Lock contention (409)
	CodeLockTimeout = "LOCK_TIMEOUT"
)

// AppError is the standard error type for the ledger.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field names, quantities, dates)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, key any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "key": key},
	}
}

// NewNoPriceSet is returned when a sale is attempted with no active price version.
func NewNoPriceSet(product string, onDate string) *AppError {
	return &AppError{
		Code:       CodeNoPriceSet,
		Message:    "No sale price set for product on this date",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"product": product, "date": onDate},
	}
}

// NewOverlappingPrice is returned when a new price version would overlap an existing one.
func NewOverlappingPrice(product string, effectiveFrom string) *AppError {
	return &AppError{
		Code:       CodeOverlappingPrice,
		Message:    "Price version overlaps an existing validity period",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"product": product, "effectiveFrom": effectiveFrom},
	}
}

// NewInsufficientStock creates a stock shortage error
func NewInsufficientStock(product string, requested, available string) *AppError {
	return &AppError{
		Code:       CodeInsufficientStock,
		Message:    "Insufficient stock",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"product":   product,
			"requested": requested,
			"available": available,
		},
	}
}

// NewLockTimeout is returned when the per-product write lock was not acquired in time.
func NewLockTimeout(product string) *AppError {
	return &AppError{
		Code:       CodeLockTimeout,
		Message:    "Another operation on this product is in progress. Please retry.",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"product": product},
	}
}

// NewStorage wraps a persistence failure (500)
func NewStorage(err error) *AppError {
	return &AppError{
		Code:       CodeStorage,
		Message:    "Storage failure",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// HasCode reports whether err carries the given ledger error code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}
