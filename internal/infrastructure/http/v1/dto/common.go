// Package dto defines request and response shapes for the HTTP API.
package dto

// IDResponse is a standard response containing created entity ID.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse is a standard success response.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
