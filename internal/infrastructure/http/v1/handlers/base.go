// Package handlers provides HTTP request handlers.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"greenbook/internal/core/apperror"
	"greenbook/internal/core/dates"
	"greenbook/internal/infrastructure/http/v1/dto"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler (single source of truth).
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseDate parses a YYYY-MM-DD value, reporting a validation error on failure.
func (h *BaseHandler) ParseDate(c *gin.Context, field, value string) (time.Time, bool) {
	day, err := dates.Parse(value)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid date, expected YYYY-MM-DD").
			WithDetail("field", field).
			WithDetail("value", value))
		return time.Time{}, false
	}
	return day, true
}

// ParseDateQuery parses a required YYYY-MM-DD query parameter.
func (h *BaseHandler) ParseDateQuery(c *gin.Context, key string) (time.Time, bool) {
	value := c.Query(key)
	if value == "" {
		h.Error(c, apperror.NewValidation(key+" is required"))
		return time.Time{}, false
	}
	return h.ParseDate(c, key, value)
}

// Created sends 201 response with ID.
func (h *BaseHandler) Created(c *gin.Context, id string) {
	c.JSON(http.StatusCreated, dto.IDResponse{ID: id})
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}
