package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"greenbook/internal/core/dates"
	"greenbook/internal/domain/ledger"
	"greenbook/internal/infrastructure/http/v1/dto"
)

// LedgerHandler handles HTTP requests for the event ledger.
type LedgerHandler struct {
	*BaseHandler
	engine *ledger.Engine
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(base *BaseHandler, engine *ledger.Engine) *LedgerHandler {
	return &LedgerHandler{
		BaseHandler: base,
		engine:      engine,
	}
}

// RecordPurchase handles POST /ledger/purchases
func (h *LedgerHandler) RecordPurchase(c *gin.Context) {
	var req dto.PurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	day, ok := h.ParseDate(c, "eventDate", req.EventDate)
	if !ok {
		return
	}

	event, err := h.engine.RecordPurchase(c.Request.Context(), req.Product, req.UnitPrice, req.Quantity, day, req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromEvent(*event))
}

// RecordPurchaseBatch handles POST /ledger/purchases/batch
func (h *LedgerHandler) RecordPurchaseBatch(c *gin.Context) {
	var req dto.PurchaseBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	day, ok := h.ParseDate(c, "eventDate", req.EventDate)
	if !ok {
		return
	}

	lines := make([]ledger.PurchaseLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = ledger.PurchaseLine{
			Product:   l.Product,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		}
	}

	events, err := h.engine.RecordPurchaseBatch(c.Request.Context(), lines, day, req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.EventListResponse{
		Items:      dto.FromEvents(events),
		TotalCount: len(events),
	})
}

// RecordSale handles POST /ledger/sales
func (h *LedgerHandler) RecordSale(c *gin.Context) {
	var req dto.SaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	day, ok := h.ParseDate(c, "eventDate", req.EventDate)
	if !ok {
		return
	}

	event, err := h.engine.RecordSale(c.Request.Context(), req.Product, req.Quantity, day, req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromEvent(*event))
}

// RecordSaleBatch handles POST /ledger/sales/batch
func (h *LedgerHandler) RecordSaleBatch(c *gin.Context) {
	var req dto.SaleBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	day, ok := h.ParseDate(c, "eventDate", req.EventDate)
	if !ok {
		return
	}

	lines := make([]ledger.SaleLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = ledger.SaleLine{Product: l.Product, Quantity: l.Quantity}
	}

	events, err := h.engine.RecordSaleBatch(c.Request.Context(), lines, day, req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.EventListResponse{
		Items:      dto.FromEvents(events),
		TotalCount: len(events),
	})
}

// RecordStockCheck handles POST /ledger/checks
func (h *LedgerHandler) RecordStockCheck(c *gin.Context) {
	var req dto.StockCheckRequest
	if !h.BindJSON(c, &req) {
		return
	}

	day, ok := h.ParseDate(c, "eventDate", req.EventDate)
	if !ok {
		return
	}

	event, err := h.engine.RecordStockCheck(c.Request.Context(), req.Product, req.ActualQuantity, day, req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromEvent(*event))
}

// GetEvents handles GET /ledger/events
func (h *LedgerHandler) GetEvents(c *gin.Context) {
	filter := ledger.Filter{
		Product: c.Query("product"),
		Kind:    ledger.Kind(c.Query("kind")),
	}

	if fromStr := c.Query("from"); fromStr != "" {
		from, ok := h.ParseDate(c, "from", fromStr)
		if !ok {
			return
		}
		filter.From = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, ok := h.ParseDate(c, "to", toStr)
		if !ok {
			return
		}
		filter.To = &to
	}

	events, err := h.engine.Events(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.EventListResponse{
		Items:      dto.FromEvents(events),
		TotalCount: len(events),
	})
}

// GetStock handles GET /ledger/stock
func (h *LedgerHandler) GetStock(c *gin.Context) {
	product := c.Query("product")
	day, ok := h.ParseDateQuery(c, "date")
	if !ok {
		return
	}

	stock, err := h.engine.StockAsOf(c.Request.Context(), product, day)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.StockResponse{
		Product:  product,
		Date:     dates.Format(day),
		Quantity: stock,
	})
}

// RegisterRoutes registers ledger routes.
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/purchases", h.RecordPurchase)
	rg.POST("/purchases/batch", h.RecordPurchaseBatch)
	rg.POST("/sales", h.RecordSale)
	rg.POST("/sales/batch", h.RecordSaleBatch)
	rg.POST("/checks", h.RecordStockCheck)
	rg.GET("/events", h.GetEvents)
	rg.GET("/stock", h.GetStock)
}
