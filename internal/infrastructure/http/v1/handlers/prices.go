package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"greenbook/internal/domain/pricing"
	"greenbook/internal/infrastructure/http/v1/dto"
)

// PriceHandler handles HTTP requests for price versions.
type PriceHandler struct {
	*BaseHandler
	service *pricing.Service
}

// NewPriceHandler creates a new price handler.
func NewPriceHandler(base *BaseHandler, service *pricing.Service) *PriceHandler {
	return &PriceHandler{
		BaseHandler: base,
		service:     service,
	}
}

// SetPrice handles POST /prices
func (h *PriceHandler) SetPrice(c *gin.Context) {
	var req dto.SetPriceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	day, ok := h.ParseDate(c, "effectiveFrom", req.EffectiveFrom)
	if !ok {
		return
	}

	version, err := h.service.SetPrice(c.Request.Context(), req.Product, req.SalePrice, day)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromPriceVersion(*version))
}

// GetHistory handles GET /prices
func (h *PriceHandler) GetHistory(c *gin.Context) {
	versions, err := h.service.History(c.Request.Context(), c.Query("product"))
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.PriceVersionResponse, len(versions))
	for i, v := range versions {
		items[i] = dto.FromPriceVersion(v)
	}

	h.OK(c, dto.PriceVersionListResponse{Items: items})
}

// GetActive handles GET /prices/active
func (h *PriceHandler) GetActive(c *gin.Context) {
	product := c.Query("product")
	day, ok := h.ParseDateQuery(c, "date")
	if !ok {
		return
	}

	price, err := h.service.Resolve(c.Request.Context(), product, day)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"product":   product,
		"date":      c.Query("date"),
		"salePrice": price.String(),
	})
}

// RegisterRoutes registers price routes.
func (h *PriceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.SetPrice)
	rg.GET("", h.GetHistory)
	rg.GET("/active", h.GetActive)
}
