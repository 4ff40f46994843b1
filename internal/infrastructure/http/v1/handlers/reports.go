package handlers

import (
	"github.com/gin-gonic/gin"

	"greenbook/internal/domain/reports"
)

// ReportHandler handles HTTP requests for aggregated reports.
type ReportHandler struct {
	*BaseHandler
	aggregator *reports.Aggregator
}

// NewReportHandler creates a new report handler.
func NewReportHandler(base *BaseHandler, aggregator *reports.Aggregator) *ReportHandler {
	return &ReportHandler{
		BaseHandler: base,
		aggregator:  aggregator,
	}
}

// GetDaily handles GET /reports/daily
func (h *ReportHandler) GetDaily(c *gin.Context) {
	day, ok := h.ParseDateQuery(c, "date")
	if !ok {
		return
	}

	report, err := h.aggregator.Daily(c.Request.Context(), day)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// GetRange handles GET /reports/range
func (h *ReportHandler) GetRange(c *gin.Context) {
	from, ok := h.ParseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := h.ParseDateQuery(c, "to")
	if !ok {
		return
	}

	report, err := h.aggregator.Summarize(c.Request.Context(), from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// RegisterRoutes registers report routes.
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/daily", h.GetDaily)
	rg.GET("/range", h.GetRange)
}
