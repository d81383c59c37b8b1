package handler

import (
	"strconv"

	"till-reconciliation-engine/internal/core/ports"
	"till-reconciliation-engine/pkg/apperror"
	"till-reconciliation-engine/pkg/response"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler handles the daily summary endpoints.
type AnalyticsHandler struct {
	analyticsSvc ports.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsSvc ports.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// DailySummaries handles GET /api/v1/resumen-diario.
// Filters: ?fecha=YYYY-MM-DD&turno=&empleado_id=&nombre=.
func (h *AnalyticsHandler) DailySummaries(c *gin.Context) {
	filter := ports.SummaryFilter{
		Fecha:  c.Query("fecha"),
		Turno:  c.Query("turno"),
		Nombre: c.Query("nombre"),
	}
	if e := c.Query("empleado_id"); e != "" {
		id, err := strconv.ParseInt(e, 10, 64)
		if err != nil {
			response.Error(c, apperror.Validation("invalid empleado_id"))
			return
		}
		filter.EmpleadoID = id
	}

	report, err := h.analyticsSvc.DailySummaries(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, report)
}
