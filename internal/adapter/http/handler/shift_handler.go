package handler

import (
	"strconv"

	"till-reconciliation-engine/internal/adapter/http/dto"
	"till-reconciliation-engine/internal/adapter/http/middleware"
	"till-reconciliation-engine/internal/core/ports"
	"till-reconciliation-engine/pkg/apperror"
	"till-reconciliation-engine/pkg/response"

	"github.com/gin-gonic/gin"
)

// ShiftHandler handles the till open/close lifecycle endpoints.
type ShiftHandler struct {
	shiftSvc ports.ShiftService
}

// NewShiftHandler creates a new ShiftHandler.
func NewShiftHandler(shiftSvc ports.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc}
}

// currentEmpleado extracts the authenticated employee id from the context.
func currentEmpleado(c *gin.Context) (int64, bool) {
	v, ok := c.Get(middleware.CtxEmpleadoID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// pathID parses the numeric :id path parameter.
func pathID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// Open handles POST /api/v1/cajas/apertura.
func (h *ShiftHandler) Open(c *gin.Context) {
	empleadoID, ok := currentEmpleado(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.OpenShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	shift, err := h.shiftSvc.Open(c.Request.Context(), ports.OpenShiftRequest{
		EmpleadoID:      empleadoID,
		Turno:           req.Turno,
		Billeteras:      req.Billeteras,
		FichasIniciales: req.FichasIniciales,
		LiabilityInicio: req.SaldoJugadoresInicial,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, shift)
}

// Close handles POST /api/v1/cajas/:id/cierre.
func (h *ShiftHandler) Close(c *gin.Context) {
	empleadoID, ok := currentEmpleado(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	cajaID, err := pathID(c)
	if err != nil {
		response.Error(c, apperror.Validation("invalid caja id"))
		return
	}

	var req dto.CloseShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	shift, err := h.shiftSvc.Close(c.Request.Context(), ports.CloseShiftRequest{
		CajaID:            cajaID,
		EmpleadoID:        empleadoID,
		Billeteras:        req.BilleterasFinales,
		FichasFinales:     req.FichasFinales,
		Premios:           req.Premios,
		Bonos:             req.Bonos,
		Depositos:         req.Depositos,
		SaldoJugadoresFin: req.SaldoJugadoresFinal,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, shift)
}

// Get handles GET /api/v1/cajas/:id.
func (h *ShiftHandler) Get(c *gin.Context) {
	cajaID, err := pathID(c)
	if err != nil {
		response.Error(c, apperror.Validation("invalid caja id"))
		return
	}

	shift, err := h.shiftSvc.Get(c.Request.Context(), cajaID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, shift)
}

// List handles GET /api/v1/cajas.
func (h *ShiftHandler) List(c *gin.Context) {
	var params ports.ShiftListParams

	if f := c.Query("fecha"); f != "" {
		params.Fecha = &f
	}
	if t := c.Query("turno"); t != "" {
		params.Turno = &t
	}
	if e := c.Query("empleado_id"); e != "" {
		id, err := strconv.ParseInt(e, 10, 64)
		if err != nil {
			response.Error(c, apperror.Validation("invalid empleado_id"))
			return
		}
		params.EmpleadoID = &id
	}
	params.ClosedOnly = c.Query("cerradas") == "true"

	shifts, err := h.shiftSvc.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ShiftListResponse{
		Items: shifts,
		Total: len(shifts),
	})
}
