package handler

import (
	"till-reconciliation-engine/internal/adapter/http/dto"
	"till-reconciliation-engine/internal/core/domain"
	"till-reconciliation-engine/internal/core/ports"
	"till-reconciliation-engine/pkg/apperror"
	"till-reconciliation-engine/pkg/response"

	"github.com/gin-gonic/gin"
)

// LedgerHandler handles movement and prize endpoints for a shift.
type LedgerHandler struct {
	ledgerSvc ports.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerSvc ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

// RecordMovement handles POST /api/v1/cajas/:id/movimientos.
func (h *LedgerHandler) RecordMovement(c *gin.Context) {
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

	var req dto.MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	var hasta domain.Wallet
	if req.HastaBilletera != nil {
		hasta = req.HastaBilletera.Domain()
	}

	movement, err := h.ledgerSvc.RecordMovement(c.Request.Context(), ports.MovementRequest{
		CajaID:     cajaID,
		EmpleadoID: empleadoID,
		Tipo:       domain.MovementType(req.Tipo),
		Desde:      req.DesdeBilletera.Domain(),
		Hasta:      hasta,
		Monto:      req.Monto,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, movement)
}

// ListMovements handles GET /api/v1/cajas/:id/movimientos.
func (h *LedgerHandler) ListMovements(c *gin.Context) {
	cajaID, err := pathID(c)
	if err != nil {
		response.Error(c, apperror.Validation("invalid caja id"))
		return
	}

	movements, err := h.ledgerSvc.ListMovements(c.Request.Context(), cajaID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, movements)
}

// RecordPrize handles POST /api/v1/cajas/:id/premios.
func (h *LedgerHandler) RecordPrize(c *gin.Context) {
	cajaID, err := pathID(c)
	if err != nil {
		response.Error(c, apperror.Validation("invalid caja id"))
		return
	}

	var req dto.PrizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	prize, err := h.ledgerSvc.RecordPrize(c.Request.Context(), ports.PrizeRequest{
		CajaID:      cajaID,
		BilleteraID: req.BilleteraID,
		Servicio:    req.Servicio,
		Titular:     req.Titular,
		CBU:         req.CBU,
		Monto:       req.Monto,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, prize)
}

// ListPrizes handles GET /api/v1/cajas/:id/premios.
func (h *LedgerHandler) ListPrizes(c *gin.Context) {
	cajaID, err := pathID(c)
	if err != nil {
		response.Error(c, apperror.Validation("invalid caja id"))
		return
	}

	prizes, err := h.ledgerSvc.ListPrizes(c.Request.Context(), cajaID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, prizes)
}
