package handler

import (
	"sort"

	"till-reconciliation-engine/internal/adapter/http/dto"
	"till-reconciliation-engine/internal/core/ports"
	"till-reconciliation-engine/pkg/apperror"
	"till-reconciliation-engine/pkg/response"

	"github.com/gin-gonic/gin"
)

// ReconcileHandler handles reconciliation and profit endpoints.
type ReconcileHandler struct {
	reconSvc ports.ReconciliationService
}

// NewReconcileHandler creates a new ReconcileHandler.
func NewReconcileHandler(reconSvc ports.ReconciliationService) *ReconcileHandler {
	return &ReconcileHandler{reconSvc: reconSvc}
}

// Reconcile handles GET /api/v1/cajas/:id/descuadre.
func (h *ReconcileHandler) Reconcile(c *gin.Context) {
	cajaID, err := pathID(c)
	if err != nil {
		response.Error(c, apperror.Validation("invalid caja id"))
		return
	}

	result, err := h.reconSvc.Reconcile(c.Request.Context(), cajaID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// Profit handles GET /api/v1/cajas/:id/ganancia.
func (h *ReconcileHandler) Profit(c *gin.Context) {
	cajaID, err := pathID(c)
	if err != nil {
		response.Error(c, apperror.Validation("invalid caja id"))
		return
	}

	result, err := h.reconSvc.Profit(c.Request.Context(), cajaID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// ExpectedBalances handles GET /api/v1/cajas/:id/saldos-esperados.
// Works on open shifts; this is the live drawer view.
func (h *ReconcileHandler) ExpectedBalances(c *gin.Context) {
	cajaID, err := pathID(c)
	if err != nil {
		response.Error(c, apperror.Validation("invalid caja id"))
		return
	}

	balances, err := h.reconSvc.ExpectedBalances(c.Request.Context(), cajaID)
	if err != nil {
		response.Error(c, err)
		return
	}

	entries := make([]dto.ExpectedBalanceEntry, 0, len(balances))
	for key, amount := range balances {
		entries = append(entries, dto.ExpectedBalanceEntry{
			Servicio: key.Servicio,
			CBU:      key.CBU,
			Titular:  key.Titular,
			Esperado: amount,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Servicio != entries[j].Servicio {
			return entries[i].Servicio < entries[j].Servicio
		}
		if entries[i].Titular != entries[j].Titular {
			return entries[i].Titular < entries[j].Titular
		}
		return entries[i].CBU < entries[j].CBU
	})

	response.OK(c, dto.ExpectedBalancesResponse{
		CajaID:     cajaID,
		Billeteras: entries,
	})
}
