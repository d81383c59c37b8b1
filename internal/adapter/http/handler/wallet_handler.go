package handler

import (
	"till-reconciliation-engine/internal/adapter/http/dto"
	"till-reconciliation-engine/internal/core/domain"
	"till-reconciliation-engine/internal/core/ports"
	"till-reconciliation-engine/pkg/apperror"
	"till-reconciliation-engine/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles the wallet catalog endpoints.
type WalletHandler struct {
	walletRepo ports.WalletRepository
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletRepo ports.WalletRepository) *WalletHandler {
	return &WalletHandler{walletRepo: walletRepo}
}

// Create handles POST /api/v1/billeteras.
func (h *WalletHandler) Create(c *gin.Context) {
	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	kind := domain.WalletKind(req.Tipo)
	if kind == "" {
		kind = domain.WalletKindOperational
	}

	wallet := &domain.Wallet{
		Servicio: req.Servicio,
		CBU:      req.CBU,
		Titular:  req.Titular,
		Tipo:     kind,
	}
	if err := h.walletRepo.Create(c.Request.Context(), wallet); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, wallet)
}

// Get handles GET /api/v1/billeteras/:id.
func (h *WalletHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, apperror.Validation("invalid billetera id"))
		return
	}

	wallet, err := h.walletRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if wallet == nil {
		response.Error(c, apperror.ErrNotFound("billetera"))
		return
	}

	response.OK(c, wallet)
}

// List handles GET /api/v1/billeteras, optionally filtered by ?tipo=.
func (h *WalletHandler) List(c *gin.Context) {
	var (
		wallets []domain.Wallet
		err     error
	)
	if tipo := c.Query("tipo"); tipo != "" {
		wallets, err = h.walletRepo.ListByKind(c.Request.Context(), domain.WalletKind(tipo))
	} else {
		wallets, err = h.walletRepo.List(c.Request.Context())
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, wallets)
}
