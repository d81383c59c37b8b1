package dto

import "till-reconciliation-engine/internal/core/domain"

// RegisterRequest is the request body for employee registration.
type RegisterRequest struct {
	Nombre   string `json:"nombre" binding:"required,min=1,max=100"`
	Usuario  string `json:"usuario" binding:"required,min=3,max=50,safe_id"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for employee login.
type LoginRequest struct {
	Usuario  string `json:"usuario" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	EmpleadoID int64  `json:"empleado_id"`
	Nombre     string `json:"nombre"`
	Usuario    string `json:"usuario"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// OpenShiftRequest is the request body for opening a till.
// Billeteras accepts both the array and the object-map snapshot shapes.
type OpenShiftRequest struct {
	Turno                 string                `json:"turno" binding:"required"`
	Billeteras            domain.WalletSnapshot `json:"billeteras" binding:"required"`
	FichasIniciales       float64               `json:"fichas_iniciales"`
	SaldoJugadoresInicial *float64              `json:"saldo_jugadores_inicial,omitempty"`
}

// CloseShiftRequest is the request body for closing a till.
type CloseShiftRequest struct {
	BilleterasFinales   domain.WalletSnapshot `json:"billeteras_finales" binding:"required"`
	FichasFinales       float64               `json:"fichas_finales"`
	Premios             float64               `json:"premios"`
	Bonos               float64               `json:"bonos"`
	Depositos           float64               `json:"depositos"`
	SaldoJugadoresFinal *float64              `json:"saldo_jugadores_final,omitempty"`
}

// WalletRef identifies a wallet endpoint inside a movement request.
type WalletRef struct {
	ID       int64  `json:"id,omitempty"`
	Servicio string `json:"servicio" binding:"required"`
	CBU      string `json:"cbu"`
	Titular  string `json:"titular"`
	Tipo     string `json:"tipo,omitempty"`
}

// Domain converts the reference into a domain wallet.
func (r WalletRef) Domain() domain.Wallet {
	return domain.Wallet{
		ID:       domain.FlexInt(r.ID),
		Servicio: r.Servicio,
		CBU:      r.CBU,
		Titular:  r.Titular,
		Tipo:     domain.WalletKind(r.Tipo),
	}
}

// MovementRequest is the request body for recording a ledger movement.
// HastaBilletera is optional for withdrawals; the catalog resolves the
// external destination.
type MovementRequest struct {
	Tipo           string     `json:"tipo" binding:"required,oneof=transferencia retiro"`
	DesdeBilletera WalletRef  `json:"desde_billetera" binding:"required"`
	HastaBilletera *WalletRef `json:"hasta_billetera,omitempty"`
	Monto          float64    `json:"monto" binding:"required,gt=0"`
}

// PrizeRequest is the request body for recording a paid prize.
type PrizeRequest struct {
	BilleteraID int64   `json:"billetera_id"`
	Servicio    string  `json:"servicio" binding:"required"`
	Titular     string  `json:"titular"`
	CBU         string  `json:"cbu"`
	Monto       float64 `json:"monto" binding:"required,gt=0"`
}

// CreateWalletRequest is the request body for adding a catalog wallet.
type CreateWalletRequest struct {
	Servicio string `json:"servicio" binding:"required,min=1,max=100"`
	CBU      string `json:"cbu" binding:"max=50"`
	Titular  string `json:"titular" binding:"required,min=1,max=100"`
	Tipo     string `json:"tipo" binding:"omitempty,oneof=operativa retiro"`
}

// ExpectedBalanceEntry is one projected wallet balance.
type ExpectedBalanceEntry struct {
	Servicio string  `json:"servicio"`
	CBU      string  `json:"cbu"`
	Titular  string  `json:"titular"`
	Esperado float64 `json:"esperado"`
}

// ExpectedBalancesResponse is the live drawer projection for a shift.
type ExpectedBalancesResponse struct {
	CajaID     int64                  `json:"caja_id"`
	Billeteras []ExpectedBalanceEntry `json:"billeteras"`
}

// ShiftListResponse wraps a shift listing.
type ShiftListResponse struct {
	Items []domain.Shift `json:"items"`
	Total int            `json:"total"`
}
