package domain

// MovementType is the kind of ledger movement.
type MovementType string

const (
	MovementTransfer   MovementType = "transferencia"
	MovementWithdrawal MovementType = "retiro"
)

// Movement is one entry in a shift's append-only ledger: an internal
// transfer between two operational wallets, or a withdrawal out of the
// operational set. Movements are immutable once their shift closes.
type Movement struct {
	ID         FlexInt      `json:"id,omitempty"`
	CajaID     FlexInt      `json:"caja_id"`
	EmpleadoID FlexInt      `json:"empleado_id,omitempty"`
	Tipo       MovementType `json:"tipo"`
	Desde      Wallet       `json:"desde_billetera"`
	Hasta      Wallet       `json:"hasta_billetera"`
	Monto      FlexFloat    `json:"monto"`
	Fecha      *LocalTime   `json:"fecha,omitempty"`
}

// IsWithdrawal reports whether the movement leaves the operational
// wallet set. The tipo tag wins; an untagged movement whose destination
// is an external wallet counts as a withdrawal too.
func (m Movement) IsWithdrawal() bool {
	return m.Tipo == MovementWithdrawal || m.Hasta.IsWithdrawal()
}

// Prize is one paid-out prize, recorded against the wallet used to pay
// it. The per-shift prize sum backs the premios component when the
// closing declaration omits it.
type Prize struct {
	ID          FlexInt   `json:"id,omitempty"`
	CajaID      FlexInt   `json:"caja_id"`
	BilleteraID FlexInt   `json:"billetera_id"`
	Servicio    string    `json:"servicio"`
	Titular     string    `json:"titular"`
	CBU         string    `json:"cbu"`
	Monto       FlexFloat `json:"monto"`
}

// Employee is a till operator.
type Employee struct {
	ID           FlexInt `json:"id"`
	Nombre       string  `json:"nombre"`
	Usuario      string  `json:"usuario,omitempty"`
	PasswordHash string  `json:"-"`
}
