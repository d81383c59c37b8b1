package domain

// WalletDelta is the per-wallet reconciliation line: what the movement
// fold expected in the drawer versus what the employee declared.
// Diferencia = Declarado - Esperado; negative means shortfall.
type WalletDelta struct {
	Servicio   string    `json:"servicio"`
	Titular    string    `json:"titular"`
	CBU        string    `json:"cbu"`
	Esperado   FlexFloat `json:"esperado"`
	Declarado  FlexFloat `json:"declarado"`
	Diferencia FlexFloat `json:"diferencia"`
}

// Key returns the wallet identity tuple of the delta line.
func (d WalletDelta) Key() WalletKey {
	return WalletKey{Servicio: d.Servicio, CBU: d.CBU, Titular: d.Titular}
}

// ReconciliationResult is the shift-level discrepancy report.
type ReconciliationResult struct {
	CajaID        FlexInt       `json:"caja_id"`
	Detalle       []WalletDelta `json:"detalle"`
	TotalFaltante float64       `json:"total_faltante"` // sum of shortfalls, positive magnitude
	TotalSobrante float64       `json:"total_sobrante"`
	Precomputed   bool          `json:"precomputed"` // backend-supplied breakdown, not recomputed
}

// HasDescuadre reports whether any wallet came up short or over.
func (r ReconciliationResult) HasDescuadre() bool {
	return r.TotalFaltante != 0 || r.TotalSobrante != 0
}

// ProfitResult is a shift's net result under the active formula, with
// its components exposed for reporting.
type ProfitResult struct {
	CajaID        FlexInt  `json:"caja_id"`
	Ganancia      float64  `json:"ganancia"`
	Depositos     float64  `json:"depositos"`
	Premios       float64  `json:"premios"`
	Bonos         float64  `json:"bonos"`
	ConsumoFichas float64  `json:"consumo_fichas"`
	// DeltaLiability explains cash/liability divergence; it is reported
	// alongside Ganancia, never folded into it. nil when either
	// liability endpoint was not declared.
	DeltaLiability *float64 `json:"delta_liability,omitempty"`
	Strategy       string   `json:"strategy"`
}

// ShortfallAlert flags a shift whose reconciliation came up short.
type ShortfallAlert struct {
	CajaID        FlexInt `json:"caja_id"`
	EmpleadoID    FlexInt `json:"empleado_id"`
	Turno         string  `json:"turno"`
	TotalFaltante float64 `json:"total_faltante"`
}

// DailySummary aggregates all shifts opened on one calendar day.
type DailySummary struct {
	Fecha          string           `json:"fecha"` // YYYY-MM-DD
	Turnos         int              `json:"turnos"`
	Ingreso        float64          `json:"ingreso"` // sum of final snapshots
	Egreso         float64          `json:"egreso"`  // sum of initial snapshots
	Ganancia       float64          `json:"ganancia"`
	GananciaReal   float64          `json:"ganancia_real"`
	Depositos      float64          `json:"depositos"`
	PremiosYBonos  float64          `json:"premios_y_bonos"`
	DeltaLiability float64          `json:"delta_liability"`
	HasLiability   bool             `json:"has_liability"` // at least one shift declared both endpoints
	Faltantes      []ShortfallAlert `json:"faltantes,omitempty"`
	// SinDetalle lists shifts sealed without a stored discrepancy
	// breakdown (the ledger was unreadable at closing time), so their
	// absence from Faltantes is visible rather than silent.
	SinDetalle []FlexInt `json:"sin_detalle,omitempty"`
}

// SummaryReport is the daily-summary payload: the per-day figures plus
// the opening-date range of the shifts behind them, which the dashboard
// uses to bound its date picker.
type SummaryReport struct {
	Dias     []DailySummary `json:"dias"`
	FechaMin string         `json:"fecha_min,omitempty"` // YYYY-MM-DD
	FechaMax string         `json:"fecha_max,omitempty"`
}
