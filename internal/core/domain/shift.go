package domain

import (
	"encoding/json"
	"fmt"
)

// Turno labels for a shift.
const (
	TurnoManana = "Mañana"
	TurnoTarde  = "Tarde"
	TurnoNoche  = "Noche"
)

// WalletAmount pairs a wallet with a declared amount, as found in the
// opening and closing snapshots.
type WalletAmount struct {
	Wallet
	Monto FlexFloat `json:"monto"`
}

// WalletSnapshot is a list of wallet amounts. The backend serialises it
// either as an array of records or as an object map (servicio keyed,
// with either a bare amount or a full record as value); both decode to
// the same canonical list so no downstream code branches on shape.
type WalletSnapshot []WalletAmount

func (s *WalletSnapshot) UnmarshalJSON(data []byte) error {
	var arr []WalletAmount
	if err := json.Unmarshal(data, &arr); err == nil {
		*s = arr
		return nil
	}

	var byService map[string]json.RawMessage
	if err := json.Unmarshal(data, &byService); err != nil {
		if string(data) == "null" {
			*s = nil
			return nil
		}
		return fmt.Errorf("wallet snapshot: unsupported shape")
	}

	out := make(WalletSnapshot, 0, len(byService))
	for servicio, raw := range byService {
		var wa WalletAmount
		if err := json.Unmarshal(raw, &wa); err == nil && (wa.Servicio != "" || wa.Titular != "" || wa.CBU != "") {
			out = append(out, wa)
			continue
		}
		// Bare amount keyed by servicio.
		var monto FlexFloat
		if err := monto.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("wallet snapshot entry %q: %w", servicio, err)
		}
		out = append(out, WalletAmount{
			Wallet: Wallet{Servicio: servicio},
			Monto:  monto,
		})
	}
	*s = out
	return nil
}

// Total sums all declared amounts in the snapshot.
func (s WalletSnapshot) Total() float64 {
	var total float64
	for _, wa := range s {
		total += wa.Monto.Float()
	}
	return total
}

// Amounts folds the snapshot into a key -> amount map. Duplicate keys
// accumulate.
func (s WalletSnapshot) Amounts() map[WalletKey]float64 {
	out := make(map[WalletKey]float64, len(s))
	for _, wa := range s {
		out[wa.Key()] += wa.Monto.Float()
	}
	return out
}

// Shift is one employee's working period between opening and closing a
// till. While open it has no closing timestamp and no final snapshot;
// closing seals both plus the declared totals.
type Shift struct {
	ID                  FlexInt        `json:"id"`
	EmpleadoID          FlexInt        `json:"empleado_id"`
	Turno               string         `json:"turno"`
	FechaApertura       LocalTime      `json:"fecha_apertura"`
	FechaCierre         *LocalTime     `json:"fecha_cierre,omitempty"`
	BilleterasIniciales WalletSnapshot `json:"billeteras_iniciales"`
	BilleterasFinales   WalletSnapshot `json:"billeteras_finales,omitempty"`
	FichasIniciales     FlexFloat      `json:"fichas_iniciales"`
	FichasFinales       FlexFloat      `json:"fichas_finales"`
	Premios             FlexFloat      `json:"premios"`
	Bonos               FlexFloat      `json:"bonos"`
	LiabilityInicio     *FlexFloat     `json:"liability_inicio,omitempty"`
	LiabilityFin        *FlexFloat     `json:"liability_fin,omitempty"`
	Depositos           FlexFloat      `json:"depositos"`
	GananciaReal        *FlexFloat     `json:"ganancia_real,omitempty"`
	DescuadreDetalle    []WalletDelta  `json:"descuadre_detalle,omitempty"`
}

// IsClosed reports whether the shift has been sealed. Reconciliation
// and profit must only run on closed shifts.
func (s *Shift) IsClosed() bool {
	return s.FechaCierre != nil && !s.FechaCierre.IsZero()
}

// OpenDate returns the shift's calendar day ("YYYY-MM-DD"), the
// grouping key for daily summaries.
func (s *Shift) OpenDate() string {
	return s.FechaApertura.Day()
}

// ConsumoFichas is the chip consumption for the shift: chips spent,
// floored at zero when the closing count exceeds the opening one.
func (s *Shift) ConsumoFichas() float64 {
	c := s.FichasIniciales.Float() - s.FichasFinales.Float()
	if c < 0 {
		return 0
	}
	return c
}

// DeltaLiability returns closing minus opening player liability. The
// second return is false when either endpoint was not declared; the
// delta is then unavailable, not zero.
func (s *Shift) DeltaLiability() (float64, bool) {
	if s.LiabilityInicio == nil || s.LiabilityFin == nil {
		return 0, false
	}
	return s.LiabilityFin.Float() - s.LiabilityInicio.Float(), true
}

// SnapshotGanancia is the raw drawer delta: total declared finals minus
// total declared initials. This is the figure the daily balance screen
// has always shown, independent of the profit formula.
func (s *Shift) SnapshotGanancia() float64 {
	return s.BilleterasFinales.Total() - s.BilleterasIniciales.Total()
}
