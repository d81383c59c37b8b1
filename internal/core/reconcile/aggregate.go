package reconcile

import (
	"sort"
	"strings"

	"till-reconciliation-engine/internal/core/domain"
)

// Filter narrows the shift set fed into daily aggregation. Zero values
// mean "no restriction". Nombre matches the employee name as a
// case-insensitive substring; EmpleadoID matches exactly.
type Filter struct {
	Fecha      string // YYYY-MM-DD
	Turno      string
	EmpleadoID int64
	Nombre     string
}

func (f Filter) matches(s *domain.Shift, employees map[int64]string) bool {
	if f.Fecha != "" && s.OpenDate() != f.Fecha {
		return false
	}
	if f.Turno != "" && s.Turno != f.Turno {
		return false
	}
	if f.EmpleadoID != 0 && s.EmpleadoID.Int() != f.EmpleadoID {
		return false
	}
	if f.Nombre != "" {
		name := employees[s.EmpleadoID.Int()]
		if !strings.Contains(strings.ToLower(name), strings.ToLower(f.Nombre)) {
			return false
		}
	}
	return true
}

// Aggregate groups closed shifts by their opening day and totals each
// day's figures. Open shifts are skipped; their numbers are not final.
// Days come back in ascending date order.
func Aggregate(shifts []domain.Shift, employees map[int64]string, filter Filter) []domain.DailySummary {
	byDay := make(map[string]*domain.DailySummary)

	for i := range shifts {
		s := &shifts[i]
		if !s.IsClosed() || !filter.matches(s, employees) {
			continue
		}

		day := s.OpenDate()
		summary, ok := byDay[day]
		if !ok {
			summary = &domain.DailySummary{Fecha: day}
			byDay[day] = summary
		}

		summary.Turnos++
		summary.Ingreso += s.BilleterasFinales.Total()
		summary.Egreso += s.BilleterasIniciales.Total()
		summary.Ganancia += s.SnapshotGanancia()
		summary.GananciaReal += shiftGananciaReal(s)
		summary.Depositos += s.Depositos.Float()
		summary.PremiosYBonos += s.Premios.Float() + s.Bonos.Float()

		if delta, ok := s.DeltaLiability(); ok {
			summary.DeltaLiability += delta
			summary.HasLiability = true
		}

		if alert, ok := shortfall(s); ok {
			summary.Faltantes = append(summary.Faltantes, alert)
		}
		// nil means the breakdown was never computed, not that the
		// drawer balanced; an empty slice marks a clean close.
		if s.DescuadreDetalle == nil {
			summary.SinDetalle = append(summary.SinDetalle, s.ID)
		}
	}

	out := make([]domain.DailySummary, 0, len(byDay))
	for _, summary := range byDay {
		out = append(out, *summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha < out[j].Fecha })
	return out
}

// DateRange returns the earliest and latest opening dates across the
// given shifts, open ones included. Both come back empty when there
// are no shifts.
func DateRange(shifts []domain.Shift) (first, last string) {
	for i := range shifts {
		day := shifts[i].OpenDate()
		if first == "" || day < first {
			first = day
		}
		if day > last {
			last = day
		}
	}
	return first, last
}

// shiftGananciaReal prefers the figure sealed at closing time and only
// recomputes from the declared totals when none was stored.
func shiftGananciaReal(s *domain.Shift) float64 {
	if s.GananciaReal != nil {
		return s.GananciaReal.Float()
	}
	return s.Depositos.Float() - (s.Premios.Float() + s.Bonos.Float())
}

func shortfall(s *domain.Shift) (domain.ShortfallAlert, bool) {
	var total float64
	for _, d := range s.DescuadreDetalle {
		if diff := d.Diferencia.Float(); diff < 0 {
			total += -diff
		}
	}
	if total == 0 {
		return domain.ShortfallAlert{}, false
	}
	return domain.ShortfallAlert{
		CajaID:        s.ID,
		EmpleadoID:    s.EmpleadoID,
		Turno:         s.Turno,
		TotalFaltante: total,
	}, true
}
