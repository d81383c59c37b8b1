package reconcile

import (
	"errors"
	"math"
	"sort"

	"till-reconciliation-engine/internal/core/domain"
)

// ErrShiftOpen is returned when reconciliation is attempted on a shift
// that has no closing declaration yet.
var ErrShiftOpen = errors.New("shift is still open")

// Reconcile compares a closed shift's declared final snapshot against
// the balances projected from its opening snapshot and movement ledger.
//
// When the shift already carries a stored discrepancy breakdown, that
// breakdown wins and nothing is recomputed; the sealed record is the
// source of truth for what was flagged at closing time.
func Reconcile(shift *domain.Shift, movements []domain.Movement) (domain.ReconciliationResult, error) {
	if !shift.IsClosed() {
		return domain.ReconciliationResult{}, ErrShiftOpen
	}

	if len(shift.DescuadreDetalle) > 0 {
		return fromStoredDetail(shift), nil
	}

	expected := Project(shift.BilleterasIniciales, movements)
	declared := shift.BilleterasFinales.Amounts()

	keys := make(map[domain.WalletKey]struct{}, len(expected)+len(declared))
	for k := range expected {
		keys[k] = struct{}{}
	}
	for k := range declared {
		keys[k] = struct{}{}
	}

	result := domain.ReconciliationResult{CajaID: shift.ID}
	for k := range keys {
		exp := expected[k]
		decl := declared[k]
		diff := decl - exp
		if diff == 0 {
			continue
		}
		result.Detalle = append(result.Detalle, domain.WalletDelta{
			Servicio:   k.Servicio,
			Titular:    k.Titular,
			CBU:        k.CBU,
			Esperado:   domain.FlexFloat(exp),
			Declarado:  domain.FlexFloat(decl),
			Diferencia: domain.FlexFloat(diff),
		})
		if diff < 0 {
			result.TotalFaltante += -diff
		} else {
			result.TotalSobrante += diff
		}
	}

	sortByMagnitude(result.Detalle)
	return result, nil
}

func fromStoredDetail(shift *domain.Shift) domain.ReconciliationResult {
	result := domain.ReconciliationResult{
		CajaID:      shift.ID,
		Detalle:     append([]domain.WalletDelta(nil), shift.DescuadreDetalle...),
		Precomputed: true,
	}
	for _, d := range result.Detalle {
		diff := d.Diferencia.Float()
		if diff < 0 {
			result.TotalFaltante += -diff
		} else {
			result.TotalSobrante += diff
		}
	}
	sortByMagnitude(result.Detalle)
	return result
}

func sortByMagnitude(detalle []domain.WalletDelta) {
	sort.SliceStable(detalle, func(i, j int) bool {
		return math.Abs(detalle[i].Diferencia.Float()) > math.Abs(detalle[j].Diferencia.Float())
	})
}
