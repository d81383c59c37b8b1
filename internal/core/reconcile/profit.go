package reconcile

import "till-reconciliation-engine/internal/core/domain"

// Strategy selects the profit formula applied to a closed shift. The
// deposits formula is the current one; withdrawals is kept for ledgers
// recorded under the old bookkeeping, and reported trusts the figure
// the backend stored at closing time.
type Strategy string

const (
	StrategyDeposits    Strategy = "deposits"
	StrategyWithdrawals Strategy = "withdrawals"
	StrategyReported    Strategy = "reported"
)

// ParseStrategy maps a config value to a Strategy, defaulting to the
// deposits formula for anything unrecognised.
func ParseStrategy(s string) Strategy {
	switch Strategy(s) {
	case StrategyWithdrawals, StrategyReported:
		return Strategy(s)
	default:
		return StrategyDeposits
	}
}

// Profit computes a closed shift's net result. Undeclared numeric
// fields count as zero. When the closing declaration carries no prize
// total, the shift's prize sub-ledger backs the premios component.
func Profit(shift *domain.Shift, movements []domain.Movement, prizes []domain.Prize, strategy Strategy) domain.ProfitResult {
	premios := shift.Premios.Float()
	if premios == 0 && len(prizes) > 0 {
		for _, p := range prizes {
			premios += p.Monto.Float()
		}
	}
	bonos := shift.Bonos.Float()
	depositos := shift.Depositos.Float()

	result := domain.ProfitResult{
		CajaID:        shift.ID,
		Depositos:     depositos,
		Premios:       premios,
		Bonos:         bonos,
		ConsumoFichas: shift.ConsumoFichas(),
		Strategy:      string(strategy),
	}

	if delta, ok := shift.DeltaLiability(); ok {
		result.DeltaLiability = &delta
	}

	switch strategy {
	case StrategyWithdrawals:
		result.Ganancia = WithdrawnTotal(movements) - (premios + bonos)
	case StrategyReported:
		if shift.GananciaReal != nil {
			result.Ganancia = shift.GananciaReal.Float()
			break
		}
		// No stored figure; fall back to the deposits formula.
		result.Strategy = string(StrategyDeposits)
		result.Ganancia = depositos - (premios + bonos)
	default:
		result.Ganancia = depositos - (premios + bonos)
	}

	return result
}
