// Package reconcile holds the till arithmetic: balance projection from
// the movement ledger, discrepancy detection against the closing
// declaration, shift profit under the configured formula, and daily
// aggregation. Everything here is a pure function of its inputs so the
// same ledger always projects to the same balances.
package reconcile

import "till-reconciliation-engine/internal/core/domain"

// Project folds a shift's movement ledger over its opening snapshot and
// returns the expected balance per operational wallet.
//
// Transfers debit the source and credit the destination. Withdrawals
// only debit: the amount leaves the operational set, so the external
// destination never appears in the result. A wallet first seen as a
// movement endpoint enters the fold with a zero opening balance.
func Project(opening domain.WalletSnapshot, movements []domain.Movement) map[domain.WalletKey]float64 {
	balances := opening.Amounts()

	for _, m := range movements {
		amount := m.Monto.Float()
		from := m.Desde.Key()

		if _, ok := balances[from]; !ok {
			balances[from] = 0
		}
		balances[from] -= amount

		if m.IsWithdrawal() {
			continue
		}

		to := m.Hasta.Key()
		if _, ok := balances[to]; !ok {
			balances[to] = 0
		}
		balances[to] += amount
	}

	return balances
}

// WithdrawnTotal sums the amounts that left the operational set during
// the shift.
func WithdrawnTotal(movements []domain.Movement) float64 {
	var total float64
	for _, m := range movements {
		if m.IsWithdrawal() {
			total += m.Monto.Float()
		}
	}
	return total
}
