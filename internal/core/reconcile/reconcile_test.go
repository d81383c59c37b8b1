package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"till-reconciliation-engine/internal/core/domain"
)

func wallet(servicio, cbu, titular string) domain.Wallet {
	return domain.Wallet{Servicio: servicio, CBU: cbu, Titular: titular}
}

func amount(w domain.Wallet, monto float64) domain.WalletAmount {
	return domain.WalletAmount{Wallet: w, Monto: domain.FlexFloat(monto)}
}

func transfer(from, to domain.Wallet, monto float64) domain.Movement {
	return domain.Movement{Tipo: domain.MovementTransfer, Desde: from, Hasta: to, Monto: domain.FlexFloat(monto)}
}

func withdrawal(from domain.Wallet, monto float64) domain.Movement {
	return domain.Movement{
		Tipo:  domain.MovementWithdrawal,
		Desde: from,
		Hasta: domain.OwnerWithdrawalWallet(),
		Monto: domain.FlexFloat(monto),
	}
}

func closedAt(ts string) *domain.LocalTime {
	var lt domain.LocalTime
	if err := lt.UnmarshalJSON([]byte(`"` + ts + `"`)); err != nil {
		panic(err)
	}
	return &lt
}

func TestProject_TransfersConserveTotal(t *testing.T) {
	a := wallet("Mercado Pago", "111", "Ana")
	b := wallet("Ualá", "222", "Ana")

	opening := domain.WalletSnapshot{amount(a, 10000), amount(b, 3000)}
	movements := []domain.Movement{
		transfer(a, b, 2000),
		transfer(b, a, 500),
	}

	balances := Project(opening, movements)
	assert.Equal(t, 8500.0, balances[a.Key()])
	assert.Equal(t, 4500.0, balances[b.Key()])

	var total float64
	for _, v := range balances {
		total += v
	}
	assert.Equal(t, opening.Total(), total)
}

func TestProject_WithdrawalsLeaveTheOperationalSet(t *testing.T) {
	a := wallet("Mercado Pago", "111", "Ana")

	opening := domain.WalletSnapshot{amount(a, 10000)}
	movements := []domain.Movement{
		transfer(a, wallet("Ualá", "222", "Ana"), 2000),
		withdrawal(a, 1000),
	}

	balances := Project(opening, movements)
	assert.Equal(t, 7000.0, balances[a.Key()])
	assert.Equal(t, 2000.0, balances[wallet("Ualá", "222", "Ana").Key()])

	_, tracked := balances[domain.OwnerWithdrawalWallet().Key()]
	assert.False(t, tracked, "withdrawal sink must not enter the operational balances")

	var total float64
	for _, v := range balances {
		total += v
	}
	assert.Equal(t, 9000.0, total)
}

func TestProject_ImplicitZeroWallet(t *testing.T) {
	a := wallet("Mercado Pago", "111", "Ana")
	fresh := wallet("Brubank", "333", "Luz")

	balances := Project(domain.WalletSnapshot{amount(a, 5000)}, []domain.Movement{
		transfer(a, fresh, 1200),
	})

	assert.Equal(t, 1200.0, balances[fresh.Key()])
	assert.Equal(t, 3800.0, balances[a.Key()])
}

func TestProject_DoesNotMutateInputs(t *testing.T) {
	a := wallet("Mercado Pago", "111", "Ana")
	opening := domain.WalletSnapshot{amount(a, 5000)}
	movements := []domain.Movement{withdrawal(a, 1000)}

	first := Project(opening, movements)
	second := Project(opening, movements)

	assert.Equal(t, first, second)
	assert.Equal(t, 5000.0, opening[0].Monto.Float())
}

func TestProject_EmptyLedger(t *testing.T) {
	a := wallet("Mercado Pago", "111", "Ana")
	opening := domain.WalletSnapshot{amount(a, 5000)}

	balances := Project(opening, nil)
	assert.Equal(t, opening.Amounts(), balances)
}

func TestReconcile_RefusesOpenShift(t *testing.T) {
	_, err := Reconcile(&domain.Shift{ID: 1}, nil)
	assert.ErrorIs(t, err, ErrShiftOpen)
}

func TestReconcile_Shortfall(t *testing.T) {
	// Wallet opens with 10000, transfers out 2000, withdraws 1000:
	// expected 7000. Employee declares 6500, so 500 is missing.
	a := wallet("Mercado Pago", "111", "Ana")
	b := wallet("Ualá", "222", "Ana")

	shift := &domain.Shift{
		ID:                  7,
		FechaCierre:         closedAt("2025-08-14 22:00:00"),
		BilleterasIniciales: domain.WalletSnapshot{amount(a, 10000), amount(b, 0)},
		BilleterasFinales:   domain.WalletSnapshot{amount(a, 6500), amount(b, 2000)},
	}
	movements := []domain.Movement{
		transfer(a, b, 2000),
		withdrawal(a, 1000),
	}

	result, err := Reconcile(shift, movements)
	require.NoError(t, err)

	require.Len(t, result.Detalle, 1)
	assert.Equal(t, a.Key(), result.Detalle[0].Key())
	assert.Equal(t, 7000.0, result.Detalle[0].Esperado.Float())
	assert.Equal(t, 6500.0, result.Detalle[0].Declarado.Float())
	assert.Equal(t, -500.0, result.Detalle[0].Diferencia.Float())
	assert.Equal(t, 500.0, result.TotalFaltante)
	assert.Equal(t, 0.0, result.TotalSobrante)
	assert.False(t, result.Precomputed)
	assert.True(t, result.HasDescuadre())
}

func TestReconcile_CleanShiftHasNoDetail(t *testing.T) {
	a := wallet("Mercado Pago", "111", "Ana")
	shift := &domain.Shift{
		ID:                  8,
		FechaCierre:         closedAt("2025-08-14 22:00:00"),
		BilleterasIniciales: domain.WalletSnapshot{amount(a, 10000)},
		BilleterasFinales:   domain.WalletSnapshot{amount(a, 9000)},
	}

	result, err := Reconcile(shift, []domain.Movement{withdrawal(a, 1000)})
	require.NoError(t, err)
	assert.Empty(t, result.Detalle)
	assert.False(t, result.HasDescuadre())
}

func TestReconcile_SurplusAndSorting(t *testing.T) {
	a := wallet("Mercado Pago", "111", "Ana")
	b := wallet("Ualá", "222", "Ana")

	shift := &domain.Shift{
		ID:                  9,
		FechaCierre:         closedAt("2025-08-14 22:00:00"),
		BilleterasIniciales: domain.WalletSnapshot{amount(a, 1000), amount(b, 1000)},
		BilleterasFinales:   domain.WalletSnapshot{amount(a, 1100), amount(b, 1500)},
	}

	result, err := Reconcile(shift, nil)
	require.NoError(t, err)

	require.Len(t, result.Detalle, 2)
	// Largest magnitude first.
	assert.Equal(t, b.Key(), result.Detalle[0].Key())
	assert.Equal(t, 600.0, result.TotalSobrante)
	assert.Equal(t, 0.0, result.TotalFaltante)
}

func TestReconcile_DeclaredOnlyWalletCountsAsSurplus(t *testing.T) {
	a := wallet("Mercado Pago", "111", "Ana")
	extra := wallet("Brubank", "333", "Luz")

	shift := &domain.Shift{
		ID:                  10,
		FechaCierre:         closedAt("2025-08-14 22:00:00"),
		BilleterasIniciales: domain.WalletSnapshot{amount(a, 1000)},
		BilleterasFinales:   domain.WalletSnapshot{amount(a, 1000), amount(extra, 250)},
	}

	result, err := Reconcile(shift, nil)
	require.NoError(t, err)
	require.Len(t, result.Detalle, 1)
	assert.Equal(t, extra.Key(), result.Detalle[0].Key())
	assert.Equal(t, 250.0, result.TotalSobrante)
}

func TestReconcile_StoredDetailWins(t *testing.T) {
	a := wallet("Mercado Pago", "111", "Ana")

	// Ledger and snapshots agree, but the sealed record carries a
	// breakdown; the stored figure is reported, not the recomputation.
	shift := &domain.Shift{
		ID:                  11,
		FechaCierre:         closedAt("2025-08-14 22:00:00"),
		BilleterasIniciales: domain.WalletSnapshot{amount(a, 1000)},
		BilleterasFinales:   domain.WalletSnapshot{amount(a, 1000)},
		DescuadreDetalle: []domain.WalletDelta{
			{Servicio: "Mercado Pago", CBU: "111", Titular: "Ana", Esperado: 1000, Declarado: 700, Diferencia: -300},
		},
	}

	result, err := Reconcile(shift, nil)
	require.NoError(t, err)
	assert.True(t, result.Precomputed)
	require.Len(t, result.Detalle, 1)
	assert.Equal(t, 300.0, result.TotalFaltante)
}

func TestProfit_DepositsFormula(t *testing.T) {
	shift := &domain.Shift{
		ID:          1,
		FechaCierre: closedAt("2025-08-14 22:00:00"),
		Depositos:   50000,
		Premios:     20000,
		Bonos:       5000,
	}

	result := Profit(shift, nil, nil, StrategyDeposits)
	assert.Equal(t, 25000.0, result.Ganancia)
	assert.Equal(t, string(StrategyDeposits), result.Strategy)
	assert.Nil(t, result.DeltaLiability)
}

func TestProfit_MissingFieldsCountAsZero(t *testing.T) {
	result := Profit(&domain.Shift{ID: 2}, nil, nil, StrategyDeposits)
	assert.Equal(t, 0.0, result.Ganancia)
	assert.Equal(t, 0.0, result.ConsumoFichas)
}

func TestProfit_ChipConsumptionFloor(t *testing.T) {
	shift := &domain.Shift{
		ID:              3,
		FichasIniciales: 300000,
		FichasFinales:   310000,
	}
	result := Profit(shift, nil, nil, StrategyDeposits)
	assert.Equal(t, 0.0, result.ConsumoFichas)
}

func TestProfit_PrizeSubLedgerBacksPremios(t *testing.T) {
	shift := &domain.Shift{ID: 4, Depositos: 10000}
	prizes := []domain.Prize{
		{Monto: 1500},
		{Monto: 500},
	}

	result := Profit(shift, nil, prizes, StrategyDeposits)
	assert.Equal(t, 2000.0, result.Premios)
	assert.Equal(t, 8000.0, result.Ganancia)
}

func TestProfit_DeclaredPremiosWinsOverSubLedger(t *testing.T) {
	shift := &domain.Shift{ID: 5, Depositos: 10000, Premios: 3000}
	result := Profit(shift, nil, []domain.Prize{{Monto: 1500}}, StrategyDeposits)
	assert.Equal(t, 3000.0, result.Premios)
	assert.Equal(t, 7000.0, result.Ganancia)
}

func TestProfit_WithdrawalsFormula(t *testing.T) {
	a := wallet("Mercado Pago", "111", "Ana")
	shift := &domain.Shift{ID: 6, Premios: 2000, Bonos: 1000}
	movements := []domain.Movement{
		withdrawal(a, 8000),
		transfer(a, wallet("Ualá", "222", "Ana"), 5000),
		withdrawal(a, 2000),
	}

	result := Profit(shift, movements, nil, StrategyWithdrawals)
	assert.Equal(t, 7000.0, result.Ganancia)
}

func TestProfit_ReportedFormula(t *testing.T) {
	stored := domain.FlexFloat(12345)
	shift := &domain.Shift{ID: 7, GananciaReal: &stored, Depositos: 99999}

	result := Profit(shift, nil, nil, StrategyReported)
	assert.Equal(t, 12345.0, result.Ganancia)
	assert.Equal(t, string(StrategyReported), result.Strategy)
}

func TestProfit_ReportedFallsBackToDeposits(t *testing.T) {
	shift := &domain.Shift{ID: 8, Depositos: 5000, Premios: 1000}

	result := Profit(shift, nil, nil, StrategyReported)
	assert.Equal(t, 4000.0, result.Ganancia)
	assert.Equal(t, string(StrategyDeposits), result.Strategy)
}

func TestProfit_DeltaLiabilityReportedSeparately(t *testing.T) {
	ini := domain.FlexFloat(200000)
	fin := domain.FlexFloat(227095)
	shift := &domain.Shift{
		ID:              9,
		Depositos:       50000,
		Premios:         20000,
		Bonos:           5000,
		LiabilityInicio: &ini,
		LiabilityFin:    &fin,
	}

	result := Profit(shift, nil, nil, StrategyDeposits)
	assert.Equal(t, 25000.0, result.Ganancia)
	require.NotNil(t, result.DeltaLiability)
	assert.Equal(t, 27095.0, *result.DeltaLiability)
}

func TestParseStrategy(t *testing.T) {
	assert.Equal(t, StrategyDeposits, ParseStrategy("deposits"))
	assert.Equal(t, StrategyWithdrawals, ParseStrategy("withdrawals"))
	assert.Equal(t, StrategyReported, ParseStrategy("reported"))
	assert.Equal(t, StrategyDeposits, ParseStrategy(""))
	assert.Equal(t, StrategyDeposits, ParseStrategy("whatever"))
}

func TestAggregate_GroupsByOpeningDay(t *testing.T) {
	a := wallet("Mercado Pago", "111", "Ana")
	open := func(ts string) domain.LocalTime { return *closedAt(ts) }

	shifts := []domain.Shift{
		{
			ID: 1, EmpleadoID: 10, Turno: domain.TurnoManana,
			FechaApertura: open("2025-08-14 08:00:00"),
			FechaCierre:   closedAt("2025-08-14 14:00:00"),
			BilleterasIniciales: domain.WalletSnapshot{amount(a, 10000)},
			BilleterasFinales:   domain.WalletSnapshot{amount(a, 12500)},
			Depositos:           8000, Premios: 2000, Bonos: 500,
		},
		{
			ID: 2, EmpleadoID: 11, Turno: domain.TurnoTarde,
			FechaApertura: open("2025-08-14 14:00:00"),
			FechaCierre:   closedAt("2025-08-14 22:00:00"),
			BilleterasIniciales: domain.WalletSnapshot{amount(a, 12500)},
			BilleterasFinales:   domain.WalletSnapshot{amount(a, 11000)},
			Depositos:           4000, Premios: 1000,
		},
		{
			ID: 3, EmpleadoID: 10, Turno: domain.TurnoManana,
			FechaApertura: open("2025-08-15 08:00:00"),
			FechaCierre:   closedAt("2025-08-15 14:00:00"),
			BilleterasIniciales: domain.WalletSnapshot{amount(a, 11000)},
			BilleterasFinales:   domain.WalletSnapshot{amount(a, 11800)},
		},
		{
			// Still open, must not be counted.
			ID: 4, EmpleadoID: 10, Turno: domain.TurnoNoche,
			FechaApertura:       open("2025-08-15 22:00:00"),
			BilleterasIniciales: domain.WalletSnapshot{amount(a, 11800)},
		},
	}

	days := Aggregate(shifts, nil, Filter{})
	require.Len(t, days, 2)

	assert.Equal(t, "2025-08-14", days[0].Fecha)
	assert.Equal(t, 2, days[0].Turnos)
	assert.Equal(t, 23500.0, days[0].Ingreso)
	assert.Equal(t, 22500.0, days[0].Egreso)
	assert.Equal(t, 1000.0, days[0].Ganancia)
	assert.Equal(t, 8500.0, days[0].GananciaReal) // (8000-2500) + (4000-1000)
	assert.Equal(t, 12000.0, days[0].Depositos)
	assert.Equal(t, 3500.0, days[0].PremiosYBonos)
	assert.False(t, days[0].HasLiability)

	assert.Equal(t, "2025-08-15", days[1].Fecha)
	assert.Equal(t, 1, days[1].Turnos)
	assert.Equal(t, 800.0, days[1].Ganancia)
}

func TestAggregate_Filters(t *testing.T) {
	a := wallet("Mercado Pago", "111", "Ana")
	shifts := []domain.Shift{
		{
			ID: 1, EmpleadoID: 10, Turno: domain.TurnoManana,
			FechaApertura:       *closedAt("2025-08-14 08:00:00"),
			FechaCierre:         closedAt("2025-08-14 14:00:00"),
			BilleterasIniciales: domain.WalletSnapshot{amount(a, 100)},
			BilleterasFinales:   domain.WalletSnapshot{amount(a, 200)},
		},
		{
			ID: 2, EmpleadoID: 11, Turno: domain.TurnoTarde,
			FechaApertura:       *closedAt("2025-08-14 14:00:00"),
			FechaCierre:         closedAt("2025-08-14 22:00:00"),
			BilleterasIniciales: domain.WalletSnapshot{amount(a, 200)},
			BilleterasFinales:   domain.WalletSnapshot{amount(a, 150)},
		},
	}
	employees := map[int64]string{10: "Ana García", 11: "Luz Pérez"}

	byTurno := Aggregate(shifts, employees, Filter{Turno: domain.TurnoTarde})
	require.Len(t, byTurno, 1)
	assert.Equal(t, 1, byTurno[0].Turnos)
	assert.Equal(t, -50.0, byTurno[0].Ganancia)

	byEmpleado := Aggregate(shifts, employees, Filter{EmpleadoID: 10})
	require.Len(t, byEmpleado, 1)
	assert.Equal(t, 100.0, byEmpleado[0].Ganancia)

	byNombre := Aggregate(shifts, employees, Filter{Nombre: "garcía"})
	require.Len(t, byNombre, 1)
	assert.Equal(t, 100.0, byNombre[0].Ganancia)

	byFecha := Aggregate(shifts, employees, Filter{Fecha: "2025-08-13"})
	assert.Empty(t, byFecha)
}

func TestAggregate_LiabilityAndShortfalls(t *testing.T) {
	a := wallet("Mercado Pago", "111", "Ana")
	ini := domain.FlexFloat(200000)
	fin := domain.FlexFloat(227095)

	shifts := []domain.Shift{
		{
			ID: 1, EmpleadoID: 10, Turno: domain.TurnoManana,
			FechaApertura:       *closedAt("2025-08-14 08:00:00"),
			FechaCierre:         closedAt("2025-08-14 14:00:00"),
			BilleterasIniciales: domain.WalletSnapshot{amount(a, 100)},
			BilleterasFinales:   domain.WalletSnapshot{amount(a, 100)},
			LiabilityInicio:     &ini, LiabilityFin: &fin,
			DescuadreDetalle: []domain.WalletDelta{
				{Servicio: "Mercado Pago", Diferencia: -500},
				{Servicio: "Ualá", Diferencia: 200},
			},
		},
	}

	days := Aggregate(shifts, nil, Filter{})
	require.Len(t, days, 1)
	assert.True(t, days[0].HasLiability)
	assert.Equal(t, 27095.0, days[0].DeltaLiability)
	require.Len(t, days[0].Faltantes, 1)
	assert.Equal(t, 500.0, days[0].Faltantes[0].TotalFaltante)
	assert.Equal(t, domain.TurnoManana, days[0].Faltantes[0].Turno)
}

func TestAggregate_FlagsShiftsSealedWithoutDetail(t *testing.T) {
	a := wallet("Mercado Pago", "111", "Ana")

	shifts := []domain.Shift{
		{
			// Sealed while the ledger was unreadable: no breakdown at all.
			ID: 1, EmpleadoID: 10, Turno: domain.TurnoManana,
			FechaApertura:       *closedAt("2025-08-14 08:00:00"),
			FechaCierre:         closedAt("2025-08-14 14:00:00"),
			BilleterasIniciales: domain.WalletSnapshot{amount(a, 100)},
			BilleterasFinales:   domain.WalletSnapshot{amount(a, 100)},
		},
		{
			// Clean close: an empty breakdown was stored.
			ID: 2, EmpleadoID: 11, Turno: domain.TurnoTarde,
			FechaApertura:       *closedAt("2025-08-14 14:00:00"),
			FechaCierre:         closedAt("2025-08-14 22:00:00"),
			BilleterasIniciales: domain.WalletSnapshot{amount(a, 100)},
			BilleterasFinales:   domain.WalletSnapshot{amount(a, 100)},
			DescuadreDetalle:    []domain.WalletDelta{},
		},
	}

	days := Aggregate(shifts, nil, Filter{})
	require.Len(t, days, 1)
	assert.Empty(t, days[0].Faltantes)
	require.Len(t, days[0].SinDetalle, 1)
	assert.Equal(t, domain.FlexInt(1), days[0].SinDetalle[0])
}

func TestDateRange(t *testing.T) {
	shifts := []domain.Shift{
		{ID: 1, FechaApertura: *closedAt("2025-08-16 08:00:00")},
		{ID: 2, FechaApertura: *closedAt("2025-08-12 08:00:00")},
		{ID: 3, FechaApertura: *closedAt("2025-08-14 22:00:00")},
	}

	first, last := DateRange(shifts)
	assert.Equal(t, "2025-08-12", first)
	assert.Equal(t, "2025-08-16", last)

	first, last = DateRange(nil)
	assert.Empty(t, first)
	assert.Empty(t, last)
}
