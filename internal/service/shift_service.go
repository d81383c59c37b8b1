package service

import (
	"context"
	"fmt"
	"time"

	"till-reconciliation-engine/internal/core/domain"
	"till-reconciliation-engine/internal/core/ports"
	"till-reconciliation-engine/internal/core/reconcile"
	"till-reconciliation-engine/pkg/apperror"

	"github.com/rs/zerolog"
)

// ShiftServiceImpl implements ports.ShiftService.
type ShiftServiceImpl struct {
	shiftRepo    ports.ShiftRepository
	movementRepo ports.MovementRepository
	transactor   ports.DBTransactor
	summaryCache ports.SummaryCache
	log          zerolog.Logger
}

// NewShiftService creates a new ShiftServiceImpl.
func NewShiftService(
	shiftRepo ports.ShiftRepository,
	movementRepo ports.MovementRepository,
	transactor ports.DBTransactor,
	summaryCache ports.SummaryCache,
	log zerolog.Logger,
) *ShiftServiceImpl {
	return &ShiftServiceImpl{
		shiftRepo:    shiftRepo,
		movementRepo: movementRepo,
		transactor:   transactor,
		summaryCache: summaryCache,
		log:          log,
	}
}

// Open starts a new shift for the employee. An employee can have at
// most one open shift; the check and the insert run in one transaction
// with the open row locked.
func (s *ShiftServiceImpl) Open(ctx context.Context, req ports.OpenShiftRequest) (*domain.Shift, error) {
	if req.Turno == "" {
		return nil, apperror.Validation("turno is required")
	}
	for _, wa := range req.Billeteras {
		if wa.IsWithdrawal() {
			return nil, apperror.Validation(fmt.Sprintf("wallet %q is withdrawal-only and cannot hold an opening balance", wa.Servicio))
		}
		if wa.Monto.Float() < 0 {
			return nil, apperror.Validation(fmt.Sprintf("wallet %q has a negative opening balance", wa.Servicio))
		}
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	open, err := s.shiftRepo.GetOpenForUpdate(ctx, dbTx, req.EmpleadoID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("check open shift: %w", err))
	}
	if open != nil {
		return nil, apperror.ErrOpenShiftExists()
	}

	shift := &domain.Shift{
		EmpleadoID:          domain.FlexInt(req.EmpleadoID),
		Turno:               req.Turno,
		FechaApertura:       domain.LocalTime{Time: time.Now()},
		BilleterasIniciales: req.Billeteras,
		FichasIniciales:     domain.FlexFloat(req.FichasIniciales),
	}
	if req.LiabilityInicio != nil {
		v := domain.FlexFloat(*req.LiabilityInicio)
		shift.LiabilityInicio = &v
	}

	if err := s.shiftRepo.Create(ctx, dbTx, shift); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create shift: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("commit: %w", err))
	}

	s.log.Info().
		Int64("caja_id", shift.ID.Int()).
		Int64("empleado_id", req.EmpleadoID).
		Str("turno", req.Turno).
		Float64("total_inicial", shift.BilleterasIniciales.Total()).
		Msg("shift opened")
	return shift, nil
}

// Close seals an open shift with the closing declaration and stores
// the discrepancy breakdown computed against the movement ledger.
func (s *ShiftServiceImpl) Close(ctx context.Context, req ports.CloseShiftRequest) (*domain.Shift, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	shift, err := s.shiftRepo.GetOpenForUpdate(ctx, dbTx, req.EmpleadoID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("lock shift: %w", err))
	}
	if shift == nil {
		existing, err := s.shiftRepo.GetByID(ctx, req.CajaID)
		if err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("get shift: %w", err))
		}
		if existing != nil && existing.IsClosed() {
			return nil, apperror.ErrShiftAlreadyClosed()
		}
		return nil, apperror.ErrShiftNotFound()
	}
	if req.CajaID != 0 && shift.ID.Int() != req.CajaID {
		return nil, apperror.ErrShiftNotFound()
	}

	now := domain.LocalTime{Time: time.Now()}
	shift.FechaCierre = &now
	shift.BilleterasFinales = req.Billeteras
	shift.FichasFinales = domain.FlexFloat(req.FichasFinales)
	shift.Premios = domain.FlexFloat(req.Premios)
	shift.Bonos = domain.FlexFloat(req.Bonos)
	shift.Depositos = domain.FlexFloat(req.Depositos)
	if req.LiabilityFin != nil {
		v := domain.FlexFloat(*req.LiabilityFin)
		shift.LiabilityFin = &v
	} else if req.SaldoJugadoresFin != nil {
		v := domain.FlexFloat(*req.SaldoJugadoresFin)
		shift.LiabilityFin = &v
	}
	ganancia := domain.FlexFloat(req.Depositos - (req.Premios + req.Bonos))
	shift.GananciaReal = &ganancia

	shift.DescuadreDetalle = s.computeDescuadre(ctx, shift)

	if err := s.shiftRepo.Close(ctx, dbTx, shift); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("close shift: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("commit: %w", err))
	}

	if err := s.summaryCache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("summary cache invalidation failed")
	}

	event := s.log.Info()
	if len(shift.DescuadreDetalle) > 0 {
		event = s.log.Warn().Int("descuadre_wallets", len(shift.DescuadreDetalle))
	}
	event.
		Int64("caja_id", shift.ID.Int()).
		Int64("empleado_id", req.EmpleadoID).
		Float64("ganancia_real", ganancia.Float()).
		Msg("shift closed")
	return shift, nil
}

// computeDescuadre runs the projection at closing time so the sealed
// record carries its own breakdown. A ledger read failure degrades to
// nil rather than blocking the close; a clean reconciliation stores an
// empty breakdown so the two outcomes stay distinguishable downstream.
func (s *ShiftServiceImpl) computeDescuadre(ctx context.Context, shift *domain.Shift) []domain.WalletDelta {
	movements, err := s.movementRepo.ListByShift(ctx, shift.ID.Int())
	if err != nil {
		s.log.Warn().Err(err).Int64("caja_id", shift.ID.Int()).Msg("ledger read failed, closing without descuadre detail")
		return nil
	}
	result, err := reconcile.Reconcile(shift, movements)
	if err != nil {
		return nil
	}
	if result.Detalle == nil {
		return []domain.WalletDelta{}
	}
	return result.Detalle
}

// Get returns a shift by id.
func (s *ShiftServiceImpl) Get(ctx context.Context, cajaID int64) (*domain.Shift, error) {
	shift, err := s.shiftRepo.GetByID(ctx, cajaID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get shift: %w", err))
	}
	if shift == nil {
		return nil, apperror.ErrShiftNotFound()
	}
	return shift, nil
}

// List returns shifts matching the filters.
func (s *ShiftServiceImpl) List(ctx context.Context, params ports.ShiftListParams) ([]domain.Shift, error) {
	shifts, err := s.shiftRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list shifts: %w", err))
	}
	return shifts, nil
}
