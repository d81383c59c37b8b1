package service

import (
	"context"
	"errors"
	"fmt"

	"till-reconciliation-engine/internal/core/domain"
	"till-reconciliation-engine/internal/core/ports"
	"till-reconciliation-engine/internal/core/reconcile"
	"till-reconciliation-engine/pkg/apperror"

	"github.com/rs/zerolog"
)

// ReconciliationServiceImpl implements ports.ReconciliationService on
// top of the pure reconcile package.
type ReconciliationServiceImpl struct {
	shiftRepo    ports.ShiftRepository
	movementRepo ports.MovementRepository
	prizeRepo    ports.PrizeRepository
	strategy     reconcile.Strategy
	log          zerolog.Logger
}

// NewReconciliationService creates a new ReconciliationServiceImpl.
func NewReconciliationService(
	shiftRepo ports.ShiftRepository,
	movementRepo ports.MovementRepository,
	prizeRepo ports.PrizeRepository,
	strategy reconcile.Strategy,
	log zerolog.Logger,
) *ReconciliationServiceImpl {
	return &ReconciliationServiceImpl{
		shiftRepo:    shiftRepo,
		movementRepo: movementRepo,
		prizeRepo:    prizeRepo,
		strategy:     strategy,
		log:          log,
	}
}

func (s *ReconciliationServiceImpl) loadShift(ctx context.Context, cajaID int64) (*domain.Shift, []domain.Movement, error) {
	shift, err := s.shiftRepo.GetByID(ctx, cajaID)
	if err != nil {
		return nil, nil, apperror.ErrDatabaseError(fmt.Errorf("get shift: %w", err))
	}
	if shift == nil {
		return nil, nil, apperror.ErrShiftNotFound()
	}
	movements, err := s.movementRepo.ListByShift(ctx, cajaID)
	if err != nil {
		return nil, nil, apperror.ErrDatabaseError(fmt.Errorf("list movements: %w", err))
	}
	return shift, movements, nil
}

// Reconcile reports a closed shift's per-wallet discrepancies.
func (s *ReconciliationServiceImpl) Reconcile(ctx context.Context, cajaID int64) (*domain.ReconciliationResult, error) {
	shift, movements, err := s.loadShift(ctx, cajaID)
	if err != nil {
		return nil, err
	}

	result, err := reconcile.Reconcile(shift, movements)
	if err != nil {
		if errors.Is(err, reconcile.ErrShiftOpen) {
			return nil, apperror.ErrShiftStillOpen()
		}
		return nil, apperror.InternalError(err)
	}

	if result.HasDescuadre() {
		s.log.Warn().
			Int64("caja_id", cajaID).
			Float64("total_faltante", result.TotalFaltante).
			Float64("total_sobrante", result.TotalSobrante).
			Msg("shift reconciliation found a descuadre")
	}
	return &result, nil
}

// Profit computes a closed shift's result under the configured formula.
func (s *ReconciliationServiceImpl) Profit(ctx context.Context, cajaID int64) (*domain.ProfitResult, error) {
	shift, movements, err := s.loadShift(ctx, cajaID)
	if err != nil {
		return nil, err
	}
	if !shift.IsClosed() {
		return nil, apperror.ErrShiftStillOpen()
	}

	prizes, err := s.prizeRepo.ListByShift(ctx, cajaID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list prizes: %w", err))
	}

	result := reconcile.Profit(shift, movements, prizes, s.strategy)
	return &result, nil
}

// ExpectedBalances projects the ledger over the opening snapshot. This
// works on open shifts too; it backs the live drawer view.
func (s *ReconciliationServiceImpl) ExpectedBalances(ctx context.Context, cajaID int64) (map[domain.WalletKey]float64, error) {
	shift, movements, err := s.loadShift(ctx, cajaID)
	if err != nil {
		return nil, err
	}
	return reconcile.Project(shift.BilleterasIniciales, movements), nil
}
