package service

import (
	"context"
	"fmt"
	"time"

	"till-reconciliation-engine/internal/core/domain"
	"till-reconciliation-engine/internal/core/ports"
	"till-reconciliation-engine/pkg/apperror"

	"github.com/rs/zerolog"
)

// LedgerServiceImpl implements ports.LedgerService.
type LedgerServiceImpl struct {
	shiftRepo    ports.ShiftRepository
	movementRepo ports.MovementRepository
	prizeRepo    ports.PrizeRepository
	walletRepo   ports.WalletRepository
	transactor   ports.DBTransactor
	log          zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	shiftRepo ports.ShiftRepository,
	movementRepo ports.MovementRepository,
	prizeRepo ports.PrizeRepository,
	walletRepo ports.WalletRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		shiftRepo:    shiftRepo,
		movementRepo: movementRepo,
		prizeRepo:    prizeRepo,
		walletRepo:   walletRepo,
		transactor:   transactor,
		log:          log,
	}
}

// RecordMovement appends a movement to an open shift's ledger.
//
// A withdrawal whose destination is not a catalogued external wallet is
// redirected to the synthetic owner sink so the books still balance.
func (s *LedgerServiceImpl) RecordMovement(ctx context.Context, req ports.MovementRequest) (*domain.Movement, error) {
	if req.Monto <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.Desde.Key() == req.Hasta.Key() && req.Tipo != domain.MovementWithdrawal {
		return nil, apperror.ErrSameWalletTransfer()
	}

	shift, err := s.shiftRepo.GetByID(ctx, req.CajaID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get shift: %w", err))
	}
	if shift == nil {
		return nil, apperror.ErrShiftNotFound()
	}
	if shift.IsClosed() {
		return nil, apperror.ErrShiftSealed()
	}

	hasta := req.Hasta
	if req.Tipo == domain.MovementWithdrawal {
		hasta = s.withdrawalSink(ctx, req.Hasta)
	}

	now := domain.LocalTime{Time: time.Now()}
	movement := &domain.Movement{
		CajaID:     domain.FlexInt(req.CajaID),
		EmpleadoID: domain.FlexInt(req.EmpleadoID),
		Tipo:       req.Tipo,
		Desde:      req.Desde,
		Hasta:      hasta,
		Monto:      domain.FlexFloat(req.Monto),
		Fecha:      &now,
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.movementRepo.Create(ctx, dbTx, movement); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create movement: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("commit: %w", err))
	}

	s.log.Info().
		Int64("caja_id", req.CajaID).
		Str("tipo", string(req.Tipo)).
		Str("desde", req.Desde.Key().String()).
		Str("hasta", hasta.Key().String()).
		Float64("monto", req.Monto).
		Msg("movement recorded")
	return movement, nil
}

// withdrawalSink resolves the destination for a withdrawal against the
// wallet catalog. Catalog failures fall back to the owner sink.
func (s *LedgerServiceImpl) withdrawalSink(ctx context.Context, requested domain.Wallet) domain.Wallet {
	externals, err := s.walletRepo.ListByKind(ctx, domain.WalletKindWithdrawal)
	if err != nil {
		s.log.Warn().Err(err).Msg("external wallet catalog unavailable, using owner sink")
		return domain.OwnerWithdrawalWallet()
	}
	return domain.NewRegistry(externals).WithdrawalSink(requested.Key())
}

// RecordPrize appends a paid prize to an open shift's sub-ledger.
func (s *LedgerServiceImpl) RecordPrize(ctx context.Context, req ports.PrizeRequest) (*domain.Prize, error) {
	if req.Monto <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	shift, err := s.shiftRepo.GetByID(ctx, req.CajaID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get shift: %w", err))
	}
	if shift == nil {
		return nil, apperror.ErrShiftNotFound()
	}
	if shift.IsClosed() {
		return nil, apperror.ErrShiftSealed()
	}

	prize := &domain.Prize{
		CajaID:      domain.FlexInt(req.CajaID),
		BilleteraID: domain.FlexInt(req.BilleteraID),
		Servicio:    req.Servicio,
		Titular:     req.Titular,
		CBU:         req.CBU,
		Monto:       domain.FlexFloat(req.Monto),
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.prizeRepo.Create(ctx, dbTx, prize); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create prize: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("commit: %w", err))
	}

	s.log.Info().
		Int64("caja_id", req.CajaID).
		Str("servicio", req.Servicio).
		Float64("monto", req.Monto).
		Msg("prize recorded")
	return prize, nil
}

// ListMovements returns a shift's ledger.
func (s *LedgerServiceImpl) ListMovements(ctx context.Context, cajaID int64) ([]domain.Movement, error) {
	movements, err := s.movementRepo.ListByShift(ctx, cajaID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list movements: %w", err))
	}
	return movements, nil
}

// ListPrizes returns a shift's prize sub-ledger.
func (s *LedgerServiceImpl) ListPrizes(ctx context.Context, cajaID int64) ([]domain.Prize, error) {
	prizes, err := s.prizeRepo.ListByShift(ctx, cajaID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list prizes: %w", err))
	}
	return prizes, nil
}
