package ports

import (
	"context"

	"till-reconciliation-engine/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// WalletRepository defines persistence operations for the wallet catalog.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id int64) (*domain.Wallet, error)
	List(ctx context.Context) ([]domain.Wallet, error)
	ListByKind(ctx context.Context, kind domain.WalletKind) ([]domain.Wallet, error)
}

// ShiftRepository defines persistence operations for shifts.
// Methods accepting pgx.Tx run inside the open/close transaction blocks.
type ShiftRepository interface {
	Create(ctx context.Context, tx pgx.Tx, shift *domain.Shift) error
	GetByID(ctx context.Context, id int64) (*domain.Shift, error)
	// GetOpenForUpdate locks the employee's open shift row, if any.
	GetOpenForUpdate(ctx context.Context, tx pgx.Tx, empleadoID int64) (*domain.Shift, error)
	Close(ctx context.Context, tx pgx.Tx, shift *domain.Shift) error
	List(ctx context.Context, params ShiftListParams) ([]domain.Shift, error)
}

// ShiftListParams holds the filters for listing shifts. Nil pointers
// mean "no restriction".
type ShiftListParams struct {
	Fecha      *string // YYYY-MM-DD, matched against the opening day
	Turno      *string
	EmpleadoID *int64
	ClosedOnly bool
}

// MovementRepository defines persistence for the append-only movement
// ledger.
type MovementRepository interface {
	Create(ctx context.Context, tx pgx.Tx, movement *domain.Movement) error
	ListByShift(ctx context.Context, cajaID int64) ([]domain.Movement, error)
}

// PrizeRepository defines persistence for the prize sub-ledger.
type PrizeRepository interface {
	Create(ctx context.Context, tx pgx.Tx, prize *domain.Prize) error
	ListByShift(ctx context.Context, cajaID int64) ([]domain.Prize, error)
}

// EmployeeRepository defines persistence operations for till operators.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	GetByUsername(ctx context.Context, usuario string) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
