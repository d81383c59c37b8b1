package integration

import (
	"context"
	"fmt"
	"sync"

	"till-reconciliation-engine/internal/core/domain"
	"till-reconciliation-engine/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	nextID  int64
	wallets []*domain.Wallet
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{nextID: 1}
}

func (r *inMemoryWalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w.ID = domain.FlexInt(r.nextID)
	r.nextID++
	stored := *w
	r.wallets = append(r.wallets, &stored)
	return nil
}

func (r *inMemoryWalletRepo) GetByID(ctx context.Context, id int64) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.ID.Int() == id {
			out := *w
			return &out, nil
		}
	}
	return nil, nil
}

func (r *inMemoryWalletRepo) List(ctx context.Context) ([]domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Wallet, 0, len(r.wallets))
	for _, w := range r.wallets {
		out = append(out, *w)
	}
	return out, nil
}

func (r *inMemoryWalletRepo) ListByKind(ctx context.Context, kind domain.WalletKind) ([]domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Wallet
	for _, w := range r.wallets {
		if w.Tipo == kind {
			out = append(out, *w)
		}
	}
	return out, nil
}

// --- In-Memory Shift Repo ---

type inMemoryShiftRepo struct {
	mu     sync.RWMutex
	nextID int64
	shifts []*domain.Shift
}

func newInMemoryShiftRepo() *inMemoryShiftRepo {
	return &inMemoryShiftRepo{nextID: 1}
}

func (r *inMemoryShiftRepo) Create(ctx context.Context, tx pgx.Tx, shift *domain.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	shift.ID = domain.FlexInt(r.nextID)
	r.nextID++
	stored := *shift
	r.shifts = append(r.shifts, &stored)
	return nil
}

func (r *inMemoryShiftRepo) GetByID(ctx context.Context, id int64) (*domain.Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.shifts {
		if s.ID.Int() == id {
			out := *s
			return &out, nil
		}
	}
	return nil, nil
}

func (r *inMemoryShiftRepo) GetOpenForUpdate(ctx context.Context, tx pgx.Tx, empleadoID int64) (*domain.Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.shifts {
		if s.EmpleadoID.Int() == empleadoID && !s.IsClosed() {
			out := *s
			return &out, nil
		}
	}
	return nil, nil
}

func (r *inMemoryShiftRepo) Close(ctx context.Context, tx pgx.Tx, shift *domain.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.shifts {
		if s.ID == shift.ID {
			if s.IsClosed() {
				return fmt.Errorf("shift %d is not open", shift.ID.Int())
			}
			stored := *shift
			r.shifts[i] = &stored
			return nil
		}
	}
	return fmt.Errorf("shift %d is not open", shift.ID.Int())
}

func (r *inMemoryShiftRepo) List(ctx context.Context, params ports.ShiftListParams) ([]domain.Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Shift
	for _, s := range r.shifts {
		if params.ClosedOnly && !s.IsClosed() {
			continue
		}
		if params.Fecha != nil && s.OpenDate() != *params.Fecha {
			continue
		}
		if params.Turno != nil && s.Turno != *params.Turno {
			continue
		}
		if params.EmpleadoID != nil && s.EmpleadoID.Int() != *params.EmpleadoID {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

// --- In-Memory Movement Repo ---

type inMemoryMovementRepo struct {
	mu        sync.RWMutex
	nextID    int64
	movements []*domain.Movement
}

func newInMemoryMovementRepo() *inMemoryMovementRepo {
	return &inMemoryMovementRepo{nextID: 1}
}

func (r *inMemoryMovementRepo) Create(ctx context.Context, tx pgx.Tx, movement *domain.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	movement.ID = domain.FlexInt(r.nextID)
	r.nextID++
	stored := *movement
	r.movements = append(r.movements, &stored)
	return nil
}

func (r *inMemoryMovementRepo) ListByShift(ctx context.Context, cajaID int64) ([]domain.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Movement
	for _, m := range r.movements {
		if m.CajaID.Int() == cajaID {
			out = append(out, *m)
		}
	}
	return out, nil
}

// --- In-Memory Prize Repo ---

type inMemoryPrizeRepo struct {
	mu     sync.RWMutex
	nextID int64
	prizes []*domain.Prize
}

func newInMemoryPrizeRepo() *inMemoryPrizeRepo {
	return &inMemoryPrizeRepo{nextID: 1}
}

func (r *inMemoryPrizeRepo) Create(ctx context.Context, tx pgx.Tx, prize *domain.Prize) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prize.ID = domain.FlexInt(r.nextID)
	r.nextID++
	stored := *prize
	r.prizes = append(r.prizes, &stored)
	return nil
}

func (r *inMemoryPrizeRepo) ListByShift(ctx context.Context, cajaID int64) ([]domain.Prize, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Prize
	for _, p := range r.prizes {
		if p.CajaID.Int() == cajaID {
			out = append(out, *p)
		}
	}
	return out, nil
}

// --- In-Memory Employee Repo ---

type inMemoryEmployeeRepo struct {
	mu        sync.RWMutex
	nextID    int64
	employees []*domain.Employee
}

func newInMemoryEmployeeRepo() *inMemoryEmployeeRepo {
	return &inMemoryEmployeeRepo{nextID: 1}
}

func (r *inMemoryEmployeeRepo) Create(ctx context.Context, employee *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.employees {
		if e.Usuario == employee.Usuario {
			return fmt.Errorf("usuario already exists")
		}
	}
	employee.ID = domain.FlexInt(r.nextID)
	r.nextID++
	stored := *employee
	r.employees = append(r.employees, &stored)
	return nil
}

func (r *inMemoryEmployeeRepo) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.employees {
		if e.ID.Int() == id {
			out := *e
			return &out, nil
		}
	}
	return nil, nil
}

func (r *inMemoryEmployeeRepo) GetByUsername(ctx context.Context, usuario string) (*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.employees {
		if e.Usuario == usuario {
			out := *e
			return &out, nil
		}
	}
	return nil, nil
}

func (r *inMemoryEmployeeRepo) List(ctx context.Context) ([]domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		out = append(out, *e)
	}
	return out, nil
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
