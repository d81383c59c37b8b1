package postgres

import (
	"context"
	"errors"
	"fmt"

	"till-reconciliation-engine/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// EmployeeRepo implements ports.EmployeeRepository.
type EmployeeRepo struct {
	pool Pool
}

// NewEmployeeRepo creates a new EmployeeRepo.
func NewEmployeeRepo(pool Pool) *EmployeeRepo {
	return &EmployeeRepo{pool: pool}
}

// Create inserts a new employee.
func (r *EmployeeRepo) Create(ctx context.Context, e *domain.Employee) error {
	query := `INSERT INTO empleados (nombre, usuario, password_hash)
		VALUES ($1, $2, $3) RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query, e.Nombre, e.Usuario, e.PasswordHash).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}
	e.ID = domain.FlexInt(id)
	return nil
}

// GetByID fetches an employee by id.
func (r *EmployeeRepo) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	query := `SELECT id, nombre, usuario, password_hash FROM empleados WHERE id = $1`

	e, err := scanEmployee(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee by id: %w", err)
	}
	return e, nil
}

// GetByUsername fetches an employee by login name.
func (r *EmployeeRepo) GetByUsername(ctx context.Context, usuario string) (*domain.Employee, error) {
	query := `SELECT id, nombre, usuario, password_hash FROM empleados WHERE usuario = $1`

	e, err := scanEmployee(r.pool.QueryRow(ctx, query, usuario))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee by username: %w", err)
	}
	return e, nil
}

// List returns all employees.
func (r *EmployeeRepo) List(ctx context.Context) ([]domain.Employee, error) {
	query := `SELECT id, nombre, usuario, password_hash FROM empleados ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var out []domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return out, nil
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var (
		e  domain.Employee
		id int64
	)
	if err := row.Scan(&id, &e.Nombre, &e.Usuario, &e.PasswordHash); err != nil {
		return nil, err
	}
	e.ID = domain.FlexInt(id)
	return &e, nil
}
