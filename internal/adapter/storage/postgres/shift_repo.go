package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"till-reconciliation-engine/internal/core/domain"
	"till-reconciliation-engine/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// ShiftRepo implements ports.ShiftRepository against the cajas table.
// Wallet snapshots and the descuadre breakdown live in JSONB columns;
// the per-wallet identity tuple is data, not schema.
type ShiftRepo struct {
	pool Pool
}

// NewShiftRepo creates a new ShiftRepo.
func NewShiftRepo(pool Pool) *ShiftRepo {
	return &ShiftRepo{pool: pool}
}

const shiftColumns = `id, empleado_id, turno, fecha_apertura, fecha_cierre,
	billeteras_iniciales, billeteras_finales, fichas_iniciales, fichas_finales,
	premios, bonos, liability_inicio, liability_fin, depositos, ganancia_real,
	descuadre_detalle`

// Create inserts a new open shift inside the given transaction.
func (r *ShiftRepo) Create(ctx context.Context, tx pgx.Tx, s *domain.Shift) error {
	iniciales, err := json.Marshal(s.BilleterasIniciales)
	if err != nil {
		return fmt.Errorf("marshal opening snapshot: %w", err)
	}

	query := `INSERT INTO cajas
		(empleado_id, turno, fecha_apertura, billeteras_iniciales, fichas_iniciales, liability_inicio)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	var id int64
	err = tx.QueryRow(ctx, query,
		s.EmpleadoID.Int(), s.Turno, s.FechaApertura.Time,
		iniciales, s.FichasIniciales.Float(), flexPtr(s.LiabilityInicio),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert shift: %w", err)
	}
	s.ID = domain.FlexInt(id)
	return nil
}

// GetByID fetches a shift by id.
func (r *ShiftRepo) GetByID(ctx context.Context, id int64) (*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM cajas WHERE id = $1`

	s, err := scanShift(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shift by id: %w", err)
	}
	return s, nil
}

// GetOpenForUpdate locks and returns the employee's open shift, or nil.
// This MUST be called within a transaction.
func (r *ShiftRepo) GetOpenForUpdate(ctx context.Context, tx pgx.Tx, empleadoID int64) (*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM cajas
		WHERE empleado_id = $1 AND fecha_cierre IS NULL FOR UPDATE`

	s, err := scanShift(tx.QueryRow(ctx, query, empleadoID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get open shift for update: %w", err)
	}
	return s, nil
}

// Close seals the shift with its closing declaration.
func (r *ShiftRepo) Close(ctx context.Context, tx pgx.Tx, s *domain.Shift) error {
	finales, err := json.Marshal(s.BilleterasFinales)
	if err != nil {
		return fmt.Errorf("marshal closing snapshot: %w", err)
	}
	// A clean close persists "[]", never NULL; NULL is reserved for
	// shifts whose breakdown could not be computed.
	var detalle []byte
	if s.DescuadreDetalle != nil {
		detalle, err = json.Marshal(s.DescuadreDetalle)
		if err != nil {
			return fmt.Errorf("marshal descuadre detail: %w", err)
		}
	}

	var cierre *time.Time
	if s.FechaCierre != nil {
		cierre = &s.FechaCierre.Time
	}

	query := `UPDATE cajas SET
		fecha_cierre = $2, billeteras_finales = $3, fichas_finales = $4,
		premios = $5, bonos = $6, liability_fin = $7, depositos = $8,
		ganancia_real = $9, descuadre_detalle = $10
		WHERE id = $1 AND fecha_cierre IS NULL`

	tag, err := tx.Exec(ctx, query,
		s.ID.Int(), cierre, finales, s.FichasFinales.Float(),
		s.Premios.Float(), s.Bonos.Float(), flexPtr(s.LiabilityFin),
		s.Depositos.Float(), flexPtr(s.GananciaReal), detalle,
	)
	if err != nil {
		return fmt.Errorf("close shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("close shift: shift %d is not open", s.ID.Int())
	}
	return nil
}

// List returns shifts matching the filters, oldest opening first.
func (r *ShiftRepo) List(ctx context.Context, params ports.ShiftListParams) ([]domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM cajas WHERE 1=1`
	args := []any{}

	if params.Fecha != nil {
		args = append(args, *params.Fecha)
		query += fmt.Sprintf(" AND fecha_apertura::date = $%d", len(args))
	}
	if params.Turno != nil {
		args = append(args, *params.Turno)
		query += fmt.Sprintf(" AND turno = $%d", len(args))
	}
	if params.EmpleadoID != nil {
		args = append(args, *params.EmpleadoID)
		query += fmt.Sprintf(" AND empleado_id = $%d", len(args))
	}
	if params.ClosedOnly {
		query += " AND fecha_cierre IS NOT NULL"
	}
	query += " ORDER BY fecha_apertura"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()

	var out []domain.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shift: %w", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shifts: %w", err)
	}
	return out, nil
}

func scanShift(row pgx.Row) (*domain.Shift, error) {
	var (
		s         domain.Shift
		id        int64
		empleado  int64
		apertura  time.Time
		cierre    *time.Time
		iniciales []byte
		finales   []byte
		detalle   []byte
		fichasIni float64
		fichasFin *float64
		premios   *float64
		bonos     *float64
		liabIni   *float64
		liabFin   *float64
		depositos *float64
		ganancia  *float64
	)

	err := row.Scan(
		&id, &empleado, &s.Turno, &apertura, &cierre,
		&iniciales, &finales, &fichasIni, &fichasFin,
		&premios, &bonos, &liabIni, &liabFin, &depositos, &ganancia,
		&detalle,
	)
	if err != nil {
		return nil, err
	}

	s.ID = domain.FlexInt(id)
	s.EmpleadoID = domain.FlexInt(empleado)
	s.FechaApertura = domain.LocalTime{Time: apertura}
	if cierre != nil {
		s.FechaCierre = &domain.LocalTime{Time: *cierre}
	}
	if len(iniciales) > 0 {
		if err := json.Unmarshal(iniciales, &s.BilleterasIniciales); err != nil {
			return nil, fmt.Errorf("unmarshal opening snapshot: %w", err)
		}
	}
	if len(finales) > 0 {
		if err := json.Unmarshal(finales, &s.BilleterasFinales); err != nil {
			return nil, fmt.Errorf("unmarshal closing snapshot: %w", err)
		}
	}
	if len(detalle) > 0 {
		if err := json.Unmarshal(detalle, &s.DescuadreDetalle); err != nil {
			return nil, fmt.Errorf("unmarshal descuadre detail: %w", err)
		}
	}
	s.FichasIniciales = domain.FlexFloat(fichasIni)
	s.FichasFinales = floatOrZero(fichasFin)
	s.Premios = floatOrZero(premios)
	s.Bonos = floatOrZero(bonos)
	s.Depositos = floatOrZero(depositos)
	s.LiabilityInicio = flexFromPtr(liabIni)
	s.LiabilityFin = flexFromPtr(liabFin)
	s.GananciaReal = flexFromPtr(ganancia)
	return &s, nil
}

func floatOrZero(v *float64) domain.FlexFloat {
	if v == nil {
		return 0
	}
	return domain.FlexFloat(*v)
}

func flexFromPtr(v *float64) *domain.FlexFloat {
	if v == nil {
		return nil
	}
	f := domain.FlexFloat(*v)
	return &f
}

func flexPtr(v *domain.FlexFloat) *float64 {
	if v == nil {
		return nil
	}
	f := v.Float()
	return &f
}
