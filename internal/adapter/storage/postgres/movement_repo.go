package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"till-reconciliation-engine/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// MovementRepo implements ports.MovementRepository. The ledger is
// append-only: there is no update or delete path.
type MovementRepo struct {
	pool Pool
}

// NewMovementRepo creates a new MovementRepo.
func NewMovementRepo(pool Pool) *MovementRepo {
	return &MovementRepo{pool: pool}
}

// Create appends a movement inside the given transaction. Endpoints are
// stored as JSONB so unregistered wallets round-trip intact.
func (r *MovementRepo) Create(ctx context.Context, tx pgx.Tx, m *domain.Movement) error {
	desde, err := json.Marshal(m.Desde)
	if err != nil {
		return fmt.Errorf("marshal source wallet: %w", err)
	}
	hasta, err := json.Marshal(m.Hasta)
	if err != nil {
		return fmt.Errorf("marshal destination wallet: %w", err)
	}

	var fecha time.Time
	if m.Fecha != nil {
		fecha = m.Fecha.Time
	} else {
		fecha = time.Now()
	}

	query := `INSERT INTO movimientos (caja_id, empleado_id, tipo, desde_billetera, hasta_billetera, monto, fecha)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	var id int64
	err = tx.QueryRow(ctx, query,
		m.CajaID.Int(), m.EmpleadoID.Int(), string(m.Tipo),
		desde, hasta, m.Monto.Float(), fecha,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	m.ID = domain.FlexInt(id)
	return nil
}

// ListByShift returns a shift's ledger in insertion order.
func (r *MovementRepo) ListByShift(ctx context.Context, cajaID int64) ([]domain.Movement, error) {
	query := `SELECT id, caja_id, empleado_id, tipo, desde_billetera, hasta_billetera, monto, fecha
		FROM movimientos WHERE caja_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, cajaID)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var out []domain.Movement
	for rows.Next() {
		var (
			m        domain.Movement
			id       int64
			caja     int64
			empleado int64
			tipo     string
			desde    []byte
			hasta    []byte
			monto    float64
			fecha    time.Time
		)
		if err := rows.Scan(&id, &caja, &empleado, &tipo, &desde, &hasta, &monto, &fecha); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if err := json.Unmarshal(desde, &m.Desde); err != nil {
			return nil, fmt.Errorf("unmarshal source wallet: %w", err)
		}
		if err := json.Unmarshal(hasta, &m.Hasta); err != nil {
			return nil, fmt.Errorf("unmarshal destination wallet: %w", err)
		}
		m.ID = domain.FlexInt(id)
		m.CajaID = domain.FlexInt(caja)
		m.EmpleadoID = domain.FlexInt(empleado)
		m.Tipo = domain.MovementType(tipo)
		m.Monto = domain.FlexFloat(monto)
		m.Fecha = &domain.LocalTime{Time: fecha}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movements: %w", err)
	}
	return out, nil
}
