package postgres

import (
	"context"
	"fmt"

	"till-reconciliation-engine/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// PrizeRepo implements ports.PrizeRepository against the premios table.
type PrizeRepo struct {
	pool Pool
}

// NewPrizeRepo creates a new PrizeRepo.
func NewPrizeRepo(pool Pool) *PrizeRepo {
	return &PrizeRepo{pool: pool}
}

// Create appends a paid prize inside the given transaction.
func (r *PrizeRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.Prize) error {
	query := `INSERT INTO premios (caja_id, billetera_id, servicio, titular, cbu, monto)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	var id int64
	err := tx.QueryRow(ctx, query,
		p.CajaID.Int(), p.BilleteraID.Int(), p.Servicio, p.Titular, p.CBU, p.Monto.Float(),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert prize: %w", err)
	}
	p.ID = domain.FlexInt(id)
	return nil
}

// ListByShift returns a shift's paid prizes in insertion order.
func (r *PrizeRepo) ListByShift(ctx context.Context, cajaID int64) ([]domain.Prize, error) {
	query := `SELECT id, caja_id, billetera_id, servicio, titular, cbu, monto
		FROM premios WHERE caja_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, cajaID)
	if err != nil {
		return nil, fmt.Errorf("list prizes: %w", err)
	}
	defer rows.Close()

	var out []domain.Prize
	for rows.Next() {
		var (
			p         domain.Prize
			id        int64
			caja      int64
			billetera int64
			monto     float64
		)
		if err := rows.Scan(&id, &caja, &billetera, &p.Servicio, &p.Titular, &p.CBU, &monto); err != nil {
			return nil, fmt.Errorf("scan prize: %w", err)
		}
		p.ID = domain.FlexInt(id)
		p.CajaID = domain.FlexInt(caja)
		p.BilleteraID = domain.FlexInt(billetera)
		p.Monto = domain.FlexFloat(monto)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prizes: %w", err)
	}
	return out, nil
}
