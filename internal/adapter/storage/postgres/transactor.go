package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Transactor hands out transactions from the shared pool so services
// can group several repo calls into one atomic unit.
type Transactor struct {
	pool Pool
}

func NewTransactor(pool Pool) *Transactor {
	return &Transactor{pool: pool}
}

// Begin opens a transaction. The caller owns its lifecycle: commit on
// success, rollback otherwise.
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return t.pool.Begin(ctx)
}
