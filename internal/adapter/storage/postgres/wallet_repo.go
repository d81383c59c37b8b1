package postgres

import (
	"context"
	"errors"
	"fmt"

	"till-reconciliation-engine/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// WalletRepo implements ports.WalletRepository against the billeteras
// catalog table.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// Create inserts a new wallet into the catalog.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	query := `INSERT INTO billeteras (servicio, cbu, titular, tipo)
		VALUES ($1, $2, $3, $4) RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		w.Servicio, w.CBU, w.Titular, string(w.Tipo),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	w.ID = domain.FlexInt(id)
	return nil
}

// GetByID fetches a wallet by its id.
func (r *WalletRepo) GetByID(ctx context.Context, id int64) (*domain.Wallet, error) {
	query := `SELECT id, servicio, cbu, titular, tipo FROM billeteras WHERE id = $1`

	w, err := scanWallet(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet by id: %w", err)
	}
	return w, nil
}

// List returns the full wallet catalog.
func (r *WalletRepo) List(ctx context.Context) ([]domain.Wallet, error) {
	query := `SELECT id, servicio, cbu, titular, tipo FROM billeteras ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()
	return collectWallets(rows)
}

// ListByKind returns wallets of one kind (operativa or retiro).
func (r *WalletRepo) ListByKind(ctx context.Context, kind domain.WalletKind) ([]domain.Wallet, error) {
	query := `SELECT id, servicio, cbu, titular, tipo FROM billeteras WHERE tipo = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list wallets by kind: %w", err)
	}
	defer rows.Close()
	return collectWallets(rows)
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var (
		w    domain.Wallet
		id   int64
		tipo string
	)
	if err := row.Scan(&id, &w.Servicio, &w.CBU, &w.Titular, &tipo); err != nil {
		return nil, err
	}
	w.ID = domain.FlexInt(id)
	w.Tipo = domain.WalletKind(tipo)
	return &w, nil
}

func collectWallets(rows pgx.Rows) ([]domain.Wallet, error) {
	var out []domain.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		out = append(out, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallets: %w", err)
	}
	return out, nil
}
