package ports

import (
	"context"
	"time"

	"till-reconciliation-engine/internal/core/domain"
)

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(empleadoID int64, usuario string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	EmpleadoID int64
	Usuario    string
}

// SummaryCache is the Redis layer in front of the daily aggregation
// queries. Values are serialised summary slices.
type SummaryCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // nil when absent
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Invalidate drops every cached summary; called whenever a shift
	// closes so stale day totals never survive a seal.
	Invalidate(ctx context.Context) error
}

// --- Service Ports (Business Logic) ---

// ShiftService defines the shift lifecycle business logic.
type ShiftService interface {
	Open(ctx context.Context, req OpenShiftRequest) (*domain.Shift, error)
	Close(ctx context.Context, req CloseShiftRequest) (*domain.Shift, error)
	Get(ctx context.Context, cajaID int64) (*domain.Shift, error)
	List(ctx context.Context, params ShiftListParams) ([]domain.Shift, error)
}

// OpenShiftRequest holds validated input for opening a till.
type OpenShiftRequest struct {
	EmpleadoID      int64
	Turno           string
	Billeteras      domain.WalletSnapshot
	FichasIniciales float64
	LiabilityInicio *float64
}

// CloseShiftRequest holds the closing declaration.
type CloseShiftRequest struct {
	CajaID            int64
	EmpleadoID        int64
	Billeteras        domain.WalletSnapshot
	FichasFinales     float64
	Premios           float64
	Bonos             float64
	Depositos         float64
	LiabilityFin      *float64
	SaldoJugadoresFin *float64
}

// LedgerService records movements and prizes against an open shift.
type LedgerService interface {
	RecordMovement(ctx context.Context, req MovementRequest) (*domain.Movement, error)
	RecordPrize(ctx context.Context, req PrizeRequest) (*domain.Prize, error)
	ListMovements(ctx context.Context, cajaID int64) ([]domain.Movement, error)
	ListPrizes(ctx context.Context, cajaID int64) ([]domain.Prize, error)
}

// MovementRequest holds validated input for recording a movement.
type MovementRequest struct {
	CajaID     int64
	EmpleadoID int64
	Tipo       domain.MovementType
	Desde      domain.Wallet
	Hasta      domain.Wallet
	Monto      float64
}

// PrizeRequest holds validated input for recording a paid prize.
type PrizeRequest struct {
	CajaID      int64
	BilleteraID int64
	Servicio    string
	Titular     string
	CBU         string
	Monto       float64
}

// ReconciliationService projects and reconciles a closed shift.
type ReconciliationService interface {
	Reconcile(ctx context.Context, cajaID int64) (*domain.ReconciliationResult, error)
	Profit(ctx context.Context, cajaID int64) (*domain.ProfitResult, error)
	// ExpectedBalances projects the current ledger over the opening
	// snapshot; usable on open shifts for the live drawer view.
	ExpectedBalances(ctx context.Context, cajaID int64) (map[domain.WalletKey]float64, error)
}

// AnalyticsService produces the daily balance summaries.
type AnalyticsService interface {
	DailySummaries(ctx context.Context, filter SummaryFilter) (*domain.SummaryReport, error)
}

// SummaryFilter narrows the daily aggregation.
type SummaryFilter struct {
	Fecha      string
	Turno      string
	EmpleadoID int64
	Nombre     string
}

// AuthService defines employee authentication.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.Employee, error)
	Login(ctx context.Context, usuario, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds input for creating a till operator.
type RegisterRequest struct {
	Nombre   string
	Usuario  string
	Password string
}
