package domain

import "strings"

// WalletKind distinguishes operational wallets from external
// withdrawal-only ones.
type WalletKind string

const (
	WalletKindOperational WalletKind = "operativa"
	WalletKindWithdrawal  WalletKind = "retiro"
)

// Wallet is a payment channel acting as a cash drawer. The numeric id is
// backend-assigned and not always present, so identity is the
// (servicio, cbu, titular) tuple.
type Wallet struct {
	ID       FlexInt    `json:"id"`
	Servicio string     `json:"servicio"`
	CBU      string     `json:"cbu"`
	Titular  string     `json:"titular"`
	Tipo     WalletKind `json:"tipo,omitempty"`
}

// WalletKey is the natural identity of a wallet. Comparison is exact:
// no trimming, no case folding.
type WalletKey struct {
	Servicio string
	CBU      string
	Titular  string
}

func (k WalletKey) String() string {
	return k.Servicio + "|" + k.CBU + "|" + k.Titular
}

// Key returns the wallet's natural identity tuple.
func (w Wallet) Key() WalletKey {
	return WalletKey{Servicio: w.Servicio, CBU: w.CBU, Titular: w.Titular}
}

// IsWithdrawal reports whether the wallet is an external
// withdrawal-only destination.
func (w Wallet) IsWithdrawal() bool {
	return strings.EqualFold(string(w.Tipo), string(WalletKindWithdrawal))
}

// OwnerWithdrawalWallet is the synthetic sink used when no external
// wallet catalog is configured, so withdrawal accounting still
// balances.
func OwnerWithdrawalWallet() Wallet {
	return Wallet{
		ID:       0,
		Servicio: "Retiro (Jefe)",
		Titular:  "Jefe",
		CBU:      "",
		Tipo:     WalletKindWithdrawal,
	}
}

// Registry is the in-memory wallet catalog, keyed by the natural tuple.
type Registry struct {
	byKey map[WalletKey]Wallet
}

// NewRegistry builds a registry from a wallet catalog. Later duplicates
// of the same key win, matching the backend's last-write behavior.
func NewRegistry(wallets []Wallet) *Registry {
	r := &Registry{byKey: make(map[WalletKey]Wallet, len(wallets))}
	for _, w := range wallets {
		r.byKey[w.Key()] = w
	}
	return r
}

// Lookup finds a wallet by its natural key.
func (r *Registry) Lookup(key WalletKey) (Wallet, bool) {
	w, ok := r.byKey[key]
	return w, ok
}

// Operational returns the wallets usable as cash drawers.
func (r *Registry) Operational() []Wallet {
	var out []Wallet
	for _, w := range r.byKey {
		if !w.IsWithdrawal() {
			out = append(out, w)
		}
	}
	return out
}

// Externals returns the withdrawal-only wallets. When none are
// configured, callers fall back to OwnerWithdrawalWallet.
func (r *Registry) Externals() []Wallet {
	var out []Wallet
	for _, w := range r.byKey {
		if w.IsWithdrawal() {
			out = append(out, w)
		}
	}
	return out
}

// WithdrawalSink returns the destination for a withdrawal movement:
// the requested external wallet when it exists in the catalog, or the
// synthetic owner sink.
func (r *Registry) WithdrawalSink(key WalletKey) Wallet {
	if w, ok := r.Lookup(key); ok && w.IsWithdrawal() {
		return w
	}
	return OwnerWithdrawalWallet()
}
