package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/walletly/backend/internal/domain/shared"
)

// Wallet represents a wallet aggregate root. It holds a user's balance in a
// single currency. The balance is only ever mutated through signed delta
// application, never overwritten.
type Wallet struct {
	shared.OwnedAggregateRoot
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
	IsActive bool            `json:"is_active"`
}

// NewWallet creates a new wallet
func NewWallet(userID uuid.UUID, name, currency string, initialBalance decimal.Decimal) (*Wallet, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_WALLET_NAME", "Wallet name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_WALLET_NAME", "Wallet name cannot exceed 100 characters")
	}
	if len(currency) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO code")
	}

	return &Wallet{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		Name:               name,
		Balance:            initialBalance.Round(2),
		Currency:           currency,
		IsActive:           true,
	}, nil
}

// ApplyDelta applies a signed balance delta to the wallet. Expense postings
// pass a negative delta, income postings a positive one.
func (w *Wallet) ApplyDelta(delta decimal.Decimal) error {
	if !w.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Cannot post to an inactive wallet")
	}

	w.Balance = w.Balance.Add(delta).Round(2)
	w.UpdatedAt = time.Now()

	return nil
}

// Deactivate marks the wallet inactive. Historical transactions keep their
// wallet reference, so the wallet is never hard-deleted.
func (w *Wallet) Deactivate() {
	w.IsActive = false
	w.UpdatedAt = time.Now()
}

// Activate re-enables postings against the wallet
func (w *Wallet) Activate() {
	w.IsActive = true
	w.UpdatedAt = time.Now()
}

// Rename updates the wallet name
func (w *Wallet) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_WALLET_NAME", "Wallet name cannot be empty")
	}
	w.Name = name
	w.UpdatedAt = time.Now()
	return nil
}
