package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/walletly/backend/internal/domain/shared"
)

// WalletRepository defines the persistence contract for wallets
type WalletRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Wallet, error)
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Wallet, error)
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Wallet, error)
	Save(ctx context.Context, wallet *Wallet) error
	SaveWithLock(ctx context.Context, wallet *Wallet) error
	// ApplyBalanceDelta applies a signed delta with a single storage-level
	// increment so concurrent postings against the same wallet never lose
	// an update. It fails if the wallet is missing or inactive.
	ApplyBalanceDelta(ctx context.Context, walletID uuid.UUID, delta decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryRepository defines the persistence contract for categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Category, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransactionRepository defines the persistence contract for ledger transactions
type TransactionRepository interface {
	Create(ctx context.Context, transaction *Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	FindByWalletID(ctx context.Context, walletID uuid.UUID, filter shared.Filter) ([]Transaction, error)
	FindBySubscriptionID(ctx context.Context, subscriptionID uuid.UUID) ([]Transaction, error)
	// ExistsForPayment reports whether any transaction back-references the
	// given installment payment. This is the idempotency source of truth
	// for settlement, deliberately independent of the payment's status.
	ExistsForPayment(ctx context.Context, paymentID uuid.UUID) (bool, error)
	SumByWalletAndType(ctx context.Context, walletID uuid.UUID, txType TransactionType, from, to time.Time) (decimal.Decimal, error)
	DeleteBySubscriptionID(ctx context.Context, subscriptionID uuid.UUID) error
	// DeleteByInstallmentPlanID removes transactions back-referencing any
	// payment of the given plan; part of the explicit plan delete cascade.
	DeleteByInstallmentPlanID(ctx context.Context, planID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
