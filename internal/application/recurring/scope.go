package recurring

import (
	"context"

	"github.com/walletly/backend/internal/domain/ledger"
	"github.com/walletly/backend/internal/domain/recurring"
)

// TransactionalRepositories provides access to all repositories within a
// single storage transaction. Every multi-step mutation in this package
// (occurrence posting, payment settlement, schedule regeneration, cascade
// deletion) runs against one of these so the steps commit or roll back as
// a unit.
type TransactionalRepositories interface {
	Wallets() ledger.WalletRepository
	Transactions() ledger.TransactionRepository
	Subscriptions() recurring.SubscriptionRepository
	Plans() recurring.InstallmentPlanRepository
	Payments() recurring.InstallmentPaymentRepository
}

// TransactionScope executes a function within a storage transaction.
// If the function returns an error the transaction is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}
