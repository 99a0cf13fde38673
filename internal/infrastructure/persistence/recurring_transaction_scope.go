package persistence

import (
	"context"

	"gorm.io/gorm"

	apprecurring "github.com/walletly/backend/internal/application/recurring"
	"github.com/walletly/backend/internal/domain/ledger"
	"github.com/walletly/backend/internal/domain/recurring"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apprecurring.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Wallets returns the wallet repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Wallets() ledger.WalletRepository {
	return NewGormWalletRepository(r.tx)
}

// Transactions returns the transaction repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Transactions() ledger.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

// Subscriptions returns the subscription repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Subscriptions() recurring.SubscriptionRepository {
	return NewGormSubscriptionRepository(r.tx)
}

// Plans returns the installment plan repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Plans() recurring.InstallmentPlanRepository {
	return NewGormInstallmentPlanRepository(r.tx)
}

// Payments returns the installment payment repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Payments() recurring.InstallmentPaymentRepository {
	return NewGormInstallmentPaymentRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ apprecurring.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ apprecurring.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
