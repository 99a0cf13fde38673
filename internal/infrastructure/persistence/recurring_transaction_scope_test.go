package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apprecurring "github.com/walletly/backend/internal/application/recurring"
	"github.com/walletly/backend/internal/domain/ledger"
)

func TestGormTransactionScope_CommitsOnSuccess(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()
	userID := uuid.New()

	walletRepo := NewGormWalletRepository(db)
	wallet := mustCreateWallet(t, walletRepo, userID, 100)

	err := scope.Execute(ctx, func(repos apprecurring.TransactionalRepositories) error {
		tx, err := ledger.NewSubscriptionExpense(
			userID, wallet.ID, uuid.New(), uuid.New(),
			decimal.NewFromFloat(15.99), day(2025, time.March, 15), "Subscription: Streaming",
		)
		if err != nil {
			return err
		}
		if err := repos.Transactions().Create(ctx, tx); err != nil {
			return err
		}
		return repos.Wallets().ApplyBalanceDelta(ctx, wallet.ID, tx.BalanceDelta())
	})

	require.NoError(t, err)
	found, err := walletRepo.FindByID(ctx, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, "84.01", found.Balance.StringFixed(2))
}

func TestGormTransactionScope_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()
	userID := uuid.New()

	walletRepo := NewGormWalletRepository(db)
	transactionRepo := NewGormTransactionRepository(db)
	wallet := mustCreateWallet(t, walletRepo, userID, 100)
	subscriptionID := uuid.New()

	err := scope.Execute(ctx, func(repos apprecurring.TransactionalRepositories) error {
		tx, err := ledger.NewSubscriptionExpense(
			userID, wallet.ID, uuid.New(), subscriptionID,
			decimal.NewFromFloat(15.99), day(2025, time.March, 15), "Subscription: Streaming",
		)
		if err != nil {
			return err
		}
		if err := repos.Transactions().Create(ctx, tx); err != nil {
			return err
		}
		if err := repos.Wallets().ApplyBalanceDelta(ctx, wallet.ID, tx.BalanceDelta()); err != nil {
			return err
		}
		return errors.New("advance failed")
	})

	require.Error(t, err)

	// Neither the posted transaction nor the balance change survives.
	found, err := walletRepo.FindByID(ctx, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", found.Balance.StringFixed(2))

	posted, err := transactionRepo.FindBySubscriptionID(ctx, subscriptionID)
	require.NoError(t, err)
	assert.Empty(t, posted)
}
