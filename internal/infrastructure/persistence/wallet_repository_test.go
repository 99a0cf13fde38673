package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/walletly/backend/internal/domain/ledger"
	"github.com/walletly/backend/internal/domain/shared"
	"github.com/walletly/backend/internal/infrastructure/persistence/models"
)

// setupTestDB creates an in-memory SQLite database with all tables migrated
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.WalletModel{},
		&models.CategoryModel{},
		&models.TransactionModel{},
		&models.SubscriptionModel{},
		&models.InstallmentPlanModel{},
		&models.InstallmentPaymentModel{},
	)
	require.NoError(t, err)

	return db
}

func mustCreateWallet(t *testing.T, repo *GormWalletRepository, userID uuid.UUID, balance float64) *ledger.Wallet {
	t.Helper()
	wallet, err := ledger.NewWallet(userID, "Checking", "USD", decimal.NewFromFloat(balance))
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), wallet))
	return wallet
}

func TestGormWalletRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormWalletRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	wallet := mustCreateWallet(t, repo, userID, 250.50)

	t.Run("finds wallet for owning user", func(t *testing.T) {
		found, err := repo.FindByIDForUser(ctx, userID, wallet.ID)
		require.NoError(t, err)
		assert.Equal(t, wallet.ID, found.ID)
		assert.Equal(t, "250.5", found.Balance.String())
		assert.True(t, found.IsActive)
	})

	t.Run("hides wallet from other users", func(t *testing.T) {
		_, err := repo.FindByIDForUser(ctx, uuid.New(), wallet.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("returns not found for unknown ID", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormWalletRepository_ApplyBalanceDelta(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormWalletRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	t.Run("applies signed deltas cumulatively", func(t *testing.T) {
		wallet := mustCreateWallet(t, repo, userID, 100)

		require.NoError(t, repo.ApplyBalanceDelta(ctx, wallet.ID, decimal.NewFromFloat(-15.99)))
		require.NoError(t, repo.ApplyBalanceDelta(ctx, wallet.ID, decimal.NewFromFloat(50)))

		found, err := repo.FindByID(ctx, wallet.ID)
		require.NoError(t, err)
		assert.Equal(t, "134.01", found.Balance.StringFixed(2))
	})

	t.Run("rejects delta against inactive wallet", func(t *testing.T) {
		wallet := mustCreateWallet(t, repo, userID, 100)
		wallet.Deactivate()
		require.NoError(t, repo.Save(ctx, wallet))

		err := repo.ApplyBalanceDelta(ctx, wallet.ID, decimal.NewFromFloat(-10))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "inactive")

		found, err := repo.FindByID(ctx, wallet.ID)
		require.NoError(t, err)
		assert.Equal(t, "100.00", found.Balance.StringFixed(2))
	})

	t.Run("rejects delta against missing wallet", func(t *testing.T) {
		err := repo.ApplyBalanceDelta(ctx, uuid.New(), decimal.NewFromFloat(-10))
		assert.Error(t, err)
	})
}

func TestGormWalletRepository_SaveWithLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormWalletRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	t.Run("saves when version matches", func(t *testing.T) {
		wallet := mustCreateWallet(t, repo, userID, 100)

		require.NoError(t, wallet.Rename("Savings"))
		require.NoError(t, repo.SaveWithLock(ctx, wallet))

		found, err := repo.FindByID(ctx, wallet.ID)
		require.NoError(t, err)
		assert.Equal(t, "Savings", found.Name)
	})

	t.Run("persists deactivation", func(t *testing.T) {
		wallet := mustCreateWallet(t, repo, userID, 100)

		wallet.Deactivate()
		require.NoError(t, repo.SaveWithLock(ctx, wallet))

		found, err := repo.FindByID(ctx, wallet.ID)
		require.NoError(t, err)
		assert.False(t, found.IsActive)
	})

	t.Run("fails on stale version", func(t *testing.T) {
		wallet := mustCreateWallet(t, repo, userID, 100)

		stale := *wallet
		require.NoError(t, wallet.Rename("First writer"))
		require.NoError(t, repo.SaveWithLock(ctx, wallet))

		require.NoError(t, stale.Rename("Second writer"))
		err := repo.SaveWithLock(ctx, &stale)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "modified by another transaction")
	})
}

// newMockWalletRepository creates a GormWalletRepository with a mocked SQL connection
func newMockWalletRepository(t *testing.T) (*GormWalletRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormWalletRepository(gormDB), mock, mockDB
}

func TestGormWalletRepository_ApplyBalanceDelta_SQL(t *testing.T) {
	t.Run("issues a single increment update", func(t *testing.T) {
		repo, mock, mockDB := newMockWalletRepository(t)
		defer mockDB.Close()

		walletID := uuid.New()
		delta := decimal.NewFromFloat(-15.99)

		mock.ExpectExec(`UPDATE "wallets" SET "balance"=balance \+ \$1,"version"=version \+ 1,.* WHERE id = \$3 AND is_active = \$4`).
			WithArgs(delta, sqlmock.AnyArg(), walletID, true).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.ApplyBalanceDelta(context.Background(), walletID, delta)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
