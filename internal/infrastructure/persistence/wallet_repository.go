package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/walletly/backend/internal/domain/ledger"
	"github.com/walletly/backend/internal/domain/shared"
	"github.com/walletly/backend/internal/infrastructure/persistence/models"
)

// GormWalletRepository implements WalletRepository using GORM
type GormWalletRepository struct {
	db *gorm.DB
}

// NewGormWalletRepository creates a new GormWalletRepository
func NewGormWalletRepository(db *gorm.DB) *GormWalletRepository {
	return &GormWalletRepository{db: db}
}

// FindByID finds a wallet by its ID
func (r *GormWalletRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Wallet, error) {
	var model models.WalletModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUser finds a wallet by ID owned by the given user
func (r *GormWalletRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*ledger.Wallet, error) {
	var model models.WalletModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForUser finds all wallets owned by the given user
func (r *GormWalletRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]ledger.Wallet, error) {
	var walletModels []models.WalletModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.WalletModel{}).Where("user_id = ?", userID), filter)

	if err := query.Find(&walletModels).Error; err != nil {
		return nil, err
	}

	wallets := make([]ledger.Wallet, len(walletModels))
	for i, model := range walletModels {
		wallets[i] = *model.ToDomain()
	}
	return wallets, nil
}

// Save saves a wallet
func (r *GormWalletRepository) Save(ctx context.Context, wallet *ledger.Wallet) error {
	model := models.WalletModelFromDomain(wallet)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a wallet with optimistic locking (version check).
// Returns a concurrency error if the version has changed.
func (r *GormWalletRepository) SaveWithLock(ctx context.Context, wallet *ledger.Wallet) error {
	currentVersion := wallet.Version
	wallet.IncrementVersion()

	// Explicit column map so zero values (a drained balance, a
	// deactivated wallet) are not skipped by the update.
	model := models.WalletModelFromDomain(wallet)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", wallet.ID, currentVersion).
		Updates(map[string]interface{}{
			"name":      model.Name,
			"balance":   model.Balance,
			"currency":  model.Currency,
			"is_active": model.IsActive,
			"version":   model.Version,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The wallet record has been modified by another transaction")
	}
	return nil
}

// ApplyBalanceDelta applies a signed balance delta with a single UPDATE
// increment. Concurrent postings against the same wallet serialize on the
// row instead of overwriting each other's balance. Inactive wallets are
// excluded, so a posting against one fails rather than silently applying.
func (r *GormWalletRepository) ApplyBalanceDelta(ctx context.Context, walletID uuid.UUID, delta decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.WalletModel{}).
		Where("id = ? AND is_active = ?", walletID, true).
		Updates(map[string]interface{}{
			"balance": gorm.Expr("balance + ?", delta),
			"version": gorm.Expr("version + 1"),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("WALLET_NOT_FOUND", "Wallet not found or inactive")
	}
	return nil
}

// Delete deletes a wallet by ID
func (r *GormWalletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.WalletModel{}, "id = ?", id).Error
}

func (r *GormWalletRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "currency":
			query = query.Where("currency = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, WalletSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// Ensure GormWalletRepository implements WalletRepository
var _ ledger.WalletRepository = (*GormWalletRepository)(nil)
