package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/walletly/backend/internal/domain/ledger"
	"github.com/walletly/backend/internal/domain/shared"
	"github.com/walletly/backend/internal/infrastructure/persistence/models"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create inserts a new transaction. Transactions are immutable once posted,
// so there is no update path.
func (r *GormTransactionRepository) Create(ctx context.Context, transaction *ledger.Transaction) error {
	model := models.TransactionModelFromDomain(transaction)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByWalletID finds all transactions posted against a wallet
func (r *GormTransactionRepository) FindByWalletID(ctx context.Context, walletID uuid.UUID, filter shared.Filter) ([]ledger.Transaction, error) {
	var transactionModels []models.TransactionModel
	query := r.db.WithContext(ctx).Model(&models.TransactionModel{}).Where("wallet_id = ?", walletID)
	if txType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", txType)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, TransactionSortFields, "transaction_date")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]ledger.Transaction, len(transactionModels))
	for i, model := range transactionModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions, nil
}

// FindBySubscriptionID finds all transactions posted by a subscription
func (r *GormTransactionRepository) FindBySubscriptionID(ctx context.Context, subscriptionID uuid.UUID) ([]ledger.Transaction, error) {
	var transactionModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("transaction_date ASC").
		Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]ledger.Transaction, len(transactionModels))
	for i, model := range transactionModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions, nil
}

// ExistsForPayment reports whether a transaction back-references the given
// installment payment.
func (r *GormTransactionRepository) ExistsForPayment(ctx context.Context, paymentID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("installment_payment_id = ?", paymentID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SumByWalletAndType sums transaction amounts for a wallet and type within
// a date range.
func (r *GormTransactionRepository) SumByWalletAndType(ctx context.Context, walletID uuid.UUID, txType ledger.TransactionType, from, to time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("wallet_id = ? AND type = ? AND transaction_date >= ? AND transaction_date <= ?", walletID, txType, from, to).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// DeleteBySubscriptionID deletes all transactions posted by a subscription
func (r *GormTransactionRepository) DeleteBySubscriptionID(ctx context.Context, subscriptionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.TransactionModel{}, "subscription_id = ?", subscriptionID).Error
}

// DeleteByInstallmentPlanID deletes all transactions posted by any payment
// of the given plan. Runs as a subquery so the payments themselves can be
// removed in the same transaction afterwards.
func (r *GormTransactionRepository) DeleteByInstallmentPlanID(ctx context.Context, planID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.TransactionModel{},
			"installment_payment_id IN (?)",
			r.db.Model(&models.InstallmentPaymentModel{}).Select("id").Where("plan_id = ?", planID),
		).Error
}

// Delete deletes a transaction by ID
func (r *GormTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.TransactionModel{}, "id = ?", id).Error
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ ledger.TransactionRepository = (*GormTransactionRepository)(nil)
