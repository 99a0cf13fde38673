package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/walletly/backend/internal/domain/recurring"
	"github.com/walletly/backend/internal/domain/shared"
	"github.com/walletly/backend/internal/infrastructure/persistence/models"
)

// GormSubscriptionRepository implements SubscriptionRepository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// FindByID finds a subscription by its ID
func (r *GormSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*recurring.Subscription, error) {
	var model models.SubscriptionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUser finds a subscription by ID owned by the given user
func (r *GormSubscriptionRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*recurring.Subscription, error) {
	var model models.SubscriptionModel
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

// FindAllForUser finds all subscriptions owned by the given user
func (r *GormSubscriptionRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]recurring.Subscription, error) {
	var subscriptionModels []models.SubscriptionModel
	query := r.db.WithContext(ctx).Model(&models.SubscriptionModel{}).Where("user_id = ?", userID)
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, SubscriptionSortFields, "next_due_date")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&subscriptionModels).Error; err != nil {
		return nil, err
	}

	subscriptions := make([]recurring.Subscription, len(subscriptionModels))
	for i, model := range subscriptionModels {
		subscriptions[i] = *model.ToDomain()
	}
	return subscriptions, nil
}

// FindDue finds active subscriptions with a next due date on or before today
func (r *GormSubscriptionRepository) FindDue(ctx context.Context, today time.Time) ([]recurring.Subscription, error) {
	var subscriptionModels []models.SubscriptionModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND next_due_date <= ?", recurring.SubscriptionStatusActive, today).
		Order("next_due_date ASC").
		Find(&subscriptionModels).Error; err != nil {
		return nil, err
	}

	subscriptions := make([]recurring.Subscription, len(subscriptionModels))
	for i, model := range subscriptionModels {
		subscriptions[i] = *model.ToDomain()
	}
	return subscriptions, nil
}

// Save saves a subscription
func (r *GormSubscriptionRepository) Save(ctx context.Context, subscription *recurring.Subscription) error {
	model := models.SubscriptionModelFromDomain(subscription)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a subscription with optimistic locking (version check).
// Returns a concurrency error if the version has changed.
func (r *GormSubscriptionRepository) SaveWithLock(ctx context.Context, subscription *recurring.Subscription) error {
	currentVersion := subscription.Version
	subscription.IncrementVersion()

	// Explicit column map so cleared pointer fields (end_date, due_day)
	// are written as NULL instead of skipped as zero values.
	model := models.SubscriptionModelFromDomain(subscription)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", subscription.ID, currentVersion).
		Updates(map[string]interface{}{
			"wallet_id":             model.WalletID,
			"category_id":           model.CategoryID,
			"name":                  model.Name,
			"amount":                model.Amount,
			"frequency":             model.Frequency,
			"start_date":            model.StartDate,
			"end_date":              model.EndDate,
			"due_day":               model.DueDay,
			"status":                model.Status,
			"next_due_date":         model.NextDueDate,
			"last_transaction_date": model.LastTransactionDate,
			"version":               model.Version,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The subscription record has been modified by another transaction")
	}
	return nil
}

// Delete deletes a subscription by ID
func (r *GormSubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.SubscriptionModel{}, "id = ?", id).Error
}

// CountForWallet counts subscriptions attached to a wallet
func (r *GormSubscriptionRepository) CountForWallet(ctx context.Context, walletID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SubscriptionModel{}).
		Where("wallet_id = ?", walletID).
		Count(&count).Error
	return count, err
}

// Ensure GormSubscriptionRepository implements SubscriptionRepository
var _ recurring.SubscriptionRepository = (*GormSubscriptionRepository)(nil)
