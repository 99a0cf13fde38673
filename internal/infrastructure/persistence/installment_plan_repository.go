package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/walletly/backend/internal/domain/recurring"
	"github.com/walletly/backend/internal/domain/shared"
	"github.com/walletly/backend/internal/infrastructure/persistence/models"
)

// GormInstallmentPlanRepository implements InstallmentPlanRepository using GORM
type GormInstallmentPlanRepository struct {
	db *gorm.DB
}

// NewGormInstallmentPlanRepository creates a new GormInstallmentPlanRepository
func NewGormInstallmentPlanRepository(db *gorm.DB) *GormInstallmentPlanRepository {
	return &GormInstallmentPlanRepository{db: db}
}

// FindByID finds a plan by its ID
func (r *GormInstallmentPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*recurring.InstallmentPlan, error) {
	var model models.InstallmentPlanModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUser finds a plan by ID owned by the given user
func (r *GormInstallmentPlanRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*recurring.InstallmentPlan, error) {
	var model models.InstallmentPlanModel
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

// FindAllForUser finds all plans owned by the given user
func (r *GormInstallmentPlanRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]recurring.InstallmentPlan, error) {
	var planModels []models.InstallmentPlanModel
	query := r.db.WithContext(ctx).Model(&models.InstallmentPlanModel{}).Where("user_id = ?", userID)
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, InstallmentPlanSortFields, "next_due_date")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&planModels).Error; err != nil {
		return nil, err
	}

	plans := make([]recurring.InstallmentPlan, len(planModels))
	for i, model := range planModels {
		plans[i] = *model.ToDomain()
	}
	return plans, nil
}

// Save saves a plan
func (r *GormInstallmentPlanRepository) Save(ctx context.Context, plan *recurring.InstallmentPlan) error {
	model := models.InstallmentPlanModelFromDomain(plan)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a plan with optimistic locking (version check).
// Returns a concurrency error if the version has changed.
func (r *GormInstallmentPlanRepository) SaveWithLock(ctx context.Context, plan *recurring.InstallmentPlan) error {
	currentVersion := plan.Version
	plan.IncrementVersion()

	// Explicit column map so a cleared due_day is written as NULL
	// instead of skipped as a zero value.
	model := models.InstallmentPlanModelFromDomain(plan)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", plan.ID, currentVersion).
		Updates(map[string]interface{}{
			"wallet_id":              model.WalletID,
			"category_id":            model.CategoryID,
			"name":                   model.Name,
			"total_amount":           model.TotalAmount,
			"total_installments":     model.TotalInstallments,
			"amount_per_installment": model.AmountPerInstallment,
			"start_date":             model.StartDate,
			"due_day":                model.DueDay,
			"status":                 model.Status,
			"next_due_date":          model.NextDueDate,
			"version":                model.Version,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The installment plan record has been modified by another transaction")
	}
	return nil
}

// Delete deletes a plan by ID
func (r *GormInstallmentPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.InstallmentPlanModel{}, "id = ?", id).Error
}

// Ensure GormInstallmentPlanRepository implements InstallmentPlanRepository
var _ recurring.InstallmentPlanRepository = (*GormInstallmentPlanRepository)(nil)
