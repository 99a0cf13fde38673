package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/walletly/backend/internal/domain/ledger"
	"github.com/walletly/backend/internal/domain/shared"
	"github.com/walletly/backend/internal/infrastructure/persistence/models"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForUser finds all categories owned by the given user
func (r *GormCategoryRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]ledger.Category, error) {
	var categoryModels []models.CategoryModel
	query := r.db.WithContext(ctx).Model(&models.CategoryModel{}).Where("user_id = ?", userID)
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if kind, ok := filter.Filters["kind"]; ok {
		query = query.Where("kind = ?", kind)
	}
	query = query.Order("name ASC")

	if err := query.Find(&categoryModels).Error; err != nil {
		return nil, err
	}

	categories := make([]ledger.Category, len(categoryModels))
	for i, model := range categoryModels {
		categories[i] = *model.ToDomain()
	}
	return categories, nil
}

// Exists reports whether a category with the given ID exists
func (r *GormCategoryRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save saves a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *ledger.Category) error {
	model := models.CategoryModelFromDomain(category)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a category by ID
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CategoryModel{}, "id = ?", id).Error
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ ledger.CategoryRepository = (*GormCategoryRepository)(nil)
