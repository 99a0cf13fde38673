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

// GormInstallmentPaymentRepository implements InstallmentPaymentRepository using GORM
type GormInstallmentPaymentRepository struct {
	db *gorm.DB
}

// NewGormInstallmentPaymentRepository creates a new GormInstallmentPaymentRepository
func NewGormInstallmentPaymentRepository(db *gorm.DB) *GormInstallmentPaymentRepository {
	return &GormInstallmentPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormInstallmentPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*recurring.InstallmentPayment, error) {
	var model models.InstallmentPaymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPlanID finds a plan's full schedule ordered by payment number
func (r *GormInstallmentPaymentRepository) FindByPlanID(ctx context.Context, planID uuid.UUID) ([]recurring.InstallmentPayment, error) {
	var paymentModels []models.InstallmentPaymentModel
	if err := r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("payment_number ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(paymentModels), nil
}

// FindDueUnpaid finds unpaid payments of active plans with a due date on or
// before today.
func (r *GormInstallmentPaymentRepository) FindDueUnpaid(ctx context.Context, today time.Time) ([]recurring.InstallmentPayment, error) {
	var paymentModels []models.InstallmentPaymentModel
	if err := r.db.WithContext(ctx).
		Joins("JOIN installment_plans ON installment_plans.id = installment_payments.plan_id").
		Where("installment_payments.status = ? AND installment_payments.due_date <= ? AND installment_plans.status = ?",
			recurring.PaymentStatusUnpaid, today, recurring.InstallmentPlanStatusActive).
		Order("installment_payments.due_date ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(paymentModels), nil
}

// CreateBatch inserts a full payment schedule in one statement
func (r *GormInstallmentPaymentRepository) CreateBatch(ctx context.Context, payments []recurring.InstallmentPayment) error {
	if len(payments) == 0 {
		return nil
	}
	paymentModels := make([]models.InstallmentPaymentModel, len(payments))
	for i := range payments {
		paymentModels[i] = *models.InstallmentPaymentModelFromDomain(&payments[i])
	}
	return r.db.WithContext(ctx).Create(&paymentModels).Error
}

// Save saves a payment
func (r *GormInstallmentPaymentRepository) Save(ctx context.Context, payment *recurring.InstallmentPayment) error {
	model := models.InstallmentPaymentModelFromDomain(payment)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteByPlanID deletes a plan's whole schedule
func (r *GormInstallmentPaymentRepository) DeleteByPlanID(ctx context.Context, planID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.InstallmentPaymentModel{}, "plan_id = ?", planID).Error
}

// CountOpenByPlanID counts payments still unpaid or overdue
func (r *GormInstallmentPaymentRepository) CountOpenByPlanID(ctx context.Context, planID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InstallmentPaymentModel{}).
		Where("plan_id = ? AND status IN ?", planID,
			[]recurring.PaymentStatus{recurring.PaymentStatusUnpaid, recurring.PaymentStatusOverdue}).
		Count(&count).Error
	return count, err
}

// NextOpenDueDate returns the earliest due date among open payments, or nil
// when none remain.
func (r *GormInstallmentPaymentRepository) NextOpenDueDate(ctx context.Context, planID uuid.UUID) (*time.Time, error) {
	var model models.InstallmentPaymentModel
	err := r.db.WithContext(ctx).
		Where("plan_id = ? AND status IN ?", planID,
			[]recurring.PaymentStatus{recurring.PaymentStatusUnpaid, recurring.PaymentStatusOverdue}).
		Order("due_date ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &model.DueDate, nil
}

// MarkOverdueBefore flips unpaid payments with a due date strictly before
// today to overdue. Single statement; rows already overdue or paid are
// untouched, so re-running converges.
func (r *GormInstallmentPaymentRepository) MarkOverdueBefore(ctx context.Context, today time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.InstallmentPaymentModel{}).
		Where("status = ? AND due_date < ?", recurring.PaymentStatusUnpaid, today).
		Updates(map[string]interface{}{
			"status":     recurring.PaymentStatusOverdue,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func toDomainPayments(paymentModels []models.InstallmentPaymentModel) []recurring.InstallmentPayment {
	payments := make([]recurring.InstallmentPayment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = *model.ToDomain()
	}
	return payments
}

// Ensure GormInstallmentPaymentRepository implements InstallmentPaymentRepository
var _ recurring.InstallmentPaymentRepository = (*GormInstallmentPaymentRepository)(nil)
