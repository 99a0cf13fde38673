package recurring

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/walletly/backend/internal/domain/shared"
)

// SubscriptionRepository defines the persistence contract for subscriptions
type SubscriptionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Subscription, error)
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Subscription, error)
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Subscription, error)
	// FindDue returns active subscriptions whose next due date is on or
	// before today. Read-only; feeds the scheduled processing loop.
	FindDue(ctx context.Context, today time.Time) ([]Subscription, error)
	Save(ctx context.Context, subscription *Subscription) error
	SaveWithLock(ctx context.Context, subscription *Subscription) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountForWallet(ctx context.Context, walletID uuid.UUID) (int64, error)
}

// InstallmentPlanRepository defines the persistence contract for plans
type InstallmentPlanRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InstallmentPlan, error)
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*InstallmentPlan, error)
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]InstallmentPlan, error)
	Save(ctx context.Context, plan *InstallmentPlan) error
	SaveWithLock(ctx context.Context, plan *InstallmentPlan) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// InstallmentPaymentRepository defines the persistence contract for the
// payment schedules owned by installment plans.
type InstallmentPaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InstallmentPayment, error)
	FindByPlanID(ctx context.Context, planID uuid.UUID) ([]InstallmentPayment, error)
	// FindDueUnpaid returns unpaid payments of active plans whose due date
	// is on or before today.
	FindDueUnpaid(ctx context.Context, today time.Time) ([]InstallmentPayment, error)
	CreateBatch(ctx context.Context, payments []InstallmentPayment) error
	Save(ctx context.Context, payment *InstallmentPayment) error
	// DeleteByPlanID removes a plan's whole schedule; used for explicit
	// cascade on plan deletion and destructive regeneration on update.
	DeleteByPlanID(ctx context.Context, planID uuid.UUID) error
	// CountOpenByPlanID counts payments still unpaid or overdue
	CountOpenByPlanID(ctx context.Context, planID uuid.UUID) (int64, error)
	// NextOpenDueDate returns the earliest due date among open payments,
	// or nil when none remain.
	NextOpenDueDate(ctx context.Context, planID uuid.UUID) (*time.Time, error)
	// MarkOverdueBefore flips unpaid payments with due date strictly before
	// today to overdue in a single statement and reports how many rows
	// changed. Already overdue rows are untouched, so re-running is a no-op.
	MarkOverdueBefore(ctx context.Context, today time.Time) (int64, error)
}
