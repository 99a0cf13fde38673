package recurring

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/walletly/backend/internal/domain/recurring"
	"github.com/walletly/backend/internal/domain/shared"
)

var validate = validator.New()

// validateInput runs struct-tag validation and converts failures into
// domain errors so callers see the same taxonomy everywhere.
func validateInput(input interface{}) error {
	if err := validate.Struct(input); err != nil {
		return shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	return nil
}

// CreateSubscriptionInput carries the fields to create a subscription
type CreateSubscriptionInput struct {
	UserID     uuid.UUID           `validate:"required"`
	WalletID   uuid.UUID           `validate:"required"`
	CategoryID uuid.UUID           `validate:"required"`
	Name       string              `validate:"required,max=100"`
	Amount     decimal.Decimal     `validate:"-"`
	Frequency  recurring.Frequency `validate:"required"`
	StartDate  time.Time           `validate:"required"`
	EndDate    *time.Time
	DueDay     *int `validate:"omitempty,min=1,max=31"`
}

// UpdateSubscriptionInput carries partial subscription changes. Nil fields
// are left untouched. Changing any schedule field (frequency, start date,
// end date, due day) recomputes the next due date from the new anchor.
type UpdateSubscriptionInput struct {
	Name       *string `validate:"omitempty,min=1,max=100"`
	Amount     *decimal.Decimal
	Frequency  *recurring.Frequency
	StartDate  *time.Time
	EndDate    *time.Time
	ClearEnd   bool
	DueDay     *int `validate:"omitempty,min=1,max=31"`
	ClearDue   bool
	CategoryID *uuid.UUID
}

// ScheduleChanged reports whether any schedule-affecting field is present
func (i UpdateSubscriptionInput) ScheduleChanged() bool {
	return i.Frequency != nil || i.StartDate != nil || i.EndDate != nil || i.ClearEnd || i.DueDay != nil || i.ClearDue
}

// CreateInstallmentInput carries the fields to create an installment plan.
// AmountPerInstallment is taken as supplied: no reconciliation against
// TotalAmount is performed, so an inexact division leaves the remainder
// unabsorbed.
type CreateInstallmentInput struct {
	UserID               uuid.UUID `validate:"required"`
	WalletID             uuid.UUID `validate:"required"`
	CategoryID           uuid.UUID `validate:"required"`
	Name                 string    `validate:"required,max=100"`
	TotalAmount          decimal.Decimal
	TotalInstallments    int `validate:"min=2"`
	AmountPerInstallment decimal.Decimal
	StartDate            time.Time `validate:"required"`
	DueDay               *int      `validate:"omitempty,min=1,max=31"`
}

// UpdateInstallmentInput carries partial plan changes. A change to
// StartDate or DueDay discards and fully regenerates the payment schedule,
// including any paid or overdue history.
type UpdateInstallmentInput struct {
	Name       *string `validate:"omitempty,min=1,max=100"`
	CategoryID *uuid.UUID
	StartDate  *time.Time
	DueDay     *int `validate:"omitempty,min=1,max=31"`
	ClearDue   bool
}

// ScheduleChanged reports whether the payment schedule must be regenerated
func (i UpdateInstallmentInput) ScheduleChanged() bool {
	return i.StartDate != nil || i.DueDay != nil || i.ClearDue
}

// MarkPaymentPaidInput carries a manual installment settlement
type MarkPaymentPaidInput struct {
	UserID     uuid.UUID `validate:"required"`
	PaymentID  uuid.UUID `validate:"required"`
	PaidDate   *time.Time
	PaidAmount *decimal.Decimal
	Notes      string `validate:"max=500"`
}
