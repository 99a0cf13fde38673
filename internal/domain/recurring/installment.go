package recurring

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/walletly/backend/internal/domain/shared"
)

// InstallmentPlanStatus represents the lifecycle state of an installment plan
type InstallmentPlanStatus string

const (
	InstallmentPlanStatusActive    InstallmentPlanStatus = "ACTIVE"
	InstallmentPlanStatusPaused    InstallmentPlanStatus = "PAUSED"
	InstallmentPlanStatusCompleted InstallmentPlanStatus = "COMPLETED"
)

// IsValid checks if the status is a valid InstallmentPlanStatus
func (s InstallmentPlanStatus) IsValid() bool {
	switch s {
	case InstallmentPlanStatusActive, InstallmentPlanStatusPaused, InstallmentPlanStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of InstallmentPlanStatus
func (s InstallmentPlanStatus) String() string {
	return string(s)
}

// PaymentStatus represents the settlement state of a single installment payment
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "UNPAID"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusOverdue PaymentStatus = "OVERDUE"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPaid, PaymentStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// IsOpen reports whether the payment still counts against plan completion
func (s PaymentStatus) IsOpen() bool {
	return s == PaymentStatusUnpaid || s == PaymentStatusOverdue
}

// InstallmentPayment is one dated installment of a plan's schedule.
// Payment numbers are contiguous 1..TotalInstallments within a plan.
type InstallmentPayment struct {
	shared.BaseEntity
	PlanID        uuid.UUID        `json:"plan_id"`
	PaymentNumber int              `json:"payment_number"`
	Amount        decimal.Decimal  `json:"amount"`
	DueDate       time.Time        `json:"due_date"`
	Status        PaymentStatus    `json:"status"`
	PaidDate      *time.Time       `json:"paid_date,omitempty"`
	PaidAmount    *decimal.Decimal `json:"paid_amount,omitempty"`
	Notes         string           `json:"notes"`
}

// MarkPaid settles the payment. When paidAmount is nil the scheduled amount
// is used. Re-marking an already paid payment only refreshes the metadata;
// whether a ledger transaction gets posted is decided by the caller against
// the transaction back-reference, not this status.
func (p *InstallmentPayment) MarkPaid(paidDate time.Time, paidAmount *decimal.Decimal, notes string) error {
	amount := p.Amount
	if paidAmount != nil {
		if paidAmount.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_AMOUNT", "Paid amount must be positive")
		}
		amount = paidAmount.Round(2)
	}

	day := shared.DateOf(paidDate)
	p.Status = PaymentStatusPaid
	p.PaidDate = &day
	p.PaidAmount = &amount
	p.Notes = notes
	p.UpdatedAt = time.Now()
	return nil
}

// MarkOverdue flags an unpaid payment whose due date has passed. Calling it
// on a payment that is not unpaid is a no-op, which keeps the sweep
// idempotent.
func (p *InstallmentPayment) MarkOverdue() bool {
	if p.Status != PaymentStatusUnpaid {
		return false
	}
	p.Status = PaymentStatusOverdue
	p.UpdatedAt = time.Now()
	return true
}

// SettledAmount returns the amount actually paid, or zero if open
func (p *InstallmentPayment) SettledAmount() decimal.Decimal {
	if p.PaidAmount == nil {
		return decimal.Zero
	}
	return *p.PaidAmount
}

// InstallmentPlan represents an installment plan aggregate root. The plan
// owns its ordered payment schedule; the schedule is generated in full at
// creation and fully regenerated when start date or due day change.
type InstallmentPlan struct {
	shared.OwnedAggregateRoot
	WalletID             uuid.UUID             `json:"wallet_id"`
	CategoryID           uuid.UUID             `json:"category_id"`
	Name                 string                `json:"name"`
	TotalAmount          decimal.Decimal       `json:"total_amount"`
	TotalInstallments    int                   `json:"total_installments"`
	AmountPerInstallment decimal.Decimal       `json:"amount_per_installment"`
	StartDate            time.Time             `json:"start_date"`
	DueDay               *int                  `json:"due_day,omitempty"`
	Status               InstallmentPlanStatus `json:"status"`
	NextDueDate          time.Time             `json:"next_due_date"`
}

// NewInstallmentPlan creates a new active installment plan. The payment
// schedule is generated separately and persisted in the same atomic unit.
func NewInstallmentPlan(
	userID, walletID, categoryID uuid.UUID,
	name string,
	totalAmount decimal.Decimal,
	totalInstallments int,
	amountPerInstallment decimal.Decimal,
	startDate time.Time,
	dueDay *int,
) (*InstallmentPlan, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if walletID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WALLET", "Wallet ID cannot be empty")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Plan name cannot be empty")
	}
	if totalInstallments < 2 {
		return nil, shared.NewDomainError("INVALID_INSTALLMENTS", "Total installments must be at least 2")
	}
	if totalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total amount must be positive")
	}
	if amountPerInstallment.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount per installment must be positive")
	}
	if dueDay != nil && (*dueDay < 1 || *dueDay > 31) {
		return nil, shared.NewDomainError("INVALID_DUE_DAY", "Due day must be between 1 and 31")
	}

	return &InstallmentPlan{
		OwnedAggregateRoot:   shared.NewOwnedAggregateRoot(userID),
		WalletID:             walletID,
		CategoryID:           categoryID,
		Name:                 name,
		TotalAmount:          totalAmount.Round(2),
		TotalInstallments:    totalInstallments,
		AmountPerInstallment: amountPerInstallment.Round(2),
		StartDate:            shared.DateOf(startDate),
		DueDay:               dueDay,
		Status:               InstallmentPlanStatusActive,
	}, nil
}

// ChangeSchedule applies a new start date and due day. Callers must
// regenerate the payment schedule afterwards; the old schedule, including
// any paid or overdue history, is discarded.
func (p *InstallmentPlan) ChangeSchedule(startDate time.Time, dueDay *int) error {
	if p.Status == InstallmentPlanStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Cannot reschedule a completed plan")
	}
	if dueDay != nil && (*dueDay < 1 || *dueDay > 31) {
		return shared.NewDomainError("INVALID_DUE_DAY", "Due day must be between 1 and 31")
	}
	p.StartDate = shared.DateOf(startDate)
	p.DueDay = dueDay
	p.UpdatedAt = time.Now()
	return nil
}

// ScheduleApplied records the freshly generated schedule's first due date
func (p *InstallmentPlan) ScheduleApplied(firstDueDate time.Time) {
	p.NextDueDate = firstDueDate
	p.UpdatedAt = time.Now()
}

// Pause freezes the plan; NextDueDate is left untouched
func (p *InstallmentPlan) Pause() error {
	if p.Status != InstallmentPlanStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active plans can be paused")
	}
	p.Status = InstallmentPlanStatusPaused
	p.UpdatedAt = time.Now()
	return nil
}

// Resume reactivates a paused plan, recomputing NextDueDate from the
// original start date anchor.
func (p *InstallmentPlan) Resume(now time.Time) error {
	if p.Status != InstallmentPlanStatusPaused {
		return shared.NewDomainError("INVALID_STATE", "Only paused plans can be resumed")
	}

	next, err := NextOccurrence(FrequencyMonthly, p.StartDate, p.DueDay, now)
	if err != nil {
		return err
	}

	p.Status = InstallmentPlanStatusActive
	p.NextDueDate = next
	p.UpdatedAt = time.Now()
	return nil
}

// SettlementRecorded advances the plan after a payment settles. The plan
// completes exactly when no payment remains unpaid or overdue.
func (p *InstallmentPlan) SettlementRecorded(openPayments int, nextOpenDue *time.Time) {
	if openPayments == 0 {
		p.Status = InstallmentPlanStatusCompleted
	} else if nextOpenDue != nil {
		p.NextDueDate = *nextOpenDue
	}
	p.UpdatedAt = time.Now()
}
