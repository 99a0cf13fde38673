package recurring

import (
	"fmt"
	"time"

	"github.com/walletly/backend/internal/domain/shared"
)

// GeneratePayments builds the full payment schedule for an installment plan.
//
// Payment i (1-indexed) is due on the plan's start date advanced by i-1
// months, with the day of month clamped to min(due day, days in that month).
// If day clamping lands the first computed date before the start date, the
// whole schedule shifts forward one month so every due date stays on or
// after the start date and the dates remain strictly increasing.
//
// Every payment is created unpaid with the plan's per-installment amount.
// The last payment is not adjusted for a rounding remainder between
// TotalAmount and AmountPerInstallment x TotalInstallments; callers are
// expected to supply an exact per-installment amount.
func GeneratePayments(plan *InstallmentPlan) ([]InstallmentPayment, error) {
	if plan == nil {
		return nil, shared.NewDomainError("INVALID_PLAN", "Plan cannot be nil")
	}
	if plan.TotalInstallments < 2 {
		return nil, shared.NewDomainError("INVALID_INSTALLMENTS", "Total installments must be at least 2")
	}

	start := shared.DateOf(plan.StartDate)
	day := start.Day()
	if plan.DueDay != nil {
		day = *plan.DueDay
	}

	// One forward push is the most clamping can require; anything further
	// means the date math itself is broken.
	offset := 0
	first := dueDateAt(start, day, 0)
	if first.Before(start) {
		offset = 1
		first = dueDateAt(start, day, offset)
		if first.Before(start) {
			return nil, shared.NewDomainError("INVARIANT_VIOLATION",
				fmt.Sprintf("Schedule generation produced due date %s before start date %s after forward push",
					first.Format("2006-01-02"), start.Format("2006-01-02")))
		}
	}

	payments := make([]InstallmentPayment, 0, plan.TotalInstallments)
	for i := 1; i <= plan.TotalInstallments; i++ {
		payments = append(payments, InstallmentPayment{
			BaseEntity:    shared.NewBaseEntity(),
			PlanID:        plan.ID,
			PaymentNumber: i,
			Amount:        plan.AmountPerInstallment,
			DueDate:       dueDateAt(start, day, i-1+offset),
			Status:        PaymentStatusUnpaid,
		})
	}

	return payments, nil
}

// dueDateAt computes the clamped due date the given number of months after
// the start date's month.
func dueDateAt(start time.Time, day, monthsAhead int) time.Time {
	year, month := start.Year(), start.Month()
	for i := 0; i < monthsAhead; i++ {
		year, month = followingMonth(year, month)
	}
	return time.Date(year, month, clampDay(day, year, month), 0, 0, 0, 0, start.Location())
}
