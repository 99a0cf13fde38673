package recurring

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/walletly/backend/internal/domain/ledger"
	"github.com/walletly/backend/internal/domain/recurring"
	"github.com/walletly/backend/internal/domain/shared"
)

// InstallmentService handles the installment plan lifecycle: creation with
// schedule generation, destructive rescheduling, pause/resume, deletion,
// and manual payment settlement.
type InstallmentService struct {
	scope      TransactionScope
	plans      recurring.InstallmentPlanRepository
	payments   recurring.InstallmentPaymentRepository
	wallets    ledger.WalletRepository
	categories ledger.CategoryRepository
	clock      shared.Clock
}

// NewInstallmentService creates a new InstallmentService
func NewInstallmentService(
	scope TransactionScope,
	plans recurring.InstallmentPlanRepository,
	payments recurring.InstallmentPaymentRepository,
	wallets ledger.WalletRepository,
	categories ledger.CategoryRepository,
	clock shared.Clock,
) *InstallmentService {
	return &InstallmentService{
		scope:      scope,
		plans:      plans,
		payments:   payments,
		wallets:    wallets,
		categories: categories,
		clock:      clock,
	}
}

// Create validates the input, generates the full payment schedule, and
// persists the plan together with every payment in one transaction. A plan
// is never visible without its schedule.
func (s *InstallmentService) Create(ctx context.Context, input CreateInstallmentInput) (*recurring.InstallmentPlan, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := checkReferences(ctx, s.wallets, s.categories, input.UserID, input.WalletID, input.CategoryID); err != nil {
		return nil, err
	}

	plan, err := recurring.NewInstallmentPlan(
		input.UserID, input.WalletID, input.CategoryID,
		input.Name, input.TotalAmount, input.TotalInstallments, input.AmountPerInstallment,
		input.StartDate, input.DueDay,
	)
	if err != nil {
		return nil, err
	}

	payments, err := recurring.GeneratePayments(plan)
	if err != nil {
		return nil, err
	}
	plan.ScheduleApplied(payments[0].DueDate)

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Plans().Save(ctx, plan); err != nil {
			return fmt.Errorf("failed to save plan: %w", err)
		}
		if err := repos.Payments().CreateBatch(ctx, payments); err != nil {
			return fmt.Errorf("failed to save payment schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return plan, nil
}

// Update applies field changes to a plan. A change to the start date or due
// day discards the existing schedule, paid history included, and generates
// a fresh one; old rows and new rows swap in the same transaction.
func (s *InstallmentService) Update(ctx context.Context, userID, planID uuid.UUID, input UpdateInstallmentInput) (*recurring.InstallmentPlan, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	plan, err := s.plans.FindByIDForUser(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		exists, err := s.categories.Exists(ctx, *input.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("failed to check category: %w", err)
		}
		if !exists {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
		plan.CategoryID = *input.CategoryID
	}
	if input.Name != nil {
		plan.Name = *input.Name
	}

	if !input.ScheduleChanged() {
		if err := s.plans.SaveWithLock(ctx, plan); err != nil {
			return nil, fmt.Errorf("failed to save plan: %w", err)
		}
		return plan, nil
	}

	startDate := plan.StartDate
	if input.StartDate != nil {
		startDate = *input.StartDate
	}
	dueDay := plan.DueDay
	if input.ClearDue {
		dueDay = nil
	} else if input.DueDay != nil {
		dueDay = input.DueDay
	}
	if err := plan.ChangeSchedule(startDate, dueDay); err != nil {
		return nil, err
	}

	payments, err := recurring.GeneratePayments(plan)
	if err != nil {
		return nil, err
	}
	plan.ScheduleApplied(payments[0].DueDate)

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		// Transactions referencing the old payments go first, same
		// order as Delete, or the payment rows cannot be removed.
		if err := repos.Transactions().DeleteByInstallmentPlanID(ctx, plan.ID); err != nil {
			return fmt.Errorf("failed to delete plan transactions: %w", err)
		}
		if err := repos.Payments().DeleteByPlanID(ctx, plan.ID); err != nil {
			return fmt.Errorf("failed to discard old schedule: %w", err)
		}
		if err := repos.Payments().CreateBatch(ctx, payments); err != nil {
			return fmt.Errorf("failed to save payment schedule: %w", err)
		}
		if err := repos.Plans().SaveWithLock(ctx, plan); err != nil {
			return fmt.Errorf("failed to save plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return plan, nil
}

// Pause freezes an active plan
func (s *InstallmentService) Pause(ctx context.Context, userID, planID uuid.UUID) error {
	plan, err := s.plans.FindByIDForUser(ctx, userID, planID)
	if err != nil {
		return err
	}
	if err := plan.Pause(); err != nil {
		return err
	}
	if err := s.plans.SaveWithLock(ctx, plan); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

// Resume reactivates a paused plan, recomputing its next due date from the
// original start date anchor.
func (s *InstallmentService) Resume(ctx context.Context, userID, planID uuid.UUID) error {
	plan, err := s.plans.FindByIDForUser(ctx, userID, planID)
	if err != nil {
		return err
	}
	if err := plan.Resume(s.clock.Now()); err != nil {
		return err
	}
	if err := s.plans.SaveWithLock(ctx, plan); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

// Delete removes a plan with its payments and the transactions those
// payments posted. The cascade is explicit and runs in one transaction,
// children before parent.
func (s *InstallmentService) Delete(ctx context.Context, userID, planID uuid.UUID) error {
	plan, err := s.plans.FindByIDForUser(ctx, userID, planID)
	if err != nil {
		return err
	}

	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Transactions().DeleteByInstallmentPlanID(ctx, plan.ID); err != nil {
			return fmt.Errorf("failed to delete plan transactions: %w", err)
		}
		if err := repos.Payments().DeleteByPlanID(ctx, plan.ID); err != nil {
			return fmt.Errorf("failed to delete payment schedule: %w", err)
		}
		if err := repos.Plans().Delete(ctx, plan.ID); err != nil {
			return fmt.Errorf("failed to delete plan: %w", err)
		}
		return nil
	})
}

// MarkPaymentPaid settles one installment payment: it marks the payment
// paid, posts the expense transaction, applies the balance delta, and
// advances or completes the plan, all in one transaction. Whether the
// expense has already been posted is decided by transaction existence, not
// payment status, so re-marking a paid payment refreshes its metadata
// without touching the wallet twice.
func (s *InstallmentService) MarkPaymentPaid(ctx context.Context, input MarkPaymentPaidInput) error {
	if err := validateInput(input); err != nil {
		return err
	}
	today := shared.DateOf(s.clock.Now())

	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		payment, err := repos.Payments().FindByID(ctx, input.PaymentID)
		if err != nil {
			return err
		}
		plan, err := repos.Plans().FindByID(ctx, payment.PlanID)
		if err != nil {
			return err
		}
		if plan.UserID != input.UserID {
			return shared.ErrNotFound
		}

		paidDate := today
		if input.PaidDate != nil {
			paidDate = shared.DateOf(*input.PaidDate)
		}
		if err := payment.MarkPaid(paidDate, input.PaidAmount, input.Notes); err != nil {
			return err
		}
		if err := repos.Payments().Save(ctx, payment); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}

		posted, err := repos.Transactions().ExistsForPayment(ctx, payment.ID)
		if err != nil {
			return fmt.Errorf("failed to check for posted transaction: %w", err)
		}
		if !posted {
			transaction, err := ledger.NewInstallmentExpense(
				plan.UserID,
				plan.WalletID,
				plan.CategoryID,
				payment.ID,
				payment.SettledAmount(),
				paidDate,
				fmt.Sprintf("%s (%d/%d)", plan.Name, payment.PaymentNumber, plan.TotalInstallments),
			)
			if err != nil {
				return err
			}
			if err := repos.Transactions().Create(ctx, transaction); err != nil {
				return fmt.Errorf("failed to post transaction: %w", err)
			}
			if err := repos.Wallets().ApplyBalanceDelta(ctx, plan.WalletID, transaction.BalanceDelta()); err != nil {
				return fmt.Errorf("failed to apply balance delta: %w", err)
			}
		}

		open, err := repos.Payments().CountOpenByPlanID(ctx, plan.ID)
		if err != nil {
			return fmt.Errorf("failed to count open payments: %w", err)
		}
		nextOpenDue, err := repos.Payments().NextOpenDueDate(ctx, plan.ID)
		if err != nil {
			return fmt.Errorf("failed to find next open due date: %w", err)
		}
		plan.SettlementRecorded(int(open), nextOpenDue)
		if err := repos.Plans().SaveWithLock(ctx, plan); err != nil {
			return fmt.Errorf("failed to save plan: %w", err)
		}
		return nil
	})
}
