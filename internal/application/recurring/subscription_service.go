package recurring

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/walletly/backend/internal/domain/ledger"
	"github.com/walletly/backend/internal/domain/recurring"
	"github.com/walletly/backend/internal/domain/shared"
)

// SubscriptionService handles the recurring subscription lifecycle:
// creation, updates, pause/resume, deletion, and the scheduled firing of
// due occurrences.
type SubscriptionService struct {
	scope         TransactionScope
	subscriptions recurring.SubscriptionRepository
	wallets       ledger.WalletRepository
	categories    ledger.CategoryRepository
	clock         shared.Clock
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(
	scope TransactionScope,
	subscriptions recurring.SubscriptionRepository,
	wallets ledger.WalletRepository,
	categories ledger.CategoryRepository,
	clock shared.Clock,
) *SubscriptionService {
	return &SubscriptionService{
		scope:         scope,
		subscriptions: subscriptions,
		wallets:       wallets,
		categories:    categories,
		clock:         clock,
	}
}

// Create validates the input and persists a new subscription with its
// initial next due date computed from the start date.
func (s *SubscriptionService) Create(ctx context.Context, input CreateSubscriptionInput) (*recurring.Subscription, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := checkReferences(ctx, s.wallets, s.categories, input.UserID, input.WalletID, input.CategoryID); err != nil {
		return nil, err
	}

	subscription, err := recurring.NewSubscription(
		input.UserID, input.WalletID, input.CategoryID,
		input.Name, input.Amount,
		input.Frequency, input.StartDate, input.EndDate, input.DueDay,
		s.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.subscriptions.Save(ctx, subscription); err != nil {
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}

	return subscription, nil
}

// Update applies field changes to a subscription. Schedule-affecting
// changes recompute the next due date from the (possibly new) anchor.
func (s *SubscriptionService) Update(ctx context.Context, userID, subscriptionID uuid.UUID, input UpdateSubscriptionInput) (*recurring.Subscription, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	subscription, err := s.subscriptions.FindByIDForUser(ctx, userID, subscriptionID)
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
		subscription.CategoryID = *input.CategoryID
	}
	if input.Name != nil {
		if err := subscription.Rename(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Amount != nil {
		if err := subscription.ChangeAmount(*input.Amount); err != nil {
			return nil, err
		}
	}

	if input.ScheduleChanged() {
		frequency := subscription.Frequency
		if input.Frequency != nil {
			frequency = *input.Frequency
		}
		startDate := subscription.StartDate
		if input.StartDate != nil {
			startDate = *input.StartDate
		}
		endDate := subscription.EndDate
		if input.ClearEnd {
			endDate = nil
		} else if input.EndDate != nil {
			endDate = input.EndDate
		}
		dueDay := subscription.DueDay
		if input.ClearDue {
			dueDay = nil
		} else if input.DueDay != nil {
			dueDay = input.DueDay
		}

		if err := subscription.Reschedule(frequency, startDate, endDate, dueDay, s.clock.Now()); err != nil {
			return nil, err
		}
	}

	if err := s.subscriptions.SaveWithLock(ctx, subscription); err != nil {
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}

	return subscription, nil
}

// Pause freezes an active subscription
func (s *SubscriptionService) Pause(ctx context.Context, userID, subscriptionID uuid.UUID) error {
	subscription, err := s.subscriptions.FindByIDForUser(ctx, userID, subscriptionID)
	if err != nil {
		return err
	}
	if err := subscription.Pause(); err != nil {
		return err
	}
	if err := s.subscriptions.SaveWithLock(ctx, subscription); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	return nil
}

// Resume reactivates a paused subscription, recomputing its next due date
// from the original anchor.
func (s *SubscriptionService) Resume(ctx context.Context, userID, subscriptionID uuid.UUID) error {
	subscription, err := s.subscriptions.FindByIDForUser(ctx, userID, subscriptionID)
	if err != nil {
		return err
	}
	if err := subscription.Resume(s.clock.Now()); err != nil {
		return err
	}
	if err := s.subscriptions.SaveWithLock(ctx, subscription); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	return nil
}

// Delete removes a subscription together with the transactions it posted.
// The cascade is explicit and runs in one transaction.
func (s *SubscriptionService) Delete(ctx context.Context, userID, subscriptionID uuid.UUID) error {
	subscription, err := s.subscriptions.FindByIDForUser(ctx, userID, subscriptionID)
	if err != nil {
		return err
	}

	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Transactions().DeleteBySubscriptionID(ctx, subscription.ID); err != nil {
			return fmt.Errorf("failed to delete subscription transactions: %w", err)
		}
		if err := repos.Subscriptions().Delete(ctx, subscription.ID); err != nil {
			return fmt.Errorf("failed to delete subscription: %w", err)
		}
		return nil
	})
}

// ProcessDueOccurrence fires one due occurrence of a subscription: it posts
// the expense transaction, applies the balance delta to the wallet, and
// advances (or ends) the subscription. All steps commit or roll back as one
// unit. The subscription is re-read inside the transaction so a concurrent
// worker that already fired it turns this call into a NOT_DUE error instead
// of a double posting.
func (s *SubscriptionService) ProcessDueOccurrence(ctx context.Context, subscriptionID uuid.UUID) error {
	today := shared.DateOf(s.clock.Now())

	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		subscription, err := repos.Subscriptions().FindByID(ctx, subscriptionID)
		if err != nil {
			return err
		}
		if !subscription.IsDue(today) {
			return shared.NewDomainError("NOT_DUE", "Subscription has no due occurrence")
		}

		transaction, err := ledger.NewSubscriptionExpense(
			subscription.UserID,
			subscription.WalletID,
			subscription.CategoryID,
			subscription.ID,
			subscription.Amount,
			today,
			fmt.Sprintf("Subscription: %s", subscription.Name),
		)
		if err != nil {
			return err
		}
		if err := repos.Transactions().Create(ctx, transaction); err != nil {
			return fmt.Errorf("failed to post transaction: %w", err)
		}
		if err := repos.Wallets().ApplyBalanceDelta(ctx, subscription.WalletID, transaction.BalanceDelta()); err != nil {
			return fmt.Errorf("failed to apply balance delta: %w", err)
		}

		// The fired due date is the anchor for the advance; tomorrow as
		// "now" pushes the result strictly past today.
		candidate, err := recurring.NextOccurrence(
			subscription.Frequency,
			subscription.NextDueDate,
			subscription.DueDay,
			today.AddDate(0, 0, 1),
		)
		if err != nil {
			return err
		}
		if err := subscription.AdvanceAfterOccurrence(candidate, today); err != nil {
			return err
		}
		if err := repos.Subscriptions().SaveWithLock(ctx, subscription); err != nil {
			return fmt.Errorf("failed to save subscription: %w", err)
		}
		return nil
	})
}
