package recurring

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/walletly/backend/internal/domain/shared"
)

// SubscriptionStatus represents the lifecycle state of a subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive SubscriptionStatus = "ACTIVE"
	SubscriptionStatusPaused SubscriptionStatus = "PAUSED"
	SubscriptionStatusEnded  SubscriptionStatus = "ENDED"
)

// IsValid checks if the status is a valid SubscriptionStatus
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusPaused, SubscriptionStatusEnded:
		return true
	}
	return false
}

// String returns the string representation of SubscriptionStatus
func (s SubscriptionStatus) String() string {
	return string(s)
}

// Subscription represents a recurring subscription aggregate root. Each
// scheduled firing posts an expense against the wallet and advances
// NextDueDate; the original StartDate stays fixed as the anchor for all
// recurrence math.
type Subscription struct {
	shared.OwnedAggregateRoot
	WalletID            uuid.UUID          `json:"wallet_id"`
	CategoryID          uuid.UUID          `json:"category_id"`
	Name                string             `json:"name"`
	Amount              decimal.Decimal    `json:"amount"`
	Frequency           Frequency          `json:"frequency"`
	StartDate           time.Time          `json:"start_date"`
	EndDate             *time.Time         `json:"end_date,omitempty"`
	DueDay              *int               `json:"due_day,omitempty"`
	Status              SubscriptionStatus `json:"status"`
	NextDueDate         time.Time          `json:"next_due_date"`
	LastTransactionDate *time.Time         `json:"last_transaction_date,omitempty"`
}

// NewSubscription creates a new active subscription with its initial
// NextDueDate computed from the start date anchor.
func NewSubscription(
	userID, walletID, categoryID uuid.UUID,
	name string,
	amount decimal.Decimal,
	frequency Frequency,
	startDate time.Time,
	endDate *time.Time,
	dueDay *int,
	now time.Time,
) (*Subscription, error) {
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
		return nil, shared.NewDomainError("INVALID_NAME", "Subscription name cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Subscription amount must be positive")
	}
	if err := validateSchedule(frequency, startDate, endDate, dueDay); err != nil {
		return nil, err
	}

	next, err := NextOccurrence(frequency, startDate, dueDay, now)
	if err != nil {
		return nil, err
	}

	return &Subscription{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		WalletID:           walletID,
		CategoryID:         categoryID,
		Name:               name,
		Amount:             amount.Round(2),
		Frequency:          frequency,
		StartDate:          shared.DateOf(startDate),
		EndDate:            endDate,
		DueDay:             dueDay,
		Status:             SubscriptionStatusActive,
		NextDueDate:        next,
	}, nil
}

// validateSchedule checks frequency/date/due-day consistency shared by
// creation and rescheduling.
func validateSchedule(frequency Frequency, startDate time.Time, endDate *time.Time, dueDay *int) error {
	if !frequency.IsValid() {
		return shared.NewDomainError("INVALID_FREQUENCY", "Frequency is not valid")
	}
	if dueDay != nil {
		if frequency != FrequencyMonthly {
			return shared.NewDomainError("INVALID_DUE_DAY", "Due day is only valid for monthly frequency")
		}
		if *dueDay < 1 || *dueDay > 31 {
			return shared.NewDomainError("INVALID_DUE_DAY", "Due day must be between 1 and 31")
		}
	}
	if endDate != nil && endDate.Before(startDate) {
		return shared.NewDomainError("INVALID_END_DATE", "End date cannot precede start date")
	}
	return nil
}

// Rename updates the display name and amount-independent metadata
func (s *Subscription) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Subscription name cannot be empty")
	}
	s.Name = name
	s.UpdatedAt = time.Now()
	return nil
}

// ChangeAmount updates the per-occurrence amount
func (s *Subscription) ChangeAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Subscription amount must be positive")
	}
	s.Amount = amount.Round(2)
	s.UpdatedAt = time.Now()
	return nil
}

// Reschedule applies schedule-affecting changes and recomputes NextDueDate
// from the new anchor.
func (s *Subscription) Reschedule(frequency Frequency, startDate time.Time, endDate *time.Time, dueDay *int, now time.Time) error {
	if s.Status == SubscriptionStatusEnded {
		return shared.NewDomainError("INVALID_STATE", "Cannot reschedule an ended subscription")
	}
	if err := validateSchedule(frequency, startDate, endDate, dueDay); err != nil {
		return err
	}

	next, err := NextOccurrence(frequency, startDate, dueDay, now)
	if err != nil {
		return err
	}

	s.Frequency = frequency
	s.StartDate = shared.DateOf(startDate)
	s.EndDate = endDate
	s.DueDay = dueDay
	s.NextDueDate = next
	s.UpdatedAt = time.Now()
	return nil
}

// Pause freezes the subscription. NextDueDate is left untouched; Resume
// recomputes it from the original anchor, so occurrences skipped while
// paused are never fired retroactively.
func (s *Subscription) Pause() error {
	if s.Status != SubscriptionStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active subscriptions can be paused")
	}
	s.Status = SubscriptionStatusPaused
	s.UpdatedAt = time.Now()
	return nil
}

// Resume reactivates a paused subscription. The next due date is recomputed
// from the original StartDate/DueDay anchor, not from the frozen NextDueDate.
func (s *Subscription) Resume(now time.Time) error {
	if s.Status != SubscriptionStatusPaused {
		return shared.NewDomainError("INVALID_STATE", "Only paused subscriptions can be resumed")
	}

	next, err := NextOccurrence(s.Frequency, s.StartDate, s.DueDay, now)
	if err != nil {
		return err
	}

	if s.EndDate != nil && next.After(*s.EndDate) {
		s.Status = SubscriptionStatusEnded
	} else {
		s.Status = SubscriptionStatusActive
	}
	s.NextDueDate = next
	s.UpdatedAt = time.Now()
	return nil
}

// IsDue reports whether the subscription should fire on the given day
func (s *Subscription) IsDue(today time.Time) bool {
	return s.Status == SubscriptionStatusActive && !s.NextDueDate.After(shared.DateOf(today))
}

// AdvanceAfterOccurrence moves the subscription past a fired occurrence.
// When the candidate next date exceeds the end date the subscription ends;
// the candidate is still recorded but the due-date scan excludes non-active
// items, so an ended subscription stops firing.
func (s *Subscription) AdvanceAfterOccurrence(candidateNext, today time.Time) error {
	if s.Status != SubscriptionStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active subscriptions can advance")
	}

	if s.EndDate != nil && candidateNext.After(*s.EndDate) {
		s.Status = SubscriptionStatusEnded
		s.NextDueDate = candidateNext
	} else {
		s.NextDueDate = candidateNext
		day := shared.DateOf(today)
		s.LastTransactionDate = &day
	}
	s.UpdatedAt = time.Now()
	return nil
}
