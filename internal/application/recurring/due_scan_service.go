package recurring

import (
	"context"

	"go.uber.org/zap"

	"github.com/walletly/backend/internal/domain/recurring"
	"github.com/walletly/backend/internal/domain/shared"
)

// ProcessResult summarizes one scheduled processing run
type ProcessResult struct {
	Scanned   int `json:"scanned"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// DueScanService finds recurring items that are due and drives the
// scheduled processing run. Scanning is read-only; each due subscription
// is then fired through its own transaction so one failure never poisons
// the rest of the batch.
type DueScanService struct {
	subscriptions       recurring.SubscriptionRepository
	payments            recurring.InstallmentPaymentRepository
	subscriptionService *SubscriptionService
	clock               shared.Clock
	logger              *zap.Logger
}

// NewDueScanService creates a new DueScanService
func NewDueScanService(
	subscriptions recurring.SubscriptionRepository,
	payments recurring.InstallmentPaymentRepository,
	subscriptionService *SubscriptionService,
	clock shared.Clock,
	logger *zap.Logger,
) *DueScanService {
	return &DueScanService{
		subscriptions:       subscriptions,
		payments:            payments,
		subscriptionService: subscriptionService,
		clock:               clock,
		logger:              logger,
	}
}

// DueSubscriptions returns active subscriptions due on or before today
func (s *DueScanService) DueSubscriptions(ctx context.Context) ([]recurring.Subscription, error) {
	return s.subscriptions.FindDue(ctx, shared.DateOf(s.clock.Now()))
}

// DueInstallmentPayments returns unpaid payments of active plans due on or
// before today. Installment payments are settled manually, so this list is
// informational and never triggers posting.
func (s *DueScanService) DueInstallmentPayments(ctx context.Context) ([]recurring.InstallmentPayment, error) {
	return s.payments.FindDueUnpaid(ctx, shared.DateOf(s.clock.Now()))
}

// ProcessScheduled fires every due subscription. Items are processed one
// by one; a failing item is logged and skipped, and the run keeps going.
func (s *DueScanService) ProcessScheduled(ctx context.Context) (ProcessResult, error) {
	due, err := s.DueSubscriptions(ctx)
	if err != nil {
		return ProcessResult{}, err
	}

	result := ProcessResult{Scanned: len(due)}
	for i := range due {
		subscription := &due[i]
		if err := s.subscriptionService.ProcessDueOccurrence(ctx, subscription.ID); err != nil {
			result.Failed++
			s.logger.Error("failed to process due subscription",
				zap.String("subscription_id", subscription.ID.String()),
				zap.String("name", subscription.Name),
				zap.Error(err))
			continue
		}
		result.Processed++
	}

	s.logger.Info("scheduled processing run finished",
		zap.Int("scanned", result.Scanned),
		zap.Int("processed", result.Processed),
		zap.Int("failed", result.Failed))
	return result, nil
}
