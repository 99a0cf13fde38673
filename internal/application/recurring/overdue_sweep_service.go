package recurring

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/walletly/backend/internal/domain/recurring"
	"github.com/walletly/backend/internal/domain/shared"
)

// OverdueSweepService flips unpaid installment payments past their due date
// to overdue. The sweep is a single statement and skips rows that are
// already overdue, so repeated runs converge.
type OverdueSweepService struct {
	payments recurring.InstallmentPaymentRepository
	clock    shared.Clock
	logger   *zap.Logger
}

// NewOverdueSweepService creates a new OverdueSweepService
func NewOverdueSweepService(payments recurring.InstallmentPaymentRepository, clock shared.Clock, logger *zap.Logger) *OverdueSweepService {
	return &OverdueSweepService{
		payments: payments,
		clock:    clock,
		logger:   logger,
	}
}

// Sweep marks payments due strictly before today as overdue and returns
// how many rows changed.
func (s *OverdueSweepService) Sweep(ctx context.Context) (int64, error) {
	today := shared.DateOf(s.clock.Now())

	marked, err := s.payments.MarkOverdueBefore(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue payments: %w", err)
	}

	if marked > 0 {
		s.logger.Info("overdue sweep finished", zap.Int64("marked", marked))
	}
	return marked, nil
}
