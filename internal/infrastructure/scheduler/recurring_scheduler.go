package scheduler

import (
	"context"
	"sync"
	"time"

	apprecurring "github.com/walletly/backend/internal/application/recurring"
	"go.uber.org/zap"
)

// RecurringSchedulerConfig holds configuration for the recurring scheduler
type RecurringSchedulerConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// ProcessHour is the hour (0-23) when due subscriptions are processed
	ProcessHour int

	// SweepHour is the hour (0-23) when unpaid installments are swept for
	// overdue marking (should be different from ProcessHour)
	SweepHour int

	// CheckInterval is how often the scheduler checks whether a run is due
	CheckInterval time.Duration

	// JobTimeout is the maximum time for a single run
	JobTimeout time.Duration
}

// DefaultRecurringSchedulerConfig returns default configuration
func DefaultRecurringSchedulerConfig() RecurringSchedulerConfig {
	return RecurringSchedulerConfig{
		Enabled:       true,
		ProcessHour:   2, // 2 AM - post due subscription charges
		SweepHour:     3, // 3 AM - mark overdue installments
		CheckInterval: time.Minute,
		JobTimeout:    30 * time.Minute,
	}
}

// Validate checks the configuration for out-of-range values
func (c RecurringSchedulerConfig) Validate() error {
	if c.ProcessHour < 0 || c.ProcessHour > 23 {
		return ErrInvalidConfig
	}
	if c.SweepHour < 0 || c.SweepHour > 23 {
		return ErrInvalidConfig
	}
	if c.CheckInterval <= 0 || c.JobTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// RecurringScheduler runs the daily due-subscription processing and the
// overdue installment sweep at their configured hours.
type RecurringScheduler struct {
	config  RecurringSchedulerConfig
	dueScan *apprecurring.DueScanService
	sweep   *apprecurring.OverdueSweepService
	logger  *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastProcessDate string // date of the last processing run
	lastSweepDate   string // date of the last sweep run
}

// NewRecurringScheduler creates a new recurring scheduler
func NewRecurringScheduler(
	config RecurringSchedulerConfig,
	dueScan *apprecurring.DueScanService,
	sweep *apprecurring.OverdueSweepService,
	logger *zap.Logger,
) *RecurringScheduler {
	return &RecurringScheduler{
		config:  config,
		dueScan: dueScan,
		sweep:   sweep,
		logger:  logger,
	}
}

// Start starts the scheduler
func (s *RecurringScheduler) Start(ctx context.Context) error {
	if err := s.config.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Recurring scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Recurring scheduler started",
		zap.Int("process_hour", s.config.ProcessHour),
		zap.Int("sweep_hour", s.config.SweepHour),
		zap.Duration("check_interval", s.config.CheckInterval),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *RecurringScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	// Wait for goroutines to finish with timeout
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Recurring scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Recurring scheduler stop timed out")
		return ctx.Err()
	}
}

// runLoop checks periodically whether a daily run is due
func (s *RecurringScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Recurring scheduler loop stopping")
			return
		case <-ticker.C:
			s.checkAndTrigger(ctx)
		}
	}
}

// checkAndTrigger fires each daily run at most once per calendar date
func (s *RecurringScheduler) checkAndTrigger(ctx context.Context) {
	now := time.Now()
	currentDate := now.Format("2006-01-02")

	s.mu.Lock()
	runProcess := s.lastProcessDate != currentDate && now.Hour() == s.config.ProcessHour
	runSweep := s.lastSweepDate != currentDate && now.Hour() == s.config.SweepHour
	if runProcess {
		s.lastProcessDate = currentDate
	}
	if runSweep {
		s.lastSweepDate = currentDate
	}
	s.mu.Unlock()

	if runProcess {
		s.executeProcessing(ctx)
	}
	if runSweep {
		s.executeSweep(ctx)
	}
}

// executeProcessing posts ledger entries for every due subscription
func (s *RecurringScheduler) executeProcessing(ctx context.Context) {
	s.logger.Info("Starting scheduled due-subscription processing")

	runCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	startTime := time.Now()
	result, err := s.dueScan.ProcessScheduled(runCtx)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Due-subscription processing failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Due-subscription processing completed",
		zap.Duration("duration", duration),
		zap.Int("scanned", result.Scanned),
		zap.Int("processed", result.Processed),
		zap.Int("failed", result.Failed),
	)
}

// executeSweep marks unpaid installments past their due date as overdue
func (s *RecurringScheduler) executeSweep(ctx context.Context) {
	s.logger.Info("Starting scheduled overdue sweep")

	runCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	startTime := time.Now()
	marked, err := s.sweep.Sweep(runCtx)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Overdue sweep failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Overdue sweep completed",
		zap.Duration("duration", duration),
		zap.Int64("marked_overdue", marked),
	)
}

// TriggerImmediateProcessing runs due-subscription processing right away
func (s *RecurringScheduler) TriggerImmediateProcessing(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("Triggering immediate due-subscription processing")

	go func() {
		defer s.wg.Done()
		s.executeProcessing(ctx)
	}()

	return nil
}

// TriggerImmediateSweep runs the overdue sweep right away
func (s *RecurringScheduler) TriggerImmediateSweep(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("Triggering immediate overdue sweep")

	go func() {
		defer s.wg.Done()
		s.executeSweep(ctx)
	}()

	return nil
}

// IsRunning returns whether the scheduler is running
func (s *RecurringScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}
