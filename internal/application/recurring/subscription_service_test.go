package recurring

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/walletly/backend/internal/domain/ledger"
	"github.com/walletly/backend/internal/domain/recurring"
	"github.com/walletly/backend/internal/domain/shared"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func newActiveWallet(t *testing.T, userID uuid.UUID) *ledger.Wallet {
	t.Helper()
	wallet, err := ledger.NewWallet(userID, "Checking", "USD", decimal.NewFromFloat(500))
	require.NoError(t, err)
	return wallet
}

func newActiveSubscription(t *testing.T, userID uuid.UUID, startDate, now time.Time) *recurring.Subscription {
	t.Helper()
	sub, err := recurring.NewSubscription(
		userID, uuid.New(), uuid.New(),
		"Streaming", decimal.NewFromFloat(15.99),
		recurring.FrequencyMonthly, startDate, nil, nil, now,
	)
	require.NoError(t, err)
	return sub
}

func TestSubscriptionService_Create_Success(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	now := date(2025, time.March, 15)

	walletRepo := new(MockWalletRepository)
	categoryRepo := new(MockCategoryRepository)
	subRepo := new(MockSubscriptionRepository)
	scope, _ := newStubScope()
	service := NewSubscriptionService(scope, subRepo, walletRepo, categoryRepo, shared.NewFixedClock(now))

	wallet := newActiveWallet(t, userID)
	input := CreateSubscriptionInput{
		UserID:     userID,
		WalletID:   wallet.ID,
		CategoryID: uuid.New(),
		Name:       "Streaming",
		Amount:     decimal.NewFromFloat(15.99),
		Frequency:  recurring.FrequencyMonthly,
		StartDate:  date(2025, time.March, 1),
		DueDay:     intPtr(1),
	}

	walletRepo.On("FindByIDForUser", ctx, userID, wallet.ID).Return(wallet, nil)
	categoryRepo.On("Exists", ctx, input.CategoryID).Return(true, nil)
	subRepo.On("Save", ctx, mock.AnythingOfType("*recurring.Subscription")).Return(nil)

	sub, err := service.Create(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, recurring.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, date(2025, time.April, 1), sub.NextDueDate)
	walletRepo.AssertExpectations(t)
	categoryRepo.AssertExpectations(t)
	subRepo.AssertExpectations(t)
}

func TestSubscriptionService_Create_InactiveWallet(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	walletRepo := new(MockWalletRepository)
	categoryRepo := new(MockCategoryRepository)
	subRepo := new(MockSubscriptionRepository)
	scope, _ := newStubScope()
	service := NewSubscriptionService(scope, subRepo, walletRepo, categoryRepo, shared.NewFixedClock(date(2025, time.March, 15)))

	wallet := newActiveWallet(t, userID)
	wallet.Deactivate()
	walletRepo.On("FindByIDForUser", ctx, userID, wallet.ID).Return(wallet, nil)

	_, err := service.Create(ctx, CreateSubscriptionInput{
		UserID:     userID,
		WalletID:   wallet.ID,
		CategoryID: uuid.New(),
		Name:       "Streaming",
		Amount:     decimal.NewFromFloat(15.99),
		Frequency:  recurring.FrequencyMonthly,
		StartDate:  date(2025, time.March, 1),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "inactive wallet")
	subRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSubscriptionService_Create_CategoryNotFound(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	walletRepo := new(MockWalletRepository)
	categoryRepo := new(MockCategoryRepository)
	subRepo := new(MockSubscriptionRepository)
	scope, _ := newStubScope()
	service := NewSubscriptionService(scope, subRepo, walletRepo, categoryRepo, shared.NewFixedClock(date(2025, time.March, 15)))

	wallet := newActiveWallet(t, userID)
	categoryID := uuid.New()
	walletRepo.On("FindByIDForUser", ctx, userID, wallet.ID).Return(wallet, nil)
	categoryRepo.On("Exists", ctx, categoryID).Return(false, nil)

	_, err := service.Create(ctx, CreateSubscriptionInput{
		UserID:     userID,
		WalletID:   wallet.ID,
		CategoryID: categoryID,
		Name:       "Streaming",
		Amount:     decimal.NewFromFloat(15.99),
		Frequency:  recurring.FrequencyMonthly,
		StartDate:  date(2025, time.March, 1),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Category not found")
	subRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSubscriptionService_Update_ScheduleChangeRecomputesNextDue(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	now := date(2025, time.March, 15)

	walletRepo := new(MockWalletRepository)
	categoryRepo := new(MockCategoryRepository)
	subRepo := new(MockSubscriptionRepository)
	scope, _ := newStubScope()
	service := NewSubscriptionService(scope, subRepo, walletRepo, categoryRepo, shared.NewFixedClock(now))

	sub := newActiveSubscription(t, userID, date(2025, time.January, 10), now)
	subRepo.On("FindByIDForUser", ctx, userID, sub.ID).Return(sub, nil)
	subRepo.On("SaveWithLock", ctx, sub).Return(nil)

	updated, err := service.Update(ctx, userID, sub.ID, UpdateSubscriptionInput{
		DueDay: intPtr(28),
	})

	require.NoError(t, err)
	// Anchor Jan 10 with due day 28 advances monthly until on or past Mar 15.
	assert.Equal(t, date(2025, time.March, 28), updated.NextDueDate)
	assert.Equal(t, 28, *updated.DueDay)
	subRepo.AssertExpectations(t)
}

func TestSubscriptionService_Update_NameOnlyLeavesScheduleAlone(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	now := date(2025, time.March, 15)

	walletRepo := new(MockWalletRepository)
	categoryRepo := new(MockCategoryRepository)
	subRepo := new(MockSubscriptionRepository)
	scope, _ := newStubScope()
	service := NewSubscriptionService(scope, subRepo, walletRepo, categoryRepo, shared.NewFixedClock(now))

	sub := newActiveSubscription(t, userID, date(2025, time.March, 1), now)
	before := sub.NextDueDate

	subRepo.On("FindByIDForUser", ctx, userID, sub.ID).Return(sub, nil)
	subRepo.On("SaveWithLock", ctx, sub).Return(nil)

	name := "Streaming Premium"
	updated, err := service.Update(ctx, userID, sub.ID, UpdateSubscriptionInput{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "Streaming Premium", updated.Name)
	assert.Equal(t, before, updated.NextDueDate)
}

func TestSubscriptionService_PauseAndResume(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	now := date(2025, time.March, 15)

	walletRepo := new(MockWalletRepository)
	categoryRepo := new(MockCategoryRepository)
	subRepo := new(MockSubscriptionRepository)
	scope, _ := newStubScope()
	service := NewSubscriptionService(scope, subRepo, walletRepo, categoryRepo, shared.NewFixedClock(now))

	sub := newActiveSubscription(t, userID, date(2025, time.January, 10), now)
	subRepo.On("FindByIDForUser", ctx, userID, sub.ID).Return(sub, nil)
	subRepo.On("SaveWithLock", ctx, sub).Return(nil)

	require.NoError(t, service.Pause(ctx, userID, sub.ID))
	assert.Equal(t, recurring.SubscriptionStatusPaused, sub.Status)

	require.NoError(t, service.Resume(ctx, userID, sub.ID))
	assert.Equal(t, recurring.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, date(2025, time.April, 10), sub.NextDueDate)
}

func TestSubscriptionService_Delete_CascadesTransactions(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	now := date(2025, time.March, 15)

	walletRepo := new(MockWalletRepository)
	categoryRepo := new(MockCategoryRepository)
	scope, repos := newStubScope()
	service := NewSubscriptionService(scope, repos.subscriptions, walletRepo, categoryRepo, shared.NewFixedClock(now))

	sub := newActiveSubscription(t, userID, date(2025, time.January, 10), now)
	repos.subscriptions.On("FindByIDForUser", ctx, userID, sub.ID).Return(sub, nil)
	repos.transactions.On("DeleteBySubscriptionID", ctx, sub.ID).Return(nil)
	repos.subscriptions.On("Delete", ctx, sub.ID).Return(nil)

	require.NoError(t, service.Delete(ctx, userID, sub.ID))
	repos.transactions.AssertExpectations(t)
	repos.subscriptions.AssertExpectations(t)
}

func TestSubscriptionService_ProcessDueOccurrence_PostsAndAdvances(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	today := date(2025, time.March, 15)

	walletRepo := new(MockWalletRepository)
	categoryRepo := new(MockCategoryRepository)
	scope, repos := newStubScope()
	service := NewSubscriptionService(scope, repos.subscriptions, walletRepo, categoryRepo, shared.NewFixedClock(today))

	sub := newActiveSubscription(t, userID, today, today)
	require.True(t, sub.IsDue(today))

	var posted *ledger.Transaction
	repos.subscriptions.On("FindByID", ctx, sub.ID).Return(sub, nil)
	repos.transactions.On("Create", ctx, mock.AnythingOfType("*ledger.Transaction")).
		Run(func(args mock.Arguments) { posted = args.Get(1).(*ledger.Transaction) }).
		Return(nil)
	repos.wallets.On("ApplyBalanceDelta", ctx, sub.WalletID, mock.Anything).Return(nil)
	repos.subscriptions.On("SaveWithLock", ctx, sub).Return(nil)

	require.NoError(t, service.ProcessDueOccurrence(ctx, sub.ID))

	require.NotNil(t, posted)
	assert.Equal(t, &sub.ID, posted.SubscriptionID)
	assert.Equal(t, "-15.99", posted.BalanceDelta().StringFixed(2))
	assert.Equal(t, date(2025, time.April, 15), sub.NextDueDate)
	require.NotNil(t, sub.LastTransactionDate)
	assert.Equal(t, today, *sub.LastTransactionDate)

	deltaArg := repos.wallets.Calls[0].Arguments.Get(2).(decimal.Decimal)
	assert.Equal(t, "-15.99", deltaArg.StringFixed(2))
}

func TestSubscriptionService_ProcessDueOccurrence_NotDue(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	today := date(2025, time.March, 15)

	walletRepo := new(MockWalletRepository)
	categoryRepo := new(MockCategoryRepository)
	scope, repos := newStubScope()
	service := NewSubscriptionService(scope, repos.subscriptions, walletRepo, categoryRepo, shared.NewFixedClock(today))

	// Next due date lands in April, so nothing is due today.
	sub := newActiveSubscription(t, userID, date(2025, time.April, 1), today)
	repos.subscriptions.On("FindByID", ctx, sub.ID).Return(sub, nil)

	err := service.ProcessDueOccurrence(ctx, sub.ID)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no due occurrence")
	repos.transactions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	repos.wallets.AssertNotCalled(t, "ApplyBalanceDelta", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubscriptionService_ProcessDueOccurrence_EndsAfterFinalOccurrence(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	today := date(2025, time.March, 15)

	walletRepo := new(MockWalletRepository)
	categoryRepo := new(MockCategoryRepository)
	scope, repos := newStubScope()
	service := NewSubscriptionService(scope, repos.subscriptions, walletRepo, categoryRepo, shared.NewFixedClock(today))

	end := date(2025, time.March, 31)
	sub, err := recurring.NewSubscription(
		userID, uuid.New(), uuid.New(),
		"Streaming", decimal.NewFromFloat(15.99),
		recurring.FrequencyMonthly, today, &end, nil, today,
	)
	require.NoError(t, err)

	repos.subscriptions.On("FindByID", ctx, sub.ID).Return(sub, nil)
	repos.transactions.On("Create", ctx, mock.AnythingOfType("*ledger.Transaction")).Return(nil)
	repos.wallets.On("ApplyBalanceDelta", ctx, sub.WalletID, mock.Anything).Return(nil)
	repos.subscriptions.On("SaveWithLock", ctx, sub).Return(nil)

	require.NoError(t, service.ProcessDueOccurrence(ctx, sub.ID))

	// The next occurrence (Apr 15) falls past the end date, so the
	// subscription ends instead of advancing.
	assert.Equal(t, recurring.SubscriptionStatusEnded, sub.Status)
}
