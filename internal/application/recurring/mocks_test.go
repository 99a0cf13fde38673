package recurring

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/walletly/backend/internal/domain/ledger"
	"github.com/walletly/backend/internal/domain/recurring"
	"github.com/walletly/backend/internal/domain/shared"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Wallet), args.Error(1)
}

func (m *MockWalletRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*ledger.Wallet, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Wallet), args.Error(1)
}

func (m *MockWalletRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]ledger.Wallet, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]ledger.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Save(ctx context.Context, wallet *ledger.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) SaveWithLock(ctx context.Context, wallet *ledger.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) ApplyBalanceDelta(ctx context.Context, walletID uuid.UUID, delta decimal.Decimal) error {
	args := m.Called(ctx, walletID, delta)
	return args.Error(0)
}

func (m *MockWalletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]ledger.Category, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]ledger.Category), args.Error(1)
}

func (m *MockCategoryRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *ledger.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, transaction *ledger.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByWalletID(ctx context.Context, walletID uuid.UUID, filter shared.Filter) ([]ledger.Transaction, error) {
	args := m.Called(ctx, walletID, filter)
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindBySubscriptionID(ctx context.Context, subscriptionID uuid.UUID) ([]ledger.Transaction, error) {
	args := m.Called(ctx, subscriptionID)
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ExistsForPayment(ctx context.Context, paymentID uuid.UUID) (bool, error) {
	args := m.Called(ctx, paymentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) SumByWalletAndType(ctx context.Context, walletID uuid.UUID, txType ledger.TransactionType, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, walletID, txType, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) DeleteBySubscriptionID(ctx context.Context, subscriptionID uuid.UUID) error {
	args := m.Called(ctx, subscriptionID)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteByInstallmentPlanID(ctx context.Context, planID uuid.UUID) error {
	args := m.Called(ctx, planID)
	return args.Error(0)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*recurring.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recurring.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*recurring.Subscription, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recurring.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]recurring.Subscription, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]recurring.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindDue(ctx context.Context, today time.Time) ([]recurring.Subscription, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recurring.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) Save(ctx context.Context, subscription *recurring.Subscription) error {
	args := m.Called(ctx, subscription)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) SaveWithLock(ctx context.Context, subscription *recurring.Subscription) error {
	args := m.Called(ctx, subscription)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) CountForWallet(ctx context.Context, walletID uuid.UUID) (int64, error) {
	args := m.Called(ctx, walletID)
	return args.Get(0).(int64), args.Error(1)
}

type MockInstallmentPlanRepository struct {
	mock.Mock
}

func (m *MockInstallmentPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*recurring.InstallmentPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recurring.InstallmentPlan), args.Error(1)
}

func (m *MockInstallmentPlanRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*recurring.InstallmentPlan, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recurring.InstallmentPlan), args.Error(1)
}

func (m *MockInstallmentPlanRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]recurring.InstallmentPlan, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]recurring.InstallmentPlan), args.Error(1)
}

func (m *MockInstallmentPlanRepository) Save(ctx context.Context, plan *recurring.InstallmentPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockInstallmentPlanRepository) SaveWithLock(ctx context.Context, plan *recurring.InstallmentPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockInstallmentPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockInstallmentPaymentRepository struct {
	mock.Mock
}

func (m *MockInstallmentPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*recurring.InstallmentPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recurring.InstallmentPayment), args.Error(1)
}

func (m *MockInstallmentPaymentRepository) FindByPlanID(ctx context.Context, planID uuid.UUID) ([]recurring.InstallmentPayment, error) {
	args := m.Called(ctx, planID)
	return args.Get(0).([]recurring.InstallmentPayment), args.Error(1)
}

func (m *MockInstallmentPaymentRepository) FindDueUnpaid(ctx context.Context, today time.Time) ([]recurring.InstallmentPayment, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recurring.InstallmentPayment), args.Error(1)
}

func (m *MockInstallmentPaymentRepository) CreateBatch(ctx context.Context, payments []recurring.InstallmentPayment) error {
	args := m.Called(ctx, payments)
	return args.Error(0)
}

func (m *MockInstallmentPaymentRepository) Save(ctx context.Context, payment *recurring.InstallmentPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockInstallmentPaymentRepository) DeleteByPlanID(ctx context.Context, planID uuid.UUID) error {
	args := m.Called(ctx, planID)
	return args.Error(0)
}

func (m *MockInstallmentPaymentRepository) CountOpenByPlanID(ctx context.Context, planID uuid.UUID) (int64, error) {
	args := m.Called(ctx, planID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInstallmentPaymentRepository) NextOpenDueDate(ctx context.Context, planID uuid.UUID) (*time.Time, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockInstallmentPaymentRepository) MarkOverdueBefore(ctx context.Context, today time.Time) (int64, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Transaction scope stub
// =============================================================================

// stubRepositories bundles the mock repositories behind the transactional
// repository accessor.
type stubRepositories struct {
	wallets       *MockWalletRepository
	transactions  *MockTransactionRepository
	subscriptions *MockSubscriptionRepository
	plans         *MockInstallmentPlanRepository
	payments      *MockInstallmentPaymentRepository
}

func (r *stubRepositories) Wallets() ledger.WalletRepository { return r.wallets }

func (r *stubRepositories) Transactions() ledger.TransactionRepository { return r.transactions }

func (r *stubRepositories) Subscriptions() recurring.SubscriptionRepository { return r.subscriptions }

func (r *stubRepositories) Plans() recurring.InstallmentPlanRepository { return r.plans }

func (r *stubRepositories) Payments() recurring.InstallmentPaymentRepository { return r.payments }

// stubScope runs the unit of work directly against the mocks. Rollback
// semantics are exercised in the persistence tests; here an error from the
// function is simply returned.
type stubScope struct {
	repos *stubRepositories
}

func (s *stubScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.repos)
}

func newStubScope() (*stubScope, *stubRepositories) {
	repos := &stubRepositories{
		wallets:       new(MockWalletRepository),
		transactions:  new(MockTransactionRepository),
		subscriptions: new(MockSubscriptionRepository),
		plans:         new(MockInstallmentPlanRepository),
		payments:      new(MockInstallmentPaymentRepository),
	}
	return &stubScope{repos: repos}, repos
}
