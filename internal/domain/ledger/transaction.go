package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/walletly/backend/internal/domain/shared"
)

// TransactionType represents the signed direction of a ledger transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// IsValid checks if the type is a valid TransactionType
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense:
		return true
	}
	return false
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// SignedAmount returns the balance delta this type applies for the given amount
func (t TransactionType) SignedAmount(amount decimal.Decimal) decimal.Decimal {
	if t == TransactionTypeExpense {
		return amount.Neg()
	}
	return amount
}

// Transaction represents a posted money movement against a wallet.
// Automatic postings from recurring items carry a back-reference to the
// subscription or installment payment that generated them, so installment
// settlement can detect an already-posted payment.
type Transaction struct {
	shared.OwnedAggregateRoot
	WalletID             uuid.UUID       `json:"wallet_id"`
	CategoryID           uuid.UUID       `json:"category_id"`
	Type                 TransactionType `json:"type"`
	Amount               decimal.Decimal `json:"amount"`
	TransactionDate      time.Time       `json:"transaction_date"`
	Description          string          `json:"description"`
	SubscriptionID       *uuid.UUID      `json:"subscription_id,omitempty"`
	InstallmentPaymentID *uuid.UUID      `json:"installment_payment_id,omitempty"`
}

// NewTransaction creates a new manually posted transaction
func NewTransaction(
	userID, walletID, categoryID uuid.UUID,
	txType TransactionType,
	amount decimal.Decimal,
	transactionDate time.Time,
	description string,
) (*Transaction, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if walletID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WALLET", "Wallet ID cannot be empty")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Transaction type is not valid")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount must be positive")
	}

	return &Transaction{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		WalletID:           walletID,
		CategoryID:         categoryID,
		Type:               txType,
		Amount:             amount.Round(2),
		TransactionDate:    transactionDate,
		Description:        description,
	}, nil
}

// NewSubscriptionExpense creates an expense transaction posted by a
// subscription occurrence, back-referencing the subscription.
func NewSubscriptionExpense(
	userID, walletID, categoryID, subscriptionID uuid.UUID,
	amount decimal.Decimal,
	transactionDate time.Time,
	description string,
) (*Transaction, error) {
	tx, err := NewTransaction(userID, walletID, categoryID, TransactionTypeExpense, amount, transactionDate, description)
	if err != nil {
		return nil, err
	}
	if subscriptionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUBSCRIPTION", "Subscription ID cannot be empty")
	}
	tx.SubscriptionID = &subscriptionID
	return tx, nil
}

// NewInstallmentExpense creates an expense transaction posted by an
// installment payment settlement, back-referencing the payment.
func NewInstallmentExpense(
	userID, walletID, categoryID, paymentID uuid.UUID,
	amount decimal.Decimal,
	transactionDate time.Time,
	description string,
) (*Transaction, error) {
	tx, err := NewTransaction(userID, walletID, categoryID, TransactionTypeExpense, amount, transactionDate, description)
	if err != nil {
		return nil, err
	}
	if paymentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Installment payment ID cannot be empty")
	}
	tx.InstallmentPaymentID = &paymentID
	return tx, nil
}

// BalanceDelta returns the signed delta this transaction applies to its wallet
func (t *Transaction) BalanceDelta() decimal.Decimal {
	return t.Type.SignedAmount(t.Amount)
}

// IsAutomatic returns true if the transaction was posted by a recurring item
func (t *Transaction) IsAutomatic() bool {
	return t.SubscriptionID != nil || t.InstallmentPaymentID != nil
}
