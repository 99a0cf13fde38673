package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/walletly/backend/internal/domain/ledger"
)

// WalletModel is the GORM model for wallets
type WalletModel struct {
	OwnedAggregateModel
	Name     string          `gorm:"type:varchar(100);not null"`
	Balance  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Currency string          `gorm:"type:varchar(3);not null"`
	IsActive bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for WalletModel
func (WalletModel) TableName() string {
	return "wallets"
}

// ToDomain converts WalletModel to domain Wallet
func (m *WalletModel) ToDomain() *ledger.Wallet {
	return &ledger.Wallet{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		Name:               m.Name,
		Balance:            m.Balance,
		Currency:           m.Currency,
		IsActive:           m.IsActive,
	}
}

// WalletModelFromDomain creates a WalletModel from domain Wallet
func WalletModelFromDomain(wallet *ledger.Wallet) *WalletModel {
	model := &WalletModel{
		Name:     wallet.Name,
		Balance:  wallet.Balance,
		Currency: wallet.Currency,
		IsActive: wallet.IsActive,
	}
	model.FromDomainOwnedAggregateRoot(wallet.OwnedAggregateRoot)
	return model
}

// CategoryModel is the GORM model for categories
type CategoryModel struct {
	OwnedAggregateModel
	Name string              `gorm:"type:varchar(100);not null"`
	Kind ledger.CategoryKind `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for CategoryModel
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts CategoryModel to domain Category
func (m *CategoryModel) ToDomain() *ledger.Category {
	return &ledger.Category{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		Name:               m.Name,
		Kind:               m.Kind,
	}
}

// CategoryModelFromDomain creates a CategoryModel from domain Category
func CategoryModelFromDomain(category *ledger.Category) *CategoryModel {
	model := &CategoryModel{
		Name: category.Name,
		Kind: category.Kind,
	}
	model.FromDomainOwnedAggregateRoot(category.OwnedAggregateRoot)
	return model
}

// TransactionModel is the GORM model for ledger transactions
type TransactionModel struct {
	OwnedAggregateModel
	WalletID             uuid.UUID              `gorm:"type:uuid;not null;index"`
	CategoryID           uuid.UUID              `gorm:"type:uuid;not null;index"`
	Type                 ledger.TransactionType `gorm:"type:varchar(20);not null"`
	Amount               decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	TransactionDate      time.Time              `gorm:"not null;index"`
	Description          string                 `gorm:"type:text"`
	SubscriptionID       *uuid.UUID             `gorm:"type:uuid;index"`
	InstallmentPaymentID *uuid.UUID             `gorm:"type:uuid;index"`
}

// TableName returns the table name for TransactionModel
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts TransactionModel to domain Transaction
func (m *TransactionModel) ToDomain() *ledger.Transaction {
	return &ledger.Transaction{
		OwnedAggregateRoot:   m.ToDomainOwnedAggregateRoot(),
		WalletID:             m.WalletID,
		CategoryID:           m.CategoryID,
		Type:                 m.Type,
		Amount:               m.Amount,
		TransactionDate:      m.TransactionDate,
		Description:          m.Description,
		SubscriptionID:       m.SubscriptionID,
		InstallmentPaymentID: m.InstallmentPaymentID,
	}
}

// TransactionModelFromDomain creates a TransactionModel from domain Transaction
func TransactionModelFromDomain(transaction *ledger.Transaction) *TransactionModel {
	model := &TransactionModel{
		WalletID:             transaction.WalletID,
		CategoryID:           transaction.CategoryID,
		Type:                 transaction.Type,
		Amount:               transaction.Amount,
		TransactionDate:      transaction.TransactionDate,
		Description:          transaction.Description,
		SubscriptionID:       transaction.SubscriptionID,
		InstallmentPaymentID: transaction.InstallmentPaymentID,
	}
	model.FromDomainOwnedAggregateRoot(transaction.OwnedAggregateRoot)
	return model
}
