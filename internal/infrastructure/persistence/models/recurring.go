package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/walletly/backend/internal/domain/recurring"
)

// SubscriptionModel is the GORM model for subscriptions
type SubscriptionModel struct {
	OwnedAggregateModel
	WalletID            uuid.UUID                    `gorm:"type:uuid;not null;index"`
	CategoryID          uuid.UUID                    `gorm:"type:uuid;not null;index"`
	Name                string                       `gorm:"type:varchar(100);not null"`
	Amount              decimal.Decimal              `gorm:"type:decimal(18,2);not null"`
	Frequency           recurring.Frequency          `gorm:"type:varchar(20);not null"`
	StartDate           time.Time                    `gorm:"not null"`
	EndDate             *time.Time                   `gorm:""`
	DueDay              *int                         `gorm:""`
	Status              recurring.SubscriptionStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index:idx_subscriptions_due,priority:1"`
	NextDueDate         time.Time                    `gorm:"not null;index:idx_subscriptions_due,priority:2"`
	LastTransactionDate *time.Time                   `gorm:""`
}

// TableName returns the table name for SubscriptionModel
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// ToDomain converts SubscriptionModel to domain Subscription
func (m *SubscriptionModel) ToDomain() *recurring.Subscription {
	return &recurring.Subscription{
		OwnedAggregateRoot:  m.ToDomainOwnedAggregateRoot(),
		WalletID:            m.WalletID,
		CategoryID:          m.CategoryID,
		Name:                m.Name,
		Amount:              m.Amount,
		Frequency:           m.Frequency,
		StartDate:           m.StartDate,
		EndDate:             m.EndDate,
		DueDay:              m.DueDay,
		Status:              m.Status,
		NextDueDate:         m.NextDueDate,
		LastTransactionDate: m.LastTransactionDate,
	}
}

// SubscriptionModelFromDomain creates a SubscriptionModel from domain Subscription
func SubscriptionModelFromDomain(subscription *recurring.Subscription) *SubscriptionModel {
	model := &SubscriptionModel{
		WalletID:            subscription.WalletID,
		CategoryID:          subscription.CategoryID,
		Name:                subscription.Name,
		Amount:              subscription.Amount,
		Frequency:           subscription.Frequency,
		StartDate:           subscription.StartDate,
		EndDate:             subscription.EndDate,
		DueDay:              subscription.DueDay,
		Status:              subscription.Status,
		NextDueDate:         subscription.NextDueDate,
		LastTransactionDate: subscription.LastTransactionDate,
	}
	model.FromDomainOwnedAggregateRoot(subscription.OwnedAggregateRoot)
	return model
}

// InstallmentPlanModel is the GORM model for installment plans
type InstallmentPlanModel struct {
	OwnedAggregateModel
	WalletID             uuid.UUID                       `gorm:"type:uuid;not null;index"`
	CategoryID           uuid.UUID                       `gorm:"type:uuid;not null;index"`
	Name                 string                          `gorm:"type:varchar(100);not null"`
	TotalAmount          decimal.Decimal                 `gorm:"type:decimal(18,2);not null"`
	TotalInstallments    int                             `gorm:"not null"`
	AmountPerInstallment decimal.Decimal                 `gorm:"type:decimal(18,2);not null"`
	StartDate            time.Time                       `gorm:"not null"`
	DueDay               *int                            `gorm:""`
	Status               recurring.InstallmentPlanStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	NextDueDate          time.Time                       `gorm:"not null"`
}

// TableName returns the table name for InstallmentPlanModel
func (InstallmentPlanModel) TableName() string {
	return "installment_plans"
}

// ToDomain converts InstallmentPlanModel to domain InstallmentPlan
func (m *InstallmentPlanModel) ToDomain() *recurring.InstallmentPlan {
	return &recurring.InstallmentPlan{
		OwnedAggregateRoot:   m.ToDomainOwnedAggregateRoot(),
		WalletID:             m.WalletID,
		CategoryID:           m.CategoryID,
		Name:                 m.Name,
		TotalAmount:          m.TotalAmount,
		TotalInstallments:    m.TotalInstallments,
		AmountPerInstallment: m.AmountPerInstallment,
		StartDate:            m.StartDate,
		DueDay:               m.DueDay,
		Status:               m.Status,
		NextDueDate:          m.NextDueDate,
	}
}

// InstallmentPlanModelFromDomain creates an InstallmentPlanModel from domain InstallmentPlan
func InstallmentPlanModelFromDomain(plan *recurring.InstallmentPlan) *InstallmentPlanModel {
	model := &InstallmentPlanModel{
		WalletID:             plan.WalletID,
		CategoryID:           plan.CategoryID,
		Name:                 plan.Name,
		TotalAmount:          plan.TotalAmount,
		TotalInstallments:    plan.TotalInstallments,
		AmountPerInstallment: plan.AmountPerInstallment,
		StartDate:            plan.StartDate,
		DueDay:               plan.DueDay,
		Status:               plan.Status,
		NextDueDate:          plan.NextDueDate,
	}
	model.FromDomainOwnedAggregateRoot(plan.OwnedAggregateRoot)
	return model
}

// InstallmentPaymentModel is the GORM model for installment payments
type InstallmentPaymentModel struct {
	BaseModel
	PlanID        uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_payment_plan_number,priority:1;index"`
	PaymentNumber int                     `gorm:"not null;uniqueIndex:idx_payment_plan_number,priority:2"`
	Amount        decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	DueDate       time.Time               `gorm:"not null;index"`
	Status        recurring.PaymentStatus `gorm:"type:varchar(20);not null;default:'UNPAID';index"`
	PaidDate      *time.Time              `gorm:""`
	PaidAmount    *decimal.Decimal        `gorm:"type:decimal(18,2)"`
	Notes         string                  `gorm:"type:text"`
}

// TableName returns the table name for InstallmentPaymentModel
func (InstallmentPaymentModel) TableName() string {
	return "installment_payments"
}

// ToDomain converts InstallmentPaymentModel to domain InstallmentPayment
func (m *InstallmentPaymentModel) ToDomain() *recurring.InstallmentPayment {
	return &recurring.InstallmentPayment{
		BaseEntity:    m.BaseModel.ToDomain(),
		PlanID:        m.PlanID,
		PaymentNumber: m.PaymentNumber,
		Amount:        m.Amount,
		DueDate:       m.DueDate,
		Status:        m.Status,
		PaidDate:      m.PaidDate,
		PaidAmount:    m.PaidAmount,
		Notes:         m.Notes,
	}
}

// InstallmentPaymentModelFromDomain creates an InstallmentPaymentModel from domain InstallmentPayment
func InstallmentPaymentModelFromDomain(payment *recurring.InstallmentPayment) *InstallmentPaymentModel {
	model := &InstallmentPaymentModel{
		PlanID:        payment.PlanID,
		PaymentNumber: payment.PaymentNumber,
		Amount:        payment.Amount,
		DueDate:       payment.DueDate,
		Status:        payment.Status,
		PaidDate:      payment.PaidDate,
		PaidAmount:    payment.PaidAmount,
		Notes:         payment.Notes,
	}
	model.FromDomainBaseEntity(payment.BaseEntity)
	return model
}
