package models

import (
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/identity"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletModel is the persistence model for the Wallet domain entity.
// Bucket columns are named after wallet.Bucket values.
type WalletModel struct {
	BaseModel
	UserID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Available     decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0;check:available >= 0"`
	Pending       decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0;check:pending >= 0"`
	Approved      decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0;check:approved >= 0"`
	Paid          decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0;check:paid >= 0"`
	Cancelled     decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0;check:cancelled >= 0"`
	TotalCredited decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0"`
	TotalDebited  decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0"`
	Version       int             `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (WalletModel) TableName() string {
	return "wallets"
}

// ToDomain converts the persistence model to a domain Wallet.
func (m *WalletModel) ToDomain() *wallet.Wallet {
	return wallet.Restore(m.BaseModel.ToDomain(), m.UserID, wallet.Balances{
		Available:     m.Available,
		Pending:       m.Pending,
		Approved:      m.Approved,
		Paid:          m.Paid,
		Cancelled:     m.Cancelled,
		TotalCredited: m.TotalCredited,
		TotalDebited:  m.TotalDebited,
	}, m.Version)
}

// WalletModelFromDomain creates a new persistence model from a domain Wallet.
func WalletModelFromDomain(w *wallet.Wallet) *WalletModel {
	b := w.Balances()
	m := &WalletModel{
		UserID:        w.UserID,
		Available:     b.Available,
		Pending:       b.Pending,
		Approved:      b.Approved,
		Paid:          b.Paid,
		Cancelled:     b.Cancelled,
		TotalCredited: b.TotalCredited,
		TotalDebited:  b.TotalDebited,
		Version:       w.Version,
	}
	m.FromDomainBaseEntity(w.BaseEntity)
	return m
}

// WalletTransactionModel is the persistence model for a withdrawal.
type WalletTransactionModel struct {
	BaseModel
	UserID          uuid.UUID               `gorm:"type:uuid;not null;index"`
	Amount          decimal.Decimal         `gorm:"type:numeric(20,6);not null;check:amount > 0"`
	BillingDetails  identity.BillingDetails `gorm:"type:jsonb;serializer:json;not null"`
	Note            string                  `gorm:"type:varchar(500)"`
	ReferenceID     string                  `gorm:"type:varchar(128)"`
	Status          wallet.Status           `gorm:"type:varchar(16);not null;index"`
	StatusChangedAt *time.Time
}

// TableName returns the table name for GORM
func (WalletTransactionModel) TableName() string {
	return "wallet_transactions"
}

// ToDomain converts the persistence model to a domain WalletTransaction.
func (m *WalletTransactionModel) ToDomain() *wallet.WalletTransaction {
	return &wallet.WalletTransaction{
		BaseEntity:      m.BaseModel.ToDomain(),
		UserID:          m.UserID,
		Amount:          m.Amount,
		BillingDetails:  m.BillingDetails,
		Note:            m.Note,
		ReferenceID:     m.ReferenceID,
		Status:          m.Status,
		StatusChangedAt: m.StatusChangedAt,
	}
}

// WalletTransactionModelFromDomain creates a new persistence model from a domain WalletTransaction.
func WalletTransactionModelFromDomain(t *wallet.WalletTransaction) *WalletTransactionModel {
	m := &WalletTransactionModel{
		UserID:          t.UserID,
		Amount:          t.Amount,
		BillingDetails:  t.BillingDetails,
		Note:            t.Note,
		ReferenceID:     t.ReferenceID,
		Status:          t.Status,
		StatusChangedAt: t.StatusChangedAt,
	}
	m.FromDomainBaseEntity(t.BaseEntity)
	return m
}
