package wallet

import (
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletView is the read model of a wallet
type WalletView struct {
	UserID        uuid.UUID
	Available     decimal.Decimal
	Pending       decimal.Decimal
	Approved      decimal.Decimal
	Paid          decimal.Decimal
	Cancelled     decimal.Decimal
	Total         decimal.Decimal
	TotalCredited decimal.Decimal
	TotalDebited  decimal.Decimal
	Version       int
	UpdatedAt     time.Time
}

// ToWalletView converts a domain wallet
func ToWalletView(w *wallet.Wallet) *WalletView {
	b := w.Balances()
	return &WalletView{
		UserID:        w.UserID,
		Available:     b.Available,
		Pending:       b.Pending,
		Approved:      b.Approved,
		Paid:          b.Paid,
		Cancelled:     b.Cancelled,
		Total:         w.Total(),
		TotalCredited: b.TotalCredited,
		TotalDebited:  b.TotalDebited,
		Version:       w.Version,
		UpdatedAt:     w.UpdatedAt,
	}
}

// AdjustBalanceInput is an operator credit, debit or transfer
type AdjustBalanceInput struct {
	UserID uuid.UUID
	From   wallet.Bucket
	To     wallet.Bucket
	Amount decimal.Decimal
}

// RequestWithdrawalInput asks to withdraw the whole available balance
type RequestWithdrawalInput struct {
	UserID uuid.UUID
	Note   string
}

// UpdateDetailsInput edits operator fields; nil leaves a field unchanged
type UpdateDetailsInput struct {
	TransactionID uuid.UUID
	Note          *string
	ReferenceID   *string
}

// ListWithdrawalsInput filters a user's withdrawals
type ListWithdrawalsInput struct {
	UserID uuid.UUID
	Status *wallet.Status
	shared.Pagination
}
