package dto

import (
	"time"

	appwallet "github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/application/wallet"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/identity"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletResponse shows every bucket of a wallet
type WalletResponse struct {
	UserID        uuid.UUID       `json:"user_id"`
	Available     decimal.Decimal `json:"available"`
	Pending       decimal.Decimal `json:"pending"`
	Approved      decimal.Decimal `json:"approved"`
	Paid          decimal.Decimal `json:"paid"`
	Cancelled     decimal.Decimal `json:"cancelled"`
	Total         decimal.Decimal `json:"total"`
	TotalCredited decimal.Decimal `json:"total_credited"`
	TotalDebited  decimal.Decimal `json:"total_debited"`
	Version       int             `json:"version"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToWalletResponse converts a wallet view
func ToWalletResponse(v *appwallet.WalletView) WalletResponse {
	return WalletResponse{
		UserID:        v.UserID,
		Available:     v.Available,
		Pending:       v.Pending,
		Approved:      v.Approved,
		Paid:          v.Paid,
		Cancelled:     v.Cancelled,
		Total:         v.Total,
		TotalCredited: v.TotalCredited,
		TotalDebited:  v.TotalDebited,
		Version:       v.Version,
		UpdatedAt:     v.UpdatedAt,
	}
}

// RequestWithdrawalRequest withdraws the whole available balance
type RequestWithdrawalRequest struct {
	Note string `json:"note" binding:"max=500"`
}

// ListWithdrawalsRequest filters the caller's withdrawals
type ListWithdrawalsRequest struct {
	ListRequest
	Status string `form:"status" binding:"omitempty,oneof=PENDING APPROVED PAID CANCELLED"`
}

// MarkPaidRequest optionally records the payout reference
type MarkPaidRequest struct {
	ReferenceID *string `json:"reference_id" binding:"omitempty,max=255"`
}

// UpdateWithdrawalRequest edits the operator fields of a withdrawal
type UpdateWithdrawalRequest struct {
	Note        *string `json:"note" binding:"omitempty,max=500"`
	ReferenceID *string `json:"reference_id" binding:"omitempty,max=255"`
}

// AdjustBalanceRequest is an operator credit, debit or transfer. Credit uses
// To, debit uses From, transfer uses both.
type AdjustBalanceRequest struct {
	Amount string `json:"amount" binding:"required,decimal"`
	From   string `json:"from" binding:"omitempty,oneof=available pending approved paid cancelled"`
	To     string `json:"to" binding:"omitempty,oneof=available pending approved paid cancelled"`
}

// WithdrawalResponse is a withdrawal with its billing snapshot
type WithdrawalResponse struct {
	ID              uuid.UUID              `json:"id"`
	UserID          uuid.UUID              `json:"user_id"`
	Amount          decimal.Decimal        `json:"amount"`
	Status          string                 `json:"status"`
	Note            string                 `json:"note,omitempty"`
	ReferenceID     string                 `json:"reference_id,omitempty"`
	PayoutMethod    string                 `json:"payout_method"`
	BillingDetails  BillingDetailsResponse `json:"billing_details"`
	StatusChangedAt *time.Time             `json:"status_changed_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// ToWithdrawalResponse converts a withdrawal
func ToWithdrawalResponse(t *wallet.WalletTransaction) WithdrawalResponse {
	return WithdrawalResponse{
		ID:              t.ID,
		UserID:          t.UserID,
		Amount:          t.Amount,
		Status:          t.Status.String(),
		Note:            t.Note,
		ReferenceID:     t.ReferenceID,
		PayoutMethod:    t.BillingDetails.Method(),
		BillingDetails:  maskedBillingDetails(t.BillingDetails),
		StatusChangedAt: t.StatusChangedAt,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// ToWithdrawalResponses converts a page of withdrawals
func ToWithdrawalResponses(items []*wallet.WalletTransaction) []WithdrawalResponse {
	out := make([]WithdrawalResponse, len(items))
	for i, t := range items {
		out[i] = ToWithdrawalResponse(t)
	}
	return out
}

// maskedBillingDetails hides all but the last four digits of the account
func maskedBillingDetails(b identity.BillingDetails) BillingDetailsResponse {
	resp := ToBillingDetailsResponse(b)
	if n := len(resp.AccountNumber); n > 4 {
		resp.AccountNumber = "****" + resp.AccountNumber[n-4:]
	}
	return resp
}
