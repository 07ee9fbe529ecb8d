package wallet

import (
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeWithdrawalRequested     = "wallet.withdrawal_requested"
	EventTypeWithdrawalStatusChanged = "wallet.withdrawal_status_changed"
	EventTypeBalanceAdjusted         = "wallet.balance_adjusted"

	AggregateTypeWalletTransaction = "WalletTransaction"
	AggregateTypeWallet            = "Wallet"
)

// WithdrawalRequestedEvent is published after a withdrawal was recorded
type WithdrawalRequestedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	UserID        uuid.UUID       `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewWithdrawalRequestedEvent creates a WithdrawalRequestedEvent
func NewWithdrawalRequestedEvent(tx *WalletTransaction) *WithdrawalRequestedEvent {
	return &WithdrawalRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWithdrawalRequested, AggregateTypeWalletTransaction, tx.ID),
		TransactionID:   tx.ID,
		UserID:          tx.UserID,
		Amount:          tx.Amount,
	}
}

// WithdrawalStatusChangedEvent is published after a lifecycle transition
type WithdrawalStatusChangedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	UserID        uuid.UUID       `json:"user_id"`
	From          Status          `json:"from"`
	To            Status          `json:"to"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewWithdrawalStatusChangedEvent creates a WithdrawalStatusChangedEvent
func NewWithdrawalStatusChangedEvent(tx *WalletTransaction, from Status) *WithdrawalStatusChangedEvent {
	return &WithdrawalStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWithdrawalStatusChanged, AggregateTypeWalletTransaction, tx.ID),
		TransactionID:   tx.ID,
		UserID:          tx.UserID,
		From:            from,
		To:              tx.Status,
		Amount:          tx.Amount,
	}
}

// BalanceAdjustedEvent is published after an operator credit, debit or transfer
type BalanceAdjustedEvent struct {
	shared.BaseDomainEvent
	UserID    uuid.UUID       `json:"user_id"`
	Operation Operation       `json:"operation"`
	From      Bucket          `json:"from,omitempty"`
	To        Bucket          `json:"to,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewBalanceAdjustedEvent creates a BalanceAdjustedEvent
func NewBalanceAdjustedEvent(userID uuid.UUID, t Transition) *BalanceAdjustedEvent {
	return &BalanceAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBalanceAdjusted, AggregateTypeWallet, userID),
		UserID:          userID,
		Operation:       t.Operation,
		From:            t.From,
		To:              t.To,
		Amount:          t.Amount,
	}
}
