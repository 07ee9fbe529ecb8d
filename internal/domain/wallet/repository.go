package wallet

import (
	"context"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// WalletRepository persists wallets. Balance changes go through Apply and
// ApplyVersioned only; each is a single conditional statement.
type WalletRepository interface {
	Create(ctx context.Context, w *Wallet) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Wallet, error)
	// Apply performs t atomically. Returns shared.ErrNotFound when the user has
	// no wallet and shared.ErrInsufficientFunds when the source bucket is short.
	Apply(ctx context.Context, userID uuid.UUID, t Transition) error
	// ApplyVersioned is Apply guarded by the wallet version; a stale version
	// yields shared.ErrConcurrencyConflict.
	ApplyVersioned(ctx context.Context, userID uuid.UUID, version int, t Transition) error
	// List pages through all wallets ordered by user id
	List(ctx context.Context, page shared.Pagination) ([]*Wallet, int64, error)
}

// TransactionFilter narrows ListByUser
type TransactionFilter struct {
	Status *Status
	shared.Pagination
}

// TransactionRepository persists withdrawal transactions
type TransactionRepository interface {
	Create(ctx context.Context, tx *WalletTransaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*WalletTransaction, error)
	// ListByUser returns the user's transactions newest first with the total count
	ListByUser(ctx context.Context, userID uuid.UUID, filter TransactionFilter) ([]*WalletTransaction, int64, error)
	// UpdateStatus saves tx.Status only if the stored status still equals expected;
	// otherwise returns shared.ErrConcurrencyConflict.
	UpdateStatus(ctx context.Context, tx *WalletTransaction, expected Status) error
	// UpdateDetails saves note and reference id
	UpdateDetails(ctx context.Context, tx *WalletTransaction) error
}
