package analytics

import (
	"context"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
	"github.com/google/uuid"
)

// LedgerRepositories are the repositories a view may touch, all bound to
// one database transaction.
type LedgerRepositories interface {
	FileRepo() analytics.FileRepository
	EntryRepo() analytics.DailyAnalyticsRepository
	ViewEventRepo() analytics.ViewEventRepository
	WalletRepo() wallet.WalletRepository

	// LockRows takes row locks on the files, then on the wallets of the
	// users, each set in id order. A view calls it before its first balance
	// write so every view acquires locks in the same global order.
	LockRows(ctx context.Context, fileIDs, walletUserIDs []uuid.UUID) error

	// Savepoint runs fn in a nested transaction. If fn returns an error only
	// the writes made inside fn are rolled back; the outer transaction stays usable.
	Savepoint(ctx context.Context, fn func(repos LedgerRepositories) error) error
}

// LedgerTransactionScope runs a unit of work in a single transaction.
// If fn returns an error or panics, every write made through repos is rolled back.
type LedgerTransactionScope interface {
	Execute(ctx context.Context, fn func(repos LedgerRepositories) error) error
}

// NoOpLedgerScope runs fn directly against the given repositories without a
// transaction. Savepoint calls fn directly too, so tests that need a partial
// rollback must use a database-backed scope. LockRows only records its
// arguments in Locked.
type NoOpLedgerScope struct {
	Files      analytics.FileRepository
	Entries    analytics.DailyAnalyticsRepository
	ViewEvents analytics.ViewEventRepository
	Wallets    wallet.WalletRepository

	Locked []RowLocks
}

// RowLocks is one LockRows call
type RowLocks struct {
	FileIDs       []uuid.UUID
	WalletUserIDs []uuid.UUID
}

// Execute implements LedgerTransactionScope
func (s *NoOpLedgerScope) Execute(ctx context.Context, fn func(repos LedgerRepositories) error) error {
	return fn(s)
}

// FileRepo implements LedgerRepositories
func (s *NoOpLedgerScope) FileRepo() analytics.FileRepository { return s.Files }

// EntryRepo implements LedgerRepositories
func (s *NoOpLedgerScope) EntryRepo() analytics.DailyAnalyticsRepository { return s.Entries }

// ViewEventRepo implements LedgerRepositories
func (s *NoOpLedgerScope) ViewEventRepo() analytics.ViewEventRepository { return s.ViewEvents }

// WalletRepo implements LedgerRepositories
func (s *NoOpLedgerScope) WalletRepo() wallet.WalletRepository { return s.Wallets }

// LockRows implements LedgerRepositories
func (s *NoOpLedgerScope) LockRows(ctx context.Context, fileIDs, walletUserIDs []uuid.UUID) error {
	s.Locked = append(s.Locked, RowLocks{FileIDs: fileIDs, WalletUserIDs: walletUserIDs})
	return nil
}

// Savepoint implements LedgerRepositories
func (s *NoOpLedgerScope) Savepoint(ctx context.Context, fn func(repos LedgerRepositories) error) error {
	return fn(s)
}
