package wallet

import (
	"context"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/identity"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
)

// WalletRepositories are the repositories a withdrawal touches, bound to one transaction
type WalletRepositories interface {
	WalletRepo() wallet.WalletRepository
	TransactionRepo() wallet.TransactionRepository
	UserRepo() identity.UserRepository
}

// WalletTransactionScope runs fn in a single database transaction.
// If fn returns an error or panics, all changes are rolled back.
type WalletTransactionScope interface {
	Execute(ctx context.Context, fn func(repos WalletRepositories) error) error
}

// NoOpWalletScope runs fn against plain repositories, for unit tests
type NoOpWalletScope struct {
	Wallets      wallet.WalletRepository
	Transactions wallet.TransactionRepository
	Users        identity.UserRepository
}

// Execute implements WalletTransactionScope
func (s *NoOpWalletScope) Execute(ctx context.Context, fn func(repos WalletRepositories) error) error {
	return fn(s)
}

// WalletRepo implements WalletRepositories
func (s *NoOpWalletScope) WalletRepo() wallet.WalletRepository { return s.Wallets }

// TransactionRepo implements WalletRepositories
func (s *NoOpWalletScope) TransactionRepo() wallet.TransactionRepository { return s.Transactions }

// UserRepo implements WalletRepositories
func (s *NoOpWalletScope) UserRepo() identity.UserRepository { return s.Users }
