package identity

import (
	"context"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/identity"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
)

// RegistrationRepositories are bound to the transaction that creates a user
type RegistrationRepositories interface {
	UserRepo() identity.UserRepository
	OTPRepo() identity.OTPRepository
	WalletRepo() wallet.WalletRepository
}

// RegistrationTransactionScope runs fn in a single database transaction
type RegistrationTransactionScope interface {
	Execute(ctx context.Context, fn func(repos RegistrationRepositories) error) error
}

// NoOpRegistrationScope runs fn against plain repositories, for unit tests
type NoOpRegistrationScope struct {
	Users   identity.UserRepository
	OTPs    identity.OTPRepository
	Wallets wallet.WalletRepository
}

// Execute implements RegistrationTransactionScope
func (s *NoOpRegistrationScope) Execute(ctx context.Context, fn func(repos RegistrationRepositories) error) error {
	return fn(s)
}

// UserRepo implements RegistrationRepositories
func (s *NoOpRegistrationScope) UserRepo() identity.UserRepository { return s.Users }

// OTPRepo implements RegistrationRepositories
func (s *NoOpRegistrationScope) OTPRepo() identity.OTPRepository { return s.OTPs }

// WalletRepo implements RegistrationRepositories
func (s *NoOpRegistrationScope) WalletRepo() wallet.WalletRepository { return s.Wallets }
