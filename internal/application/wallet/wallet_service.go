// Package wallet exposes balance adjustments and the withdrawal lifecycle.
package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// WalletService reads wallets and applies operator balance transitions.
// Pending, approved and paid are left to WithdrawalService.
type WalletService struct {
	wallets   wallet.WalletRepository
	clock     func() time.Time
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewWalletService creates a new WalletService
func NewWalletService(wallets wallet.WalletRepository, publisher shared.EventPublisher, logger *zap.Logger) *WalletService {
	if publisher == nil {
		publisher = shared.NoopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WalletService{
		wallets:   wallets,
		clock:     func() time.Time { return time.Now().UTC() },
		publisher: publisher,
		logger:    logger,
	}
}

// GetWallet returns the user's five buckets and their total
func (s *WalletService) GetWallet(ctx context.Context, userID uuid.UUID) (*WalletView, error) {
	w, err := s.wallets.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToWalletView(w), nil
}

// CreateWallet creates an empty wallet. A second call for the same user
// returns shared.ErrAlreadyExists.
func (s *WalletService) CreateWallet(ctx context.Context, userID uuid.UUID) (*WalletView, error) {
	w, err := wallet.NewWallet(userID, s.clock())
	if err != nil {
		return nil, err
	}
	if err := s.wallets.Create(ctx, w); err != nil {
		return nil, err
	}
	return ToWalletView(w), nil
}

// Credit adds amount to an operator-adjustable bucket
func (s *WalletService) Credit(ctx context.Context, userID uuid.UUID, bucket wallet.Bucket, amount decimal.Decimal) (*WalletView, error) {
	t, err := wallet.Credit(bucket, amount)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, userID, t)
}

// Debit removes amount from bucket; fails with shared.ErrInsufficientFunds when short
func (s *WalletService) Debit(ctx context.Context, userID uuid.UUID, bucket wallet.Bucket, amount decimal.Decimal) (*WalletView, error) {
	t, err := wallet.Debit(bucket, amount)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, userID, t)
}

// Transfer moves amount between available and cancelled of the same wallet
func (s *WalletService) Transfer(ctx context.Context, userID uuid.UUID, from, to wallet.Bucket, amount decimal.Decimal) (*WalletView, error) {
	t, err := wallet.Transfer(from, to, amount)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, userID, t)
}

// Adjust dispatches an operator request to Credit, Debit or Transfer
func (s *WalletService) Adjust(ctx context.Context, op wallet.Operation, input AdjustBalanceInput) (*WalletView, error) {
	switch op {
	case wallet.OperationCredit:
		return s.Credit(ctx, input.UserID, input.To, input.Amount)
	case wallet.OperationDebit:
		return s.Debit(ctx, input.UserID, input.From, input.Amount)
	case wallet.OperationTransfer:
		return s.Transfer(ctx, input.UserID, input.From, input.To, input.Amount)
	}
	return nil, shared.NewDomainError(shared.CodeInvalidInput, "unknown wallet operation: "+string(op))
}

func (s *WalletService) apply(ctx context.Context, userID uuid.UUID, t wallet.Transition) (*WalletView, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "user id is required")
	}
	if err := t.ValidateOperator(); err != nil {
		return nil, err
	}
	if err := s.wallets.Apply(ctx, userID, t); err != nil {
		return nil, err
	}
	w, err := s.wallets.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload wallet: %w", err)
	}

	s.logger.Info("wallet balance adjusted",
		zap.String("user_id", userID.String()),
		zap.String("operation", string(t.Operation)),
		zap.String("from", t.From.String()),
		zap.String("to", t.To.String()),
		zap.String("amount", t.Amount.String()))
	if err := s.publisher.Publish(ctx, wallet.NewBalanceAdjustedEvent(userID, t)); err != nil {
		s.logger.Error("failed to publish balance adjusted event", zap.Error(err))
	}
	return ToWalletView(w), nil
}
