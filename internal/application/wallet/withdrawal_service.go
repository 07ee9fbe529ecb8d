package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultMaxWithdrawalAttempts bounds the optimistic retries of RequestWithdrawal
const DefaultMaxWithdrawalAttempts = 3

// WithdrawalConfig contains configuration for the withdrawal service
type WithdrawalConfig struct {
	MinAmount   decimal.Decimal
	MaxAttempts int
}

// DefaultWithdrawalConfig returns a minimum of 10 and three attempts
func DefaultWithdrawalConfig() WithdrawalConfig {
	return WithdrawalConfig{
		MinAmount:   decimal.NewFromInt(10),
		MaxAttempts: DefaultMaxWithdrawalAttempts,
	}
}

// WithdrawalService runs the withdrawal lifecycle. Every status change and
// its matching bucket transfer commit together.
type WithdrawalService struct {
	scope        WalletTransactionScope
	transactions wallet.TransactionRepository
	config       WithdrawalConfig
	clock        func() time.Time
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// NewWithdrawalService creates a new WithdrawalService
func NewWithdrawalService(
	scope WalletTransactionScope,
	transactions wallet.TransactionRepository,
	config WithdrawalConfig,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *WithdrawalService {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultMaxWithdrawalAttempts
	}
	if publisher == nil {
		publisher = shared.NoopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WithdrawalService{
		scope:        scope,
		transactions: transactions,
		config:       config,
		clock:        func() time.Time { return time.Now().UTC() },
		publisher:    publisher,
		logger:       logger,
	}
}

// SetClock overrides the clock, for tests
func (s *WithdrawalService) SetClock(clock func() time.Time) {
	s.clock = clock
}

// RequestWithdrawal moves the user's entire available balance to pending and
// records a PENDING transaction with a snapshot of the billing details.
func (s *WithdrawalService) RequestWithdrawal(ctx context.Context, input RequestWithdrawalInput) (*wallet.WalletTransaction, error) {
	if input.UserID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "user id is required")
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "withdrawal", "request",
		telemetry.WithAttribute(telemetry.SpanAttrUserID, input.UserID))
	defer span.End()

	var (
		created *wallet.WalletTransaction
		err     error
	)
	for attempt := 1; attempt <= s.config.MaxAttempts; attempt++ {
		created, err = s.requestOnce(ctx, input)
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			break
		}
		if attempt < s.config.MaxAttempts {
			s.logger.Debug("withdrawal raced with a balance change, retrying",
				zap.String("user_id", input.UserID.String()),
				zap.Int("attempt", attempt))
			telemetry.AddEvent(span, "version_conflict", "attempt", attempt)
		}
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTransactionID, created.ID,
		telemetry.SpanAttrAmount, created.Amount)

	s.logger.Info("withdrawal requested",
		zap.String("transaction_id", created.ID.String()),
		zap.String("user_id", created.UserID.String()),
		zap.String("amount", created.Amount.String()))
	s.publish(ctx, wallet.NewWithdrawalRequestedEvent(created))
	return created, nil
}

func (s *WithdrawalService) requestOnce(ctx context.Context, input RequestWithdrawalInput) (*wallet.WalletTransaction, error) {
	var created *wallet.WalletTransaction
	err := s.scope.Execute(ctx, func(repos WalletRepositories) error {
		user, err := repos.UserRepo().FindByID(ctx, input.UserID)
		if err != nil {
			return err
		}
		if !user.HasBillingDetails() {
			return shared.ErrMissingBillingDetails
		}

		w, err := repos.WalletRepo().FindByUserID(ctx, input.UserID)
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrInvariantViolation.WithCause(fmt.Errorf("no wallet for user %s", input.UserID))
		}
		if err != nil {
			return err
		}

		amount := w.Available()
		if !amount.IsPositive() || amount.LessThan(s.config.MinAmount) {
			return shared.NewDomainError(shared.CodeInsufficientFunds,
				"available balance "+amount.StringFixed(2)+" is below the minimum withdrawal of "+s.config.MinAmount.StringFixed(2))
		}

		move, err := wallet.Transfer(wallet.BucketAvailable, wallet.BucketPending, amount)
		if err != nil {
			return err
		}
		if err := repos.WalletRepo().ApplyVersioned(ctx, input.UserID, w.Version, move); err != nil {
			return err
		}

		tx, err := wallet.NewWithdrawal(input.UserID, amount, *user.BillingDetails, input.Note, s.clock())
		if err != nil {
			return err
		}
		if err := repos.TransactionRepo().Create(ctx, tx); err != nil {
			return fmt.Errorf("create withdrawal: %w", err)
		}
		created = tx
		return nil
	})
	return created, err
}

// Approve moves a PENDING withdrawal to APPROVED
func (s *WithdrawalService) Approve(ctx context.Context, txID uuid.UUID) (*wallet.WalletTransaction, error) {
	return s.transition(ctx, txID, wallet.StatusApproved, nil)
}

// Cancel moves a PENDING or APPROVED withdrawal to CANCELLED
func (s *WithdrawalService) Cancel(ctx context.Context, txID uuid.UUID) (*wallet.WalletTransaction, error) {
	return s.transition(ctx, txID, wallet.StatusCancelled, nil)
}

// MarkPaid moves an APPROVED withdrawal to PAID, optionally recording the payout reference
func (s *WithdrawalService) MarkPaid(ctx context.Context, txID uuid.UUID, referenceID *string) (*wallet.WalletTransaction, error) {
	return s.transition(ctx, txID, wallet.StatusPaid, referenceID)
}

func (s *WithdrawalService) transition(ctx context.Context, txID uuid.UUID, next wallet.Status, referenceID *string) (*wallet.WalletTransaction, error) {
	if txID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "transaction id is required")
	}

	var (
		tx       *wallet.WalletTransaction
		previous wallet.Status
	)
	err := s.scope.Execute(ctx, func(repos WalletRepositories) error {
		var err error
		tx, err = repos.TransactionRepo().FindByID(ctx, txID)
		if err != nil {
			return err
		}
		previous = tx.Status
		now := s.clock()

		move, err := tx.TransitionTo(next, now)
		if err != nil {
			return err
		}
		if referenceID != nil {
			if err := tx.UpdateDetails(nil, referenceID, now); err != nil {
				return err
			}
		}
		if err := repos.TransactionRepo().UpdateStatus(ctx, tx, previous); err != nil {
			return err
		}

		err = repos.WalletRepo().Apply(ctx, tx.UserID, move)
		if errors.Is(err, shared.ErrInsufficientFunds) || errors.Is(err, shared.ErrNotFound) {
			return shared.ErrInvariantViolation.WithCause(
				fmt.Errorf("%s bucket cannot cover withdrawal %s: %w", move.From, tx.ID, err))
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("withdrawal status changed",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("from", previous.String()),
		zap.String("to", tx.Status.String()))
	s.publish(ctx, wallet.NewWithdrawalStatusChangedEvent(tx, previous))
	return tx, nil
}

// UpdateDetails edits the operator note and payout reference
func (s *WithdrawalService) UpdateDetails(ctx context.Context, input UpdateDetailsInput) (*wallet.WalletTransaction, error) {
	tx, err := s.transactions.FindByID(ctx, input.TransactionID)
	if err != nil {
		return nil, err
	}
	if err := tx.UpdateDetails(input.Note, input.ReferenceID, s.clock()); err != nil {
		return nil, err
	}
	if err := s.transactions.UpdateDetails(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// ListByUser returns the user's withdrawals, newest first
func (s *WithdrawalService) ListByUser(ctx context.Context, input ListWithdrawalsInput) (shared.Paginated[*wallet.WalletTransaction], error) {
	page := input.Pagination.Normalize()
	items, total, err := s.transactions.ListByUser(ctx, input.UserID, wallet.TransactionFilter{
		Status:     input.Status,
		Pagination: page,
	})
	if err != nil {
		return shared.Paginated[*wallet.WalletTransaction]{}, err
	}
	return shared.NewPaginated(items, total, page.Page, page.PageSize), nil
}

// GetTransaction returns a withdrawal visible to requesterID. Other users'
// withdrawals are reported as not found unless the requester is an admin.
func (s *WithdrawalService) GetTransaction(ctx context.Context, requesterID uuid.UUID, isAdmin bool, txID uuid.UUID) (*wallet.WalletTransaction, error) {
	tx, err := s.transactions.FindByID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && tx.UserID != requesterID {
		return nil, shared.ErrNotFound
	}
	return tx, nil
}

func (s *WithdrawalService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish withdrawal events", zap.Error(err))
	}
}
