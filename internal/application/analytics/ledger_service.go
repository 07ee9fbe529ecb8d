// Package analytics holds the view ledger, the file registry and the
// read-only aggregation queries.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	maxEventIDLength = 128

	// DefaultMaxViewAttempts bounds reruns of a view that lost a lock race
	DefaultMaxViewAttempts = 3
)

// RecordViewInput identifies one view. EventID is optional; when set, a
// replay of the same id applies nothing.
type RecordViewInput struct {
	FileID   uuid.UUID
	ViewerID uuid.UUID
	EventID  string
}

// RecordViewResult is the state after a view was applied
type RecordViewResult struct {
	Entry         *analytics.DailyAnalyticsEntry
	BeneficiaryID uuid.UUID
	Duplicate     bool
	Referral      shared.Outcome
}

// LedgerOption configures a LedgerService
type LedgerOption func(*LedgerService)

// WithLedgerClock overrides the clock used to bucket views
func WithLedgerClock(clock analytics.Clock) LedgerOption {
	return func(s *LedgerService) {
		s.clock = clock
	}
}

// WithLedgerEventPublisher sets the publisher notified after commit
func WithLedgerEventPublisher(publisher shared.EventPublisher) LedgerOption {
	return func(s *LedgerService) {
		s.publisher = publisher
	}
}

// WithLedgerMaxAttempts sets how often a view is run when the database
// reports a deadlock or serialization failure
func WithLedgerMaxAttempts(n int) LedgerOption {
	return func(s *LedgerService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// LedgerService records views: the daily entry, the file counter, the
// beneficiary wallet and the referral credit all change in one transaction.
type LedgerService struct {
	scope       LedgerTransactionScope
	rates       analytics.Rates
	clock       analytics.Clock
	publisher   shared.EventPublisher
	logger      *zap.Logger
	maxAttempts int
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	scope LedgerTransactionScope,
	rates analytics.Rates,
	logger *zap.Logger,
	opts ...LedgerOption,
) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &LedgerService{
		scope:       scope,
		rates:       rates,
		clock:       analytics.SystemClock,
		publisher:   shared.NoopPublisher{},
		logger:      logger,
		maxAttempts: DefaultMaxViewAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rates returns the configured earning rates
func (s *LedgerService) Rates() analytics.Rates {
	return s.rates
}

// RecordView applies one view of input.FileID by input.ViewerID
func (s *LedgerService) RecordView(ctx context.Context, input RecordViewInput) (*RecordViewResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "record_view",
		telemetry.WithAttribute(telemetry.SpanAttrFileID, input.FileID),
		telemetry.WithAttribute(telemetry.SpanAttrViewerID, input.ViewerID))
	defer span.End()

	var (
		result *RecordViewResult
		err    error
	)
	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("record_view", nil), func(ctx context.Context) {
		result, err = s.recordView(ctx, input)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrDuplicate, result.Duplicate,
		telemetry.SpanAttrReferral, result.Referral.Severity)
	return result, nil
}

func (s *LedgerService) recordView(ctx context.Context, input RecordViewInput) (*RecordViewResult, error) {
	if input.FileID == uuid.Nil || input.ViewerID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "file id and viewer id are required")
	}
	eventID := strings.TrimSpace(input.EventID)
	if len(eventID) > maxEventIDLength {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "event id cannot exceed 128 characters")
	}

	now := s.clock().UTC()
	day := analytics.DayOf(now)

	var (
		result   *RecordViewResult
		file     *analytics.FileRecord
		referral referralCredit
	)
	apply := func(repos LedgerRepositories) error {
		result = nil
		referral = referralCredit{}

		if eventID != "" {
			replayed, err := s.registerEvent(ctx, repos, eventID, input, now)
			if err != nil {
				return err
			}
			if replayed != nil {
				result = replayed
				return nil
			}
		}

		var err error
		file, err = repos.FileRepo().FindByID(ctx, input.FileID)
		if err != nil {
			return err
		}
		beneficiary := s.rates.BeneficiaryOf(file, input.ViewerID)
		if err := repos.LockRows(ctx, s.lockedFiles(file), s.lockedWallets(file, beneficiary)); err != nil {
			return fmt.Errorf("lock view rows: %w", err)
		}

		key := analytics.EntryKey{FileID: file.ID, UserID: input.ViewerID, Day: day}
		entry, err := repos.EntryRepo().IncrementView(ctx, key, s.rates.PerView)
		if err != nil {
			return fmt.Errorf("increment daily entry: %w", err)
		}
		if err := repos.FileRepo().IncrementTotalViews(ctx, file.ID, 1); err != nil {
			return fmt.Errorf("increment file views: %w", err)
		}

		if err := s.creditAvailable(ctx, repos.WalletRepo(), beneficiary, s.rates.PerView); err != nil {
			return err
		}

		referral = s.creditReferral(ctx, repos, file, day)
		if referral.outcome.IsFatal() {
			return referral.outcome.Err
		}

		result = &RecordViewResult{
			Entry:         entry,
			BeneficiaryID: beneficiary,
			Referral:      referral.outcome,
		}
		return nil
	}

	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = s.scope.Execute(ctx, apply)
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			break
		}
		if attempt < s.maxAttempts {
			s.logger.Debug("view lost a lock race, retrying",
				zap.String("file_id", input.FileID.String()),
				zap.Int("attempt", attempt),
				zap.Error(err))
		}
	}
	if err != nil {
		return nil, err
	}

	if !result.Duplicate {
		s.publishAfterCommit(ctx, result, file, input.ViewerID, day, referral)
	}
	return result, nil
}

// lockedFiles lists the file rows a view of file writes
func (s *LedgerService) lockedFiles(file *analytics.FileRecord) []uuid.UUID {
	ids := []uuid.UUID{file.ID}
	if originalFileID, _, ok := s.referralTarget(file); ok {
		ids = append(ids, originalFileID)
	}
	return ids
}

// lockedWallets lists the wallets a view of file credits
func (s *LedgerService) lockedWallets(file *analytics.FileRecord, beneficiary uuid.UUID) []uuid.UUID {
	ids := []uuid.UUID{beneficiary}
	if _, originalOwner, ok := s.referralTarget(file); ok && originalOwner != beneficiary {
		ids = append(ids, originalOwner)
	}
	return ids
}

// referralTarget is file.ReferralTarget restricted to a non-zero referral rate
func (s *LedgerService) referralTarget(file *analytics.FileRecord) (uuid.UUID, uuid.UUID, bool) {
	if s.rates.ReferralPerView.IsZero() {
		return uuid.Nil, uuid.Nil, false
	}
	return file.ReferralTarget()
}

// registerEvent stores the view id. A non-nil result means the id was
// already applied and the caller must stop.
func (s *LedgerService) registerEvent(
	ctx context.Context,
	repos LedgerRepositories,
	eventID string,
	input RecordViewInput,
	now time.Time,
) (*RecordViewResult, error) {
	event := &analytics.ViewEvent{
		EventID:   eventID,
		FileID:    input.FileID,
		ViewerID:  input.ViewerID,
		Day:       analytics.DayOf(now),
		CreatedAt: now,
	}
	created, err := repos.ViewEventRepo().Register(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("register view event: %w", err)
	}
	if created {
		return nil, nil
	}

	stored, err := repos.ViewEventRepo().FindByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load view event: %w", err)
	}
	if !stored.Matches(input.FileID, input.ViewerID) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "event id already used for a different view")
	}

	key := analytics.EntryKey{FileID: stored.FileID, UserID: stored.ViewerID, Day: stored.Day}
	entry, err := repos.EntryRepo().FindByKey(ctx, key)
	if errors.Is(err, shared.ErrNotFound) {
		entry = analytics.EmptyEntry(key)
	} else if err != nil {
		return nil, err
	}

	s.logger.Debug("view replay ignored",
		zap.String("event_id", eventID),
		zap.String("file_id", input.FileID.String()))
	return &RecordViewResult{
		Entry:     entry,
		Duplicate: true,
		Referral:  shared.Skipped(),
	}, nil
}

// referralCredit carries what creditReferral did for event publishing
type referralCredit struct {
	outcome        shared.Outcome
	originalFileID uuid.UUID
	originalOwner  uuid.UUID
}

// creditReferral credits the original owner of a cloned file. It runs in a
// savepoint so a failure undoes only the referral writes.
func (s *LedgerService) creditReferral(
	ctx context.Context,
	repos LedgerRepositories,
	file *analytics.FileRecord,
	day time.Time,
) referralCredit {
	originalFileID, originalOwner, ok := s.referralTarget(file)
	if !ok {
		return referralCredit{outcome: shared.Skipped()}
	}
	amount := s.rates.ReferralPerView

	err := repos.Savepoint(ctx, func(sp LedgerRepositories) error {
		key := analytics.EntryKey{FileID: originalFileID, UserID: originalOwner, Day: day}
		if _, err := sp.EntryRepo().AddReferralEarnings(ctx, key, amount); err != nil {
			return fmt.Errorf("referral entry: %w", err)
		}
		if err := sp.FileRepo().AddReferralEarnings(ctx, originalFileID, amount); err != nil {
			return fmt.Errorf("referral file counter: %w", err)
		}
		return s.creditAvailable(ctx, sp.WalletRepo(), originalOwner, amount)
	})

	outcome := shared.ClassifySecondary(err)
	if outcome.IsRecoverable() {
		outcome.Err = shared.ErrReferralCreditFailure.WithCause(err)
		s.logger.Warn("referral credit rolled back",
			zap.String("clone_file_id", file.ID.String()),
			zap.String("original_file_id", originalFileID.String()),
			zap.String("original_owner_id", originalOwner.String()),
			zap.Error(err))
	}
	return referralCredit{
		outcome:        outcome,
		originalFileID: originalFileID,
		originalOwner:  originalOwner,
	}
}

// creditAvailable adds amount to the user's available bucket. Every user
// has a wallet, so a missing one is an invariant violation.
func (s *LedgerService) creditAvailable(ctx context.Context, wallets wallet.WalletRepository, userID uuid.UUID, amount decimal.Decimal) error {
	t, err := wallet.Credit(wallet.BucketAvailable, amount)
	if err != nil {
		return err
	}
	err = wallets.Apply(ctx, userID, t)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.ErrInvariantViolation.WithCause(fmt.Errorf("no wallet for user %s", userID))
	}
	if err != nil {
		return fmt.Errorf("credit wallet: %w", err)
	}
	return nil
}

func (s *LedgerService) publishAfterCommit(
	ctx context.Context,
	result *RecordViewResult,
	file *analytics.FileRecord,
	viewerID uuid.UUID,
	day time.Time,
	referral referralCredit,
) {
	events := []shared.DomainEvent{
		analytics.NewViewRecordedEvent(file.ID, viewerID, result.BeneficiaryID, day, s.rates.PerView),
	}
	switch {
	case referral.outcome.Done:
		events = append(events, analytics.NewReferralCreditedEvent(
			file.ID, referral.originalFileID, referral.originalOwner, day, s.rates.ReferralPerView))
	case referral.outcome.IsRecoverable():
		events = append(events, analytics.NewReferralFailedEvent(file.ID, referral.outcome.Err.Error()))
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish view events",
			zap.String("file_id", file.ID.String()),
			zap.Error(err))
	}
}
