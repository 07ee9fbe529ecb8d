package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, 3, 14, 15, 4, 5, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type ledgerFixture struct {
	files     *MockFileRepository
	entries   *MockEntryRepository
	events    *MockViewEventRepository
	wallets   *MockWalletRepository
	publisher *MockEventPublisher
	scope     *NoOpLedgerScope
	service   *LedgerService
}

func newLedgerFixture(rates analytics.Rates) *ledgerFixture {
	f := &ledgerFixture{
		files:     new(MockFileRepository),
		entries:   new(MockEntryRepository),
		events:    new(MockViewEventRepository),
		wallets:   new(MockWalletRepository),
		publisher: &MockEventPublisher{},
	}
	f.scope = &NoOpLedgerScope{Files: f.files, Entries: f.entries, ViewEvents: f.events, Wallets: f.wallets}
	f.service = NewLedgerService(f.scope, rates, zap.NewNop(),
		WithLedgerClock(fixedClock),
		WithLedgerEventPublisher(f.publisher))
	return f
}

func (f *ledgerFixture) assertExpectations(t *testing.T) {
	f.files.AssertExpectations(t)
	f.entries.AssertExpectations(t)
	f.events.AssertExpectations(t)
	f.wallets.AssertExpectations(t)
}

func creditOf(amount decimal.Decimal) interface{} {
	return mock.MatchedBy(func(t wallet.Transition) bool {
		return t.Operation == wallet.OperationCredit && t.To == wallet.BucketAvailable && t.Amount.Equal(amount)
	})
}

func amountOf(amount decimal.Decimal) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(amount) })
}

func newOriginal(t *testing.T, owner uuid.UUID) *analytics.FileRecord {
	t.Helper()
	file, err := analytics.NewOriginalFile(owner, "report.pdf", "application/pdf", 1024, "files/report.pdf", fixedNow.Add(-48*time.Hour))
	require.NoError(t, err)
	return file
}

func TestRecordView_OriginalFile(t *testing.T) {
	rates := analytics.DefaultRates()
	f := newLedgerFixture(rates)
	ctx := context.Background()

	owner, viewer := uuid.New(), uuid.New()
	file := newOriginal(t, owner)
	key := analytics.EntryKey{FileID: file.ID, UserID: viewer, Day: analytics.DayOf(fixedNow)}
	entry := &analytics.DailyAnalyticsEntry{FileID: file.ID, UserID: viewer, Day: key.Day, Views: 1, Earnings: rates.PerView}

	f.files.On("FindByID", ctx, file.ID).Return(file, nil)
	f.entries.On("IncrementView", ctx, key, amountOf(rates.PerView)).Return(entry, nil)
	f.files.On("IncrementTotalViews", ctx, file.ID, int64(1)).Return(nil)
	f.wallets.On("Apply", ctx, viewer, creditOf(rates.PerView)).Return(nil)

	result, err := f.service.RecordView(ctx, RecordViewInput{FileID: file.ID, ViewerID: viewer})
	require.NoError(t, err)

	assert.Equal(t, entry, result.Entry)
	assert.Equal(t, viewer, result.BeneficiaryID)
	assert.False(t, result.Duplicate)
	assert.False(t, result.Referral.Done)
	assert.Equal(t, shared.SeverityNone, result.Referral.Severity)
	assert.Len(t, f.publisher.GetEventsByType(analytics.EventTypeViewRecorded), 1)
	assert.Empty(t, f.publisher.GetEventsByType(analytics.EventTypeReferralCredited))
	f.assertExpectations(t)
	f.entries.AssertNotCalled(t, "AddReferralEarnings", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordView_OwnerBeneficiary(t *testing.T) {
	rates := analytics.DefaultRates()
	rates.Beneficiary = analytics.BeneficiaryOwner
	f := newLedgerFixture(rates)
	ctx := context.Background()

	owner, viewer := uuid.New(), uuid.New()
	file := newOriginal(t, owner)

	f.files.On("FindByID", ctx, file.ID).Return(file, nil)
	f.entries.On("IncrementView", ctx, mock.MatchedBy(func(k analytics.EntryKey) bool {
		return k.UserID == viewer
	}), mock.Anything).Return(&analytics.DailyAnalyticsEntry{Views: 1}, nil)
	f.files.On("IncrementTotalViews", ctx, file.ID, int64(1)).Return(nil)
	f.wallets.On("Apply", ctx, owner, creditOf(rates.PerView)).Return(nil)

	result, err := f.service.RecordView(ctx, RecordViewInput{FileID: file.ID, ViewerID: viewer})
	require.NoError(t, err)
	assert.Equal(t, owner, result.BeneficiaryID)
	f.assertExpectations(t)
}

func TestRecordView_CloneCreditsOriginalOwner(t *testing.T) {
	rates := analytics.DefaultRates()
	f := newLedgerFixture(rates)
	ctx := context.Background()

	owner, cloner, viewer := uuid.New(), uuid.New(), uuid.New()
	original := newOriginal(t, owner)
	clone, err := original.Clone(cloner, fixedNow.Add(-time.Hour))
	require.NoError(t, err)
	day := analytics.DayOf(fixedNow)

	f.files.On("FindByID", ctx, clone.ID).Return(clone, nil)
	f.entries.On("IncrementView", ctx, analytics.EntryKey{FileID: clone.ID, UserID: viewer, Day: day}, mock.Anything).
		Return(&analytics.DailyAnalyticsEntry{Views: 1}, nil)
	f.files.On("IncrementTotalViews", ctx, clone.ID, int64(1)).Return(nil)
	f.wallets.On("Apply", ctx, viewer, creditOf(rates.PerView)).Return(nil)

	f.entries.On("AddReferralEarnings", ctx, analytics.EntryKey{FileID: original.ID, UserID: owner, Day: day}, amountOf(rates.ReferralPerView)).
		Return(&analytics.DailyAnalyticsEntry{ReferralEarnings: rates.ReferralPerView}, nil)
	f.files.On("AddReferralEarnings", ctx, original.ID, amountOf(rates.ReferralPerView)).Return(nil)
	f.wallets.On("Apply", ctx, owner, creditOf(rates.ReferralPerView)).Return(nil)

	result, err := f.service.RecordView(ctx, RecordViewInput{FileID: clone.ID, ViewerID: viewer})
	require.NoError(t, err)

	assert.True(t, result.Referral.Done)
	credited := f.publisher.GetEventsByType(analytics.EventTypeReferralCredited)
	require.Len(t, credited, 1)
	event := credited[0].(*analytics.ReferralCreditedEvent)
	assert.Equal(t, owner, event.OriginalOwnerID)
	assert.Equal(t, original.ID, event.OriginalFileID)
	f.assertExpectations(t)
	f.wallets.AssertNotCalled(t, "Apply", ctx, cloner, mock.Anything)

	require.Len(t, f.scope.Locked, 1)
	assert.Equal(t, []uuid.UUID{clone.ID, original.ID}, f.scope.Locked[0].FileIDs)
	assert.Equal(t, []uuid.UUID{viewer, owner}, f.scope.Locked[0].WalletUserIDs)
}

func TestRecordView_CloneBackToOriginalOwnerHasNoReferral(t *testing.T) {
	rates := analytics.DefaultRates()
	f := newLedgerFixture(rates)
	ctx := context.Background()

	owner, other, viewer := uuid.New(), uuid.New(), uuid.New()
	original := newOriginal(t, owner)
	first, err := original.Clone(other, fixedNow)
	require.NoError(t, err)
	back, err := first.Clone(owner, fixedNow)
	require.NoError(t, err)

	f.files.On("FindByID", ctx, back.ID).Return(back, nil)
	f.entries.On("IncrementView", ctx, mock.Anything, mock.Anything).Return(&analytics.DailyAnalyticsEntry{Views: 1}, nil)
	f.files.On("IncrementTotalViews", ctx, back.ID, int64(1)).Return(nil)
	f.wallets.On("Apply", ctx, viewer, mock.Anything).Return(nil)

	result, err := f.service.RecordView(ctx, RecordViewInput{FileID: back.ID, ViewerID: viewer})
	require.NoError(t, err)
	assert.False(t, result.Referral.Done)
	f.entries.AssertNotCalled(t, "AddReferralEarnings", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordView_ReferralFailureIsRecoverable(t *testing.T) {
	rates := analytics.DefaultRates()
	f := newLedgerFixture(rates)
	ctx := context.Background()

	owner, cloner, viewer := uuid.New(), uuid.New(), uuid.New()
	original := newOriginal(t, owner)
	clone, err := original.Clone(cloner, fixedNow)
	require.NoError(t, err)

	f.files.On("FindByID", ctx, clone.ID).Return(clone, nil)
	f.entries.On("IncrementView", ctx, mock.Anything, mock.Anything).Return(&analytics.DailyAnalyticsEntry{Views: 1}, nil)
	f.files.On("IncrementTotalViews", ctx, clone.ID, int64(1)).Return(nil)
	f.wallets.On("Apply", ctx, viewer, mock.Anything).Return(nil)
	f.entries.On("AddReferralEarnings", ctx, mock.Anything, mock.Anything).Return(nil, errors.New("deadlock detected"))

	result, err := f.service.RecordView(ctx, RecordViewInput{FileID: clone.ID, ViewerID: viewer})
	require.NoError(t, err)

	assert.True(t, result.Referral.IsRecoverable())
	assert.True(t, errors.Is(result.Referral.Err, shared.ErrReferralCreditFailure))
	assert.Len(t, f.publisher.GetEventsByType(analytics.EventTypeReferralFailed), 1)
	assert.Len(t, f.publisher.GetEventsByType(analytics.EventTypeViewRecorded), 1)
	f.files.AssertNotCalled(t, "AddReferralEarnings", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordView_CanceledReferralAbortsView(t *testing.T) {
	rates := analytics.DefaultRates()
	f := newLedgerFixture(rates)
	ctx := context.Background()

	owner, cloner, viewer := uuid.New(), uuid.New(), uuid.New()
	original := newOriginal(t, owner)
	clone, err := original.Clone(cloner, fixedNow)
	require.NoError(t, err)

	f.files.On("FindByID", ctx, clone.ID).Return(clone, nil)
	f.entries.On("IncrementView", ctx, mock.Anything, mock.Anything).Return(&analytics.DailyAnalyticsEntry{Views: 1}, nil)
	f.files.On("IncrementTotalViews", ctx, clone.ID, int64(1)).Return(nil)
	f.wallets.On("Apply", ctx, viewer, mock.Anything).Return(nil)
	f.entries.On("AddReferralEarnings", ctx, mock.Anything, mock.Anything).Return(nil, context.Canceled)

	result, err := f.service.RecordView(ctx, RecordViewInput{FileID: clone.ID, ViewerID: viewer})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.publisher.GetEventsByType(analytics.EventTypeViewRecorded))
}

func TestRecordView_FileNotFound(t *testing.T) {
	f := newLedgerFixture(analytics.DefaultRates())
	ctx := context.Background()
	fileID := uuid.New()

	f.files.On("FindByID", ctx, fileID).Return(nil, shared.ErrNotFound)

	_, err := f.service.RecordView(ctx, RecordViewInput{FileID: fileID, ViewerID: uuid.New()})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	f.entries.AssertNotCalled(t, "IncrementView", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordView_MissingWalletIsInvariantViolation(t *testing.T) {
	f := newLedgerFixture(analytics.DefaultRates())
	ctx := context.Background()
	viewer := uuid.New()
	file := newOriginal(t, uuid.New())

	f.files.On("FindByID", ctx, file.ID).Return(file, nil)
	f.entries.On("IncrementView", ctx, mock.Anything, mock.Anything).Return(&analytics.DailyAnalyticsEntry{Views: 1}, nil)
	f.files.On("IncrementTotalViews", ctx, file.ID, int64(1)).Return(nil)
	f.wallets.On("Apply", ctx, viewer, mock.Anything).Return(shared.ErrNotFound)

	_, err := f.service.RecordView(ctx, RecordViewInput{FileID: file.ID, ViewerID: viewer})
	assert.ErrorIs(t, err, shared.ErrInvariantViolation)
	assert.Empty(t, f.publisher.GetEventsByType(analytics.EventTypeViewRecorded))
}

func TestRecordView_InvalidInput(t *testing.T) {
	f := newLedgerFixture(analytics.DefaultRates())
	ctx := context.Background()

	_, err := f.service.RecordView(ctx, RecordViewInput{FileID: uuid.Nil, ViewerID: uuid.New()})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = f.service.RecordView(ctx, RecordViewInput{FileID: uuid.New(), ViewerID: uuid.Nil})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	long := make([]byte, maxEventIDLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = f.service.RecordView(ctx, RecordViewInput{FileID: uuid.New(), ViewerID: uuid.New(), EventID: string(long)})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestRecordView_ReplayedEventAppliesNothing(t *testing.T) {
	f := newLedgerFixture(analytics.DefaultRates())
	ctx := context.Background()
	fileID, viewer := uuid.New(), uuid.New()
	day := analytics.DayOf(fixedNow)
	stored := &analytics.ViewEvent{EventID: "evt-1", FileID: fileID, ViewerID: viewer, Day: day}
	existing := &analytics.DailyAnalyticsEntry{FileID: fileID, UserID: viewer, Day: day, Views: 3}

	f.events.On("Register", ctx, mock.AnythingOfType("*analytics.ViewEvent")).Return(false, nil)
	f.events.On("FindByID", ctx, "evt-1").Return(stored, nil)
	f.entries.On("FindByKey", ctx, analytics.EntryKey{FileID: fileID, UserID: viewer, Day: day}).Return(existing, nil)

	result, err := f.service.RecordView(ctx, RecordViewInput{FileID: fileID, ViewerID: viewer, EventID: "evt-1"})
	require.NoError(t, err)

	assert.True(t, result.Duplicate)
	assert.Equal(t, int64(3), result.Entry.Views)
	f.files.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	f.entries.AssertNotCalled(t, "IncrementView", mock.Anything, mock.Anything, mock.Anything)
	f.wallets.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.publisher.GetEventsByType(analytics.EventTypeViewRecorded))
}

func TestRecordView_EventIDReusedForDifferentView(t *testing.T) {
	f := newLedgerFixture(analytics.DefaultRates())
	ctx := context.Background()
	stored := &analytics.ViewEvent{EventID: "evt-1", FileID: uuid.New(), ViewerID: uuid.New(), Day: analytics.DayOf(fixedNow)}

	f.events.On("Register", ctx, mock.Anything).Return(false, nil)
	f.events.On("FindByID", ctx, "evt-1").Return(stored, nil)

	_, err := f.service.RecordView(ctx, RecordViewInput{FileID: uuid.New(), ViewerID: uuid.New(), EventID: "evt-1"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestRecordView_NewEventIsApplied(t *testing.T) {
	rates := analytics.DefaultRates()
	f := newLedgerFixture(rates)
	ctx := context.Background()
	viewer := uuid.New()
	file := newOriginal(t, uuid.New())

	f.events.On("Register", ctx, mock.MatchedBy(func(e *analytics.ViewEvent) bool {
		return e.EventID == "evt-2" && e.FileID == file.ID && e.ViewerID == viewer
	})).Return(true, nil)
	f.files.On("FindByID", ctx, file.ID).Return(file, nil)
	f.entries.On("IncrementView", ctx, mock.Anything, mock.Anything).Return(&analytics.DailyAnalyticsEntry{Views: 1}, nil)
	f.files.On("IncrementTotalViews", ctx, file.ID, int64(1)).Return(nil)
	f.wallets.On("Apply", ctx, viewer, mock.Anything).Return(nil)

	result, err := f.service.RecordView(ctx, RecordViewInput{FileID: file.ID, ViewerID: viewer, EventID: " evt-2 "})
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	f.assertExpectations(t)
}

// conflictingScope fails the first failures runs with a lock conflict
type conflictingScope struct {
	inner    LedgerTransactionScope
	failures int
	runs     int
}

func (s *conflictingScope) Execute(ctx context.Context, fn func(repos LedgerRepositories) error) error {
	s.runs++
	if s.runs <= s.failures {
		return shared.ErrConcurrencyConflict.WithCause(errors.New("deadlock detected"))
	}
	return s.inner.Execute(ctx, fn)
}

func TestRecordView_RetriesLockConflict(t *testing.T) {
	rates := analytics.DefaultRates()
	f := newLedgerFixture(rates)
	ctx := context.Background()
	scope := &conflictingScope{inner: f.scope, failures: DefaultMaxViewAttempts - 1}
	service := NewLedgerService(scope, rates, zap.NewNop(),
		WithLedgerClock(fixedClock),
		WithLedgerEventPublisher(f.publisher))

	owner, viewer := uuid.New(), uuid.New()
	file := newOriginal(t, owner)
	f.files.On("FindByID", ctx, file.ID).Return(file, nil).Once()
	f.entries.On("IncrementView", ctx, mock.Anything, mock.Anything).Return(&analytics.DailyAnalyticsEntry{Views: 1}, nil).Once()
	f.files.On("IncrementTotalViews", ctx, file.ID, int64(1)).Return(nil).Once()
	f.wallets.On("Apply", ctx, viewer, creditOf(rates.PerView)).Return(nil).Once()

	result, err := service.RecordView(ctx, RecordViewInput{FileID: file.ID, ViewerID: viewer})
	require.NoError(t, err)
	assert.Equal(t, viewer, result.BeneficiaryID)
	assert.Equal(t, DefaultMaxViewAttempts, scope.runs)
	assert.Len(t, f.publisher.GetEventsByType(analytics.EventTypeViewRecorded), 1)
	require.Len(t, f.scope.Locked, 1)
	assert.Equal(t, []uuid.UUID{file.ID}, f.scope.Locked[0].FileIDs)
	assert.Equal(t, []uuid.UUID{viewer}, f.scope.Locked[0].WalletUserIDs)
	f.assertExpectations(t)
}

func TestRecordView_GivesUpAfterMaxAttempts(t *testing.T) {
	f := newLedgerFixture(analytics.DefaultRates())
	scope := &conflictingScope{inner: f.scope, failures: 10}
	service := NewLedgerService(scope, analytics.DefaultRates(), zap.NewNop(),
		WithLedgerMaxAttempts(2),
		WithLedgerEventPublisher(f.publisher))

	result, err := service.RecordView(context.Background(), RecordViewInput{FileID: uuid.New(), ViewerID: uuid.New()})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.Equal(t, 2, scope.runs)
	assert.Empty(t, f.publisher.GetEventsByType(analytics.EventTypeViewRecorded))
}
