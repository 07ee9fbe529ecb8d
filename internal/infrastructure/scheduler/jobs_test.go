package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pagedWallets struct {
	all   []*wallet.Wallet
	pages []shared.Pagination
	err   error
}

func (p *pagedWallets) List(_ context.Context, page shared.Pagination) ([]*wallet.Wallet, int64, error) {
	p.pages = append(p.pages, page)
	if p.err != nil {
		return nil, 0, p.err
	}
	start := min((page.Page-1)*page.PageSize, len(p.all))
	end := min(start+page.PageSize, len(p.all))
	return p.all[start:end], int64(len(p.all)), nil
}

type recordedMismatches struct {
	counts []int64
}

func (r *recordedMismatches) RecordAuditMismatches(_ context.Context, count int64) {
	r.counts = append(r.counts, count)
}

func walletWith(available, credited string) *wallet.Wallet {
	return wallet.Restore(shared.NewBaseEntity(), uuid.New(), wallet.Balances{
		Available:     decimal.RequireFromString(available),
		TotalCredited: decimal.RequireFromString(credited),
	}, 1)
}

func TestConservationAudit_FindsDrift(t *testing.T) {
	var all []*wallet.Wallet
	for i := 0; i < 4; i++ {
		all = append(all, walletWith("1.5", "1.5"))
	}
	broken := walletWith("2", "1.5")
	all = append(all, broken)

	lister := &pagedWallets{all: all}
	metrics := &recordedMismatches{}
	audit := NewConservationAudit(lister, 2, metrics, nil)

	report, err := audit.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, report.Scanned)
	require.Len(t, report.Mismatched, 1)
	assert.Equal(t, broken.UserID, report.Mismatched[0].UserID)
	assert.Len(t, lister.pages, 3)

	require.NoError(t, audit.Execute(context.Background(), NewJob(JobConservationAudit, 0)))
	assert.Equal(t, []int64{1}, metrics.counts)
}

func TestConservationAudit_NegativeBucket(t *testing.T) {
	w := wallet.Restore(shared.NewBaseEntity(), uuid.New(), wallet.Balances{
		Available:     decimal.RequireFromString("-1"),
		Pending:       decimal.RequireFromString("1"),
		TotalCredited: decimal.Zero,
	}, 1)
	report, err := NewConservationAudit(&pagedWallets{all: []*wallet.Wallet{w}}, 50, nil, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Mismatched, 1)
}

func TestConservationAudit_ListError(t *testing.T) {
	audit := NewConservationAudit(&pagedWallets{err: errors.New("connection reset")}, 10, nil, nil)
	err := audit.Execute(context.Background(), NewJob(JobConservationAudit, 0))
	assert.ErrorContains(t, err, "connection reset")
}

func TestConservationAudit_PageSizeClamped(t *testing.T) {
	lister := &pagedWallets{}
	_, err := NewConservationAudit(lister, 5000, nil, nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, lister.pages, 1)
	assert.Equal(t, 100, lister.pages[0].PageSize)
}

type expiredOTPs struct {
	cutoff time.Time
	n      int64
	err    error
}

func (e *expiredOTPs) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	e.cutoff = now
	return e.n, e.err
}

func TestOTPCleanup(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	store := &expiredOTPs{n: 3}
	cleanup := NewOTPCleanup(store, func() time.Time { return now }, nil)

	require.NoError(t, cleanup.Execute(context.Background(), NewJob(JobOTPCleanup, 0)))
	assert.Equal(t, now, store.cutoff)

	store.err = errors.New("timeout")
	assert.Error(t, cleanup.Execute(context.Background(), NewJob(JobOTPCleanup, 0)))
}
