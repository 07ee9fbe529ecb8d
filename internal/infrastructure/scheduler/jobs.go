package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
	"go.uber.org/zap"
)

// Job names
const (
	JobConservationAudit = "conservation-audit"
	JobOTPCleanup        = "otp-cleanup"
)

// WalletLister pages through every wallet
type WalletLister interface {
	List(ctx context.Context, page shared.Pagination) ([]*wallet.Wallet, int64, error)
}

// AuditRecorder receives the mismatch count of each audit run
type AuditRecorder interface {
	RecordAuditMismatches(ctx context.Context, count int64)
}

// ConservationAudit checks that every wallet's buckets add up to its credit
// and debit history and that no bucket is negative. Violations are logged
// one by one; the audit itself only fails when wallets cannot be read.
type ConservationAudit struct {
	wallets  WalletLister
	pageSize int
	metrics  AuditRecorder
	logger   *zap.Logger
}

// NewConservationAudit creates the audit job. metrics may be nil.
func NewConservationAudit(wallets WalletLister, pageSize int, metrics AuditRecorder, logger *zap.Logger) *ConservationAudit {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConservationAudit{
		wallets:  wallets,
		pageSize: shared.Pagination{PageSize: pageSize}.Normalize().PageSize,
		metrics:  metrics,
		logger:   logger,
	}
}

// AuditReport summarises one audit run
type AuditReport struct {
	Scanned    int
	Mismatched []*wallet.Wallet
}

// Run scans all wallets
func (a *ConservationAudit) Run(ctx context.Context) (*AuditReport, error) {
	report := &AuditReport{}
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		wallets, _, err := a.wallets.List(ctx, shared.Pagination{Page: page, PageSize: a.pageSize})
		if err != nil {
			return report, fmt.Errorf("list wallets page %d: %w", page, err)
		}
		for _, w := range wallets {
			report.Scanned++
			if w.Conserved() {
				continue
			}
			report.Mismatched = append(report.Mismatched, w)
			b := w.Balances()
			a.logger.Error("Wallet conservation violated",
				zap.String("user_id", w.UserID.String()),
				zap.String("drift", w.Drift().String()),
				zap.String("available", b.Available.String()),
				zap.String("pending", b.Pending.String()),
				zap.String("approved", b.Approved.String()),
				zap.String("paid", b.Paid.String()),
				zap.String("cancelled", b.Cancelled.String()),
				zap.String("total_credited", b.TotalCredited.String()),
				zap.String("total_debited", b.TotalDebited.String()),
			)
		}
		if len(wallets) < a.pageSize {
			break
		}
	}
	return report, nil
}

// Execute implements JobExecutor
func (a *ConservationAudit) Execute(ctx context.Context, job *Job) error {
	report, err := a.Run(ctx)
	if err != nil {
		return err
	}
	if a.metrics != nil {
		a.metrics.RecordAuditMismatches(ctx, int64(len(report.Mismatched)))
	}
	a.logger.Info("Conservation audit finished",
		zap.String("job_id", job.ID.String()),
		zap.Int("scanned", report.Scanned),
		zap.Int("mismatched", len(report.Mismatched)),
	)
	return nil
}

// ExpiredOTPDeleter removes registration codes past their expiry
type ExpiredOTPDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// OTPCleanup deletes expired registration codes
type OTPCleanup struct {
	otps   ExpiredOTPDeleter
	now    func() time.Time
	logger *zap.Logger
}

// NewOTPCleanup creates the cleanup job
func NewOTPCleanup(otps ExpiredOTPDeleter, now func() time.Time, logger *zap.Logger) *OTPCleanup {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OTPCleanup{otps: otps, now: now, logger: logger}
}

// Execute implements JobExecutor
func (c *OTPCleanup) Execute(ctx context.Context, job *Job) error {
	deleted, err := c.otps.DeleteExpired(ctx, c.now().UTC())
	if err != nil {
		return fmt.Errorf("delete expired otp requests: %w", err)
	}
	c.logger.Info("Expired OTP requests deleted", zap.String("job_id", job.ID.String()), zap.Int64("deleted", deleted))
	return nil
}
