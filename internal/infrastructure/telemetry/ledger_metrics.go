package telemetry

import (
	"context"
	"errors"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned by NewLedgerMetrics without a meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// LedgerMetrics turns committed ledger events into business metrics. It is
// an event handler; subscribe it to the bus.
type LedgerMetrics struct {
	logger *zap.Logger

	views              *Counter
	viewEarnings       *FloatCounter
	referralCredits    *Counter
	referralEarnings   *FloatCounter
	referralFailures   *Counter
	withdrawals        *Counter
	withdrawalAmount   *FloatCounter
	withdrawalStatus   *Counter
	balanceAdjustments *Counter
	auditMismatches    *Gauge
}

// NewLedgerMetrics creates the instruments on meter
func NewLedgerMetrics(meter metric.Meter, logger *zap.Logger) (*LedgerMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &LedgerMetrics{logger: logger}

	var err error
	counters := []struct {
		dst               **Counter
		name, desc, units string
	}{
		{&m.views, "diskbabu_views_total", "Views recorded", "{view}"},
		{&m.referralCredits, "diskbabu_referral_credits_total", "Referral credits applied", "{credit}"},
		{&m.referralFailures, "diskbabu_referral_credit_failures_total", "Referral credits rolled back", "{failure}"},
		{&m.withdrawals, "diskbabu_withdrawals_requested_total", "Withdrawals requested", "{withdrawal}"},
		{&m.withdrawalStatus, "diskbabu_withdrawal_transitions_total", "Withdrawal status transitions", "{transition}"},
		{&m.balanceAdjustments, "diskbabu_balance_adjustments_total", "Operator balance adjustments", "{adjustment}"},
	}
	for _, c := range counters {
		if *c.dst, err = NewCounter(meter, c.name, c.desc, c.units); err != nil {
			return nil, err
		}
	}

	amounts := []struct {
		dst        **FloatCounter
		name, desc string
	}{
		{&m.viewEarnings, "diskbabu_view_earnings_total", "Earnings accrued from views"},
		{&m.referralEarnings, "diskbabu_referral_earnings_total", "Referral earnings accrued"},
		{&m.withdrawalAmount, "diskbabu_withdrawal_amount_total", "Amount moved from available to pending"},
	}
	for _, a := range amounts {
		if *a.dst, err = NewFloatCounter(meter, a.name, a.desc, "{currency}"); err != nil {
			return nil, err
		}
	}

	m.auditMismatches, err = NewGauge(meter, "diskbabu_wallet_conservation_mismatches",
		"Wallets whose buckets do not match their credit and debit history", "{wallet}")
	if err != nil {
		return nil, err
	}
	return m, nil
}

// EventTypes lists the events LedgerMetrics consumes
func (m *LedgerMetrics) EventTypes() []string {
	return []string{
		analytics.EventTypeViewRecorded,
		analytics.EventTypeReferralCredited,
		analytics.EventTypeReferralFailed,
		wallet.EventTypeWithdrawalRequested,
		wallet.EventTypeWithdrawalStatusChanged,
		wallet.EventTypeBalanceAdjusted,
	}
}

// Name namespaces the idempotency keys of this handler
func (m *LedgerMetrics) Name() string { return "ledger-metrics" }

// Handle records the event. Unknown event types are ignored.
func (m *LedgerMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *analytics.ViewRecordedEvent:
		attr := AttrBeneficiary.Bool(e.BeneficiaryID == e.ViewerID)
		m.views.Inc(ctx, attr)
		m.viewEarnings.Add(ctx, e.Earnings.InexactFloat64(), attr)
	case *analytics.ReferralCreditedEvent:
		m.referralCredits.Inc(ctx)
		m.referralEarnings.Add(ctx, e.Amount.InexactFloat64())
	case *analytics.ReferralFailedEvent:
		m.referralFailures.Inc(ctx)
		m.logger.Debug("referral credit failure recorded", zap.String("clone_file_id", e.CloneFileID.String()), zap.String("reason", e.Reason))
	case *wallet.WithdrawalRequestedEvent:
		m.withdrawals.Inc(ctx)
		m.withdrawalAmount.Add(ctx, e.Amount.InexactFloat64())
	case *wallet.WithdrawalStatusChangedEvent:
		m.withdrawalStatus.Inc(ctx, AttrWithdrawalStatus.String(string(e.To)))
	case *wallet.BalanceAdjustedEvent:
		m.balanceAdjustments.Inc(ctx, AttrWalletOperation.String(string(e.Operation)))
	default:
		m.logger.Debug("ledger metrics ignored event", zap.String("event_type", event.EventType()))
	}
	return nil
}

// RecordAuditMismatches records the result of a conservation audit run
func (m *LedgerMetrics) RecordAuditMismatches(ctx context.Context, count int64) {
	m.auditMismatches.Record(ctx, count)
}

var _ shared.EventHandler = (*LedgerMetrics)(nil)
