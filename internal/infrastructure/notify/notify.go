// Package notify delivers user notifications. Email delivery is handled
// outside this service, so the senders here only log what would be sent.
package notify

import (
	"context"
	"strings"
	"time"

	appidentity "github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/application/identity"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LogOTPSender logs registration codes instead of emailing them
type LogOTPSender struct {
	logger      *zap.Logger
	revealCodes bool
}

// NewLogOTPSender creates the sender. Codes are written to the log only when
// revealCodes is set, which is meant for local development.
func NewLogOTPSender(logger *zap.Logger, revealCodes bool) *LogOTPSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogOTPSender{logger: logger, revealCodes: revealCodes}
}

// SendRegistrationOTP implements identity.OTPSender
func (s *LogOTPSender) SendRegistrationOTP(ctx context.Context, email, code string, expiresAt time.Time) error {
	fields := []zap.Field{
		zap.String("email", MaskEmail(email)),
		zap.Time("expires_at", expiresAt),
	}
	if s.revealCodes {
		fields = append(fields, zap.String("code", code))
	}
	logger.WithLogger(ctx, s.logger).Info("Registration code issued", fields...)
	return nil
}

// MaskEmail keeps the first character of the local part and the domain
func MaskEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// WithdrawalNotifier tells users about their withdrawals
type WithdrawalNotifier struct {
	logger *zap.Logger
}

// NewWithdrawalNotifier creates the notifier
func NewWithdrawalNotifier(logger *zap.Logger) *WithdrawalNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WithdrawalNotifier{logger: logger}
}

// Name identifies the handler for delivery deduplication
func (n *WithdrawalNotifier) Name() string { return "withdrawal-notifier" }

// EventTypes implements shared.EventHandler
func (n *WithdrawalNotifier) EventTypes() []string {
	return []string{wallet.EventTypeWithdrawalRequested, wallet.EventTypeWithdrawalStatusChanged}
}

// Handle implements shared.EventHandler
func (n *WithdrawalNotifier) Handle(ctx context.Context, event shared.DomainEvent) error {
	log := logger.WithLogger(ctx, n.logger)
	switch e := event.(type) {
	case *wallet.WithdrawalRequestedEvent:
		log.Info("Withdrawal notice",
			zap.String("user_id", e.UserID.String()),
			zap.String("transaction_id", e.TransactionID.String()),
			zap.String("amount", e.Amount.String()),
			zap.String("message", "Your withdrawal request was received"),
		)
	case *wallet.WithdrawalStatusChangedEvent:
		log.Info("Withdrawal notice",
			zap.String("user_id", e.UserID.String()),
			zap.String("transaction_id", e.TransactionID.String()),
			zap.String("amount", e.Amount.String()),
			zap.String("message", statusMessage(e.To)),
		)
	}
	return nil
}

func statusMessage(s wallet.Status) string {
	switch s {
	case wallet.StatusApproved:
		return "Your withdrawal was approved"
	case wallet.StatusPaid:
		return "Your withdrawal was paid"
	case wallet.StatusCancelled:
		return "Your withdrawal was cancelled and the amount set aside"
	default:
		return "Your withdrawal is " + strings.ToLower(string(s))
	}
}

var (
	_ appidentity.OTPSender = (*LogOTPSender)(nil)
	_ shared.EventHandler   = (*WithdrawalNotifier)(nil)
)
