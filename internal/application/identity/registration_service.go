// Package identity registers users through emailed one-time codes and
// manages their payout billing details.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/identity"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
	"go.uber.org/zap"
)

// OTPSender delivers registration codes
type OTPSender interface {
	SendRegistrationOTP(ctx context.Context, email, code string, expiresAt time.Time) error
}

// RegistrationConfig contains configuration for OTP registration
type RegistrationConfig struct {
	OTPLength int
	OTPTTL    time.Duration
}

// DefaultRegistrationConfig returns six-digit codes valid for ten minutes
func DefaultRegistrationConfig() RegistrationConfig {
	return RegistrationConfig{
		OTPLength: identity.DefaultOTPLength,
		OTPTTL:    identity.DefaultOTPTTL,
	}
}

// RegistrationService handles OTP-verified sign up
type RegistrationService struct {
	scope  RegistrationTransactionScope
	users  identity.UserRepository
	otps   identity.OTPRepository
	sender OTPSender
	config RegistrationConfig
	clock  func() time.Time
	logger *zap.Logger
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(
	scope RegistrationTransactionScope,
	users identity.UserRepository,
	otps identity.OTPRepository,
	sender OTPSender,
	config RegistrationConfig,
	logger *zap.Logger,
) *RegistrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{
		scope:  scope,
		users:  users,
		otps:   otps,
		sender: sender,
		config: config,
		clock:  func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

// SetClock overrides the clock, for tests
func (s *RegistrationService) SetClock(clock func() time.Time) {
	s.clock = clock
}

// RequestRegistrationOTP issues a code for email, replacing any earlier one
func (s *RegistrationService) RequestRegistrationOTP(ctx context.Context, email string) (*OTPChallenge, error) {
	email = identity.NormalizeEmail(email)
	if err := identity.ValidateEmail(email); err != nil {
		return nil, err
	}
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Email is already registered")
	}

	code, err := identity.GenerateOTP(s.config.OTPLength)
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}
	now := s.clock()

	req, err := s.otps.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		req, err = identity.NewRegistrationOTP(email, code, s.config.OTPTTL, now)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := req.Refresh(code, s.config.OTPTTL, now); err != nil {
			return nil, err
		}
	}
	if err := s.otps.Save(ctx, req); err != nil {
		return nil, fmt.Errorf("save otp: %w", err)
	}

	if err := s.sender.SendRegistrationOTP(ctx, email, code, req.ExpiresAt); err != nil {
		s.logger.Error("failed to deliver registration code", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("deliver otp: %w", err)
	}
	s.logger.Info("registration code issued", zap.String("email", email))
	return &OTPChallenge{Email: email, ExpiresAt: req.ExpiresAt}, nil
}

// VerifyAndRegister checks the code and creates the user with an empty wallet
func (s *RegistrationService) VerifyAndRegister(ctx context.Context, input VerifyAndRegisterInput) (*identity.User, error) {
	email := identity.NormalizeEmail(input.Email)
	now := s.clock()

	req, err := s.otps.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := req.Verify(input.OTP, now); err != nil {
		if errors.Is(err, identity.ErrInvalidOTP) {
			if saveErr := s.otps.Save(ctx, req); saveErr != nil {
				s.logger.Error("failed to record otp attempt", zap.String("email", email), zap.Error(saveErr))
			}
			s.logger.Warn("invalid registration code",
				zap.String("email", email),
				zap.Int("attempts", req.Attempts))
		}
		return nil, err
	}

	user, err := identity.NewUser(email, input.Password, input.Profile(), now)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos RegistrationRepositories) error {
		exists, err := repos.UserRepo().ExistsByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return shared.NewDomainError(shared.CodeAlreadyExists, "Email is already registered")
		}
		if err := repos.UserRepo().Create(ctx, user); err != nil {
			return err
		}
		w, err := wallet.NewWallet(user.ID, now)
		if err != nil {
			return err
		}
		if err := repos.WalletRepo().Create(ctx, w); err != nil {
			return fmt.Errorf("create wallet: %w", err)
		}
		return repos.OTPRepo().Delete(ctx, req.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return user, nil
}
