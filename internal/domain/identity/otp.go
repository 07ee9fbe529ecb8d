package identity

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// OTP defaults
const (
	DefaultOTPLength      = 6
	DefaultOTPTTL         = 10 * time.Minute
	MaxOTPAttempts        = 5
	otpBcryptCost         = bcrypt.DefaultCost
	otpPurposeRegistering = "registration"
)

// OTP errors
var (
	ErrOTPExpired = shared.NewDomainError(shared.CodeOTPExpired, "Verification code has expired")
	ErrInvalidOTP = shared.NewDomainError(shared.CodeInvalidOTP, "Invalid verification code")
)

// OTPRequest is a pending email verification. Only a hash of the code is kept.
type OTPRequest struct {
	shared.BaseEntity
	Email     string
	Purpose   string
	CodeHash  string
	ExpiresAt time.Time
	Attempts  int
}

// GenerateOTP returns a random numeric code of the given length
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		length = DefaultOTPLength
	}
	digits := make([]byte, length)
	ten := big.NewInt(10)
	for i := range digits {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

// NewRegistrationOTP creates a registration code request for email
func NewRegistrationOTP(email, code string, ttl time.Duration, now time.Time) (*OTPRequest, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	req := &OTPRequest{
		BaseEntity: shared.NewBaseEntityAt(now),
		Email:      email,
		Purpose:    otpPurposeRegistering,
	}
	if err := req.Refresh(code, ttl, now); err != nil {
		return nil, err
	}
	return req, nil
}

// Refresh replaces the code and restarts the expiry window
func (r *OTPRequest) Refresh(code string, ttl time.Duration, now time.Time) error {
	if ttl <= 0 {
		ttl = DefaultOTPTTL
	}
	hash, err := hashSecret(code, otpBcryptCost)
	if err != nil {
		return shared.NewDomainError("OTP_HASH_ERROR", "Failed to hash verification code")
	}
	r.CodeHash = hash
	r.ExpiresAt = now.UTC().Add(ttl)
	r.Attempts = 0
	r.Touch(now)
	return nil
}

// IsExpired reports whether the code can no longer be used
func (r *OTPRequest) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt) || r.Attempts >= MaxOTPAttempts
}

// Verify checks code. A wrong code consumes an attempt, so the caller must
// persist the request after a failed verification.
func (r *OTPRequest) Verify(code string, now time.Time) error {
	if r.IsExpired(now) {
		return ErrOTPExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(r.CodeHash), []byte(code)) != nil {
		r.Attempts++
		r.Touch(now)
		return ErrInvalidOTP
	}
	return nil
}
