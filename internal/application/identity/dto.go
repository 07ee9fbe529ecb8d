package identity

import (
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/identity"
)

// OTPChallenge tells the caller where the code went and until when it is valid
type OTPChallenge struct {
	Email     string
	ExpiresAt time.Time
}

// VerifyAndRegisterInput contains the registration form
type VerifyAndRegisterInput struct {
	Email       string
	OTP         string
	Password    string
	FirstName   string
	MiddleName  string
	LastName    string
	DateOfBirth *time.Time
}

// Profile converts the form to a domain profile
func (in VerifyAndRegisterInput) Profile() identity.Profile {
	return identity.Profile{
		FirstName:   in.FirstName,
		MiddleName:  in.MiddleName,
		LastName:    in.LastName,
		DateOfBirth: in.DateOfBirth,
	}
}
