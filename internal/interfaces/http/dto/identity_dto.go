package dto

import (
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/identity"
	"github.com/google/uuid"
)

// RequestOTPRequest starts a registration
type RequestOTPRequest struct {
	Email string `json:"email" binding:"required,email,max=254"`
}

// OTPChallengeResponse tells where the code was sent
type OTPChallengeResponse struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VerifyRegistrationRequest completes a registration
type VerifyRegistrationRequest struct {
	Email       string `json:"email" binding:"required,email,max=254"`
	OTP         string `json:"otp" binding:"required,numeric,min=4,max=10"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	FirstName   string `json:"first_name" binding:"required,max=100"`
	MiddleName  string `json:"middle_name" binding:"omitempty,max=100"`
	LastName    string `json:"last_name" binding:"required,max=100"`
	DateOfBirth string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
}

// BillingDetailsRequest sets the payout destination
type BillingDetailsRequest struct {
	AccountHolderName string `json:"account_holder_name" binding:"required,max=200"`
	BankName          string `json:"bank_name" binding:"omitempty,max=200"`
	AccountNumber     string `json:"account_number" binding:"omitempty,max=34"`
	RoutingCode       string `json:"routing_code" binding:"omitempty,max=20"`
	UPIID             string `json:"upi_id" binding:"omitempty,max=320"`
	PayPalEmail       string `json:"paypal_email" binding:"omitempty,email"`
}

// ToDomain converts the request to billing details
func (r BillingDetailsRequest) ToDomain() identity.BillingDetails {
	return identity.BillingDetails{
		AccountHolderName: r.AccountHolderName,
		BankName:          r.BankName,
		AccountNumber:     r.AccountNumber,
		RoutingCode:       r.RoutingCode,
		UPIID:             r.UPIID,
		PayPalEmail:       r.PayPalEmail,
	}
}

// BillingDetailsResponse shows a payout destination
type BillingDetailsResponse struct {
	AccountHolderName string `json:"account_holder_name"`
	BankName          string `json:"bank_name,omitempty"`
	AccountNumber     string `json:"account_number,omitempty"`
	RoutingCode       string `json:"routing_code,omitempty"`
	UPIID             string `json:"upi_id,omitempty"`
	PayPalEmail       string `json:"paypal_email,omitempty"`
}

// ToBillingDetailsResponse converts billing details
func ToBillingDetailsResponse(b identity.BillingDetails) BillingDetailsResponse {
	return BillingDetailsResponse{
		AccountHolderName: b.AccountHolderName,
		BankName:          b.BankName,
		AccountNumber:     b.AccountNumber,
		RoutingCode:       b.RoutingCode,
		UPIID:             b.UPIID,
		PayPalEmail:       b.PayPalEmail,
	}
}

// UserResponse is a user profile; the password hash never leaves the service
type UserResponse struct {
	ID             uuid.UUID               `json:"id"`
	Email          string                  `json:"email"`
	FirstName      string                  `json:"first_name"`
	MiddleName     string                  `json:"middle_name,omitempty"`
	LastName       string                  `json:"last_name"`
	FullName       string                  `json:"full_name"`
	DateOfBirth    *string                 `json:"date_of_birth,omitempty"`
	Roles          []string                `json:"roles"`
	BillingDetails *BillingDetailsResponse `json:"billing_details,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
}

// ToUserResponse converts a user
func ToUserResponse(u *identity.User) UserResponse {
	resp := UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		MiddleName: u.MiddleName,
		LastName:   u.LastName,
		FullName:   u.FullName(),
		Roles:      u.Roles,
		CreatedAt:  u.CreatedAt,
	}
	if u.DateOfBirth != nil {
		dob := formatDay(*u.DateOfBirth)
		resp.DateOfBirth = &dob
	}
	if u.BillingDetails != nil {
		b := ToBillingDetailsResponse(*u.BillingDetails)
		resp.BillingDetails = &b
	}
	return resp
}
