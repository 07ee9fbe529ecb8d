package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a DomainError carrying the same code.
// errors.Is(err, ErrNotFound) therefore matches any NOT_FOUND error,
// whatever its message.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithCause returns a copy of the error wrapping cause
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, cause: cause}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes
const (
	CodeNotFound              = "NOT_FOUND"
	CodeAlreadyExists         = "ALREADY_EXISTS"
	CodeInvalidInput          = "INVALID_INPUT"
	CodeConcurrencyConflict   = "CONCURRENCY_CONFLICT"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeForbidden             = "FORBIDDEN"
	CodeInvalidState          = "INVALID_STATE"
	CodeInsufficientFunds     = "INSUFFICIENT_FUNDS"
	CodeMissingBillingDetails = "MISSING_BILLING_DETAILS"
	CodeInvariantViolation    = "INVARIANT_VIOLATION"
	CodeReferralCreditFailure = "REFERRAL_CREDIT_FAILURE"
	CodeOTPExpired            = "OTP_EXPIRED"
	CodeInvalidOTP            = "INVALID_OTP"
)

// Common domain errors
var (
	ErrNotFound              = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists         = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput          = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrConcurrencyConflict   = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrUnauthorized          = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden             = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInvalidState          = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrInsufficientFunds     = NewDomainError(CodeInsufficientFunds, "Insufficient funds available")
	ErrMissingBillingDetails = NewDomainError(CodeMissingBillingDetails, "Billing details are required")
	ErrInvariantViolation    = NewDomainError(CodeInvariantViolation, "Ledger invariant violated")
	ErrReferralCreditFailure = NewDomainError(CodeReferralCreditFailure, "Referral credit failed")
)

// CodeOf returns the DomainError code carried by err, or "" when err is not a DomainError
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
