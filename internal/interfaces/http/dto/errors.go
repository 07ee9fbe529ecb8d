package dto

import (
	"net/http"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
)

// Error codes that only exist at the HTTP boundary. Domain failures are
// reported with their shared.DomainError code unchanged.
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeRateLimited  = "RATE_LIMIT_EXCEEDED"
	ErrCodeTooLarge     = "REQUEST_TOO_LARGE"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "INVALID_TOKEN"
	ErrCodeTokenRevoked = "TOKEN_REVOKED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeNotFound:              http.StatusNotFound,
	shared.CodeInsufficientFunds:     http.StatusPaymentRequired,
	shared.CodeMissingBillingDetails: http.StatusBadRequest,
	shared.CodeInvalidInput:          http.StatusBadRequest,
	shared.CodeInvalidState:          http.StatusConflict,
	shared.CodeAlreadyExists:         http.StatusConflict,
	shared.CodeConcurrencyConflict:   http.StatusConflict,
	shared.CodeOTPExpired:            http.StatusBadRequest,
	shared.CodeInvalidOTP:            http.StatusBadRequest,
	shared.CodeUnauthorized:          http.StatusUnauthorized,
	shared.CodeForbidden:             http.StatusForbidden,
	shared.CodeInvariantViolation:    http.StatusInternalServerError,
	shared.CodeReferralCreditFailure: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are internal errors.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsServerError reports whether code is answered with a 5xx status
func IsServerError(code string) bool {
	return GetHTTPStatus(code) >= http.StatusInternalServerError
}
