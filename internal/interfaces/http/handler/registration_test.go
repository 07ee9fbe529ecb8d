package handler

import (
	"net/http"
	"testing"
	"time"

	appidentity "github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/application/identity"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/identity"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func registrationRouter(ids *MockIdentity) *gin.Engine {
	h := NewRegistrationHandler(ids)
	router := gin.New()
	router.POST("/auth/register/otp", h.RequestOTP)
	router.POST("/auth/register/verify", h.Verify)
	return router
}

func TestRegistrationHandler_RequestOTP(t *testing.T) {
	ids := new(MockIdentity)
	expires := fixedNow.Add(10 * time.Minute)
	ids.On("RequestRegistrationOTP", mock.Anything, "asha@example.com").
		Return(&appidentity.OTPChallenge{Email: "asha@example.com", ExpiresAt: expires}, nil)
	ids.On("RequestRegistrationOTP", mock.Anything, "taken@example.com").Return(nil, shared.ErrAlreadyExists)

	router := registrationRouter(ids)

	rec := do(router, http.MethodPost, "/auth/register/otp", dto.RequestOTPRequest{Email: "asha@example.com"})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	var resp dto.OTPChallengeResponse
	decode(t, rec, &resp)
	assert.True(t, resp.ExpiresAt.Equal(expires))

	rec = do(router, http.MethodPost, "/auth/register/otp", dto.RequestOTPRequest{Email: "taken@example.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(router, http.MethodPost, "/auth/register/otp", dto.RequestOTPRequest{Email: "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrCodeValidation, errCode(t, rec))
}

func TestRegistrationHandler_Verify(t *testing.T) {
	ids := new(MockIdentity)
	dob := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	user, err := identity.NewUser("asha@example.com", "s3cret-pass", identity.Profile{FirstName: "Asha", LastName: "Rao"}, fixedNow)
	require.NoError(t, err)

	ids.On("VerifyAndRegister", mock.Anything, appidentity.VerifyAndRegisterInput{
		Email:       "asha@example.com",
		OTP:         "123456",
		Password:    "s3cret-pass",
		FirstName:   "Asha",
		LastName:    "Rao",
		DateOfBirth: &dob,
	}).Return(user, nil)

	rec := do(registrationRouter(ids), http.MethodPost, "/auth/register/verify", dto.VerifyRegistrationRequest{
		Email:       "asha@example.com",
		OTP:         "123456",
		Password:    "s3cret-pass",
		FirstName:   "Asha",
		LastName:    "Rao",
		DateOfBirth: "1990-05-01",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp dto.UserResponse
	decode(t, rec, &resp)
	assert.Equal(t, user.ID, resp.ID)
	assert.NotContains(t, rec.Body.String(), user.PasswordHash)
}

func TestRegistrationHandler_Verify_OTPErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{shared.NewDomainError(shared.CodeInvalidOTP, "Invalid code"), http.StatusBadRequest},
		{shared.NewDomainError(shared.CodeOTPExpired, "Code expired"), http.StatusBadRequest},
		{shared.ErrNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		ids := new(MockIdentity)
		ids.On("VerifyAndRegister", mock.Anything, mock.Anything).Return(nil, tt.err)

		rec := do(registrationRouter(ids), http.MethodPost, "/auth/register/verify", dto.VerifyRegistrationRequest{
			Email:     "asha@example.com",
			OTP:       "000000",
			Password:  "s3cret-pass",
			FirstName: "Asha",
			LastName:  "Rao",
		})
		assert.Equal(t, tt.status, rec.Code)
		assert.Equal(t, shared.CodeOf(tt.err), errCode(t, rec))
	}
}
