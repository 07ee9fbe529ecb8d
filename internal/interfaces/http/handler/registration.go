package handler

import (
	"context"
	"net/http"
	"time"

	appidentity "github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/application/identity"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/identity"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Registrar signs users up with an emailed one-time code
type Registrar interface {
	RequestRegistrationOTP(ctx context.Context, email string) (*appidentity.OTPChallenge, error)
	VerifyAndRegister(ctx context.Context, input appidentity.VerifyAndRegisterInput) (*identity.User, error)
}

// RegistrationHandler serves the public sign-up endpoints
type RegistrationHandler struct {
	BaseHandler
	registrar Registrar
}

// NewRegistrationHandler creates a new RegistrationHandler
func NewRegistrationHandler(registrar Registrar) *RegistrationHandler {
	return &RegistrationHandler{registrar: registrar}
}

// RequestOTP godoc
// @ID           requestRegistrationOtp
// @Summary      Send a registration code
// @Description  Emails a six-digit code valid for ten minutes. Asking again replaces the previous code.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body dto.RequestOTPRequest true "Email"
// @Success      202 {object} APIResponse[dto.OTPChallengeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /auth/register/otp [post]
func (h *RegistrationHandler) RequestOTP(c *gin.Context) {
	var req dto.RequestOTPRequest
	if !h.bindJSON(c, &req) {
		return
	}

	challenge, err := h.registrar.RequestRegistrationOTP(c.Request.Context(), req.Email)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(dto.OTPChallengeResponse{
		Email:     challenge.Email,
		ExpiresAt: challenge.ExpiresAt,
	}))
}

// Verify godoc
// @ID           verifyAndRegister
// @Summary      Complete registration
// @Description  Checks the emailed code and creates the user with an empty wallet
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body dto.VerifyRegistrationRequest true "Registration form"
// @Success      201 {object} APIResponse[dto.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /auth/register/verify [post]
func (h *RegistrationHandler) Verify(c *gin.Context) {
	var req dto.VerifyRegistrationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	input := appidentity.VerifyAndRegisterInput{
		Email:      req.Email,
		OTP:        req.OTP,
		Password:   req.Password,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse(analytics.DayLayout, req.DateOfBirth)
		if err != nil {
			h.BadRequest(c, "date_of_birth must be formatted as YYYY-MM-DD")
			return
		}
		input.DateOfBirth = &dob
	}

	user, err := h.registrar.VerifyAndRegister(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.ToUserResponse(user))
}
