package handler

import (
	"context"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/identity"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserProfiles reads users and edits their billing details
type UserProfiles interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*identity.User, error)
	UpdateBillingDetails(ctx context.Context, userID uuid.UUID, details identity.BillingDetails) (*identity.User, error)
}

// UserHandler serves the caller's profile
type UserHandler struct {
	BaseHandler
	users UserProfiles
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users UserProfiles) *UserHandler {
	return &UserHandler{users: users}
}

// Me godoc
// @ID           getCurrentUser
// @Summary      Get the caller's profile
// @Tags         users
// @Produce      json
// @Success      200 {object} APIResponse[dto.UserResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToUserResponse(user))
}

// UpdateBillingDetails godoc
// @ID           updateBillingDetails
// @Summary      Set the caller's payout details
// @Description  A bank account with routing code, a UPI id or a PayPal email is required. Existing withdrawals keep their snapshot.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body dto.BillingDetailsRequest true "Billing details"
// @Success      200 {object} APIResponse[dto.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/me/billing-details [put]
func (h *UserHandler) UpdateBillingDetails(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	var req dto.BillingDetailsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.users.UpdateBillingDetails(c.Request.Context(), userID, req.ToDomain())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToUserResponse(user))
}
