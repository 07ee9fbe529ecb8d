package handler

import (
	"context"

	appwallet "github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/application/wallet"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/interfaces/http/dto"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WalletReader loads a wallet
type WalletReader interface {
	GetWallet(ctx context.Context, userID uuid.UUID) (*appwallet.WalletView, error)
}

// Withdrawals is the user side of the withdrawal lifecycle
type Withdrawals interface {
	RequestWithdrawal(ctx context.Context, input appwallet.RequestWithdrawalInput) (*wallet.WalletTransaction, error)
	ListByUser(ctx context.Context, input appwallet.ListWithdrawalsInput) (shared.Paginated[*wallet.WalletTransaction], error)
	GetTransaction(ctx context.Context, requesterID uuid.UUID, isAdmin bool, txID uuid.UUID) (*wallet.WalletTransaction, error)
}

// WalletHandler serves the caller's wallet and withdrawals
type WalletHandler struct {
	BaseHandler
	wallets     WalletReader
	withdrawals Withdrawals
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(wallets WalletReader, withdrawals Withdrawals) *WalletHandler {
	return &WalletHandler{wallets: wallets, withdrawals: withdrawals}
}

// GetWallet godoc
// @ID           getWallet
// @Summary      Get the caller's wallet
// @Tags         wallet
// @Produce      json
// @Success      200 {object} APIResponse[dto.WalletResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /wallet [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	view, err := h.wallets.GetWallet(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToWalletResponse(view))
}

// RequestWithdrawal godoc
// @ID           requestWithdrawal
// @Summary      Withdraw the available balance
// @Description  Moves the whole available balance to pending. Needs billing details and at least the minimum withdrawal amount.
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request body dto.RequestWithdrawalRequest false "Optional note"
// @Success      201 {object} APIResponse[dto.WithdrawalResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      402 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /wallet/withdrawals [post]
func (h *WalletHandler) RequestWithdrawal(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	var req dto.RequestWithdrawalRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	tx, err := h.withdrawals.RequestWithdrawal(c.Request.Context(), appwallet.RequestWithdrawalInput{
		UserID: userID,
		Note:   req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.ToWithdrawalResponse(tx))
}

// ListWithdrawals godoc
// @ID           listWithdrawals
// @Summary      List the caller's withdrawals
// @Tags         wallet
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        status query string false "Status filter" Enums(PENDING, APPROVED, PAID, CANCELLED)
// @Success      200 {object} APIResponse[[]dto.WithdrawalResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /wallet/withdrawals [get]
func (h *WalletHandler) ListWithdrawals(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	req := dto.ListWithdrawalsRequest{ListRequest: dto.DefaultListRequest()}
	if !h.bindQuery(c, &req) {
		return
	}

	input := appwallet.ListWithdrawalsInput{
		UserID:     userID,
		Pagination: shared.Pagination{Page: req.Page, PageSize: req.PageSize},
	}
	if req.Status != "" {
		status := wallet.Status(req.Status)
		input.Status = &status
	}

	page, err := h.withdrawals.ListByUser(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, dto.ToWithdrawalResponses(page.Items), page.Total, page.Page, page.PageSize)
}

// GetWithdrawal godoc
// @ID           getWithdrawal
// @Summary      Get one withdrawal
// @Description  Users see their own withdrawals; admins see any
// @Tags         wallet
// @Produce      json
// @Param        id path string true "Withdrawal ID" format(uuid)
// @Success      200 {object} APIResponse[dto.WithdrawalResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /wallet/withdrawals/{id} [get]
func (h *WalletHandler) GetWithdrawal(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	txID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	tx, err := h.withdrawals.GetTransaction(c.Request.Context(), userID, middleware.IsAdmin(c), txID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToWithdrawalResponse(tx))
}
