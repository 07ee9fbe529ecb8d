package handler

import (
	"context"

	appwallet "github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/application/wallet"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WithdrawalOperations are the operator transitions of a withdrawal
type WithdrawalOperations interface {
	Approve(ctx context.Context, txID uuid.UUID) (*wallet.WalletTransaction, error)
	Cancel(ctx context.Context, txID uuid.UUID) (*wallet.WalletTransaction, error)
	MarkPaid(ctx context.Context, txID uuid.UUID, referenceID *string) (*wallet.WalletTransaction, error)
	UpdateDetails(ctx context.Context, input appwallet.UpdateDetailsInput) (*wallet.WalletTransaction, error)
}

// BalanceAdjuster applies operator credits, debits and transfers
type BalanceAdjuster interface {
	Adjust(ctx context.Context, op wallet.Operation, input appwallet.AdjustBalanceInput) (*appwallet.WalletView, error)
}

// AdminHandler serves the operator endpoints. Routes are mounted behind the
// admin role check.
type AdminHandler struct {
	BaseHandler
	withdrawals WithdrawalOperations
	balances    BalanceAdjuster
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(withdrawals WithdrawalOperations, balances BalanceAdjuster) *AdminHandler {
	return &AdminHandler{withdrawals: withdrawals, balances: balances}
}

// ApproveWithdrawal godoc
// @ID           approveWithdrawal
// @Summary      Approve a pending withdrawal
// @Tags         admin
// @Produce      json
// @Param        id path string true "Withdrawal ID" format(uuid)
// @Success      200 {object} APIResponse[dto.WithdrawalResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/withdrawals/{id}/approve [post]
func (h *AdminHandler) ApproveWithdrawal(c *gin.Context) {
	h.transition(c, h.withdrawals.Approve)
}

// CancelWithdrawal godoc
// @ID           cancelWithdrawal
// @Summary      Cancel a pending or approved withdrawal
// @Tags         admin
// @Produce      json
// @Param        id path string true "Withdrawal ID" format(uuid)
// @Success      200 {object} APIResponse[dto.WithdrawalResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/withdrawals/{id}/cancel [post]
func (h *AdminHandler) CancelWithdrawal(c *gin.Context) {
	h.transition(c, h.withdrawals.Cancel)
}

// PayWithdrawal godoc
// @ID           payWithdrawal
// @Summary      Mark an approved withdrawal as paid
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Withdrawal ID" format(uuid)
// @Param        request body dto.MarkPaidRequest false "Payout reference"
// @Success      200 {object} APIResponse[dto.WithdrawalResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/withdrawals/{id}/pay [post]
func (h *AdminHandler) PayWithdrawal(c *gin.Context) {
	txID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.MarkPaidRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	tx, err := h.withdrawals.MarkPaid(c.Request.Context(), txID, req.ReferenceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToWithdrawalResponse(tx))
}

// UpdateWithdrawal godoc
// @ID           updateWithdrawal
// @Summary      Edit the note or payout reference of a withdrawal
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Withdrawal ID" format(uuid)
// @Param        request body dto.UpdateWithdrawalRequest true "Fields to change"
// @Success      200 {object} APIResponse[dto.WithdrawalResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/withdrawals/{id} [patch]
func (h *AdminHandler) UpdateWithdrawal(c *gin.Context) {
	txID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateWithdrawalRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tx, err := h.withdrawals.UpdateDetails(c.Request.Context(), appwallet.UpdateDetailsInput{
		TransactionID: txID,
		Note:          req.Note,
		ReferenceID:   req.ReferenceID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToWithdrawalResponse(tx))
}

// CreditWallet godoc
// @ID           creditWallet
// @Summary      Credit a wallet bucket
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        userId path string true "User ID" format(uuid)
// @Param        request body dto.AdjustBalanceRequest true "Amount and target bucket (to)"
// @Success      200 {object} APIResponse[dto.WalletResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/wallets/{userId}/credit [post]
func (h *AdminHandler) CreditWallet(c *gin.Context) {
	h.adjust(c, wallet.OperationCredit)
}

// DebitWallet godoc
// @ID           debitWallet
// @Summary      Debit a wallet bucket
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        userId path string true "User ID" format(uuid)
// @Param        request body dto.AdjustBalanceRequest true "Amount and source bucket (from)"
// @Success      200 {object} APIResponse[dto.WalletResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      402 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/wallets/{userId}/debit [post]
func (h *AdminHandler) DebitWallet(c *gin.Context) {
	h.adjust(c, wallet.OperationDebit)
}

// TransferWallet godoc
// @ID           transferWallet
// @Summary      Move an amount between the available and cancelled buckets
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        userId path string true "User ID" format(uuid)
// @Param        request body dto.AdjustBalanceRequest true "Amount, from and to"
// @Success      200 {object} APIResponse[dto.WalletResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      402 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/wallets/{userId}/transfer [post]
func (h *AdminHandler) TransferWallet(c *gin.Context) {
	h.adjust(c, wallet.OperationTransfer)
}

func (h *AdminHandler) transition(c *gin.Context, apply func(context.Context, uuid.UUID) (*wallet.WalletTransaction, error)) {
	txID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	tx, err := apply(c.Request.Context(), txID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToWithdrawalResponse(tx))
}

func (h *AdminHandler) adjust(c *gin.Context, op wallet.Operation) {
	userID, ok := h.pathUUID(c, "userId")
	if !ok {
		return
	}
	var req dto.AdjustBalanceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		h.BadRequest(c, "Invalid amount")
		return
	}

	view, err := h.balances.Adjust(c.Request.Context(), op, appwallet.AdjustBalanceInput{
		UserID: userID,
		From:   wallet.Bucket(req.From),
		To:     wallet.Bucket(req.To),
		Amount: amount,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToWalletResponse(view))
}
