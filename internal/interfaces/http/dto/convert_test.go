package dto

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/identity"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noon = time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)

func TestToWithdrawalResponse_MasksAccountNumber(t *testing.T) {
	billing := identity.BillingDetails{
		AccountHolderName: "Asha Rao",
		AccountNumber:     "123456789012",
		RoutingCode:       "HDFC0001234",
	}
	tx, err := wallet.NewWithdrawal(uuid.New(), decimal.RequireFromString("12.5"), billing, "first payout", noon)
	require.NoError(t, err)

	resp := ToWithdrawalResponse(tx)

	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, "bank", resp.PayoutMethod)
	assert.Equal(t, "****9012", resp.BillingDetails.AccountNumber)
	assert.Equal(t, "HDFC0001234", resp.BillingDetails.RoutingCode)
	assert.True(t, resp.Amount.Equal(decimal.RequireFromString("12.5")))
}

func TestToFileResponse(t *testing.T) {
	owner := uuid.New()
	file, err := analytics.NewOriginalFile(owner, "report.pdf", "application/pdf", 2048, "uploads/report.pdf", noon)
	require.NoError(t, err)

	resp := ToFileResponse(file)
	assert.Equal(t, "ORIGINAL", resp.Source)
	assert.Equal(t, "2024-03-15", resp.UploadedDay)
	assert.Nil(t, resp.OriginalFileID)

	clone, err := file.Clone(uuid.New(), noon.Add(24*time.Hour))
	require.NoError(t, err)
	resp = ToFileResponse(clone)
	assert.Equal(t, "CLONE", resp.Source)
	assert.Equal(t, owner, resp.OriginalOwnerID)
	require.NotNil(t, resp.OriginalFileID)
	assert.Equal(t, file.ID, *resp.OriginalFileID)
}

func TestReferralLabel(t *testing.T) {
	assert.Equal(t, "credited", referralLabel(shared.Applied()))
	assert.Equal(t, "skipped", referralLabel(shared.Skipped()))
	assert.Equal(t, "failed", referralLabel(shared.Recoverable(errors.New("boom"))))
}

func TestToDayBreakdownResponses_DecimalsAsStrings(t *testing.T) {
	days := []analytics.DayBreakdown{{
		Date:             analytics.DayOf(noon),
		Views:            3,
		Earnings:         decimal.RequireFromString("0.006"),
		ReferralEarnings: decimal.Zero,
	}}

	data, err := json.Marshal(ToDayBreakdownResponses(days))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"date":"2024-03-15","views":3,"earnings":"0.006","referral_earnings":"0","uploads":0}]`, string(data))
}

func TestToUserResponse(t *testing.T) {
	dob := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	user, err := identity.NewUser("asha@example.com", "correct-horse-battery9", identity.Profile{
		FirstName:   "asha",
		LastName:    "rao",
		DateOfBirth: &dob,
	}, noon)
	require.NoError(t, err)

	resp := ToUserResponse(user)
	assert.Equal(t, "asha@example.com", resp.Email)
	require.NotNil(t, resp.DateOfBirth)
	assert.Equal(t, "1990-05-01", *resp.DateOfBirth)
	assert.Nil(t, resp.BillingDetails)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "password")
}
