package testutil

import (
	"context"
	"testing"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEventHandler(t *testing.T) {
	handler := NewMockEventHandler(wallet.EventTypeBalanceAdjusted, wallet.EventTypeWithdrawalRequested)
	assert.Equal(t, []string{wallet.EventTypeBalanceAdjusted, wallet.EventTypeWithdrawalRequested}, handler.EventTypes())
	assert.Empty(t, handler.Handled())

	credit, err := wallet.Credit(wallet.BucketAvailable, decimal.RequireFromString("0.002"))
	require.NoError(t, err)
	userID := uuid.New()
	first := wallet.NewBalanceAdjustedEvent(userID, credit)
	second := wallet.NewBalanceAdjustedEvent(userID, credit)

	require.NoError(t, handler.Handle(context.Background(), first))
	require.NoError(t, handler.Handle(context.Background(), second))

	assert.Len(t, handler.Handled(), 2)
	adjusted := handler.OfType(wallet.EventTypeBalanceAdjusted)
	require.Len(t, adjusted, 2)
	assert.Same(t, first, adjusted[0])
	assert.Same(t, second, adjusted[1])
	assert.Empty(t, handler.OfType(wallet.EventTypeWithdrawalRequested))
}
