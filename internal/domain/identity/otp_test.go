package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	code, err := GenerateOTP(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9')
	}

	code, err = GenerateOTP(0)
	require.NoError(t, err)
	assert.Len(t, code, DefaultOTPLength)
}

func TestOTPRequest_Verify(t *testing.T) {
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	req, err := NewRegistrationOTP("USER@example.com", "123456", 10*time.Minute, now)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", req.Email)
	assert.NotEqual(t, "123456", req.CodeHash)

	t.Run("correct code", func(t *testing.T) {
		assert.NoError(t, req.Verify("123456", now.Add(time.Minute)))
	})

	t.Run("wrong code consumes an attempt", func(t *testing.T) {
		err := req.Verify("000000", now)
		assert.ErrorIs(t, err, ErrInvalidOTP)
		assert.Equal(t, 1, req.Attempts)
	})

	t.Run("expired", func(t *testing.T) {
		assert.ErrorIs(t, req.Verify("123456", now.Add(10*time.Minute)), ErrOTPExpired)
	})

	t.Run("attempts exhausted", func(t *testing.T) {
		req.Attempts = MaxOTPAttempts
		assert.ErrorIs(t, req.Verify("123456", now), ErrOTPExpired)
	})

	t.Run("refresh resets", func(t *testing.T) {
		later := now.Add(time.Hour)
		require.NoError(t, req.Refresh("654321", 0, later))
		assert.Equal(t, 0, req.Attempts)
		assert.Equal(t, later.Add(DefaultOTPTTL), req.ExpiresAt)
		assert.NoError(t, req.Verify("654321", later))
	})
}
