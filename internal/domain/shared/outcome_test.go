package shared

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySecondary(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		severity Severity
		done     bool
	}{
		{"nil error", nil, SeverityNone, true},
		{"plain failure", errors.New("db down"), SeverityRecoverable, false},
		{"canceled", fmt.Errorf("credit: %w", context.Canceled), SeverityFatal, false},
		{"deadline", context.DeadlineExceeded, SeverityFatal, false},
		{"deadlock", fmt.Errorf("referral entry: %w", ErrConcurrencyConflict.WithCause(errors.New("40P01"))), SeverityFatal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ClassifySecondary(tt.err)
			assert.Equal(t, tt.severity, out.Severity)
			assert.Equal(t, tt.done, out.Done)
		})
	}
}

func TestOutcome_Predicates(t *testing.T) {
	assert.False(t, Skipped().IsFatal())
	assert.False(t, Skipped().Done)
	assert.True(t, Fatal(errors.New("x")).IsFatal())
	assert.True(t, Recoverable(errors.New("x")).IsRecoverable())
	assert.Equal(t, "recoverable", SeverityRecoverable.String())
	assert.Equal(t, "ok", SeverityNone.String())
}
