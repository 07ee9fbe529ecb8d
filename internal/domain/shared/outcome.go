package shared

import (
	"context"
	"errors"
)

// Severity classifies the result of a secondary effect
type Severity int

const (
	// SeverityNone means the effect succeeded or was not applicable
	SeverityNone Severity = iota
	// SeverityRecoverable means the effect failed but the primary operation stands
	SeverityRecoverable
	// SeverityFatal means the failure must abort the enclosing unit of work
	SeverityFatal
)

// String returns the label used in logs and metrics
func (s Severity) String() string {
	switch s {
	case SeverityRecoverable:
		return "recoverable"
	case SeverityFatal:
		return "fatal"
	default:
		return "ok"
	}
}

// Outcome is the tagged result of a best-effort step. Callers must switch on
// Severity: Fatal outcomes are returned as errors, Recoverable ones are
// logged and reported but never propagated.
type Outcome struct {
	Severity Severity
	Done     bool
	Err      error
}

// Applied returns a successful outcome where the effect took place
func Applied() Outcome {
	return Outcome{Severity: SeverityNone, Done: true}
}

// Skipped returns a successful outcome where the effect did not apply
func Skipped() Outcome {
	return Outcome{Severity: SeverityNone}
}

// Recoverable wraps err as a non-propagating failure
func Recoverable(err error) Outcome {
	return Outcome{Severity: SeverityRecoverable, Err: err}
}

// Fatal wraps err as a failure that aborts the caller
func Fatal(err error) Outcome {
	return Outcome{Severity: SeverityFatal, Err: err}
}

// IsFatal reports whether the outcome must abort the caller
func (o Outcome) IsFatal() bool {
	return o.Severity == SeverityFatal
}

// IsRecoverable reports whether the outcome is a swallowed failure
func (o Outcome) IsRecoverable() bool {
	return o.Severity == SeverityRecoverable
}

// ClassifySecondary maps an error from a best-effort step to an Outcome.
// Cancellation and deadline errors are fatal since the surrounding
// transaction cannot commit anyway. Concurrency conflicts are fatal so the
// caller reruns the whole unit instead of dropping the effect. Everything
// else is recoverable.
func ClassifySecondary(err error) Outcome {
	if err == nil {
		return Applied()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, ErrConcurrencyConflict) {
		return Fatal(err)
	}
	return Recoverable(err)
}
