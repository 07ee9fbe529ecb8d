package persistence

import (
	"errors"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATEs that abort a transaction but succeed on a rerun
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

// translateError maps GORM sentinel errors onto domain errors. It relies on
// gorm.Config.TranslateError so unique violations arrive as ErrDuplicatedKey.
// Deadlocks and serialization failures become shared.ErrConcurrencyConflict
// so services can rerun the whole unit of work.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists.WithCause(err)
	case isRetryable(err):
		return shared.ErrConcurrencyConflict.WithCause(err)
	}
	return err
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == sqlStateDeadlockDetected || pgErr.Code == sqlStateSerializationFailure
}
