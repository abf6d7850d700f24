package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"bookie/domain"
)

// Postgres error codes that indicate the statement lost a race with a
// concurrent transaction and is safe to retry.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// translateError maps retryable Postgres failures to the domain's
// concurrent-modification error so services can retry them uniformly.
// All other errors pass through unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return domain.WrapError(domain.ErrKindConcurrentModification, err, "transaction conflicted with a concurrent update")
		}
	}
	return err
}
