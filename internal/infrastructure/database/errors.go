package database

import (
	"context"
	"errors"
	"fmt"

	domain "lecture-manager/internal/domain/registration"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes the repositories care about
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeLockNotAvailable     = "55P03"
	codeQueryCanceled        = "57014"
	codeDeadlockDetected     = "40P01"
	codeSerializationFailure = "40001"
	codeTooManyConnections   = "53300"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports a unique or primary-key violation
func IsUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// IsForeignKeyViolation reports an insert or delete blocked by a foreign key
func IsForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

func IsCheckViolation(err error) bool {
	return pgCode(err) == codeCheckViolation
}

// IsBusy reports contention the caller may retry: lock or statement
// timeouts, deadlocks, serialization failures, pool or connection exhaustion.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}
	switch pgCode(err) {
	case codeLockNotAvailable, codeQueryCanceled, codeDeadlockDetected,
		codeSerializationFailure, codeTooManyConnections:
		return true
	}
	return false
}

// TranslateError folds retriable contention into domain.ErrBusy so callers
// can classify it without knowing about Postgres.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if IsBusy(err) && !errors.Is(err, domain.ErrBusy) {
		return fmt.Errorf("%w: %v", domain.ErrBusy, err)
	}
	return err
}
