package persistence

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/daffahilmyf/mdd-seed/internal/domain/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// IsDuplicateKey reports a unique-constraint violation only. Foreign key and
// check violations are not duplicates.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, repository.ErrDuplicate) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// IsConnectionError reports failures after which the connection or the
// transaction cannot be used any more.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, sql.ErrTxDone),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, repository.ErrUnavailable):
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	return pgconn.Timeout(err)
}

func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case IsConnectionError(err):
		return fmt.Errorf("%s: %w: %w", op, repository.ErrUnavailable, err)
	case IsDuplicateKey(err):
		return fmt.Errorf("%s: %w: %w", op, repository.ErrDuplicate, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
