package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"

	"applicantdesk/internal/domain"
)

const (
	pqUniqueViolation      = "23505"
	pqInvalidTextRepr      = "22P02"
	pqUndefinedFunction    = "42883"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// storeError classifies driver errors into the domain store error kinds so
// callers never inspect driver codes or messages. Unknown errors pass through.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == pqUndefinedFunction:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrPrimitiveUnavailable, err)
		case pqErr.Code == pqUniqueViolation,
			pqErr.Code == pqSerializationFailure,
			pqErr.Code == pqDeadlockDetected:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrConflict, err)
		case pqErr.Code.Class() == "08", pqErr.Code.Class() == "57":
			return fmt.Errorf("%s: %w: %w", op, domain.ErrTransient, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrTransient, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isPQCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}
