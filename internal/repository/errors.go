package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// PostgreSQL error codes we translate into repository errors
const (
	pqForeignKeyViolation pq.ErrorCode = "23503"
	pqUniqueViolation     pq.ErrorCode = "23505"
)

// translateError maps constraint violations to repository errors and wraps
// everything else unchanged
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, ErrInvalidReference)
		case pqUniqueViolation:
			return fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
