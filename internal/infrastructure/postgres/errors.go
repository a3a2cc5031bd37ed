package postgres

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tungtee888/bookingapi/internal/domain"
)

// pgCode returns the SQLSTATE carried by err, or "" if err did not come
// from the server.
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// insertNotificationError maps a failed notification insert. An owner that
// does not exist is domain.ErrNotFound rather than a store failure.
func insertNotificationError(err error, userID uuid.UUID) error {
	if pgCode(err) == pgerrcode.ForeignKeyViolation {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}
	return fmt.Errorf("insert notification: %w", err)
}
