package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/tungtee888/bookingapi/internal/domain"
)

func TestPgCode(t *testing.T) {
	fk := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "notifications_user_id_fkey"}
	require.Equal(t, pgerrcode.ForeignKeyViolation, pgCode(fk))
	require.Equal(t, pgerrcode.ForeignKeyViolation, pgCode(fmt.Errorf("scan: %w", fk)))
	require.Equal(t, pgerrcode.UniqueViolation, pgCode(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	require.Empty(t, pgCode(errors.New("connection reset by peer")))
	require.Empty(t, pgCode(nil))
}

func TestInsertNotificationError_MissingOwner(t *testing.T) {
	owner := uuid.New()
	fk := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}

	err := insertNotificationError(fk, owner)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Contains(t, err.Error(), owner.String())

	down := errors.New("connection refused")
	err = insertNotificationError(down, owner)
	require.ErrorIs(t, err, down)
	require.NotErrorIs(t, err, domain.ErrNotFound)

	err = insertNotificationError(&pgconn.PgError{Code: pgerrcode.CheckViolation}, owner)
	require.NotErrorIs(t, err, domain.ErrNotFound)
}
