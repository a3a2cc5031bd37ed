package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tungtee888/bookingapi/internal/domain"
)

const notificationColumns = `id, user_id, message, type, is_read, created_at, source_event_id`

// NotificationRepository is the PostgreSQL implementation of domain.NotificationRepository.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new postgres NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

var _ domain.NotificationRepository = (*NotificationRepository)(nil)

// Create inserts a new notification record. created_at is set by the database.
func (r *NotificationRepository) Create(ctx context.Context, input domain.CreateNotificationInput) (*domain.Notification, error) {
	var sourceEventID *string
	if input.SourceEventID != "" {
		sourceEventID = &input.SourceEventID
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (user_id, message, type, source_event_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (source_event_id) WHERE source_event_id IS NOT NULL DO NOTHING
		RETURNING `+notificationColumns,
		input.UserID, input.Message, string(input.Type), sourceEventID)

	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Duplicate source_event_id, idempotent, not an error
			return nil, nil
		}
		return nil, insertNotificationError(err, input.UserID)
	}
	return n, nil
}

// List fetches notifications newest first, joined with the owner's name and email.
func (r *NotificationRepository) List(ctx context.Context, f domain.NotificationFilter) ([]*domain.Notification, error) {
	query := `
		SELECT n.id, n.user_id, n.message, n.type, n.is_read, n.created_at, n.source_event_id,
		       u.name, u.email
		FROM notifications n
		JOIN users u ON u.id = n.user_id
		WHERE TRUE
	`
	var args []any
	paramIdx := 1

	if f.UserID != uuid.Nil {
		query += fmt.Sprintf(" AND n.user_id = $%d", paramIdx)
		args = append(args, f.UserID)
		paramIdx++
	}
	if f.IsRead != nil {
		query += fmt.Sprintf(" AND n.is_read = $%d", paramIdx)
		args = append(args, *f.IsRead)
		paramIdx++
	}

	query += " ORDER BY n.created_at DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", paramIdx)
		args = append(args, f.Limit)
		paramIdx++
	}
	if f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", paramIdx)
		args = append(args, f.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var results []*domain.Notification
	for rows.Next() {
		var (
			n             domain.Notification
			owner         domain.Owner
			sourceEventID *string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt, &sourceEventID,
			&owner.Name, &owner.Email); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if sourceEventID != nil {
			n.SourceEventID = *sourceEventID
		}
		n.Owner = &owner
		results = append(results, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return results, nil
}

// GetByID fetches a single notification.
func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)
	return notFoundOnNoRows(scanNotification(row))
}

// UpdateReadFlag sets is_read on a single notification.
func (r *NotificationRepository) UpdateReadFlag(ctx context.Context, id uuid.UUID, isRead bool) (*domain.Notification, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE notifications SET is_read = $2
		WHERE id = $1
		RETURNING `+notificationColumns, id, isRead)
	return notFoundOnNoRows(scanNotification(row))
}

// Update replaces the supplied fields; NULL parameters keep the stored value.
func (r *NotificationRepository) Update(ctx context.Context, id uuid.UUID, upd domain.NotificationUpdate) (*domain.Notification, error) {
	var typ *string
	if upd.Type != nil {
		s := string(*upd.Type)
		typ = &s
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE notifications SET
			message = COALESCE($2, message),
			type    = COALESCE($3, type),
			is_read = COALESCE($4, is_read)
		WHERE id = $1
		RETURNING `+notificationColumns, id, upd.Message, typ, upd.IsRead)
	return notFoundOnNoRows(scanNotification(row))
}

// Delete removes a notification by id.
func (r *NotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteOlderThan deletes notifications created strictly before cutoff.
func (r *NotificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}

// scanNotification is a helper to scan a row into a Notification struct.
type scannable interface {
	Scan(dest ...any) error
}

func scanNotification(row scannable) (*domain.Notification, error) {
	var n domain.Notification
	var sourceEventID *string

	if err := row.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt, &sourceEventID); err != nil {
		return nil, err
	}
	if sourceEventID != nil {
		n.SourceEventID = *sourceEventID
	}
	return &n, nil
}

func notFoundOnNoRows[T any](v *T, err error) (*T, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return v, nil
}
