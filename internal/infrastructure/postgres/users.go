package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tungtee888/bookingapi/internal/domain"
)

const userColumns = `id, name, email, tel, role, password_hash, created_at, verified, verification_code`

// UserRepository is the PostgreSQL identity store.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

var _ domain.UserRepository = (*UserRepository)(nil)

// Create inserts a user. Emails are unique case-insensitively (see schema.sql).
func (r *UserRepository) Create(ctx context.Context, input domain.CreateUserInput) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, tel, role, password_hash, verification_code)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		input.Name, input.Email, input.Tel, string(input.Role), input.PasswordHash, input.VerificationCode)

	u, err := scanUser(row)
	if err != nil {
		if pgCode(err) == pgerrcode.UniqueViolation {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return notFoundOnNoRows(scanUser(row))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return notFoundOnNoRows(scanUser(row))
}

func (r *UserRepository) SetVerificationCode(ctx context.Context, id uuid.UUID, code string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET verification_code = $2 WHERE id = $1`, id, code)
	if err != nil {
		return fmt.Errorf("set verification code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET verified = TRUE, verification_code = '' WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark user verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row scannable) (*domain.User, error) {
	var u domain.User
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Tel, &role, &u.PasswordHash, &u.CreatedAt,
		&u.Verified, &u.VerificationCode); err != nil {
		return nil, err
	}
	parsed, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}
	u.Role = parsed
	return &u, nil
}
