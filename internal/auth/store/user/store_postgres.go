package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"linkboard/internal/auth/models"
	id "linkboard/pkg/domain"
	"linkboard/pkg/platform/sentinel"
)

// PostgresStore persists users in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectUser = `
	SELECT id, email, password_hash, COALESCE(totp_secret, ''), display_name, created_at
	FROM users
`

func (s *PostgresStore) Save(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("user is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, totp_secret, display_name, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			totp_secret = EXCLUDED.totp_secret,
			display_name = EXCLUDED.display_name
	`, uuid.UUID(user.ID), user.Email, user.PasswordHash, user.TOTPSecret, user.DisplayName, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user already exists: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, selectUser+` WHERE id = $1`, uuid.UUID(userID))
	return scanUser(row)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, selectUser+` WHERE LOWER(email) = LOWER($1)`, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u      models.User
		userID uuid.UUID
	)
	err := row.Scan(&userID, &u.Email, &u.PasswordHash, &u.TOTPSecret, &u.DisplayName, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.ID = id.UserID(userID)
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
