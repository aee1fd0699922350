package jti

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	id "linkboard/pkg/domain"
	"linkboard/pkg/platform/sentinel"
)

// PostgresRegistry persists CLI token ids in the cli_token_jtis table.
type PostgresRegistry struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed registry.
func NewPostgres(db *sql.DB) *PostgresRegistry {
	return &PostgresRegistry{db: db}
}

func (r *PostgresRegistry) Insert(ctx context.Context, entry Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cli_token_jtis (jti, owner_user_id, created_at)
		VALUES ($1, $2, $3)
	`, entry.JTI, uuid.UUID(entry.OwnerID), entry.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert jti %s: %w", entry.JTI, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert jti: %w", err)
	}
	return nil
}

func (r *PostgresRegistry) Exists(ctx context.Context, jti string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM cli_token_jtis WHERE jti = $1)`, jti).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check jti: %w", err)
	}
	return exists, nil
}

func (r *PostgresRegistry) Delete(ctx context.Context, jti string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cli_token_jtis WHERE jti = $1`, jti); err != nil {
		return fmt.Errorf("delete jti: %w", err)
	}
	return nil
}

func (r *PostgresRegistry) ListByOwner(ctx context.Context, owner id.UserID) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT jti, owner_user_id, created_at
		FROM cli_token_jtis
		WHERE owner_user_id = $1
		ORDER BY created_at DESC, jti ASC
	`, uuid.UUID(owner))
	if err != nil {
		return nil, fmt.Errorf("list jtis by owner: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			ownerID uuid.UUID
		)
		if err := rows.Scan(&e.JTI, &ownerID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan jti: %w", err)
		}
		e.OwnerID = id.UserID(ownerID)
		e.CreatedAt = e.CreatedAt.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jtis: %w", err)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
