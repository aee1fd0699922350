package loginlimit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"linkboard/internal/platform/database"
	"linkboard/internal/ratelimit/models"
	"linkboard/internal/ratelimit/ports"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists failed attempts and blocks in PostgreSQL.
// This store is pure I/O; window and threshold arithmetic belongs in the service.
type PostgresStore struct {
	db *sql.DB
	q  querier
	tx bool
}

// NewPostgres constructs a PostgreSQL-backed login limit store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, q: db}
}

func (s *PostgresStore) InsertAttempt(ctx context.Context, attempt models.FailedAttempt) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO login_failed_attempts (attempted_at, address, username)
		VALUES ($1, $2, $3)
	`, attempt.Timestamp, attempt.Address, nullString(attempt.Username))
	if err != nil {
		return fmt.Errorf("insert failed attempt: %w", err)
	}
	return nil
}

func (s *PostgresStore) CountAttemptsByUsername(ctx context.Context, username string, since, until time.Time) (int, error) {
	if username == "" {
		return 0, nil
	}
	var count int
	err := s.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM login_failed_attempts
		WHERE username = $1 AND attempted_at >= $2 AND attempted_at <= $3
	`, username, since, until).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count attempts by username: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) CountAttemptsByAddress(ctx context.Context, address string, since, until time.Time) (int, error) {
	var count int
	err := s.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM login_failed_attempts
		WHERE address = $1 AND attempted_at >= $2 AND attempted_at <= $3
	`, address, since, until).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count attempts by address: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) InsertBlock(ctx context.Context, block models.Block) error {
	var username, address sql.NullString
	switch b := block.(type) {
	case models.UsernameBlock:
		username = nullString(b.Username)
	case models.AddressBlock:
		address = sql.NullString{String: b.Address, Valid: true}
	default:
		return fmt.Errorf("unsupported block type %T", block)
	}
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO login_blocks (username, address, blocked_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`, username, address, block.BlockedAt(), block.ExpiresAt())
	if err != nil {
		return fmt.Errorf("insert %s block: %w", block.Scope(), err)
	}
	return nil
}

func (s *PostgresStore) FindActiveBlock(ctx context.Context, username, address string, now time.Time) (models.Block, error) {
	query := `
		SELECT username, address, blocked_at, expires_at
		FROM login_blocks
		WHERE ((username IS NOT NULL AND username = $1) OR address = $2)
		  AND expires_at > $3
		ORDER BY blocked_at DESC, id DESC
		LIMIT 1
	`
	var (
		rowUsername, rowAddress sql.NullString
		blockedAt, expiresAt    time.Time
	)
	err := s.q.QueryRowContext(ctx, query, nullString(username), address, now).
		Scan(&rowUsername, &rowAddress, &blockedAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active block: %w", err)
	}
	if rowUsername.Valid {
		return models.UsernameBlock{Username: rowUsername.String, Blocked: blockedAt.UTC(), Expires: expiresAt.UTC()}, nil
	}
	return models.AddressBlock{Address: rowAddress.String, Blocked: blockedAt.UTC(), Expires: expiresAt.UTC()}, nil
}

func (s *PostgresStore) ClearUsername(ctx context.Context, username string) (int, error) {
	if username == "" {
		return 0, nil
	}
	res, err := s.q.ExecContext(ctx, `UPDATE login_failed_attempts SET username = NULL WHERE username = $1`, username)
	if err != nil {
		return 0, fmt.Errorf("clear username: %w", err)
	}
	return rowsAffected(res)
}

func (s *PostgresStore) DeleteAttemptsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM login_failed_attempts WHERE attempted_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete attempts: %w", err)
	}
	return rowsAffected(res)
}

func (s *PostgresStore) DeleteBlocksExpiredBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM login_blocks WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete blocks: %w", err)
	}
	return rowsAffected(res)
}

// RunInTx runs fn inside a single database transaction. Nested calls join the
// outer transaction.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(tx ports.LoginLimitStore) error) error {
	if s.tx {
		return fn(s)
	}

	return database.WithTx(ctx, s.db, "login limit tx", func(tx *sql.Tx) error {
		return fn(&PostgresStore{db: s.db, q: tx, tx: true})
	})
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func rowsAffected(res sql.Result) (int, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}
