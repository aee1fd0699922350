// Package ports defines shared interfaces for the ratelimit module.
// Interfaces are placed here when consumed by both services and stores to avoid import cycles.
package ports

import (
	"context"
	"time"

	"linkboard/internal/ratelimit/models"
)

// LoginLimitStore persists failed login attempts and blocks.
// Stores are pure I/O; window arithmetic and threshold checks belong in the service.
type LoginLimitStore interface {
	// InsertAttempt appends one failed attempt row.
	InsertAttempt(ctx context.Context, attempt models.FailedAttempt) error

	// CountAttemptsByUsername counts attempts for username with since <= timestamp <= until.
	CountAttemptsByUsername(ctx context.Context, username string, since, until time.Time) (int, error)

	// CountAttemptsByAddress counts attempts from address with since <= timestamp <= until.
	CountAttemptsByAddress(ctx context.Context, address string, since, until time.Time) (int, error)

	// InsertBlock appends a block row. Repeated blocks for the same subject are kept.
	InsertBlock(ctx context.Context, block models.Block) error

	// FindActiveBlock returns the most recently created block matching username or
	// address with expiry after now, or nil when none applies. An empty username
	// matches only on address.
	FindActiveBlock(ctx context.Context, username, address string, now time.Time) (models.Block, error)

	// ClearUsername nulls the username on every attempt row for username.
	ClearUsername(ctx context.Context, username string) (int, error)

	// DeleteAttemptsBefore removes attempt rows with timestamp < cutoff.
	DeleteAttemptsBefore(ctx context.Context, cutoff time.Time) (int, error)

	// DeleteBlocksExpiredBefore removes block rows with expiry < cutoff.
	DeleteBlocksExpiredBefore(ctx context.Context, cutoff time.Time) (int, error)

	// RunInTx runs fn against a transactional view of the store. fn's error
	// rolls the transaction back and is returned unchanged.
	RunInTx(ctx context.Context, fn func(tx LoginLimitStore) error) error
}
