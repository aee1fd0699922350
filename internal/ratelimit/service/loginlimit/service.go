// Package loginlimit slows down credential guessing by counting failed logins
// over a rolling window and blocking the offending username or address.
//
// CheckBlock and RecordFailure are separate calls, typically in separate
// requests, so concurrent attempts can all pass CheckBlock before any of them
// trips a threshold. That race is accepted; tightening it means moving the
// threshold comparison into the store as one atomic step.
package loginlimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"linkboard/internal/ratelimit/config"
	"linkboard/internal/ratelimit/metrics"
	"linkboard/internal/ratelimit/models"
	"linkboard/internal/ratelimit/ports"
	dErrors "linkboard/pkg/domain-errors"
	"linkboard/pkg/requestcontext"
)

// Store is the persistence contract the limiter runs on.
type Store = ports.LoginLimitStore

// ErrRateLimited matches every RateLimitExceededError via errors.Is.
var ErrRateLimited = errors.New("login rate limit exceeded")

// RateLimitExceededError reports an active block. Callers must not retry
// before ExpiresAt.
type RateLimitExceededError struct {
	Scope     models.Scope
	ExpiresAt time.Time
}

func (e *RateLimitExceededError) Error() string {
	return fmt.Sprintf("login blocked by %s until %s", e.Scope, e.ExpiresAt.UTC().Format(time.RFC3339))
}

func (e *RateLimitExceededError) Is(target error) bool {
	return target == ErrRateLimited
}

// RetryAfter returns the time left on the block at now, rounded up to whole seconds.
func (e *RateLimitExceededError) RetryAfter(now time.Time) time.Duration {
	d := e.ExpiresAt.Sub(now)
	if d <= 0 {
		return 0
	}
	return (d + time.Second - 1).Truncate(time.Second)
}

type Service struct {
	store   Store
	logger  *slog.Logger
	config  config.LoginLimitConfig
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithConfig(cfg config.LoginLimitConfig) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("login limit store is required")
	}

	svc := &Service{
		store:  store,
		config: config.DefaultConfig().Login,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if err := svc.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid login limit config: %w", err)
	}
	return svc, nil
}

// Window returns the configured look-back and block length.
func (s *Service) Window() time.Duration {
	return s.config.Window
}

// CheckBlock returns a *RateLimitExceededError when username or address is
// currently blocked. It never mutates state.
func (s *Service) CheckBlock(ctx context.Context, username, address string, now time.Time) error {
	block, err := s.store.FindActiveBlock(ctx, username, address, now)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check login block")
	}
	if block == nil {
		return nil
	}

	s.logAudit(ctx, "login_blocked",
		"scope", block.Scope().String(),
		"username", username,
		"ip", address,
		"expires_at", block.ExpiresAt(),
	)
	if s.metrics != nil {
		s.metrics.IncrementBlockedChecks(block.Scope().String())
	}
	return &RateLimitExceededError{Scope: block.Scope(), ExpiresAt: block.ExpiresAt()}
}

// RecordFailure stores one failed attempt and blocks each dimension whose
// count within [now-window, now] exceeds its threshold. Attempts made while
// already blocked count too. The created blocks are returned; storage errors
// are returned rather than swallowed.
func (s *Service) RecordFailure(ctx context.Context, username, address string, now time.Time) ([]models.Block, error) {
	since := now.Add(-s.config.Window)
	expires := now.Add(s.config.Window)

	var created []models.Block
	err := s.store.RunInTx(ctx, func(tx Store) error {
		created = nil
		if err := tx.InsertAttempt(ctx, models.FailedAttempt{
			Timestamp: now,
			Address:   address,
			Username:  username,
		}); err != nil {
			return fmt.Errorf("insert attempt: %w", err)
		}

		if username != "" {
			count, err := tx.CountAttemptsByUsername(ctx, username, since, now)
			if err != nil {
				return fmt.Errorf("count username attempts: %w", err)
			}
			if count > s.config.UsernameThreshold {
				created = append(created, models.UsernameBlock{Username: username, Blocked: now, Expires: expires})
			}
		}

		count, err := tx.CountAttemptsByAddress(ctx, address, since, now)
		if err != nil {
			return fmt.Errorf("count address attempts: %w", err)
		}
		if count > s.config.IPThreshold {
			created = append(created, models.AddressBlock{Address: address, Blocked: now, Expires: expires})
		}

		for _, block := range created {
			if err := tx.InsertBlock(ctx, block); err != nil {
				return fmt.Errorf("insert %s block: %w", block.Scope(), err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record login failure")
	}

	if s.metrics != nil {
		s.metrics.IncrementLoginFailures()
	}
	for _, block := range created {
		s.logAudit(ctx, "login_block_created",
			"scope", block.Scope().String(),
			"subject", block.Subject(),
			"expires_at", block.ExpiresAt(),
		)
		if s.metrics != nil {
			s.metrics.IncrementBlocksCreated(block.Scope().String())
		}
	}
	return created, nil
}

// ClearUsername unlinks username from its failed attempts after a successful
// login. Rows are kept so address counts are unaffected.
func (s *Service) ClearUsername(ctx context.Context, username string) error {
	if username == "" {
		return nil
	}
	cleared, err := s.store.ClearUsername(ctx, username)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear login failures")
	}
	if cleared > 0 && s.logger != nil {
		s.logger.DebugContext(ctx, "login_failures_cleared", "username", username, "rows", cleared)
	}
	return nil
}

// Cleanup deletes attempts older than now-window and blocks that expired
// before now. It returns the number of rows removed.
func (s *Service) Cleanup(ctx context.Context, now time.Time) (int, error) {
	attempts, err := s.store.DeleteAttemptsBefore(ctx, now.Add(-s.config.Window))
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete expired attempts")
	}
	blocks, err := s.store.DeleteBlocksExpiredBefore(ctx, now)
	if err != nil {
		return attempts, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete expired blocks")
	}
	return attempts + blocks, nil
}

func (s *Service) logAudit(ctx context.Context, event string, attrs ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attrs = append(attrs, "request_id", requestID)
	}
	args := append(attrs, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}
