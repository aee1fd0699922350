package cleanup

import (
	"context"
	"log/slog"
	"time"

	"linkboard/internal/ratelimit/metrics"
	"linkboard/pkg/platform/clock"
)

// CleanupResult contains the results of a cleanup run.
type CleanupResult struct {
	RowsDeleted int           // attempts and blocks removed
	Duration    time.Duration // time taken for the run
}

// LoginLimiter is the part of the login limiter the worker drives.
type LoginLimiter interface {
	Cleanup(ctx context.Context, now time.Time) (int, error)
}

type Option func(*LoginLimitCleanupService)

func WithLogger(logger *slog.Logger) Option {
	return func(s *LoginLimitCleanupService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithInterval(interval time.Duration) Option {
	return func(s *LoginLimitCleanupService) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *LoginLimitCleanupService) {
		s.metrics = m
	}
}

func WithClock(c clock.Clock) Option {
	return func(s *LoginLimitCleanupService) {
		if c != nil {
			s.clock = c
		}
	}
}

// LoginLimitCleanupService periodically sweeps expired attempts and blocks.
// Limiting stays correct without it; it only bounds storage growth.
type LoginLimitCleanupService struct {
	limiter  LoginLimiter
	logger   *slog.Logger
	interval time.Duration
	metrics  *metrics.Metrics
	clock    clock.Clock
}

func New(limiter LoginLimiter, opts ...Option) *LoginLimitCleanupService {
	service := &LoginLimitCleanupService{
		limiter:  limiter,
		logger:   slog.Default(),
		interval: 5 * time.Minute,
		clock:    clock.System,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Start runs cleanup on every tick until ctx is cancelled. Failed runs are
// logged and retried on the next tick.
func (s *LoginLimitCleanupService) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			s.logger.Info("login limit cleanup worker stopping", "reason", ctx.Err())
			return ctx.Err()
		}
	}
}

func (s *LoginLimitCleanupService) tick(ctx context.Context) {
	startTime := time.Now()
	res, err := s.RunOnce(ctx)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("login_limit_cleanup_failed",
			"error", err,
			"duration_ms", duration.Milliseconds(),
		)
		if s.metrics != nil {
			s.metrics.IncrementCleanupRuns("error")
			s.metrics.ObserveCleanupDuration(duration.Seconds())
		}
		return
	}

	res.Duration = duration
	s.logger.Info("login_limit_cleanup_completed",
		"rows_deleted", res.RowsDeleted,
		"duration_ms", duration.Milliseconds(),
	)
	if s.metrics != nil {
		s.metrics.IncrementCleanupRowsDeleted(res.RowsDeleted)
		s.metrics.IncrementCleanupRuns("success")
		s.metrics.ObserveCleanupDuration(duration.Seconds())
	}
}

// RunOnce executes a single cleanup run. Logging is handled by the caller (Start).
func (s *LoginLimitCleanupService) RunOnce(ctx context.Context) (*CleanupResult, error) {
	deleted, err := s.limiter.Cleanup(ctx, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return &CleanupResult{RowsDeleted: deleted}, nil
}
