// Package service implements the login flow and the token operations exposed
// over HTTP: password login with optional TOTP, bearer authentication,
// refresh, and self-service CLI token management.
package service

import (
	"errors"
	"log/slog"

	"linkboard/internal/auth/metrics"
	"linkboard/internal/auth/totp"
	"linkboard/internal/platform/tracer"
	"linkboard/pkg/platform/clock"
)

type Service struct {
	users     UserStore
	tokens    TokenService
	limiter   RateLimiter
	passwords PasswordVerifier
	cliTokens CLITokenLister
	totp      TOTPVerifier
	clock     clock.Clock
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    tracer.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithTOTPVerifier replaces the default RFC 6238 verifier.
func WithTOTPVerifier(v TOTPVerifier) Option {
	return func(s *Service) {
		if v != nil {
			s.totp = v
		}
	}
}

func New(users UserStore, tokens TokenService, limiter RateLimiter, passwords PasswordVerifier, cliTokens CLITokenLister, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, errors.New("users store is required")
	}
	if tokens == nil {
		return nil, errors.New("token service is required")
	}
	if limiter == nil {
		return nil, errors.New("rate limiter is required")
	}
	if passwords == nil {
		return nil, errors.New("password verifier is required")
	}
	if cliTokens == nil {
		return nil, errors.New("cli token lister is required")
	}

	svc := &Service{
		users:     users,
		tokens:    tokens,
		limiter:   limiter,
		passwords: passwords,
		cliTokens: cliTokens,
		clock:     clock.System,
		tracer:    tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.totp == nil {
		svc.totp = totp.New(totp.WithClock(svc.clock))
	}
	return svc, nil
}
