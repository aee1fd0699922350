// Package jwttoken issues, verifies and refreshes signed bearer credentials.
package jwttoken

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"linkboard/internal/auth/store/jti"
	id "linkboard/pkg/domain"
	dErrors "linkboard/pkg/domain-errors"
	"linkboard/pkg/platform/clock"
)

const (
	DefaultSessionTTL    = 24 * time.Hour
	DefaultRememberMeTTL = 14 * 24 * time.Hour
)

// Config holds the claim values and lifetimes applied to every issued token.
type Config struct {
	Issuer        string
	Audience      string
	SessionTTL    time.Duration
	RememberMeTTL time.Duration
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Issuer:        "linkboard",
		Audience:      "linkboard-clients",
		SessionTTL:    DefaultSessionTTL,
		RememberMeTTL: DefaultRememberMeTTL,
	}
}

// Metrics receives token lifecycle counters. Implemented by internal/auth/metrics.
type Metrics interface {
	IncTokensIssued(tokenType string)
	IncVerifyFailures(reason string)
}

// Service turns a user id into a bearer credential and back into verified claims.
type Service struct {
	registry jti.Registry
	signer   *Signer
	cfg      Config
	clock    clock.Clock
	logger   *slog.Logger
	metrics  Metrics
}

type Option func(*Service)

func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New validates configuration and returns a Service. Zero TTLs fall back to defaults.
func New(registry jti.Registry, signer *Signer, cfg Config, opts ...Option) (*Service, error) {
	if registry == nil {
		return nil, fmt.Errorf("jti registry is required")
	}
	if signer == nil {
		return nil, fmt.Errorf("token signer is required")
	}
	if cfg.Issuer == "" || cfg.Audience == "" {
		return nil, fmt.Errorf("token issuer and audience are required")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.RememberMeTTL <= 0 {
		cfg.RememberMeTTL = DefaultRememberMeTTL
	}

	svc := &Service{
		registry: registry,
		signer:   signer,
		cfg:      cfg,
		clock:    clock.System,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Generate issues a token of the given type for userID.
//
// For CLI tokens a fresh jti is written to the registry before the token is
// signed, so no CLI token can exist without its whitelist row.
func (s *Service) Generate(ctx context.Context, userID id.UserID, tokenType TokenType) (*Token, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user id is required")
	}
	pol, err := s.policyFor(tokenType)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "unsupported token type")
	}

	issuedAt := s.clock.Now().UTC().Truncate(time.Second)

	var tokenID string
	if pol.revocable {
		tokenID = uuid.NewString()
		entry := jti.Entry{JTI: tokenID, OwnerID: userID, CreatedAt: issuedAt}
		if err := s.registry.Insert(ctx, entry); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register cli token id")
		}
	}

	token, err := s.sign(userID, tokenType, pol, issuedAt, tokenID)
	if err != nil {
		if tokenID != "" {
			// An unsigned jti is harmless but would show up in listings.
			_ = s.registry.Delete(ctx, tokenID)
		}
		return nil, err
	}

	if pol.revocable {
		s.logger.InfoContext(ctx, "cli_token_issued",
			"user_id", userID.String(),
			"jti", tokenID,
		)
	}
	s.countIssued(tokenType)
	return token, nil
}

// Verify checks signature and structure, then applies the type's policy:
// expiry for session and remember-me tokens, jti whitelist for CLI tokens.
// Registry failures are returned as internal errors, never as revoked.
func (s *Service) Verify(ctx context.Context, raw string) (Claims, error) {
	claims, err := s.verify(ctx, raw)
	if err != nil {
		if reason := ReasonOf(err); reason != "" && s.metrics != nil {
			s.metrics.IncVerifyFailures(string(reason))
		}
		return Claims{}, err
	}
	return claims, nil
}

func (s *Service) verify(ctx context.Context, raw string) (Claims, error) {
	if raw == "" {
		return Claims{}, ErrMalformed
	}

	var wc wireClaims
	parsed, err := jwt.ParseWithClaims(raw, &wc, s.signer.keyFunc,
		jwt.WithValidMethods([]string{s.signer.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !parsed.Valid {
		return Claims{}, ErrMalformed
	}

	claims, err := s.decode(&wc)
	if err != nil {
		return Claims{}, err
	}
	pol, err := s.policyFor(claims.Type)
	if err != nil {
		return Claims{}, ErrMalformed
	}

	if pol.expires && s.clock.Now().After(*claims.ExpiresAt) {
		return Claims{}, ErrExpired
	}

	if pol.revocable {
		if claims.JTI == "" {
			return Claims{}, ErrMissingJTI
		}
		ok, err := s.registry.Exists(ctx, claims.JTI)
		if err != nil {
			return Claims{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check cli token id")
		}
		if !ok {
			return Claims{}, ErrRevoked
		}
	}

	return claims, nil
}

// decode maps the wire payload onto Claims, rejecting anything a token minted
// by Generate could not contain.
func (s *Service) decode(wc *wireClaims) (Claims, error) {
	if wc.Issuer != s.cfg.Issuer || !slices.Contains(wc.Audience, s.cfg.Audience) {
		return Claims{}, ErrMalformed
	}
	tokenType, err := ParseTokenType(wc.Type)
	if err != nil {
		return Claims{}, ErrMalformed
	}
	subject, err := id.ParseUserID(wc.Subject)
	if err != nil {
		return Claims{}, ErrMalformed
	}
	if wc.IssuedAt == nil {
		return Claims{}, ErrMalformed
	}
	pol, err := s.policyFor(tokenType)
	if err != nil {
		return Claims{}, ErrMalformed
	}

	claims := Claims{
		SubjectUserID: subject,
		Type:          tokenType,
		IssuedAt:      wc.IssuedAt.UTC(),
		JTI:           wc.ID,
	}
	if pol.expires {
		if wc.ExpiresAt == nil || wc.ID != "" {
			return Claims{}, ErrMalformed
		}
		exp := wc.ExpiresAt.UTC()
		claims.ExpiresAt = &exp
	} else if wc.ExpiresAt != nil {
		return Claims{}, ErrMalformed
	}
	return claims, nil
}

// Refresh re-issues claims with a fresh issued-at (and expiry where the type has
// one). CLI tokens keep their jti so the refreshed token stays revocable under
// the same id. Refresh does not consult the registry; callers that need
// revocation enforced must Verify first.
func (s *Service) Refresh(ctx context.Context, claims Claims) (*Token, error) {
	pol, err := s.policyFor(claims.Type)
	if err != nil {
		return nil, ErrMalformed
	}
	if pol.revocable && claims.JTI == "" {
		return nil, ErrMissingJTI
	}
	// Only CLI tokens carry a jti; decode rejects anything else that does.
	if !pol.revocable && claims.JTI != "" {
		return nil, ErrMalformed
	}
	if claims.SubjectUserID.IsNil() {
		return nil, ErrMalformed
	}

	issuedAt := s.clock.Now().UTC().Truncate(time.Second)
	// NumericDate has second precision; keep the refreshed token distinguishable.
	if prev := claims.IssuedAt.UTC().Truncate(time.Second); !issuedAt.After(prev) {
		issuedAt = prev.Add(time.Second)
	}

	token, err := s.sign(claims.SubjectUserID, claims.Type, pol, issuedAt, claims.JTI)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "token_refreshed",
		"user_id", claims.SubjectUserID.String(),
		"token_type", claims.Type.String(),
	)
	s.countIssued(claims.Type)
	return token, nil
}

// Revoke removes a CLI token id from the whitelist. Unknown ids are not an error.
func (s *Service) Revoke(ctx context.Context, tokenID string) error {
	if tokenID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "jti is required")
	}
	if err := s.registry.Delete(ctx, tokenID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke cli token")
	}
	s.logger.InfoContext(ctx, "cli_token_revoked", "jti", tokenID)
	return nil
}

func (s *Service) sign(userID id.UserID, tokenType TokenType, pol policy, issuedAt time.Time, tokenID string) (*Token, error) {
	claims := Claims{
		SubjectUserID: userID,
		Type:          tokenType,
		IssuedAt:      issuedAt,
		JTI:           tokenID,
	}
	wc := wireClaims{
		Type: tokenType.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   s.cfg.Issuer,
			Subject:  userID.String(),
			Audience: jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt: jwt.NewNumericDate(issuedAt),
			ID:       tokenID,
		},
	}
	if pol.expires {
		exp := issuedAt.Add(pol.ttl).Truncate(time.Second)
		claims.ExpiresAt = &exp
		wc.ExpiresAt = jwt.NewNumericDate(exp)
	}

	value, err := s.signer.sign(wc)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return &Token{Value: value, Claims: claims}, nil
}

func (s *Service) countIssued(t TokenType) {
	if s.metrics != nil {
		s.metrics.IncTokensIssued(t.String())
	}
}
