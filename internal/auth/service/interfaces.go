package service

import (
	"context"
	"time"

	"linkboard/internal/auth/models"
	"linkboard/internal/auth/store/jti"
	jwttoken "linkboard/internal/jwt_token"
	ratelimitmodels "linkboard/internal/ratelimit/models"
	id "linkboard/pkg/domain"
)

// UserStore looks accounts up.
// Error Contract: Find methods return sentinel.ErrNotFound (wrapped) when the user doesn't exist.
type UserStore interface {
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenService issues and checks bearer credentials.
type TokenService interface {
	Generate(ctx context.Context, userID id.UserID, tokenType jwttoken.TokenType) (*jwttoken.Token, error)
	Verify(ctx context.Context, raw string) (jwttoken.Claims, error)
	Refresh(ctx context.Context, claims jwttoken.Claims) (*jwttoken.Token, error)
	Revoke(ctx context.Context, tokenID string) error
}

// RateLimiter tracks failed logins per username and per address.
type RateLimiter interface {
	CheckBlock(ctx context.Context, username, address string, now time.Time) error
	RecordFailure(ctx context.Context, username, address string, now time.Time) ([]ratelimitmodels.Block, error)
	ClearUsername(ctx context.Context, username string) error
}

// PasswordVerifier checks a plaintext password against a stored digest.
type PasswordVerifier interface {
	Verify(plaintext, digest string) bool
	// VerifyDummy spends the same time as Verify for accounts that do not exist.
	VerifyDummy(plaintext string)
}

// TOTPVerifier checks a one-time code against a shared secret.
type TOTPVerifier interface {
	Verify(code, secret string) bool
}

// CLITokenLister enumerates whitelisted CLI token ids by owner.
type CLITokenLister interface {
	ListByOwner(ctx context.Context, owner id.UserID) ([]jti.Entry, error)
}
