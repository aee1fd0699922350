package testutil

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	authmodels "linkboard/internal/auth/models"
	ratelimitmodels "linkboard/internal/ratelimit/models"
	id "linkboard/pkg/domain"
)

// TestIDs provides convenient pre-generated IDs for tests.
// Use these for deterministic test data.
var TestIDs = struct {
	UserID1 id.UserID
	UserID2 id.UserID
}{
	UserID1: id.UserID(uuid.MustParse("11111111-1111-1111-1111-111111111111")),
	UserID2: id.UserID(uuid.MustParse("22222222-2222-2222-2222-222222222222")),
}

// UserBuilder provides a fluent interface for building test users.
type UserBuilder struct {
	user *authmodels.User
}

// NewUserBuilder creates a new UserBuilder with sensible defaults.
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		user: &authmodels.User{
			ID:          id.NewUserID(),
			Email:       "test@example.com",
			DisplayName: "Test User",
			CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
		},
	}
}

func (b *UserBuilder) WithID(userID id.UserID) *UserBuilder {
	b.user.ID = userID
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.user.Email = email
	return b
}

// WithPassword stores a bcrypt hash of plaintext at the minimum cost.
func (b *UserBuilder) WithPassword(plaintext string) *UserBuilder {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	b.user.PasswordHash = string(hash)
	return b
}

func (b *UserBuilder) WithPasswordHash(hash string) *UserBuilder {
	b.user.PasswordHash = hash
	return b
}

func (b *UserBuilder) WithTOTPSecret(secret string) *UserBuilder {
	b.user.TOTPSecret = secret
	return b
}

func (b *UserBuilder) WithDisplayName(name string) *UserBuilder {
	b.user.DisplayName = name
	return b
}

func (b *UserBuilder) CreatedAt(t time.Time) *UserBuilder {
	b.user.CreatedAt = t
	return b
}

func (b *UserBuilder) Build() *authmodels.User {
	return b.user
}

// NewFailedAttempt returns a failed login attempt at t.
func NewFailedAttempt(username, address string, t time.Time) ratelimitmodels.FailedAttempt {
	return ratelimitmodels.FailedAttempt{Username: username, Address: address, Timestamp: t}
}
