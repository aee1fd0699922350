// Package domain provides type-safe identifiers shared across the auth core.
package domain

import (
	"github.com/google/uuid"

	dErrors "linkboard/pkg/domain-errors"
)

// UserID identifies an account. It is the token subject and the owner of CLI token ids.
type UserID uuid.UUID

// NewUserID returns a random user id.
func NewUserID() UserID { return UserID(uuid.New()) }

// ParseUserID is used at trust boundaries (handlers, token subjects).
func ParseUserID(s string) (UserID, error) {
	if s == "" {
		return UserID{}, dErrors.New(dErrors.CodeInvalidInput, "user ID cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid user ID format")
	}
	if parsed == uuid.Nil {
		return UserID{}, dErrors.New(dErrors.CodeInvalidInput, "user ID cannot be nil")
	}
	return UserID(parsed), nil
}

func (id UserID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText keeps JSON and log output in canonical UUID form.
func (id UserID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *UserID) UnmarshalText(b []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(b); err != nil {
		return err
	}
	*id = UserID(u)
	return nil
}
