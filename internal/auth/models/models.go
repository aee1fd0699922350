package models

import (
	"time"

	id "linkboard/pkg/domain"
)

// User is an account that can sign in. PasswordHash is a bcrypt digest.
// TOTPSecret is the base32 shared secret; empty means two-factor is off.
type User struct {
	ID           id.UserID
	Email        string
	PasswordHash string
	TOTPSecret   string
	DisplayName  string
	CreatedAt    time.Time
}

// HasTOTP reports whether login must also present a one-time code.
func (u *User) HasTOTP() bool {
	return u.TOTPSecret != ""
}

// CLIToken is a whitelisted CLI credential as shown to its owner.
type CLIToken struct {
	JTI       string
	CreatedAt time.Time
}
