package models

import (
	"time"
)

// Scope names the dimension a block applies to.
type Scope string

const (
	ScopeUsername Scope = "username"
	ScopeAddress  Scope = "address"
)

func (s Scope) String() string {
	return string(s)
}

// FailedAttempt is one failed authentication. Username is empty once it has
// been cleared by a successful login; the row still counts for its address.
type FailedAttempt struct {
	Timestamp time.Time
	Address   string
	Username  string
}

// Block is a time-boxed ban on either a username or a source address, never
// both. The interface is sealed: UsernameBlock and AddressBlock are the only
// implementations.
type Block interface {
	Scope() Scope
	Subject() string
	BlockedAt() time.Time
	ExpiresAt() time.Time
	sealed()
}

// UsernameBlock bans one identity from every address.
type UsernameBlock struct {
	Username string
	Blocked  time.Time
	Expires  time.Time
}

func (b UsernameBlock) Scope() Scope         { return ScopeUsername }
func (b UsernameBlock) Subject() string      { return b.Username }
func (b UsernameBlock) BlockedAt() time.Time { return b.Blocked }
func (b UsernameBlock) ExpiresAt() time.Time { return b.Expires }
func (UsernameBlock) sealed()                {}

// AddressBlock bans one source address for every identity.
type AddressBlock struct {
	Address string
	Blocked time.Time
	Expires time.Time
}

func (b AddressBlock) Scope() Scope         { return ScopeAddress }
func (b AddressBlock) Subject() string      { return b.Address }
func (b AddressBlock) BlockedAt() time.Time { return b.Blocked }
func (b AddressBlock) ExpiresAt() time.Time { return b.Expires }
func (AddressBlock) sealed()                {}

// ActiveAt reports whether b still applies at now. Expiry is exclusive.
func ActiveAt(b Block, now time.Time) bool {
	return b.ExpiresAt().After(now)
}

// Matches reports whether b applies to the given username or address.
// An empty username never matches a username block.
func Matches(b Block, username, address string) bool {
	switch b := b.(type) {
	case UsernameBlock:
		return username != "" && b.Username == username
	case AddressBlock:
		return b.Address == address
	}
	return false
}
