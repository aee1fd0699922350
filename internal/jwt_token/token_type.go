package jwttoken

import (
	"fmt"
	"time"
)

// TokenType is the closed set of credential classes. Every per-type rule
// (expiry, revocability, lifetime) is resolved in policy; adding a variant
// means adding a case there and nowhere else.
type TokenType uint8

const (
	// TypeSession is the short-lived default login credential.
	TypeSession TokenType = iota + 1
	// TypeRememberMe is the long-lived login credential.
	TypeRememberMe
	// TypeCLI never expires; it is valid only while its jti is whitelisted.
	TypeCLI
)

const (
	wireSession    = "session"
	wireRememberMe = "remember_me"
	wireCLI        = "cli"
)

func (t TokenType) String() string {
	switch t {
	case TypeSession:
		return wireSession
	case TypeRememberMe:
		return wireRememberMe
	case TypeCLI:
		return wireCLI
	}
	return fmt.Sprintf("token_type(%d)", uint8(t))
}

// ParseTokenType maps a wire tag back to its variant.
func ParseTokenType(s string) (TokenType, error) {
	switch s {
	case wireSession:
		return TypeSession, nil
	case wireRememberMe:
		return TypeRememberMe, nil
	case wireCLI:
		return TypeCLI, nil
	}
	return 0, fmt.Errorf("unknown token type %q", s)
}

func (t TokenType) MarshalText() ([]byte, error) {
	if _, err := ParseTokenType(t.String()); err != nil {
		return nil, err
	}
	return []byte(t.String()), nil
}

func (t *TokenType) UnmarshalText(b []byte) error {
	parsed, err := ParseTokenType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// policy is the validation rule set fixed by a token type.
type policy struct {
	ttl       time.Duration // zero when the type does not expire
	expires   bool
	revocable bool // requires a whitelisted jti
}

func (s *Service) policyFor(t TokenType) (policy, error) {
	switch t {
	case TypeSession:
		return policy{ttl: s.cfg.SessionTTL, expires: true}, nil
	case TypeRememberMe:
		return policy{ttl: s.cfg.RememberMeTTL, expires: true}, nil
	case TypeCLI:
		return policy{revocable: true}, nil
	}
	return policy{}, fmt.Errorf("unknown token type %d", uint8(t))
}
