package jwttoken

import "errors"

// Reason classifies why a bearer credential was rejected.
type Reason string

const (
	ReasonMalformed  Reason = "malformed"
	ReasonExpired    Reason = "expired"
	ReasonMissingJTI Reason = "missing_jti"
	ReasonRevoked    Reason = "revoked"
)

// InvalidTokenError is an authentication failure. It is never retried and never
// produced for storage outages; those surface as internal errors instead.
type InvalidTokenError struct {
	Reason Reason
}

func (e *InvalidTokenError) Error() string {
	return "invalid token: " + string(e.Reason)
}

// Is matches any InvalidTokenError with the same reason, so callers can use
// errors.Is(err, ErrRevoked) without caring about the concrete value.
func (e *InvalidTokenError) Is(target error) bool {
	t, ok := target.(*InvalidTokenError)
	if !ok {
		return false
	}
	return t.Reason == e.Reason
}

var (
	ErrMalformed  = &InvalidTokenError{Reason: ReasonMalformed}
	ErrExpired    = &InvalidTokenError{Reason: ReasonExpired}
	ErrMissingJTI = &InvalidTokenError{Reason: ReasonMissingJTI}
	ErrRevoked    = &InvalidTokenError{Reason: ReasonRevoked}
)

// IsInvalidToken reports whether err is any token rejection.
func IsInvalidToken(err error) bool {
	var e *InvalidTokenError
	return errors.As(err, &e)
}

// ReasonOf returns the rejection reason, or "" for other errors.
func ReasonOf(err error) Reason {
	var e *InvalidTokenError
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}
