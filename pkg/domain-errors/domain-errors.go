// Package domainerrors is the transport-agnostic error taxonomy shared by
// services and stores. Handlers translate codes to HTTP once, at the edge.
package domainerrors

import "errors"

// Code is a stable, business-level error category.
type Code string

const (
	CodeNotFound     Code = "not_found"
	CodeBadRequest   Code = "bad_request"
	CodeInvalidInput Code = "invalid_input"
	CodeValidation   Code = "validation_failed"
	CodeUnauthorized Code = "unauthorized"
	CodeInvalidToken Code = "invalid_token"
	CodeRateLimited  Code = "rate_limited"
	CodeInternal     Code = "internal_error"
)

// Error carries a Code, a client-safe Message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code, so errors.Is(err, &Error{Code: c})
// works through wrapping.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return t.Code == e.Code
	}
	return false
}

func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches msg to err. A code already present in err's chain wins over
// code, so a not-found from a store stays a not-found after the service wraps it.
func Wrap(err error, code Code, msg string) error {
	if inner := CodeOf(err); inner != "" {
		code = inner
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the code of the outermost *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func HasCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
