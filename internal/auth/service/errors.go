package service

import (
	"errors"

	dErrors "linkboard/pkg/domain-errors"
)

// Login never says which credential was wrong.
var (
	ErrInvalidCredentials = dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	// ErrTOTPRequired is returned after a correct password when the account has
	// two-factor enabled and no code was sent. It records no failure.
	ErrTOTPRequired     = dErrors.New(dErrors.CodeUnauthorized, "totp code required")
	ErrCLITokenNotFound = dErrors.New(dErrors.CodeNotFound, "cli token not found")
)

// Failure reasons for logs and metrics. Clients see ErrInvalidCredentials for
// all but reasonTOTPRequired.
const (
	reasonUnknownUser  = "unknown_user"
	reasonBadPassword  = "bad_password"
	reasonBadTOTP      = "bad_totp"
	reasonTOTPRequired = "totp_required"
)

// IsTOTPRequired reports whether err is ErrTOTPRequired itself. errors.Is
// cannot tell it apart from ErrInvalidCredentials since both share a code.
func IsTOTPRequired(err error) bool {
	var domainErr *dErrors.Error
	return errors.As(err, &domainErr) && domainErr == ErrTOTPRequired
}
