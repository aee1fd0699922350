package models

import (
	s "linkboard/pkg/string"
	"linkboard/pkg/validation"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email,max=255"`
	Password   string `json:"password" validate:"required,notblank,max=128"`
	TOTPCode   string `json:"totp_code" validate:"omitempty,otp"`
	RememberMe bool   `json:"remember_me"`

	// Address is the caller's network address, filled in by the handler.
	Address string `json:"-"`
}

// Normalize trims input and lowercases the email so rate-limit keys are stable.
func (r *LoginRequest) Normalize() {
	if r == nil {
		return
	}
	s.TrimStrings(&r.TOTPCode)
	r.Email = s.NormalizeEmail(r.Email)
}

func (r *LoginRequest) Validate() error {
	return validation.Validate(r)
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	Token string `json:"token" validate:"required,notblank"`
}

func (r *RefreshRequest) Normalize() {
	if r == nil {
		return
	}
	s.TrimStrings(&r.Token)
}

func (r *RefreshRequest) Validate() error {
	return validation.Validate(r)
}
