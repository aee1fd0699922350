package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "linkboard/pkg/domain-errors"
)

func TestLoginRequestNormalizeAndValidate(t *testing.T) {
	req := &LoginRequest{Email: "  Alice@Example.com ", Password: "hunter2", TOTPCode: " 123456 "}
	req.Normalize()

	assert.Equal(t, "alice@example.com", req.Email)
	assert.Equal(t, "123456", req.TOTPCode)
	assert.NoError(t, req.Validate())
}

func TestLoginRequestValidation(t *testing.T) {
	tests := []struct {
		name string
		req  LoginRequest
		msg  string
	}{
		{"missing email", LoginRequest{Password: "x"}, "email is required"},
		{"invalid email", LoginRequest{Email: "alice", Password: "x"}, "email must be a valid email"},
		{"missing password", LoginRequest{Email: "a@example.com"}, "password is required"},
		{"bad totp", LoginRequest{Email: "a@example.com", Password: "x", TOTPCode: "12"}, "totp_code must be a 6-digit code"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.EqualError(t, err, tt.msg)
		})
	}
}

func TestRefreshRequest(t *testing.T) {
	req := &RefreshRequest{Token: "  abc.def.ghi \n"}
	req.Normalize()
	assert.Equal(t, "abc.def.ghi", req.Token)
	assert.NoError(t, req.Validate())

	empty := &RefreshRequest{Token: "   "}
	empty.Normalize()
	assert.EqualError(t, empty.Validate(), "token is required")
}
