package string

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "totp_code", ToSnakeCase("TOTPCode"))
	assert.Equal(t, "remember_me", ToSnakeCase("RememberMe"))
	assert.Equal(t, "email", ToSnakeCase("Email"))
	assert.Equal(t, "refresh_token", ToSnakeCase("RefreshToken"))
	assert.Equal(t, "user_id", ToSnakeCase("UserID"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
}

func TestTrimStrings(t *testing.T) {
	a, b := " x ", "\ty\n"
	TrimStrings(&a, nil, &b)
	assert.Equal(t, "x", a)
	assert.Equal(t, "y", b)
}
