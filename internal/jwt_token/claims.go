package jwttoken

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "linkboard/pkg/domain"
)

// Claims is the verified content of a token.
//
// ExpiresAt is set for session and remember-me tokens and nil for CLI tokens.
// JTI is set for CLI tokens only. Claims is a value type: Verify hands out a
// copy and Refresh reads one, so nothing downstream can mutate a verified result.
type Claims struct {
	SubjectUserID id.UserID  `json:"sub"`
	Type          TokenType  `json:"type"`
	IssuedAt      time.Time  `json:"iat"`
	ExpiresAt     *time.Time `json:"exp,omitempty"`
	JTI           string     `json:"jti,omitempty"`
}

// Token is a signed credential together with the claims it carries.
type Token struct {
	Value  string
	Claims Claims
}

// wireClaims is the JWT payload: {iss, aud, sub, type, iat, exp?, jti?}.
type wireClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}
