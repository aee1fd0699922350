package models

import "time"

// TokenResult is returned by login, refresh and CLI token issuance.
type TokenResult struct {
	Token     string     `json:"token"`
	TokenType string     `json:"token_type"`
	IssuedAt  time.Time  `json:"issued_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	JTI       string     `json:"jti,omitempty"`
}

// MeResult describes the authenticated principal.
type MeResult struct {
	UserID      string     `json:"user_id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name,omitempty"`
	TokenType   string     `json:"token_type"`
	IssuedAt    time.Time  `json:"issued_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// CLITokenSummary is one entry of GET /auth/cli-tokens.
type CLITokenSummary struct {
	JTI       string    `json:"jti"`
	CreatedAt time.Time `json:"created_at"`
}

// CLITokenListResult wraps the listing so the response can grow fields.
type CLITokenListResult struct {
	Tokens []CLITokenSummary `json:"tokens"`
}
