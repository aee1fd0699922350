// Package main provides a CLI tool for minting and revoking Linkboard tokens
// and provisioning users. It reads the same environment as the server, so a
// CLI token it issues is whitelisted in the server's jti registry.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"linkboard/internal/auth/models"
	"linkboard/internal/auth/password"
	"linkboard/internal/bootstrap"
	jwttoken "linkboard/internal/jwt_token"
	"linkboard/internal/platform/config"
	id "linkboard/pkg/domain"
	s "linkboard/pkg/string"
)

type tokenOutput struct {
	Token     string            `json:"token"`
	Type      string            `json:"type"`
	UserID    string            `json:"user_id"`
	IssuedAt  time.Time         `json:"issued_at"`
	ExpiresAt *time.Time        `json:"expires_at,omitempty"`
	JTI       string            `json:"jti,omitempty"`
	Usage     map[string]string `json:"usage"`
}

// app is everything a command needs once configuration is loaded.
type app struct {
	cfg    config.Server
	infra  *bootstrap.Infra
	tokens *jwttoken.Service
	out    io.Writer
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "tokengen:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) < 1 {
		printUsage(out)
		return errors.New("missing command")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	case "session", "remember-me", "cli", "revoke", "list", "user":
	default:
		printUsage(out)
		return fmt.Errorf("unknown command %q", cmd)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a, err := newApp(ctx, cfg, out)
	if err != nil {
		return err
	}
	defer a.infra.Close()

	switch cmd {
	case "session":
		return a.issue(ctx, jwttoken.TypeSession, rest)
	case "remember-me":
		return a.issue(ctx, jwttoken.TypeRememberMe, rest)
	case "cli":
		return a.issue(ctx, jwttoken.TypeCLI, rest)
	case "revoke":
		return a.revoke(ctx, rest)
	case "list":
		return a.list(ctx, rest)
	default:
		return a.createUser(ctx, rest)
	}
}

func newApp(ctx context.Context, cfg config.Server, out io.Writer) (*app, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	infra, err := bootstrap.Open(ctx, cfg, nil, logger)
	if err != nil {
		return nil, err
	}
	signer, err := jwttoken.NewSigner(cfg.JWT.SigningAlg, cfg.JWT.SigningKey)
	if err != nil {
		infra.Close()
		return nil, fmt.Errorf("build token signer: %w", err)
	}
	tokens, err := jwttoken.New(infra.Registry, signer, cfg.JWT.Token)
	if err != nil {
		infra.Close()
		return nil, fmt.Errorf("build token service: %w", err)
	}
	return &app{cfg: cfg, infra: infra, tokens: tokens, out: out}, nil
}

func (a *app) issue(ctx context.Context, tokenType jwttoken.TokenType, args []string) error {
	fs := flag.NewFlagSet(tokenType.String(), flag.ContinueOnError)
	fs.SetOutput(a.out)
	userIDFlag := fs.String("user-id", "", "User ID (UUID). Generated if empty.")
	jsonOutput := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	userID, err := parseOrGenerateUserID(*userIDFlag)
	if err != nil {
		return err
	}

	token, err := a.tokens.Generate(ctx, userID, tokenType)
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}

	output := tokenOutput{
		Token:     token.Value,
		Type:      tokenType.String(),
		UserID:    userID.String(),
		IssuedAt:  token.Claims.IssuedAt,
		ExpiresAt: token.Claims.ExpiresAt,
		JTI:       token.Claims.JTI,
		Usage: map[string]string{
			"header":  "Authorization: Bearer <token>",
			"backend": a.cfg.JTIBackend,
		},
	}
	if *jsonOutput {
		return printJSON(a.out, output)
	}

	fmt.Fprintf(a.out, "%s token\n", tokenType)
	fmt.Fprintf(a.out, "User ID:    %s\n", output.UserID)
	fmt.Fprintf(a.out, "Issued At:  %s\n", output.IssuedAt.Format(time.RFC3339))
	if output.ExpiresAt != nil {
		fmt.Fprintf(a.out, "Expires At: %s\n", output.ExpiresAt.Format(time.RFC3339))
	} else {
		fmt.Fprintln(a.out, "Expires At: never (revocable)")
	}
	if output.JTI != "" {
		fmt.Fprintf(a.out, "JTI:        %s (registry: %s)\n", output.JTI, a.cfg.JTIBackend)
	}
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, output.Token)
	return nil
}

func (a *app) revoke(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("revoke", flag.ContinueOnError)
	fs.SetOutput(a.out)
	tokenID := fs.String("jti", "", "Token id to remove from the registry")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tokenID == "" {
		return errors.New("-jti is required")
	}
	if err := a.tokens.Revoke(ctx, *tokenID); err != nil {
		return fmt.Errorf("revoke %s: %w", *tokenID, err)
	}
	fmt.Fprintf(a.out, "revoked %s\n", *tokenID)
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(a.out)
	userIDFlag := fs.String("user-id", "", "Owner of the CLI tokens")
	if err := fs.Parse(args); err != nil {
		return err
	}
	userID, err := id.ParseUserID(*userIDFlag)
	if err != nil {
		return fmt.Errorf("-user-id: %w", err)
	}

	entries, err := a.infra.Registry.ListByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("list cli tokens: %w", err)
	}
	for _, e := range entries {
		fmt.Fprintf(a.out, "%s\t%s\n", e.JTI, e.CreatedAt.UTC().Format(time.RFC3339))
	}
	return nil
}

func (a *app) createUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("user", flag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "Login email")
	plaintext := fs.String("password", "", "Login password")
	displayName := fs.String("name", "", "Display name")
	totpSecret := fs.String("totp-secret", "", "Base32 TOTP secret. Enables two-factor login when set.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *plaintext == "" {
		return errors.New("-email and -password are required")
	}
	if a.infra.DB == nil {
		fmt.Fprintln(a.out, "warning: DATABASE_URL not set, the user only lives for this process")
	}

	hash, err := password.New(0).Hash(*plaintext)
	if err != nil {
		return err
	}
	user := &models.User{
		ID:           id.NewUserID(),
		Email:        s.NormalizeEmail(*email),
		PasswordHash: hash,
		TOTPSecret:   *totpSecret,
		DisplayName:  *displayName,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.infra.Users.Save(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	fmt.Fprintf(a.out, "created user %s (%s)\n", user.ID, user.Email)
	return nil
}

func parseOrGenerateUserID(raw string) (id.UserID, error) {
	if raw == "" {
		return id.NewUserID(), nil
	}
	userID, err := id.ParseUserID(raw)
	if err != nil {
		return id.UserID{}, fmt.Errorf("-user-id: %w", err)
	}
	return userID, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `tokengen - mint and manage Linkboard tokens

Reads the server environment (.env, JWT_*, DATABASE_URL, REDIS_URL, JTI_BACKEND).
CLI tokens are only usable when the registry backend is shared with the server.

Usage:
  tokengen <command> [flags]

Commands:
  session       Issue a session token (expires after SESSION_TOKEN_TTL)
  remember-me   Issue a remember-me token (expires after REMEMBER_ME_TOKEN_TTL)
  cli           Issue a non-expiring CLI token and whitelist its jti
  revoke        Remove a CLI token id from the registry
  list          List a user's CLI token ids
  user          Create a user with a bcrypt password hash

Examples:
  tokengen user -email alice@example.com -password 'correct horse'
  tokengen cli -user-id 550e8400-e29b-41d4-a716-446655440000 -json
  tokengen revoke -jti 7f9c2ba4-e88f-4d3a-8a4c-1f0e6d5b9a21`)
}
