package service

import (
	"context"
	"errors"

	"linkboard/internal/auth/models"
	jwttoken "linkboard/internal/jwt_token"
	"linkboard/internal/platform/tracer"
	id "linkboard/pkg/domain"
	dErrors "linkboard/pkg/domain-errors"
	"linkboard/pkg/platform/sentinel"
)

// IssueCLIToken mints a non-expiring, revocable token for an existing user.
func (s *Service) IssueCLIToken(ctx context.Context, userID id.UserID) (result *models.TokenResult, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanIssueCLIToken)
	defer func() { span.End(err) }()

	if _, err = s.findUser(ctx, userID); err != nil {
		return nil, err
	}
	token, err := s.tokens.Generate(ctx, userID, jwttoken.TypeCLI)
	if err != nil {
		return nil, err
	}
	return toTokenResult(token), nil
}

// ListCLITokens returns the caller's whitelisted CLI tokens, newest first.
func (s *Service) ListCLITokens(ctx context.Context, userID id.UserID) (result []models.CLIToken, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanListCLITokens)
	defer func() { span.End(err) }()

	entries, err := s.cliTokens.ListByOwner(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list cli tokens")
	}
	result = make([]models.CLIToken, 0, len(entries))
	for _, e := range entries {
		result = append(result, models.CLIToken{JTI: e.JTI, CreatedAt: e.CreatedAt})
	}
	return result, nil
}

// RevokeCLIToken deletes one of the caller's CLI tokens. A jti the caller does
// not own is reported as not found, same as an unknown one.
func (s *Service) RevokeCLIToken(ctx context.Context, userID id.UserID, tokenID string) (err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanRevokeCLIToken)
	defer func() { span.End(err) }()

	if tokenID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "jti is required")
	}
	entries, err := s.cliTokens.ListByOwner(ctx, userID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list cli tokens")
	}
	owned := false
	for _, e := range entries {
		if e.JTI == tokenID {
			owned = true
			break
		}
	}
	if !owned {
		return ErrCLITokenNotFound
	}
	if err = s.tokens.Revoke(ctx, tokenID); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.IncrementCLITokensRevoked()
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, sentinel.ErrNotFound)
}
