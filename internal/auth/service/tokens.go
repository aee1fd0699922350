package service

import (
	"context"

	"linkboard/internal/auth/models"
	jwttoken "linkboard/internal/jwt_token"
	"linkboard/internal/platform/tracer"
	id "linkboard/pkg/domain"
	dErrors "linkboard/pkg/domain-errors"
)

// Authenticate verifies a bearer token and returns its claims.
func (s *Service) Authenticate(ctx context.Context, raw string) (claims jwttoken.Claims, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanAuthenticate)
	defer func() { span.End(err) }()

	claims, err = s.tokens.Verify(ctx, raw)
	if err != nil {
		return jwttoken.Claims{}, err
	}
	span.SetAttributes(tracer.String(tracer.AttrTokenType, claims.Type.String()))
	return claims, nil
}

// Refresh verifies raw, revocation included, and reissues the same token type.
func (s *Service) Refresh(ctx context.Context, raw string) (result *models.TokenResult, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanRefresh)
	defer func() { span.End(err) }()

	claims, err := s.tokens.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.Refresh(ctx, claims)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(tracer.String(tracer.AttrTokenType, claims.Type.String()))
	s.logAudit(ctx, "token_refreshed",
		"user_id", claims.SubjectUserID.String(),
		"token_type", claims.Type.String(),
	)
	return toTokenResult(token), nil
}

// CurrentUser describes the principal behind verified claims.
func (s *Service) CurrentUser(ctx context.Context, claims jwttoken.Claims) (*models.MeResult, error) {
	user, err := s.findUser(ctx, claims.SubjectUserID)
	if err != nil {
		return nil, err
	}
	return &models.MeResult{
		UserID:      user.ID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
		TokenType:   claims.Type.String(),
		IssuedAt:    claims.IssuedAt,
		ExpiresAt:   claims.ExpiresAt,
	}, nil
}

func (s *Service) findUser(ctx context.Context, userID id.UserID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}
	return user, nil
}

func toTokenResult(t *jwttoken.Token) *models.TokenResult {
	return &models.TokenResult{
		Token:     t.Value,
		TokenType: t.Claims.Type.String(),
		IssuedAt:  t.Claims.IssuedAt,
		ExpiresAt: t.Claims.ExpiresAt,
		JTI:       t.Claims.JTI,
	}
}
