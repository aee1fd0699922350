package service

import (
	"context"
	"errors"
	"time"

	"linkboard/internal/auth/models"
	jwttoken "linkboard/internal/jwt_token"
	"linkboard/internal/platform/tracer"
	"linkboard/internal/ratelimit/service/loginlimit"
	dErrors "linkboard/pkg/domain-errors"
	"linkboard/pkg/platform/middleware/requesttime"
	"linkboard/pkg/platform/sentinel"
)

// Login checks credentials and issues a session or remember-me token.
//
// Order: active block check, user lookup, password, TOTP. Any credential
// failure is recorded with the rate limiter and reported as
// ErrInvalidCredentials, even when that failure creates a block; the next
// attempt is the one that sees the rate limit. A right password without a
// TOTP code is recorded the same way but reported as ErrTOTPRequired. A
// successful login clears the username from past failures.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (result *models.TokenResult, err error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "login request is required")
	}
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanLogin,
		tracer.String(tracer.AttrIdentifierHash, tracer.HashIdentifier(req.Email)),
		tracer.Bool(tracer.AttrRememberMe, req.RememberMe),
	)
	defer func() {
		span.End(err)
		s.observeLoginDuration(time.Since(start))
	}()

	now := s.now(ctx)
	if err = s.limiter.CheckBlock(ctx, req.Email, req.Address, now); err != nil {
		if errors.Is(err, loginlimit.ErrRateLimited) {
			span.AddEvent(tracer.EventRateLimited)
			s.loginFailed(ctx, req, "rate_limited")
			return nil, err
		}
		s.incrementLoginAttempts("error")
		return nil, err
	}

	user, reason, err := s.checkCredentials(ctx, req)
	if err != nil {
		s.incrementLoginAttempts("error")
		return nil, err
	}
	if user == nil {
		// A missing second factor is a failure too.
		if _, err = s.limiter.RecordFailure(ctx, req.Email, req.Address, now); err != nil {
			s.incrementLoginAttempts("error")
			return nil, err
		}
		span.AddEvent(tracer.EventFailureCounted)
		if reason == "" {
			s.loginFailed(ctx, req, reasonTOTPRequired)
			return nil, ErrTOTPRequired
		}
		s.loginFailed(ctx, req, reason)
		return nil, ErrInvalidCredentials
	}

	tokenType := jwttoken.TypeSession
	if req.RememberMe {
		tokenType = jwttoken.TypeRememberMe
	}
	token, err := s.tokens.Generate(ctx, user.ID, tokenType)
	if err != nil {
		s.incrementLoginAttempts("error")
		return nil, err
	}

	if clearErr := s.limiter.ClearUsername(ctx, req.Email); clearErr != nil {
		s.logger.WarnContext(ctx, "failed to clear login failures", "error", clearErr, "user_id", user.ID.String())
	}

	span.SetAttributes(tracer.String(tracer.AttrTokenType, tokenType.String()))
	s.loginSucceeded(ctx, req, user, tokenType)
	return toTokenResult(token), nil
}

// now is the request's pinned time, or the service clock outside HTTP.
func (s *Service) now(ctx context.Context) time.Time {
	if t, ok := requesttime.From(ctx); ok {
		return t
	}
	return s.clock.Now()
}

// checkCredentials returns the user on success. On a credential failure it
// returns a nil user and the reason; a nil user with an empty reason means the
// password was right but a TOTP code is still needed.
func (s *Service) checkCredentials(ctx context.Context, req *models.LoginRequest) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.passwords.VerifyDummy(req.Password)
			return nil, reasonUnknownUser, nil
		}
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}
	if !s.passwords.Verify(req.Password, user.PasswordHash) {
		return nil, reasonBadPassword, nil
	}
	if user.HasTOTP() {
		if req.TOTPCode == "" {
			return nil, "", nil
		}
		if !s.totp.Verify(req.TOTPCode, user.TOTPSecret) {
			return nil, reasonBadTOTP, nil
		}
	}
	return user, "", nil
}
