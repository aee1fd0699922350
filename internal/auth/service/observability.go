package service

import (
	"context"
	"time"

	"linkboard/internal/auth/device"
	"linkboard/internal/auth/models"
	jwttoken "linkboard/internal/jwt_token"
	"linkboard/internal/platform/privacy"
	"linkboard/pkg/requestcontext"
)

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}

func (s *Service) loginSucceeded(ctx context.Context, req *models.LoginRequest, user *models.User, tokenType jwttoken.TokenType) {
	attrs := []any{
		"user_id", user.ID.String(),
		"token_type", tokenType.String(),
		"ip", req.Address,
	}
	attrs = append(attrs, device.Parse(requestcontext.UserAgent(ctx)).LogAttrs()...)
	s.logAudit(ctx, "login_succeeded", attrs...)
	s.incrementLoginAttempts("success")
}

func (s *Service) loginFailed(ctx context.Context, req *models.LoginRequest, reason string) {
	if s.logger != nil {
		attrs := []any{
			"reason", reason,
			"email", privacy.MaskEmail(req.Email),
			"ip", privacy.AnonymizeIP(req.Address),
			"event", "login_failed",
			"log_type", "standard",
		}
		attrs = append(attrs, device.Parse(requestcontext.UserAgent(ctx)).LogAttrs()...)
		if requestID := requestcontext.RequestID(ctx); requestID != "" {
			attrs = append(attrs, "request_id", requestID)
		}
		s.logger.WarnContext(ctx, "login_failed", attrs...)
	}
	s.incrementLoginAttempts(reason)
}

func (s *Service) incrementLoginAttempts(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementLoginAttempts(outcome)
	}
}

func (s *Service) observeLoginDuration(d time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveLoginDuration(d.Seconds())
	}
}
