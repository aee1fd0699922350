package handler

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"

	"linkboard/internal/auth/models"
	"linkboard/internal/auth/service"
	jwttoken "linkboard/internal/jwt_token"
	"linkboard/internal/ratelimit/service/loginlimit"
	id "linkboard/pkg/domain"
	dErrors "linkboard/pkg/domain-errors"
	"linkboard/pkg/platform/httputil"
	"linkboard/pkg/platform/middleware/auth"
	"linkboard/pkg/platform/middleware/requesttime"
	"linkboard/pkg/requestcontext"
)

// Service defines the auth operations exposed over HTTP.
type Service interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResult, error)
	Refresh(ctx context.Context, raw string) (*models.TokenResult, error)
	CurrentUser(ctx context.Context, claims jwttoken.Claims) (*models.MeResult, error)
	IssueCLIToken(ctx context.Context, userID id.UserID) (*models.TokenResult, error)
	ListCLITokens(ctx context.Context, userID id.UserID) ([]models.CLIToken, error)
	RevokeCLIToken(ctx context.Context, userID id.UserID, tokenID string) error
}

// Handler serves login, refresh and the authenticated self-service endpoints.
type Handler struct {
	auth   Service
	logger *slog.Logger
}

func New(auth Service, logger *slog.Logger) *Handler {
	return &Handler{auth: auth, logger: logger}
}

// Register registers the unauthenticated routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
	r.Post("/auth/refresh", h.HandleRefresh)
}

// RegisterProtected registers routes that need a principal. The parent router
// must apply auth.RequireAuth.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Get("/auth/me", h.HandleMe)
	r.Post("/auth/cli-tokens", h.HandleIssueCLIToken)
	r.Get("/auth/cli-tokens", h.HandleListCLITokens)
	r.Delete("/auth/cli-tokens/{jti}", h.HandleRevokeCLIToken)
}

// HandleLogin implements POST /auth/login.
//
// Input: { "email": "user@example.com", "password": "...", "totp_code": "123456", "remember_me": true }
// Output: { "token": "...", "token_type": "session", "issued_at": "...", "expires_at": "..." }
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.LoginRequest](w, r, h.logger)
	if !ok {
		return
	}
	req.Address = requestcontext.ClientIP(ctx)

	res, err := h.auth.Login(ctx, req)
	if err != nil {
		h.writeError(w, r, "login failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandleRefresh implements POST /auth/refresh. The old token stays valid until
// it expires.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.RefreshRequest](w, r, h.logger)
	if !ok {
		return
	}

	res, err := h.auth.Refresh(ctx, req.Token)
	if err != nil {
		h.writeError(w, r, "token refresh failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, ok := auth.Claims(ctx)
	if !ok {
		h.writeUnauthorized(w, r)
		return
	}

	res, err := h.auth.CurrentUser(ctx, claims)
	if err != nil {
		h.writeError(w, r, "failed to load current user", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) HandleIssueCLIToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := requestcontext.UserID(ctx)
	if !ok {
		h.writeUnauthorized(w, r)
		return
	}

	res, err := h.auth.IssueCLIToken(ctx, userID)
	if err != nil {
		h.writeError(w, r, "failed to issue cli token", err)
		return
	}

	h.logger.InfoContext(ctx, "cli token issued",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", userID.String(),
	)
	httputil.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) HandleListCLITokens(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := requestcontext.UserID(ctx)
	if !ok {
		h.writeUnauthorized(w, r)
		return
	}

	tokens, err := h.auth.ListCLITokens(ctx, userID)
	if err != nil {
		h.writeError(w, r, "failed to list cli tokens", err)
		return
	}

	res := models.CLITokenListResult{Tokens: make([]models.CLITokenSummary, 0, len(tokens))}
	for _, t := range tokens {
		res.Tokens = append(res.Tokens, models.CLITokenSummary{JTI: t.JTI, CreatedAt: t.CreatedAt})
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) HandleRevokeCLIToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := requestcontext.UserID(ctx)
	if !ok {
		h.writeUnauthorized(w, r)
		return
	}

	tokenID := strings.TrimSpace(chi.URLParam(r, "jti"))
	if err := h.auth.RevokeCLIToken(ctx, userID, tokenID); err != nil {
		h.writeError(w, r, "failed to revoke cli token", err)
		return
	}

	h.logger.InfoContext(ctx, "cli token revoked",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", userID.String(),
	)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeUnauthorized(w http.ResponseWriter, r *http.Request) {
	h.logger.WarnContext(r.Context(), "missing principal in context",
		"request_id", requestcontext.RequestID(r.Context()),
	)
	httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
}

// writeError maps service errors to responses. Client errors are logged at
// warn; everything else is logged at error and reported to Sentry.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var limited *loginlimit.RateLimitExceededError
	switch {
	case errors.As(err, &limited):
		retryAfter := limited.RetryAfter(requesttime.Now(ctx))
		h.logger.WarnContext(ctx, msg,
			"error", err,
			"request_id", requestID,
			"scope", string(limited.Scope),
		)
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
		httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.ErrorResponse{
			Error:            httputil.DomainCodeToHTTPCode(dErrors.CodeRateLimited),
			ErrorDescription: "too many failed login attempts",
		})
		return
	case jwttoken.IsInvalidToken(err):
		reason := string(jwttoken.ReasonOf(err))
		h.logger.WarnContext(ctx, msg, "reason", reason, "request_id", requestID)
		auth.WriteInvalidToken(w, reason)
		return
	case service.IsTOTPRequired(err):
		h.logger.InfoContext(ctx, msg, "reason", "totp_required", "request_id", requestID)
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
			Error:            httputil.DomainCodeToHTTPCode(dErrors.CodeUnauthorized),
			ErrorDescription: "totp code required",
			Reason:           "totp_required",
		})
		return
	}

	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) && domainErr.Code != dErrors.CodeInternal {
		h.logger.WarnContext(ctx, msg, "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	h.logger.ErrorContext(ctx, msg, "error", err, "request_id", requestID)
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("request_id", requestID)
		scope.SetTag("route", r.Method+" "+routePattern(r))
		hub.CaptureException(err)
	})
	httputil.WriteError(w, err)
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
