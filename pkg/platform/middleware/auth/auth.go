// Package auth is the bearer-token middleware. It verifies the Authorization
// header and puts the principal in the request context.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	jwttoken "linkboard/internal/jwt_token"
	"linkboard/pkg/platform/httputil"
	"linkboard/pkg/requestcontext"
)

// TokenAuthenticator verifies a raw bearer token.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, raw string) (jwttoken.Claims, error)
}

type claimsKey struct{}

// Claims returns the verified claims stored by RequireAuth.
func Claims(ctx context.Context) (jwttoken.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(jwttoken.Claims)
	return c, ok
}

// WithClaims stores verified claims and the derived principal. Handler tests
// use it to skip the middleware.
func WithClaims(ctx context.Context, claims jwttoken.Claims) context.Context {
	ctx = context.WithValue(ctx, claimsKey{}, claims)
	return requestcontext.WithPrincipal(ctx, claims.SubjectUserID, claims.Type.String(), claims.JTI)
}

// RequireAuth rejects requests without a valid bearer token.
//
// Invalid tokens get 401 invalid_token with the rejection reason. Failures to
// reach the jti registry get 500; they are never reported as an invalid token.
func RequireAuth(authenticator TokenAuthenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token", "request_id", requestID)
				w.Header().Set("WWW-Authenticate", `Bearer`)
				httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
					Error:            "unauthorized",
					ErrorDescription: "Missing or invalid Authorization header",
				})
				return
			}

			claims, err := authenticator.Authenticate(ctx, raw)
			if err != nil {
				if jwttoken.IsInvalidToken(err) {
					reason := string(jwttoken.ReasonOf(err))
					logger.WarnContext(ctx, "unauthorized access - invalid token",
						"reason", reason,
						"request_id", requestID,
					)
					WriteInvalidToken(w, reason)
					return
				}
				logger.ErrorContext(ctx, "failed to verify token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(ctx, claims)))
		})
	}
}

// WriteInvalidToken writes the 401 response for a rejected credential.
func WriteInvalidToken(w http.ResponseWriter, reason string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
		Error:            "invalid_token",
		ErrorDescription: "token " + reason,
		Reason:           reason,
	})
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
