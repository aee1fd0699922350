// Package requestcontext carries request-scoped values set by middleware:
// request id, client metadata and the authenticated principal.
package requestcontext

import (
	"context"

	id "linkboard/pkg/domain"
)

type (
	requestIDKey struct{}
	clientIPKey  struct{}
	userAgentKey struct{}
	userIDKey    struct{}
	tokenTypeKey struct{}
	tokenJTIKey  struct{}
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the request id, or "" outside an HTTP request.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}

// WithClientMetadata stores the resolved client address and user agent.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	return context.WithValue(ctx, userAgentKey{}, userAgent)
}

func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey{}).(string)
	return v
}

func UserAgent(ctx context.Context) string {
	v, _ := ctx.Value(userAgentKey{}).(string)
	return v
}

// WithPrincipal records the verified token subject for downstream handlers.
func WithPrincipal(ctx context.Context, userID id.UserID, tokenType, jti string) context.Context {
	ctx = context.WithValue(ctx, userIDKey{}, userID)
	ctx = context.WithValue(ctx, tokenTypeKey{}, tokenType)
	return context.WithValue(ctx, tokenJTIKey{}, jti)
}

// UserID returns the authenticated user, and false when the request is anonymous.
func UserID(ctx context.Context) (id.UserID, bool) {
	v, ok := ctx.Value(userIDKey{}).(id.UserID)
	return v, ok && !v.IsNil()
}

func TokenType(ctx context.Context) string {
	v, _ := ctx.Value(tokenTypeKey{}).(string)
	return v
}

func TokenJTI(ctx context.Context) string {
	v, _ := ctx.Value(tokenJTIKey{}).(string)
	return v
}
