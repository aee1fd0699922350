// Package requesttime pins one "now" per HTTP request.
package requesttime

import (
	"context"
	"net/http"
	"time"

	"linkboard/pkg/platform/clock"
)

type contextKeyRequestTime struct{}

// Middleware stores clk.Now() in the request context. A nil clk uses clock.System.
func Middleware(clk clock.Clock) func(http.Handler) http.Handler {
	if clk == nil {
		clk = clock.System
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithTime(r.Context(), clk.Now())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Now returns the request time, or the wall clock in UTC outside a request.
func Now(ctx context.Context) time.Time {
	if t, ok := From(ctx); ok {
		return t
	}
	return time.Now().UTC()
}

// From returns the pinned request time, if any.
func From(ctx context.Context) (time.Time, bool) {
	t, ok := ctx.Value(contextKeyRequestTime{}).(time.Time)
	return t, ok
}

// WithTime injects t, for tests and CLI commands.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, contextKeyRequestTime{}, t)
}
