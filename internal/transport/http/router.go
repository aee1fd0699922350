package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	authHandler "linkboard/internal/auth/handler"
	"linkboard/internal/platform/health"
	"linkboard/pkg/platform/clock"
	"linkboard/pkg/platform/middleware/auth"
	"linkboard/pkg/platform/middleware/metadata"
	"linkboard/pkg/platform/middleware/request"
	"linkboard/pkg/platform/middleware/requesttime"
)

const defaultRequestTimeout = 30 * time.Second

// Deps are the handlers and middleware dependencies the router mounts.
type Deps struct {
	Logger         *slog.Logger
	Auth           *authHandler.Handler
	Authenticator  auth.TokenAuthenticator
	Health         *health.Handler
	Metrics        *request.Metrics
	MetricsHandler http.Handler
	Metadata       metadata.Config
	Clock          clock.Clock
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(d Deps) http.Handler {
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	clk := d.Clock
	if clk == nil {
		clk = clock.System
	}

	r := chi.NewRouter()

	r.Use(request.Recovery(d.Logger))
	r.Use(request.RequestID)
	r.Use(metadata.NewMiddleware(d.Metadata).Handler)
	r.Use(requesttime.Middleware(clk))
	r.Use(request.Logger(d.Logger))
	if d.Metrics != nil {
		r.Use(request.Latency(d.Metrics))
	}
	r.Use(request.Timeout(timeout))

	d.Health.Register(r)
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(request.BodyLimit(d.MaxBodyBytes))
		r.Use(request.ContentTypeJSON)
		d.Auth.Register(r)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(d.Authenticator, d.Logger))
			d.Auth.RegisterProtected(r)
		})
	})

	return r
}
