// Package health serves the liveness, readiness and status probes.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"linkboard/pkg/platform/clock"
	"linkboard/pkg/platform/httputil"
)

// Version is set at build time via ldflags.
var Version = "dev"

const defaultCheckTimeout = 2 * time.Second

const (
	stateUp   = "up"
	stateDown = "down"
)

// CheckFunc reports whether a backend is reachable.
type CheckFunc func(ctx context.Context) error

type Handler struct {
	environment  string
	checkTimeout time.Duration
	clock        clock.Clock
	started      time.Time
	logger       *slog.Logger

	mu     sync.RWMutex
	names  []string
	checks map[string]CheckFunc
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

func WithClock(c clock.Clock) Option {
	return func(h *Handler) {
		if c != nil {
			h.clock = c
		}
	}
}

func WithCheckTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.checkTimeout = d
		}
	}
}

func New(environment string, opts ...Option) *Handler {
	h := &Handler{
		environment:  environment,
		checkTimeout: defaultCheckTimeout,
		clock:        clock.System,
		logger:       slog.Default(),
		checks:       make(map[string]CheckFunc),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.started = h.clock.Now()
	return h
}

// RegisterCheck adds a readiness check. Registering a name twice replaces it.
func (h *Handler) RegisterCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.checks[name]; !exists {
		h.names = append(h.names, name)
	}
	h.checks[name] = check
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleStatus)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}

type LivenessResponse struct {
	Status string `json:"status"`
}

func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, LivenessResponse{Status: "alive"})
}

type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HandleReadiness runs every check in parallel under one deadline and answers
// 503 if any fails. Failure details go to the log, not the response.
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	results := h.runChecks(r.Context())

	resp := ReadinessResponse{Status: "ready", Checks: results}
	status := http.StatusOK
	for _, state := range results {
		if state != stateUp {
			resp.Status = "not_ready"
			status = http.StatusServiceUnavailable
			break
		}
	}
	httputil.WriteJSON(w, status, resp)
}

func (h *Handler) runChecks(ctx context.Context) map[string]string {
	h.mu.RLock()
	names := append([]string(nil), h.names...)
	checks := make([]CheckFunc, len(names))
	for i, name := range names {
		checks[i] = h.checks[name]
	}
	h.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, h.checkTimeout)
	defer cancel()

	states := make([]string, len(names))
	var g errgroup.Group
	for i := range names {
		g.Go(func() error {
			states[i] = stateUp
			if err := checks[i](ctx); err != nil {
				states[i] = stateDown
				h.logger.WarnContext(ctx, "health_check_failed", "check", names[i], "error", err)
			}
			return nil
		})
	}
	_ = g.Wait() // checks never return errors to the group

	results := make(map[string]string, len(names))
	for i, name := range names {
		results[name] = states[i]
	}
	return results
}

type StatusResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Environment   string `json:"environment"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Timestamp     string `json:"timestamp"`
}

func (h *Handler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	now := h.clock.Now()
	httputil.WriteJSON(w, http.StatusOK, StatusResponse{
		Status:        "healthy",
		Version:       Version,
		Environment:   h.environment,
		UptimeSeconds: int64(now.Sub(h.started).Seconds()),
		Timestamp:     now.UTC().Format(time.RFC3339),
	})
}
