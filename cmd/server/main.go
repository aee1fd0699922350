package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"golang.org/x/sync/errgroup"

	authHandler "linkboard/internal/auth/handler"
	authMetrics "linkboard/internal/auth/metrics"
	"linkboard/internal/auth/password"
	authService "linkboard/internal/auth/service"
	"linkboard/internal/bootstrap"
	jwttoken "linkboard/internal/jwt_token"
	"linkboard/internal/platform/config"
	"linkboard/internal/platform/health"
	"linkboard/internal/platform/logger"
	"linkboard/internal/platform/metrics"
	"linkboard/internal/platform/tracer"
	ratelimitMetrics "linkboard/internal/ratelimit/metrics"
	"linkboard/internal/ratelimit/service/loginlimit"
	"linkboard/internal/ratelimit/workers/cleanup"
	httptransport "linkboard/internal/transport/http"
	"linkboard/pkg/platform/middleware/metadata"
	"linkboard/pkg/platform/middleware/request"
	"linkboard/pkg/validation"
)

const (
	shutdownTimeout    = 10 * time.Second
	redisStatsInterval = 15 * time.Second
	sentryFlushTimeout = 2 * time.Second
	readHeaderTimeout  = 5 * time.Second
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "linkboard:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Environment)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
			Release:     health.Version,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(sentryFlushTimeout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("initializing linkboard",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"jti_backend", cfg.JTIBackend,
		"signing_alg", cfg.JWT.SigningAlg,
	)

	reg := metrics.NewRegistry()
	infra, err := bootstrap.Open(ctx, cfg, reg, log)
	if err != nil {
		return err
	}
	defer infra.Close()

	signer, err := jwttoken.NewSigner(cfg.JWT.SigningAlg, cfg.JWT.SigningKey)
	if err != nil {
		return fmt.Errorf("build token signer: %w", err)
	}
	authM := authMetrics.New(reg)
	tokens, err := jwttoken.New(infra.Registry, signer, cfg.JWT.Token,
		jwttoken.WithLogger(log),
		jwttoken.WithMetrics(authM),
	)
	if err != nil {
		return fmt.Errorf("build token service: %w", err)
	}

	rlM := ratelimitMetrics.New(reg)
	limiter, err := loginlimit.New(infra.LoginLimits,
		loginlimit.WithLogger(log),
		loginlimit.WithConfig(cfg.RateLimit.Login),
		loginlimit.WithMetrics(rlM),
	)
	if err != nil {
		return fmt.Errorf("build login limiter: %w", err)
	}

	svc, err := authService.New(infra.Users, tokens, limiter, password.New(0), infra.Registry,
		authService.WithLogger(log),
		authService.WithMetrics(authM),
		authService.WithTracer(tracer.NewOTel()),
	)
	if err != nil {
		return fmt.Errorf("build auth service: %w", err)
	}

	healthHandler := health.New(cfg.Environment, health.WithLogger(log))
	infra.RegisterChecks(healthHandler)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		Auth:           authHandler.New(svc, log),
		Authenticator:  svc,
		Health:         healthHandler,
		Metrics:        request.NewMetrics(reg),
		MetricsHandler: metrics.Handler(reg),
		Metadata:       metadata.Config{TrustedProxies: cfg.TrustedProxies},
		MaxBodyBytes:   validation.MaxBodySize,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.RateLimit.CleanupInterval > 0 {
		worker := cleanup.New(limiter,
			cleanup.WithLogger(log),
			cleanup.WithInterval(cfg.RateLimit.CleanupInterval),
			cleanup.WithMetrics(rlM),
		)
		g.Go(func() error {
			if err := worker.Start(gctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	if infra.Redis != nil {
		g.Go(func() error { return infra.Redis.RunPoolStatsRecorder(gctx, redisStatsInterval) })
	}

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", "error", err)
		return err
	}
	log.Info("server stopped")
	return nil
}
