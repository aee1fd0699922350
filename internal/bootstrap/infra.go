// Package bootstrap opens the storage selected by configuration. Both the
// server and tokengen build on it so they always agree on where users and CLI
// token ids live.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"linkboard/internal/auth/models"
	"linkboard/internal/auth/service"
	"linkboard/internal/auth/store/jti"
	userStore "linkboard/internal/auth/store/user"
	"linkboard/internal/platform/config"
	"linkboard/internal/platform/database"
	"linkboard/internal/platform/health"
	"linkboard/internal/platform/metrics"
	"linkboard/internal/platform/redis"
	"linkboard/internal/ratelimit/service/loginlimit"
	loginlimitStore "linkboard/internal/ratelimit/store/loginlimit"
	"linkboard/migrations"
)

// UserStore is the read side the login flow needs plus Save for provisioning.
type UserStore interface {
	service.UserStore
	Save(ctx context.Context, user *models.User) error
}

// Infra holds the storage chosen by configuration. PostgreSQL backs users and
// login limits when DATABASE_URL is set; otherwise everything is in memory.
type Infra struct {
	DB    *database.Pool
	Redis *redis.Client

	Users       UserStore
	LoginLimits loginlimit.Store
	Registry    jti.Registry

	logger *slog.Logger
}

// Open connects to the configured backends and applies migrations. A nil
// registerer skips database pool metrics and uses the default registry for Redis.
func Open(ctx context.Context, cfg config.Server, reg prometheus.Registerer, logger *slog.Logger) (*Infra, error) {
	in := &Infra{logger: logger}

	db, err := database.New(ctx, database.DefaultConfig(cfg.DatabaseURL))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	in.DB = db
	if db != nil {
		applied, err := migrations.Apply(ctx, db.DB())
		if err != nil {
			in.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		if len(applied) > 0 {
			logger.Info("migrations applied", "versions", applied)
		}
		if reg != nil {
			if err := metrics.RegisterDB(reg, db.DB(), "linkboard"); err != nil {
				in.Close()
				return nil, fmt.Errorf("register db metrics: %w", err)
			}
		}
		in.Users = userStore.NewPostgres(db.DB())
		in.LoginLimits = loginlimitStore.NewPostgres(db.DB())
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory stores")
		in.Users = userStore.New()
		in.LoginLimits = loginlimitStore.New()
	}

	client, err := redis.New(ctx, redis.DefaultConfig(cfg.RedisURL), reg)
	if err != nil {
		in.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	in.Redis = client

	registry, err := openRegistry(cfg, in)
	if err != nil {
		in.Close()
		return nil, err
	}
	in.Registry = registry
	return in, nil
}

func openRegistry(cfg config.Server, in *Infra) (jti.Registry, error) {
	switch cfg.JTIBackend {
	case config.JTIBackendPostgres:
		if in.DB == nil {
			return nil, fmt.Errorf("jti backend %q needs a database", cfg.JTIBackend)
		}
		return jti.NewPostgres(in.DB.DB()), nil
	case config.JTIBackendRedis:
		if in.Redis == nil {
			return nil, fmt.Errorf("jti backend %q needs redis", cfg.JTIBackend)
		}
		return jti.NewRedis(in.Redis.Client), nil
	case config.JTIBackendFile:
		registry, err := jti.OpenFile(cfg.JTIFilePath)
		if err != nil {
			return nil, fmt.Errorf("open jti file: %w", err)
		}
		return registry, nil
	case config.JTIBackendMemory:
		return jti.NewInMemory(), nil
	}
	return nil, fmt.Errorf("unknown jti backend %q", cfg.JTIBackend)
}

// RegisterChecks adds readiness checks for every connected backend.
func (in *Infra) RegisterChecks(h *health.Handler) {
	if in.DB != nil {
		h.RegisterCheck("postgres", in.DB.Health)
	}
	if in.Redis != nil {
		h.RegisterCheck("redis", in.Redis.Health)
	}
}

func (in *Infra) Close() {
	if in.Redis != nil {
		if err := in.Redis.Close(); err != nil {
			in.logger.Warn("failed to close redis client", "error", err)
		}
	}
	if err := in.DB.Close(); err != nil {
		in.logger.Warn("failed to close database", "error", err)
	}
}
