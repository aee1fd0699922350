package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	jwttoken "linkboard/internal/jwt_token"
	ratelimitConfig "linkboard/internal/ratelimit/config"
	"linkboard/pkg/platform/middleware/metadata"
)

// JTI registry backends.
const (
	JTIBackendMemory   = "memory"
	JTIBackendPostgres = "postgres"
	JTIBackendRedis    = "redis"
	JTIBackendFile     = "file"
)

const devSigningKey = "dev-secret-key-change-in-production"

// Server captures process level configuration.
type Server struct {
	Addr        string
	Environment string

	JWT JWT

	RateLimit ratelimitConfig.Config

	DatabaseURL string
	RedisURL    string
	JTIBackend  string
	JTIFilePath string

	TrustedProxies []netip.Prefix
	SentryDSN      string
}

// JWT holds signing and claim settings for bearer tokens.
type JWT struct {
	SigningAlg string
	SigningKey []byte
	Token      jwttoken.Config
}

func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

// Load reads an optional .env file and then the environment. Variables already
// set in the environment win over the file.
func Load(files ...string) (Server, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Server{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:        getenv("LINKBOARD_ADDR", ":8080"),
		Environment: getenv("LINKBOARD_ENV", "development"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		JTIFilePath: getenv("JTI_FILE_PATH", "cli-token-jtis.jsonl"),
		SentryDSN:   os.Getenv("SENTRY_DSN"),
		RateLimit:   *ratelimitConfig.DefaultConfig(),
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	tokenCfg := jwttoken.DefaultConfig()
	tokenCfg.Issuer = getenv("JWT_ISSUER", tokenCfg.Issuer)
	tokenCfg.Audience = getenv("JWT_AUDIENCE", tokenCfg.Audience)
	collect(durationEnv("SESSION_TOKEN_TTL", &tokenCfg.SessionTTL))
	collect(durationEnv("REMEMBER_ME_TOKEN_TTL", &tokenCfg.RememberMeTTL))
	cfg.JWT = JWT{SigningAlg: getenv("JWT_SIGNING_ALG", "HS256"), Token: tokenCfg}
	key, err := signingKey(cfg.IsProduction())
	collect(err)
	cfg.JWT.SigningKey = key

	collect(intEnv("LOGIN_USERNAME_THRESHOLD", &cfg.RateLimit.Login.UsernameThreshold))
	collect(intEnv("LOGIN_IP_THRESHOLD", &cfg.RateLimit.Login.IPThreshold))
	collect(durationEnv("LOGIN_WINDOW", &cfg.RateLimit.Login.Window))
	collect(durationEnv("RATE_LIMIT_CLEANUP_INTERVAL", &cfg.RateLimit.CleanupInterval))
	collect(cfg.RateLimit.Login.Validate())

	proxies, err := metadata.ParseTrustedProxies(os.Getenv("TRUSTED_PROXIES"))
	collect(err)
	cfg.TrustedProxies = proxies

	cfg.JTIBackend = strings.ToLower(os.Getenv("JTI_BACKEND"))
	switch cfg.JTIBackend {
	case "":
		cfg.JTIBackend = JTIBackendMemory
		if cfg.DatabaseURL != "" {
			cfg.JTIBackend = JTIBackendPostgres
		}
	case JTIBackendMemory, JTIBackendFile:
	case JTIBackendPostgres:
		if cfg.DatabaseURL == "" {
			collect(errors.New("JTI_BACKEND=postgres requires DATABASE_URL"))
		}
	case JTIBackendRedis:
		if cfg.RedisURL == "" {
			collect(errors.New("JTI_BACKEND=redis requires REDIS_URL"))
		}
	default:
		collect(fmt.Errorf("unknown JTI_BACKEND %q", cfg.JTIBackend))
	}

	if len(errs) > 0 {
		return Server{}, errors.Join(errs...)
	}
	return cfg, nil
}

// signingKey reads JWT_SIGNING_KEY_FILE when set, else JWT_SIGNING_KEY. Outside
// production a missing key falls back to a fixed development secret.
func signingKey(production bool) ([]byte, error) {
	if path := os.Getenv("JWT_SIGNING_KEY_FILE"); path != "" {
		key, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read JWT_SIGNING_KEY_FILE: %w", err)
		}
		return key, nil
	}
	if key := os.Getenv("JWT_SIGNING_KEY"); key != "" {
		return []byte(key), nil
	}
	if production {
		return nil, errors.New("JWT_SIGNING_KEY is required in production")
	}
	return []byte(devSigningKey), nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, dst *time.Duration) error {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s must be positive, got %s", key, raw)
	}
	*dst = d
	return nil
}

func intEnv(key string, dst *int) error {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = n
	return nil
}
