// Package tracer is a small tracing facade over OpenTelemetry.
//
// Services depend on Tracer and Span only. Production wiring uses OTelTracer
// backed by the global provider; tests use NoopTracer.
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Span is an active trace span. End must be called exactly once.
type Span interface {
	// End completes the span and marks it failed when err is non-nil.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration records value in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashIdentifier returns a short SHA-256 prefix of an email or username so
// traces can be correlated without carrying the identifier itself.
func HashIdentifier(v string) string {
	if v == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(strings.ToLower(v)))
	return hex.EncodeToString(sum[:8])
}

// Span names.
const (
	SpanLogin          = "auth.login"
	SpanAuthenticate   = "auth.authenticate"
	SpanRefresh        = "auth.refresh"
	SpanIssueCLIToken  = "auth.cli_token.issue"
	SpanListCLITokens  = "auth.cli_token.list"
	SpanRevokeCLIToken = "auth.cli_token.revoke"
)

// Attribute keys.
const (
	AttrIdentifierHash = "identifier.hash"
	AttrTokenType      = "token.type"
	AttrOutcome        = "outcome"
	AttrRememberMe     = "remember_me"
)

// Event names.
const (
	EventRateLimited    = "ratelimit.blocked"
	EventFailureCounted = "ratelimit.failure_recorded"
)
