package tracer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"linkboard/internal/platform/tracer"
)

func TestNoopTracer(t *testing.T) {
	tr := tracer.NewNoop()
	ctx := context.Background()

	newCtx, span := tr.Start(ctx, tracer.SpanLogin, tracer.String(tracer.AttrTokenType, "session"))
	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)

	span.SetAttributes(tracer.Bool(tracer.AttrRememberMe, true))
	span.AddEvent(tracer.EventRateLimited, tracer.Int64("count", 3))
	span.End(errors.New("boom"))
}

func TestOTelTracerWithInjectedProvider(t *testing.T) {
	tr := tracer.NewOTel(tracer.WithOTelTracer(noop.NewTracerProvider().Tracer("test")))

	ctx, span := tr.Start(context.Background(), tracer.SpanRefresh,
		tracer.String("s", "v"),
		tracer.Bool("b", true),
		tracer.Int64("i", 1),
		tracer.Duration("d", 2*time.Second),
	)
	require.NotNil(t, ctx)
	span.SetAttributes(tracer.String(tracer.AttrOutcome, "ok"))
	span.AddEvent(tracer.EventFailureCounted)
	span.End(nil)
}

func TestHashIdentifier(t *testing.T) {
	assert.Empty(t, tracer.HashIdentifier(""))
	h := tracer.HashIdentifier("Alice@example.com")
	assert.Len(t, h, 16)
	assert.Equal(t, h, tracer.HashIdentifier("alice@example.com"))
	assert.NotEqual(t, h, tracer.HashIdentifier("bob@example.com"))
}
