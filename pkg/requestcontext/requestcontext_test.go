package requestcontext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	id "linkboard/pkg/domain"
)

func TestRequestContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))
	assert.Empty(t, ClientIP(ctx))
	_, ok := UserID(ctx)
	assert.False(t, ok)

	userID := id.NewUserID()
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithClientMetadata(ctx, "10.0.0.1", "curl/8.0")
	ctx = WithPrincipal(ctx, userID, "cli", "jti-1")

	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, "10.0.0.1", ClientIP(ctx))
	assert.Equal(t, "curl/8.0", UserAgent(ctx))
	got, ok := UserID(ctx)
	assert.True(t, ok)
	assert.Equal(t, userID, got)
	assert.Equal(t, "cli", TokenType(ctx))
	assert.Equal(t, "jti-1", TokenJTI(ctx))
}
