//go:build integration

package redis

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkboard/pkg/testutil/containers"
)

func TestClientAgainstRedis(t *testing.T) {
	rc := containers.GetManager().GetRedis(t)
	ctx := context.Background()

	c, err := New(ctx, DefaultConfig("redis://"+rc.Addr+"/0"), prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.NoError(t, c.Health(ctx))
	c.RecordPoolStats()
	assert.NotNil(t, c.lastStats)
}
