//go:build integration

// Package containers starts the PostgreSQL and Redis instances used by the
// integration-tagged store tests. Each container is started at most once per
// test binary and shared by every suite in it.
package containers

import (
	"sync"
	"testing"
)

type Manager struct {
	pgOnce    sync.Once
	postgres  *PostgresContainer
	redisOnce sync.Once
	redis     *RedisContainer
}

var shared = &Manager{}

func GetManager() *Manager { return shared }

// GetPostgres returns the shared PostgreSQL container with migrations applied.
// A failed start is not retried; later callers see a nil container and fail.
func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	m.pgOnce.Do(func() { m.postgres = NewPostgresContainer(t) })
	if m.postgres == nil {
		t.Fatal("postgres container unavailable")
	}
	return m.postgres
}

func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	t.Helper()
	m.redisOnce.Do(func() { m.redis = NewRedisContainer(t) })
	if m.redis == nil {
		t.Fatal("redis container unavailable")
	}
	return m.redis
}
