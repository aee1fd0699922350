//go:build integration

package loginlimit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"linkboard/internal/ratelimit/models"
	"linkboard/internal/ratelimit/ports"
	"linkboard/internal/ratelimit/store/loginlimit"
	"linkboard/pkg/testutil"
	"linkboard/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *loginlimit.PostgresStore
	ctx      context.Context
	now      time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = loginlimit.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "login_failed_attempts", "login_blocks"))
}

func (s *PostgresStoreSuite) TestCountWindow() {
	for _, at := range []time.Time{s.now.Add(-11 * time.Minute), s.now.Add(-10 * time.Minute), s.now} {
		s.Require().NoError(s.store.InsertAttempt(s.ctx, models.FailedAttempt{Timestamp: at, Address: "10.0.0.1", Username: "alice"}))
	}
	s.Require().NoError(s.store.InsertAttempt(s.ctx, models.FailedAttempt{Timestamp: s.now, Address: "10.0.0.1"}))

	byUser, err := s.store.CountAttemptsByUsername(s.ctx, "alice", s.now.Add(-10*time.Minute), s.now)
	s.Require().NoError(err)
	s.Equal(2, byUser)

	byAddr, err := s.store.CountAttemptsByAddress(s.ctx, "10.0.0.1", s.now.Add(-10*time.Minute), s.now)
	s.Require().NoError(err)
	s.Equal(3, byAddr)
}

func (s *PostgresStoreSuite) TestBlocksRoundTrip() {
	userBlock := models.UsernameBlock{Username: "alice", Blocked: s.now, Expires: s.now.Add(10 * time.Minute)}
	addrBlock := models.AddressBlock{Address: "10.0.0.1", Blocked: s.now.Add(time.Second), Expires: s.now.Add(10*time.Minute + time.Second)}
	s.Require().NoError(s.store.InsertBlock(s.ctx, userBlock))
	s.Require().NoError(s.store.InsertBlock(s.ctx, addrBlock))

	block, err := s.store.FindActiveBlock(s.ctx, "alice", "10.0.0.1", s.now.Add(time.Minute))
	s.Require().NoError(err)
	s.Equal(addrBlock, block)

	block, err = s.store.FindActiveBlock(s.ctx, "alice", "192.168.1.1", s.now.Add(time.Minute))
	s.Require().NoError(err)
	s.Equal(userBlock, block)

	block, err = s.store.FindActiveBlock(s.ctx, "", "192.168.1.1", s.now)
	s.Require().NoError(err)
	s.Nil(block)

	block, err = s.store.FindActiveBlock(s.ctx, "alice", "192.168.1.1", s.now.Add(10*time.Minute))
	s.Require().NoError(err)
	s.Nil(block, "expiry is exclusive")
}

func (s *PostgresStoreSuite) TestScopeCheckConstraint() {
	_, err := s.postgres.Exec(s.ctx, `
		INSERT INTO login_blocks (username, address, blocked_at, expires_at)
		VALUES ('alice', '10.0.0.1', NOW(), NOW())
	`)
	s.Error(err)
	_, err = s.postgres.Exec(s.ctx, `
		INSERT INTO login_blocks (username, address, blocked_at, expires_at)
		VALUES (NULL, NULL, NOW(), NOW())
	`)
	s.Error(err)
}

func (s *PostgresStoreSuite) TestClearUsernameAndCleanup() {
	s.Require().NoError(s.store.InsertAttempt(s.ctx, models.FailedAttempt{Timestamp: s.now.Add(-time.Hour), Address: "10.0.0.1", Username: "alice"}))
	s.Require().NoError(s.store.InsertAttempt(s.ctx, models.FailedAttempt{Timestamp: s.now, Address: "10.0.0.1", Username: "alice"}))
	s.Require().NoError(s.store.InsertBlock(s.ctx, models.UsernameBlock{Username: "alice", Blocked: s.now.Add(-time.Hour), Expires: s.now.Add(-50 * time.Minute)}))

	cleared, err := s.store.ClearUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(2, cleared)

	attempts, err := s.store.DeleteAttemptsBefore(s.ctx, s.now.Add(-10*time.Minute))
	s.Require().NoError(err)
	s.Equal(1, attempts)

	blocks, err := s.store.DeleteBlocksExpiredBefore(s.ctx, s.now)
	s.Require().NoError(err)
	s.Equal(1, blocks)

	byAddr, err := s.store.CountAttemptsByAddress(s.ctx, "10.0.0.1", s.now.Add(-time.Minute), s.now)
	s.Require().NoError(err)
	s.Equal(1, byAddr)
}

func (s *PostgresStoreSuite) TestRunInTxRollsBack() {
	boom := errors.New("boom")
	err := s.store.RunInTx(s.ctx, func(tx ports.LoginLimitStore) error {
		s.Require().NoError(tx.InsertAttempt(s.ctx, models.FailedAttempt{Timestamp: s.now, Address: "10.0.0.7"}))
		return boom
	})
	s.ErrorIs(err, boom)

	count, err := s.store.CountAttemptsByAddress(s.ctx, "10.0.0.7", s.now, s.now)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *PostgresStoreSuite) TestConcurrentInserts() {
	const goroutines = 50
	result := testutil.RunConcurrent(goroutines, func(int) error {
		return s.store.RunInTx(s.ctx, func(tx ports.LoginLimitStore) error {
			return tx.InsertAttempt(s.ctx, models.FailedAttempt{Timestamp: s.now, Address: "10.0.0.5", Username: "bob"})
		})
	})
	s.Equal(int32(goroutines), result.Successes)

	count, err := s.store.CountAttemptsByUsername(s.ctx, "bob", s.now, s.now)
	s.Require().NoError(err)
	s.Equal(goroutines, count)
}
