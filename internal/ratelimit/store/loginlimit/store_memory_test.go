package loginlimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"linkboard/internal/ratelimit/models"
	"linkboard/internal/ratelimit/ports"
)

type InMemoryStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemoryStore
	now   time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = New()
	s.now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
}

func (s *InMemoryStoreSuite) attempt(username, address string, at time.Time) {
	s.Require().NoError(s.store.InsertAttempt(s.ctx, models.FailedAttempt{
		Timestamp: at, Address: address, Username: username,
	}))
}

func (s *InMemoryStoreSuite) TestCounts() {
	s.attempt("alice", "10.0.0.1", s.now.Add(-11*time.Minute))
	s.attempt("alice", "10.0.0.1", s.now.Add(-10*time.Minute))
	s.attempt("alice", "10.0.0.2", s.now)
	s.attempt("bob", "10.0.0.1", s.now)
	s.attempt("", "10.0.0.1", s.now.Add(time.Second))

	since := s.now.Add(-10 * time.Minute)

	s.Run("username window is inclusive on both ends", func() {
		count, err := s.store.CountAttemptsByUsername(s.ctx, "alice", since, s.now)
		s.NoError(err)
		s.Equal(2, count)
	})

	s.Run("address counts every identity", func() {
		count, err := s.store.CountAttemptsByAddress(s.ctx, "10.0.0.1", since, s.now)
		s.NoError(err)
		s.Equal(2, count)
	})

	s.Run("empty username is never counted", func() {
		count, err := s.store.CountAttemptsByUsername(s.ctx, "", since, s.now.Add(time.Minute))
		s.NoError(err)
		s.Zero(count)
	})
}

func (s *InMemoryStoreSuite) TestFindActiveBlock() {
	s.Run("none", func() {
		block, err := s.store.FindActiveBlock(s.ctx, "alice", "10.0.0.1", s.now)
		s.NoError(err)
		s.Nil(block)
	})

	older := models.UsernameBlock{Username: "alice", Blocked: s.now, Expires: s.now.Add(10 * time.Minute)}
	newer := models.AddressBlock{Address: "10.0.0.1", Blocked: s.now.Add(time.Minute), Expires: s.now.Add(11 * time.Minute)}
	s.Require().NoError(s.store.InsertBlock(s.ctx, older))
	s.Require().NoError(s.store.InsertBlock(s.ctx, newer))

	s.Run("either dimension matches, most recent first", func() {
		block, err := s.store.FindActiveBlock(s.ctx, "alice", "10.0.0.1", s.now.Add(2*time.Minute))
		s.NoError(err)
		s.Equal(newer, block)
	})

	s.Run("username only", func() {
		block, err := s.store.FindActiveBlock(s.ctx, "alice", "192.168.0.1", s.now)
		s.NoError(err)
		s.Equal(older, block)
	})

	s.Run("expired blocks are ignored", func() {
		block, err := s.store.FindActiveBlock(s.ctx, "alice", "192.168.0.1", s.now.Add(10*time.Minute))
		s.NoError(err)
		s.Nil(block)
	})

	s.Run("empty username matches address only", func() {
		block, err := s.store.FindActiveBlock(s.ctx, "", "192.168.0.1", s.now)
		s.NoError(err)
		s.Nil(block)
	})
}

func (s *InMemoryStoreSuite) TestClearUsername() {
	s.attempt("alice", "10.0.0.1", s.now)
	s.attempt("alice", "10.0.0.2", s.now)
	s.attempt("bob", "10.0.0.1", s.now)

	cleared, err := s.store.ClearUsername(s.ctx, "alice")
	s.NoError(err)
	s.Equal(2, cleared)

	count, err := s.store.CountAttemptsByUsername(s.ctx, "alice", s.now.Add(-time.Minute), s.now)
	s.NoError(err)
	s.Zero(count)

	count, err = s.store.CountAttemptsByAddress(s.ctx, "10.0.0.1", s.now.Add(-time.Minute), s.now)
	s.NoError(err)
	s.Equal(2, count, "rows are kept for address counting")
}

func (s *InMemoryStoreSuite) TestDeletes() {
	s.attempt("alice", "10.0.0.1", s.now.Add(-11*time.Minute))
	s.attempt("alice", "10.0.0.1", s.now.Add(-10*time.Minute))
	s.Require().NoError(s.store.InsertBlock(s.ctx, models.AddressBlock{Address: "10.0.0.1", Blocked: s.now.Add(-20 * time.Minute), Expires: s.now.Add(-time.Second)}))
	s.Require().NoError(s.store.InsertBlock(s.ctx, models.AddressBlock{Address: "10.0.0.1", Blocked: s.now.Add(-10 * time.Minute), Expires: s.now}))

	deleted, err := s.store.DeleteAttemptsBefore(s.ctx, s.now.Add(-10*time.Minute))
	s.NoError(err)
	s.Equal(1, deleted)

	deleted, err = s.store.DeleteBlocksExpiredBefore(s.ctx, s.now)
	s.NoError(err)
	s.Equal(1, deleted, "a block expiring exactly at the cutoff is kept")
}

func (s *InMemoryStoreSuite) TestRunInTx() {
	s.Run("commits on success", func() {
		err := s.store.RunInTx(s.ctx, func(tx ports.LoginLimitStore) error {
			return tx.InsertAttempt(s.ctx, models.FailedAttempt{Timestamp: s.now, Address: "10.0.0.9"})
		})
		s.NoError(err)
		count, _ := s.store.CountAttemptsByAddress(s.ctx, "10.0.0.9", s.now, s.now)
		s.Equal(1, count)
	})

	s.Run("rolls back on error", func() {
		boom := errors.New("boom")
		err := s.store.RunInTx(s.ctx, func(tx ports.LoginLimitStore) error {
			s.Require().NoError(tx.InsertAttempt(s.ctx, models.FailedAttempt{Timestamp: s.now, Address: "10.0.0.8"}))
			s.Require().NoError(tx.InsertBlock(s.ctx, models.AddressBlock{Address: "10.0.0.8", Blocked: s.now, Expires: s.now.Add(time.Minute)}))
			return boom
		})
		s.ErrorIs(err, boom)
		count, _ := s.store.CountAttemptsByAddress(s.ctx, "10.0.0.8", s.now, s.now)
		s.Zero(count)
		block, _ := s.store.FindActiveBlock(s.ctx, "", "10.0.0.8", s.now)
		s.Nil(block)
	})
}
