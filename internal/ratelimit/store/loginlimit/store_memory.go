package loginlimit

import (
	"context"
	"sync"
	"time"

	"linkboard/internal/ratelimit/models"
	"linkboard/internal/ratelimit/ports"
)

// InMemoryStore keeps attempts and blocks in process memory. All operations,
// including a whole RunInTx callback, are serialized by one mutex.
type InMemoryStore struct {
	mu    sync.Mutex
	state memoryState
}

type memoryState struct {
	attempts []models.FailedAttempt
	blocks   []models.Block // append order is creation order
}

func New() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) InsertAttempt(ctx context.Context, attempt models.FailedAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.InsertAttempt(ctx, attempt)
}

func (s *InMemoryStore) CountAttemptsByUsername(ctx context.Context, username string, since, until time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CountAttemptsByUsername(ctx, username, since, until)
}

func (s *InMemoryStore) CountAttemptsByAddress(ctx context.Context, address string, since, until time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CountAttemptsByAddress(ctx, address, since, until)
}

func (s *InMemoryStore) InsertBlock(ctx context.Context, block models.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.InsertBlock(ctx, block)
}

func (s *InMemoryStore) FindActiveBlock(ctx context.Context, username, address string, now time.Time) (models.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.FindActiveBlock(ctx, username, address, now)
}

func (s *InMemoryStore) ClearUsername(ctx context.Context, username string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ClearUsername(ctx, username)
}

func (s *InMemoryStore) DeleteAttemptsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.DeleteAttemptsBefore(ctx, cutoff)
}

func (s *InMemoryStore) DeleteBlocksExpiredBefore(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.DeleteBlocksExpiredBefore(ctx, cutoff)
}

// RunInTx holds the store lock for the duration of fn and restores the
// previous state if fn fails.
func (s *InMemoryStore) RunInTx(ctx context.Context, fn func(tx ports.LoginLimitStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := memoryState{
		attempts: append([]models.FailedAttempt(nil), s.state.attempts...),
		blocks:   append([]models.Block(nil), s.state.blocks...),
	}
	if err := fn(&s.state); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// memoryState implements the store contract without locking; callers hold the lock.

func (m *memoryState) InsertAttempt(_ context.Context, attempt models.FailedAttempt) error {
	m.attempts = append(m.attempts, attempt)
	return nil
}

func (m *memoryState) CountAttemptsByUsername(_ context.Context, username string, since, until time.Time) (int, error) {
	if username == "" {
		return 0, nil
	}
	count := 0
	for _, a := range m.attempts {
		if a.Username == username && within(a.Timestamp, since, until) {
			count++
		}
	}
	return count, nil
}

func (m *memoryState) CountAttemptsByAddress(_ context.Context, address string, since, until time.Time) (int, error) {
	count := 0
	for _, a := range m.attempts {
		if a.Address == address && within(a.Timestamp, since, until) {
			count++
		}
	}
	return count, nil
}

func (m *memoryState) InsertBlock(_ context.Context, block models.Block) error {
	m.blocks = append(m.blocks, block)
	return nil
}

func (m *memoryState) FindActiveBlock(_ context.Context, username, address string, now time.Time) (models.Block, error) {
	var found models.Block
	for _, b := range m.blocks {
		if !models.Matches(b, username, address) || !models.ActiveAt(b, now) {
			continue
		}
		// Later rows win ties so the newest insert is returned.
		if found == nil || !b.BlockedAt().Before(found.BlockedAt()) {
			found = b
		}
	}
	return found, nil
}

func (m *memoryState) ClearUsername(_ context.Context, username string) (int, error) {
	if username == "" {
		return 0, nil
	}
	cleared := 0
	for i := range m.attempts {
		if m.attempts[i].Username == username {
			m.attempts[i].Username = ""
			cleared++
		}
	}
	return cleared, nil
}

func (m *memoryState) DeleteAttemptsBefore(_ context.Context, cutoff time.Time) (int, error) {
	kept := m.attempts[:0]
	for _, a := range m.attempts {
		if !a.Timestamp.Before(cutoff) {
			kept = append(kept, a)
		}
	}
	deleted := len(m.attempts) - len(kept)
	m.attempts = kept
	return deleted, nil
}

func (m *memoryState) DeleteBlocksExpiredBefore(_ context.Context, cutoff time.Time) (int, error) {
	kept := m.blocks[:0]
	for _, b := range m.blocks {
		if !b.ExpiresAt().Before(cutoff) {
			kept = append(kept, b)
		}
	}
	deleted := len(m.blocks) - len(kept)
	m.blocks = kept
	return deleted, nil
}

// RunInTx on the unlocked view runs fn directly; nesting joins the outer transaction.
func (m *memoryState) RunInTx(_ context.Context, fn func(tx ports.LoginLimitStore) error) error {
	return fn(m)
}

func within(t, since, until time.Time) bool {
	return !t.Before(since) && !t.After(until)
}
