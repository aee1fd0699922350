package user

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"linkboard/internal/auth/models"
	id "linkboard/pkg/domain"
	"linkboard/pkg/platform/sentinel"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound (wrapped) when the requested user does not exist
// - Return sentinel.ErrAlreadyUsed (wrapped) when Save would duplicate an email
// - Return wrapped errors with context for infrastructure failures

// InMemoryUserStore stores users in memory for tests and database-less runs.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[id.UserID]*models.User
}

// New constructs an empty in-memory user store.
func New() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[id.UserID]*models.User)}
}

// Save inserts or replaces a user. Emails are unique case-insensitively.
func (s *InMemoryUserStore) Save(_ context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("user is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.ID != user.ID && strings.EqualFold(existing.Email, user.Email) {
			return fmt.Errorf("user already exists: %w", sentinel.ErrAlreadyUsed)
		}
	}
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[userID]; ok {
		found := *user
		return &found, nil
	}
	return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			found := *user
			return &found, nil
		}
	}
	return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
}
