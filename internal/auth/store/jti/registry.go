// Package jti holds the whitelist of CLI token identifiers.
//
// A CLI token is valid only while its jti is present here; deleting the entry
// revokes the token immediately regardless of its signature. Entries carry no
// TTL: revocation is explicit deletion, never expiry.
package jti

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	id "linkboard/pkg/domain"
	"linkboard/pkg/platform/sentinel"
)

// Entry is one whitelisted CLI token identifier.
type Entry struct {
	JTI       string    `json:"jti"`
	OwnerID   id.UserID `json:"owner_user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Registry is the storage contract shared by every backing.
//
// Error Contract:
//   - Insert returns sentinel.ErrAlreadyUsed (wrapped) for a duplicate jti and a
//     wrapped infrastructure error for anything else; it never fails silently.
//   - Exists reports (false, nil) for an unknown jti; errors are infrastructure only.
//   - Delete is idempotent: deleting an unknown jti returns nil.
type Registry interface {
	Insert(ctx context.Context, entry Entry) error
	Exists(ctx context.Context, jti string) (bool, error)
	Delete(ctx context.Context, jti string) error
	ListByOwner(ctx context.Context, owner id.UserID) ([]Entry, error)
}

// InMemoryRegistry keeps entries in a process-local map. Used in tests and
// single-instance development runs.
type InMemoryRegistry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewInMemory creates an empty in-memory registry.
func NewInMemory() *InMemoryRegistry {
	return &InMemoryRegistry{entries: make(map[string]Entry)}
}

func (r *InMemoryRegistry) Insert(_ context.Context, entry Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[entry.JTI]; exists {
		return fmt.Errorf("insert jti %s: %w", entry.JTI, sentinel.ErrAlreadyUsed)
	}
	r.entries[entry.JTI] = entry
	return nil
}

func (r *InMemoryRegistry) Exists(_ context.Context, jti string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.entries[jti]
	return ok, nil
}

func (r *InMemoryRegistry) Delete(_ context.Context, jti string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, jti)
	return nil
}

func (r *InMemoryRegistry) ListByOwner(_ context.Context, owner id.UserID) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Entry
	for _, e := range r.entries {
		if e.OwnerID == owner {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out, nil
}

// sortEntries orders newest first so listings are stable across backings.
func sortEntries(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if a.JTI < b.JTI {
			return -1
		}
		if a.JTI > b.JTI {
			return 1
		}
		return 0
	})
}
