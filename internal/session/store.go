// Package session holds extracted document text keyed by opaque session
// ids. Records are immutable after creation and live for the process
// lifetime (or the configured Redis TTL); callers only ever hold the id.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clausewise/contract-engine/internal/domain"
)

// Store defines the session store interface.
type Store interface {
	// Create stores an immutable session record for the given document text
	// and returns its fresh, collision-resistant id.
	Create(ctx context.Context, documentText string) (string, error)

	// Get returns the session for the id. A missing id yields a
	// session_not_found domain error; "expired" and "never existed" are not
	// distinguished.
	Get(ctx context.Context, id string) (domain.Session, error)

	Close() error
}

// MemoryStore is the in-process store. Safe for concurrent use: ids are
// never reused, so there is at most one write per key, and reads take the
// shared lock.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]domain.Session),
	}
}

// Create stores a new session and returns its id.
func (s *MemoryStore) Create(_ context.Context, documentText string) (string, error) {
	sess := domain.Session{
		ID:           uuid.NewString(),
		DocumentText: documentText,
		CreatedAt:    time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess.ID, nil
}

// Get looks up a session by id.
func (s *MemoryStore) Get(_ context.Context, id string) (domain.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return domain.Session{}, domain.SessionNotFound(id)
	}
	return sess, nil
}

// Len reports the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
