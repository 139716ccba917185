package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in a mutex-guarded map. A race between two
// concurrent logins for the same identity resolves to whichever Put runs
// last; no further ordering is guaranteed.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewMemoryStore returns an empty in-process session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]string)}
}

func (s *MemoryStore) Put(_ context.Context, loginID, token string) error {
	s.mu.Lock()
	s.tokens[loginID] = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, loginID string) (string, bool, error) {
	s.mu.RLock()
	token, ok := s.tokens[loginID]
	s.mu.RUnlock()
	return token, ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, loginID string) error {
	s.mu.Lock()
	delete(s.tokens, loginID)
	s.mu.Unlock()
	return nil
}
