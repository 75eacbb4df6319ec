package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Used by tests and
// single-node development runs without Redis.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	lifetime time.Duration
	now      func() time.Time
}

type memoryEntry struct {
	data      Data
	expiresAt time.Time
}

func NewMemoryStore(lifetime time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		lifetime: normalizeLifetime(lifetime),
		now:      time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, data Data) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := newSessionID()
	s.sessions[id] = memoryEntry{
		data:      data,
		expiresAt: s.now().Add(s.lifetime),
	}
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.sessions, id)
		return nil, nil
	}
	data := entry.data
	return &data, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) Touch(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil
	}
	entry.expiresAt = s.now().Add(s.lifetime)
	s.sessions[id] = entry
	return nil
}
