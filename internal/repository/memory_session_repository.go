package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// MemorySessionRepository is the in-process fallback when Redis is unavailable.
// Sessions are stored encoded so callers never share editor state.
type MemorySessionRepository struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemorySessionRepository creates a new MemorySessionRepository
func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// Save stores the session
func (r *MemorySessionRepository) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictExpired()
	r.entries[s.ID] = memoryEntry{data: data, expiresAt: r.now().Add(r.ttl)}
	return nil
}

// Get loads a session
func (r *MemorySessionRepository) Get(ctx context.Context, id string) (*Session, error) {
	r.mu.Lock()
	entry, ok := r.entries[id]
	if ok && !r.now().Before(entry.expiresAt) {
		delete(r.entries, id)
		ok = false
	}
	r.mu.Unlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	var s Session
	if err := json.Unmarshal(entry.data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

// Delete removes a session
func (r *MemorySessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	return nil
}

// Ping always succeeds
func (r *MemorySessionRepository) Ping(ctx context.Context) error {
	return nil
}

// Name returns the backend name
func (r *MemorySessionRepository) Name() string {
	return "memory"
}

// Len returns the number of live sessions
func (r *MemorySessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictExpired()
	return len(r.entries)
}

// evictExpired must be called with mu held
func (r *MemorySessionRepository) evictExpired() {
	now := r.now()
	for id, e := range r.entries {
		if !now.Before(e.expiresAt) {
			delete(r.entries, id)
		}
	}
}
