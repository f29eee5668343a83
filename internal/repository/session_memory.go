package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"power_wizard/internal/models"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// SessionMemory keeps sessions in process memory. Entries are stored encoded
// so callers never share state with the store.
type SessionMemory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

var _ SessionRepo = (*SessionMemory)(nil)

// NewSessionMemory returns an in-memory store; every Save extends the TTL.
func NewSessionMemory(ttl time.Duration, now func() time.Time) *SessionMemory {
	if now == nil {
		now = time.Now
	}
	return &SessionMemory{ttl: ttl, now: now, entries: map[string]memoryEntry{}}
}

func (r *SessionMemory) Save(_ context.Context, s models.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[s.ID] = memoryEntry{data: b, expiresAt: r.now().Add(r.ttl)}
	return nil
}

func (r *SessionMemory) Load(_ context.Context, id string) (models.Session, error) {
	r.mu.Lock()
	e, ok := r.entries[id]
	if ok && !r.now().Before(e.expiresAt) {
		delete(r.entries, id)
		ok = false
	}
	r.mu.Unlock()
	if !ok {
		return models.Session{}, ErrSessionNotFound
	}

	var s models.Session
	if err := json.Unmarshal(e.data, &s); err != nil {
		return models.Session{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return s, nil
}

func (r *SessionMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	return nil
}

// Len is the number of stored entries, expired ones included until swept.
func (r *SessionMemory) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep drops expired entries and returns how many were removed.
func (r *SessionMemory) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	n := 0
	for id, e := range r.entries {
		if !now.Before(e.expiresAt) {
			delete(r.entries, id)
			n++
		}
	}
	return n
}

// Run sweeps at the given interval until ctx is canceled.
func (r *SessionMemory) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep()
		}
	}
}
