package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps counters in process memory. Expired windows are swept
// by a background goroutine; call Stop on shutdown.
type MemoryStore struct {
	mu     sync.Mutex
	states map[string]memoryEntry
	stop   chan struct{}
}

type memoryEntry struct {
	State
	expires time.Time
}

// NewMemoryStore creates a store and starts its cleanup loop.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		states: make(map[string]memoryEntry),
		stop:   make(chan struct{}),
	}
	go s.cleanup(cleanupInterval)
	return s
}

// Stop terminates the background cleanup goroutine.
func (s *MemoryStore) Stop() {
	close(s.stop)
}

func (s *MemoryStore) Hit(_ context.Context, key string, window time.Duration, now time.Time) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.states[key]
	if !ok || !now.Before(e.expires) {
		e = memoryEntry{State: State{WindowStart: now}, expires: now.Add(window)}
	}
	e.Count++
	s.states[key] = e
	return e.State, nil
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.states, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for k, e := range s.states {
				if !now.Before(e.expires) {
					delete(s.states, k)
				}
			}
			s.mu.Unlock()
		}
	}
}
