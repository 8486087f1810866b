package events

import (
	"context"
	"sync"
)

// MemoryStore keeps emitted events in process memory, capped at a fixed
// number of entries. It is the only store the POS needs: the event log is
// diagnostic, not durable.
type MemoryStore struct {
	mu     sync.Mutex
	events []Event
	max    int
}

// NewMemoryStore constructs a store retaining at most max events; max <= 0
// selects a default of 1024.
func NewMemoryStore(max int) *MemoryStore {
	if max <= 0 {
		max = 1024
	}
	return &MemoryStore{max: max}
}

// Append records the event, evicting the oldest entry when full.
func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) >= s.max {
		s.events = s.events[1:]
	}
	s.events = append(s.events, event)
	return nil
}

// List returns a copy of the retained events, oldest first.
func (s *MemoryStore) List() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
