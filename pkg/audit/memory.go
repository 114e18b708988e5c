package audit

import (
	"context"
	"sync"
)

// InMemoryStorage keeps events in memory. Intended for tests and local
// development; production deployments should persist events durably.
type InMemoryStorage struct {
	mu     sync.RWMutex
	events []Event
}

// NewInMemoryStorage creates an empty in-memory storage.
func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{}
}

// Store appends the event.
func (s *InMemoryStorage) Store(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of all stored events in insertion order.
func (s *InMemoryStorage) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Count returns the number of stored events.
func (s *InMemoryStorage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// FindByCorrelationID returns events linked to the given correlation ID.
func (s *InMemoryStorage) FindByCorrelationID(id string) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.CorrelationID == id {
			out = append(out, e)
		}
	}
	return out
}
