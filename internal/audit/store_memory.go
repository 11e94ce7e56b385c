package audit

import (
	"context"
	"sync"

	id "enrolld/pkg/domain"
)

// InMemoryStore keeps events in order of arrival. Suitable for tests and
// single-process deployments.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByAccount(_ context.Context, accountID id.AccountID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Event
	for _, event := range s.events {
		if event.AccountID == accountID {
			matched = append(matched, event)
		}
	}
	return matched, nil
}
