package storage

import (
	"context"
	"sync"
)

// InMemoryStore is a thread-safe store used when a database is not configured.
type InMemoryStore struct {
	mu          sync.RWMutex
	slots       map[string][]byte
	credentials map[string]string
}

// NewInMemoryStore constructs an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		slots:       make(map[string][]byte),
		credentials: make(map[string]string),
	}
}

// GetSlot returns a copy of the payload stored under name.
func (s *InMemoryStore) GetSlot(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.slots[name]
	if !ok {
		return nil, ErrNotFound
	}
	snapshot := make([]byte, len(payload))
	copy(snapshot, payload)
	return snapshot, nil
}

// SetSlot stores the payload under name, replacing any previous value.
func (s *InMemoryStore) SetSlot(_ context.Context, name string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(payload))
	copy(stored, payload)
	s.slots[name] = stored
	return nil
}

// DeleteSlot removes the named slot.
func (s *InMemoryStore) DeleteSlot(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.slots[name]; !ok {
		return ErrNotFound
	}
	delete(s.slots, name)
	return nil
}

// GetCredential returns the secret stored for the service/account pair.
func (s *InMemoryStore) GetCredential(_ context.Context, service, account string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.credentials[service+"\x00"+account]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// SetCredential stores the secret for the service/account pair.
func (s *InMemoryStore) SetCredential(_ context.Context, service, account, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.credentials[service+"\x00"+account] = value
	return nil
}

// DeleteCredential removes the secret for the service/account pair.
func (s *InMemoryStore) DeleteCredential(_ context.Context, service, account string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.credentials[service+"\x00"+account]; !ok {
		return ErrNotFound
	}
	delete(s.credentials, service+"\x00"+account)
	return nil
}

// Close satisfies the Store interface.
func (s *InMemoryStore) Close() {}
