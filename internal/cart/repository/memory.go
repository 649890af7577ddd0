package repository

import (
	"context"
	"sync"
)

// MemoryStorage is an in-process storage handle for tests and for running
// without any storage environment. Contents do not survive a restart.
type MemoryStorage struct {
	mu    sync.RWMutex
	value []byte
	ok    bool
}

// NewMemoryStorage creates an empty in-memory storage handle
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Get(_ context.Context) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ok {
		return nil, false, nil
	}
	value := make([]byte, len(s.value))
	copy(value, s.value)
	return value, true, nil
}

func (s *MemoryStorage) Set(_ context.Context, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = make([]byte, len(value))
	copy(s.value, value)
	s.ok = true
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = nil
	s.ok = false
	return nil
}
