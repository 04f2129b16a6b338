package storage

import (
	"context"
	"sync"
)

// MemoryStore holds the document in memory. Useful for tests and dry runs.
type MemoryStore struct {
	mu       sync.Mutex
	data     []byte
	ReadErr  error // returned by Read when set
	WriteErr error // returned by Write when set
	Writes   int
}

// NewMemoryStore creates a store seeded with data (nil for empty).
func NewMemoryStore(data []byte) *MemoryStore {
	return &MemoryStore{data: data}
}

func (s *MemoryStore) Describe() string {
	return "memory"
}

func (s *MemoryStore) Read(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	if s.data == nil {
		return nil, ErrNotFound
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

func (s *MemoryStore) Write(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.data = append([]byte(nil), data...)
	s.Writes++
	return nil
}

// Bytes returns the last written document.
func (s *MemoryStore) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data...)
}

func (s *MemoryStore) Close() error {
	return nil
}
