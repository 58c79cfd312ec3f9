package cart

import (
	"context"
	"sync"
)

// Storage is the byte-level persistence port behind a guest cart. Only the
// Store writes through it; implementations decide durability and expiry.
type Storage interface {
	Read(ctx context.Context, key string) (payload []byte, found bool, err error)
	Write(ctx context.Context, key string, payload []byte) error
}

// MemoryStorage is an in-process Storage used by tests and local development.
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string][]byte

	ReadErr  error
	WriteErr error
}

// NewMemoryStorage returns an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (m *MemoryStorage) Read(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, false, m.ReadErr
	}
	payload, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	copied := make([]byte, len(payload))
	copy(copied, payload)
	return copied, true, nil
}

func (m *MemoryStorage) Write(_ context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	copied := make([]byte, len(payload))
	copy(copied, payload)
	m.data[key] = copied
	return nil
}

// Seed installs a raw payload, bypassing the codec. Test helper.
func (m *MemoryStorage) Seed(key string, payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = payload
}
