package hierarchy

import (
	"maps"
	"sync"
)

// DefaultKey is the key a Store saves its snapshot under unless WithKey is used.
const DefaultKey = "orgflow_v1"

// Persistence stores opaque snapshot blobs. It never interprets them.
type Persistence interface {
	// Load returns the blob stored under key. ok is false when nothing is stored.
	Load(key string) (blob []byte, ok bool, err error)

	// Save replaces the blob stored under key.
	Save(key string, blob []byte) error
}

// MemoryPersistence is an in-process Persistence, used by tests and by the
// chart service to stage a snapshot inside a transaction.
type MemoryPersistence struct {
	mu    sync.Mutex
	blobs map[string][]byte
	saves int
}

// NewMemoryPersistence returns a MemoryPersistence seeded with the given blobs.
func NewMemoryPersistence(seed map[string][]byte) *MemoryPersistence {
	blobs := make(map[string][]byte, len(seed))
	maps.Copy(blobs, seed)
	return &MemoryPersistence{blobs: blobs}
}

func (m *MemoryPersistence) Load(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	blob, ok := m.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), blob...), true, nil
}

func (m *MemoryPersistence) Save(key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.blobs == nil {
		m.blobs = make(map[string][]byte)
	}
	m.blobs[key] = append([]byte(nil), blob...)
	m.saves++
	return nil
}

// Saves reports how many times Save has been called.
func (m *MemoryPersistence) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
