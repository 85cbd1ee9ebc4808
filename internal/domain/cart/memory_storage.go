package cart

import (
	"context"
	"sync"
)

// MemoryStorage is a LocalStorage that lives only as long as the process.
type MemoryStorage struct {
	mu    sync.RWMutex
	lines []Line
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Read implements LocalStorage.
func (m *MemoryStorage) Read(_ context.Context) ([]Line, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneLines(m.lines), nil
}

// Write implements LocalStorage.
func (m *MemoryStorage) Write(_ context.Context, lines []Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = cloneLines(lines)
	return nil
}
