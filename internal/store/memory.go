package store

import (
	"fmt"
	"sort"
	"sync"
)

// Memory is the process-lifetime fallback tier. Nothing here survives a
// restart; callers are told storage is best-effort while this tier is the
// only one holding their records.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemory returns an empty in-memory record store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

func (m *Memory) Put(name string, record []byte) error {
	stored := append([]byte(nil), record...)
	m.mu.Lock()
	m.records[name] = stored
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(name string) ([]byte, error) {
	m.mu.RLock()
	record, ok := m.records[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return append([]byte(nil), record...), nil
}

func (m *Memory) Delete(name string) error {
	m.mu.Lock()
	delete(m.records, name)
	m.mu.Unlock()
	return nil
}

func (m *Memory) List() ([]string, error) {
	m.mu.RLock()
	names := make([]string, 0, len(m.records))
	for name := range m.records {
		names = append(names, name)
	}
	m.mu.RUnlock()
	sort.Strings(names)
	return names, nil
}
