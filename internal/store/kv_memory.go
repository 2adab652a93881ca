package store

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var ErrInjectedWrite = errors.New("injected write failure")

// MemoryKV is an in-memory KV for tests and ephemeral sessions.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]string

	failWrites int
	writes     int
}

func NewMemory() *MemoryKV {
	return &MemoryKV{data: map[string]string{}}
}

// FailNextWrites makes the next n calls to Set return ErrInjectedWrite.
func (m *MemoryKV) FailNextWrites(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrites = n
}

// Writes returns how many Set calls have been attempted.
func (m *MemoryKV) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.failWrites > 0 {
		m.failWrites--
		return ErrInjectedWrite
	}
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

func (m *MemoryKV) Keys(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.data))
	for k := range m.data {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryKV) Close() error { return nil }
