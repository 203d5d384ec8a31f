// Package corpus defines the minimal external-collaborator contract the
// butterfly core needs from a corpus store (spec §1: corpus storage is
// owned by the surrounding fuzzer runtime, not the core), plus an
// in-memory implementation useful for demos, examples, and tests.
package corpus

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/nathaniel-bennett/butterfly/pkg/errs"
)

// Store is the contract the core's examples and tests use to stand in for
// a real corpus: named, content-addressed entries, added once and read
// back by name.
type Store interface {
	Add(name string, data []byte) error
	Get(name string) ([]byte, error)
	Names() []string
}

// Memory is an in-process Store backed by a map, with no persistence.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemory creates an empty in-memory corpus.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

// Add stores data under name, overwriting any existing entry with the
// same name.
func (m *Memory) Add(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.entries[name] = cp
	return nil
}

// Get retrieves the entry stored under name.
func (m *Memory) Get(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.entries[name]
	if !ok {
		return nil, errors.Wrapf(errs.ErrInvalidCorpusEntry, "no such entry %q", name)
	}
	return data, nil
}

// Names returns every stored entry's name, in no particular order.
func (m *Memory) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	return names
}

var _ Store = (*Memory)(nil)
