package sink

import (
	"context"
	"fmt"
	"sync"

	"github.com/rzpsarthak13/rowgate/internal/core"
	"github.com/rzpsarthak13/rowgate/internal/registry"
)

// Entry is a key-value pair held by a MemorySink.
type Entry struct {
	Table string
	Key   string
	Value []byte
}

// MemorySink implements core.Sink in memory.
// This is useful for testing or for printing an export.
type MemorySink struct {
	mu      sync.RWMutex
	entries []Entry
	index   map[string]int
	closed  bool
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{
		index: make(map[string]int),
	}
}

// Put stores a value. Putting a key again replaces its value but keeps its position.
func (m *MemorySink) Put(ctx context.Context, table string, key string, value []byte) error {
	if err := checkEntry(key, value); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrSinkClosed
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	if i, exists := m.index[key]; exists {
		m.entries[i] = Entry{Table: table, Key: key, Value: stored}
		return nil
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, Entry{Table: table, Key: key, Value: stored})
	return nil
}

// Get returns the value stored under key.
func (m *MemorySink) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, exists := m.index[key]
	if !exists {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Entries returns the stored entries in first-put order.
func (m *MemorySink) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len returns the number of stored keys.
func (m *MemorySink) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close marks the sink closed. Stored entries remain readable.
func (m *MemorySink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// MemorySinkFactory implements the SinkFactory interface for MemorySink.
type MemorySinkFactory struct{}

// Type returns the type identifier for this factory.
func (f *MemorySinkFactory) Type() string {
	return "memory"
}

// Validate validates the memory sink configuration.
func (f *MemorySinkFactory) Validate(config registry.InternalExportConfig) error {
	if config.SinkType != "memory" {
		return fmt.Errorf("invalid type for memory factory: %s", config.SinkType)
	}
	return nil
}

// Create creates a new memory sink.
func (f *MemorySinkFactory) Create(config registry.InternalExportConfig) (core.Sink, error) {
	return NewMemorySink(), nil
}

func init() {
	register(&MemorySinkFactory{})
}
