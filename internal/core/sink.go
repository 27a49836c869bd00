package core

import (
	"context"
)

// Sink defines the interface for export targets.
// Resolved objects are pushed to a sink as key-value pairs; a sink is never
// read back by the resolver.
type Sink interface {
	// Put stores a serialized object under key.
	// table is the source table, for sinks that index or partition by it.
	Put(ctx context.Context, table string, key string, value []byte) error

	// Close flushes pending writes and releases resources.
	Close() error
}
