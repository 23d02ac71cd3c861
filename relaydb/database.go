// Package relaydb defines the key-value store interfaces backing the relay
// components. Each component instance owns a namespaced slice of one store;
// batches give mutating operations their all-or-nothing commit point.
package relaydb

import "io"

// KeyValueReader wraps the Has and Get methods of a backing data store.
type KeyValueReader interface {
	// Has retrieves if a key is present in the key-value data store.
	Has(key []byte) (bool, error)

	// Get retrieves the given key if it's present in the key-value data store.
	Get(key []byte) ([]byte, error)
}

// KeyValueWriter wraps the Put and Delete methods of a backing data store.
type KeyValueWriter interface {
	// Put inserts the given value into the key-value data store.
	Put(key []byte, value []byte) error

	// Delete removes the key from the key-value data store.
	Delete(key []byte) error
}

// Batch is a write-only store that buffers changes until Write is called.
// A batch cannot be used concurrently.
type Batch interface {
	KeyValueWriter

	// ValueSize retrieves the amount of data queued up for writing.
	ValueSize() int

	// Write flushes any accumulated data to disk.
	Write() error

	// Reset resets the batch for reuse.
	Reset()

	// Replay replays the batch contents onto w.
	Replay(w KeyValueWriter) error
}

// Batcher wraps the NewBatch method of a backing data store.
type Batcher interface {
	// NewBatch creates a write-only batch deferred until Write is called.
	NewBatch() Batch
}

// Iterator iterates over a store's key/value pairs in ascending key order.
// It must be released after use. An iterator is not safe for concurrent use.
type Iterator interface {
	// Next moves the iterator to the next key/value pair, reporting whether
	// the iterator is exhausted.
	Next() bool

	// Error returns any accumulated error.
	Error() error

	// Key returns the key of the current pair, or nil if done. The caller
	// should not modify the contents of the returned slice.
	Key() []byte

	// Value returns the value of the current pair, or nil if done. The
	// caller should not modify the contents of the returned slice.
	Value() []byte

	// Release releases associated resources.
	Release()
}

// Iteratee wraps the NewIterator method of a backing data store.
type Iteratee interface {
	// NewIterator creates a binary-alphabetical iterator over a subset of
	// the keys with a particular prefix, starting at a particular key.
	NewIterator(prefix []byte, start []byte) Iterator
}

// Database is the full set of store operations the relay components need.
type Database interface {
	KeyValueReader
	KeyValueWriter
	Batcher
	Iteratee
	io.Closer
}
