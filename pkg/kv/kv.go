// Package kv provides the key-value store behind the per-sample
// embedding log. Keys are hierarchical path segments (e.g.
// ["emb", "alice", "<id>"]) encoded with a separator byte, so a prefix
// scan over ["emb", "alice"] enumerates one user's samples.
//
// The BadgerDB implementation persists across runs; the in-memory one
// backs tests.
package kv

import (
	"context"
	"errors"
	"iter"
	"strings"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("kv: not found")

// DefaultSeparator joins key segments in the encoded form. Segments must
// not contain it; callers escape free-form text before building keys.
const DefaultSeparator byte = ':'

// Key is a hierarchical path represented as string segments.
type Key []string

// String renders the key for display and debugging.
func (k Key) String() string {
	return strings.Join(k, string(DefaultSeparator))
}

// Entry is a key-value pair yielded by List.
type Entry struct {
	Key   Key
	Value []byte
}

// Store is a minimal key-value store with prefix scans.
type Store interface {
	// Get retrieves the value for a key. Returns ErrNotFound if absent.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set stores a key-value pair, overwriting any existing value.
	Set(ctx context.Context, key Key, value []byte) error

	// Delete removes a key. No error if the key does not exist.
	Delete(ctx context.Context, key Key) error

	// DeletePrefix removes every key under the given prefix. An empty
	// prefix clears the store.
	DeletePrefix(ctx context.Context, prefix Key) error

	// List iterates entries whose key starts with the prefix, in
	// lexicographic order of the encoded key.
	List(ctx context.Context, prefix Key) iter.Seq2[Entry, error]

	// Close releases resources held by the store.
	Close() error
}

// encode converts a Key to its stored byte form.
func encode(k Key) []byte {
	n := 0
	for i, seg := range k {
		if i > 0 {
			n++
		}
		n += len(seg)
	}
	buf := make([]byte, 0, n)
	for i, seg := range k {
		if i > 0 {
			buf = append(buf, DefaultSeparator)
		}
		buf = append(buf, seg...)
	}
	return buf
}

// decode converts a stored byte form back to a Key.
func decode(b []byte) Key {
	parts := strings.Split(string(b), string(DefaultSeparator))
	return Key(parts)
}

// scanPrefix returns the encoded prefix for List/DeletePrefix. A
// trailing separator is appended so prefix ["a","b"] does not match key
// ["a","bc"]. An empty prefix scans everything.
func scanPrefix(prefix Key) []byte {
	if len(prefix) == 0 {
		return nil
	}
	return append(encode(prefix), DefaultSeparator)
}
