// Package samplelog keeps an audit trail of every embedding accepted
// during enrollment, one entry per capture. The averaged profile in the
// main store can always be recomputed or inspected from these entries.
//
// Entries are msgpack-encoded under kv keys of the form
//
//	emb:{user}:{id}
//
// where id is a UUIDv7, so lexicographic key order within a user is
// chronological. User segments are lowercased and escaped so
// arbitrary display names cannot collide with the key separator.
package samplelog

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/voxidlab/voxid/pkg/kv"
)

// Entry is one recorded enrollment sample.
type Entry struct {
	// ID is a UUIDv7 assigned at append time.
	ID string `msgpack:"id"`

	// User is the display name the sample was enrolled under.
	User string `msgpack:"user"`

	// Embedding is the per-sample voice embedding.
	Embedding []float32 `msgpack:"embedding"`

	// RecordedAt is the capture time in Unix nanoseconds.
	RecordedAt int64 `msgpack:"ts"`
}

// Time returns the capture time.
func (e Entry) Time() time.Time {
	return time.Unix(0, e.RecordedAt)
}

// Log stores per-sample embeddings in a kv store.
type Log struct {
	store kv.Store
}

// New creates a Log over the given store.
func New(store kv.Store) *Log {
	return &Log{store: store}
}

// Append records one accepted sample for name.
func (l *Log) Append(ctx context.Context, name string, embedding []float32, at time.Time) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("samplelog: new id: %w", err)
	}
	entry := Entry{
		ID:         id.String(),
		User:       strings.TrimSpace(name),
		Embedding:  embedding,
		RecordedAt: at.UnixNano(),
	}
	data, err := msgpack.Marshal(&entry)
	if err != nil {
		return fmt.Errorf("samplelog: encode entry: %w", err)
	}
	return l.store.Set(ctx, entryKey(name, entry.ID), data)
}

// List returns all samples for name in chronological order.
func (l *Log) List(ctx context.Context, name string) ([]Entry, error) {
	var entries []Entry
	for kvEntry, err := range l.store.List(ctx, userPrefix(name)) {
		if err != nil {
			return nil, err
		}
		var e Entry
		if derr := msgpack.Unmarshal(kvEntry.Value, &e); derr != nil {
			return nil, fmt.Errorf("samplelog: decode %s: %w", kvEntry.Key, derr)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// PurgeUser removes every sample for name. Implements the profile
// store's purge hook.
func (l *Log) PurgeUser(ctx context.Context, name string) error {
	return l.store.DeletePrefix(ctx, userPrefix(name))
}

// PurgeAll removes every sample for every user.
func (l *Log) PurgeAll(ctx context.Context) error {
	return l.store.DeletePrefix(ctx, kv.Key{"emb"})
}

func userSegment(name string) string {
	// QueryEscape rather than PathEscape: it escapes ':', the kv key
	// separator.
	return url.QueryEscape(strings.ToLower(strings.TrimSpace(name)))
}

func userPrefix(name string) kv.Key {
	return kv.Key{"emb", userSegment(name)}
}

func entryKey(name, id string) kv.Key {
	return kv.Key{"emb", userSegment(name), id}
}
