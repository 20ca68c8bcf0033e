// Package profile persists enrolled speaker profiles.
//
// Profiles live in a single JSON document:
//
//	{
//	  "version": 1,
//	  "sample_rate": 16000,
//	  "users": {
//	    "Alice": {"embedding": [...], "samples": 3, "updated_at": "2026-08-31 12:00:00"}
//	  }
//	}
//
// The document is read whole and written whole. Writes go through a
// temp-file-then-rename sequence so a crash mid-write never leaves a
// half-written document visible to the next load. Mutations are
// serialized by a store-level lock; concurrent readers never observe a
// store mid-write.
//
// Names are unique under case-insensitive comparison but keep their
// typed display case. Every stored embedding shares the dimension of the
// first enrolled profile.
package profile

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// Version is the document schema version this package reads and writes.
// Documents carrying any other version are rejected as corrupt rather
// than guessed at.
const Version = 1

// TimeLayout is the updated_at serialization format.
const TimeLayout = "2006-01-02 15:04:05"

var (
	// ErrCorrupt reports a persisted document that cannot be parsed or
	// carries an unknown schema version. It is fatal: the store makes no
	// attempt to repair or migrate.
	ErrCorrupt = errors.New("profile: store corrupt")

	// ErrDimension reports an embedding whose length differs from the
	// dimension already stored.
	ErrDimension = errors.New("profile: embedding dimension mismatch")

	// ErrEmptyName reports a blank profile name.
	ErrEmptyName = errors.New("profile: empty name")
)

// Record is one enrolled speaker profile.
type Record struct {
	// Name is the display name as typed at enrollment.
	Name string

	// Embedding is the stored voice embedding.
	Embedding []float32

	// Samples counts the audio samples that contributed to the
	// embedding. Adaptive refreshes do not increment it.
	Samples int

	// UpdatedAt is the time of the last write.
	UpdatedAt time.Time
}

// Snapshot is a point-in-time copy of the store contents.
type Snapshot struct {
	// SampleRate is the capture rate the store was created with.
	SampleRate int

	// Users maps lowercased name to record.
	Users map[string]*Record
}

// Names returns the display names sorted lexicographically by their
// lowercased form. This is the canonical iteration order for matching,
// which pins down tie-breaks.
func (s *Snapshot) Names() []string {
	keys := make([]string, 0, len(s.Users))
	for k := range s.Users {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = s.Users[k].Name
	}
	return names
}

// Lookup returns the record for a name, compared case-insensitively.
func (s *Snapshot) Lookup(name string) (*Record, bool) {
	r, ok := s.Users[strings.ToLower(strings.TrimSpace(name))]
	return r, ok
}

// Len returns the number of enrolled profiles.
func (s *Snapshot) Len() int { return len(s.Users) }

// Dim returns the embedding dimension, or 0 for an empty store.
func (s *Snapshot) Dim() int {
	for _, r := range s.Users {
		return len(r.Embedding)
	}
	return 0
}
