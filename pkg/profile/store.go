package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Purger removes artifacts associated with a profile (archived captures,
// sample-log entries) when the profile itself is removed. Purge failures
// are logged, not propagated: artifact cleanup is best-effort.
type Purger interface {
	// PurgeUser removes artifacts for one user.
	PurgeUser(ctx context.Context, name string) error

	// PurgeAll removes artifacts for all users.
	PurgeAll(ctx context.Context) error
}

// Options configures a Store.
type Options struct {
	// SampleRate is recorded in newly created documents.
	// Defaults to 16000.
	SampleRate int

	// Purger, if set, is invoked by Remove and Reset.
	Purger Purger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Store reads and writes the profile document at a fixed path.
//
// Safe for concurrent use: mutations run one at a time under a write
// lock around the whole load-modify-save sequence, readers share a read
// lock. There is no cached state beyond the document itself: every operation
// re-reads the file, matching the read-whole/write-whole persistence
// model.
type Store struct {
	mu     sync.RWMutex
	path   string
	rate   int
	purger Purger
	now    func() time.Time
}

// New creates a Store for the document at path. The file is created
// lazily on the first mutation; a missing file loads as an empty store.
func New(path string, opts *Options) *Store {
	s := &Store{
		path: path,
		rate: 16000,
		now:  time.Now,
	}
	if opts != nil {
		if opts.SampleRate > 0 {
			s.rate = opts.SampleRate
		}
		s.purger = opts.Purger
		if opts.Now != nil {
			s.now = opts.Now
		}
	}
	return s
}

// Path returns the document location.
func (s *Store) Path() string { return s.path }

// Snapshot loads the current store contents.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.snapshot(), nil
}

// Get returns the profile for name, compared case-insensitively.
func (s *Store) Get(ctx context.Context, name string) (*Record, bool, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, false, err
	}
	r, ok := snap.Lookup(name)
	return r, ok, nil
}

// Names returns all display names in the canonical sorted order.
func (s *Store) Names(ctx context.Context) ([]string, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Names(), nil
}

// Upsert inserts or overwrites the profile for name. sampleDelta is
// added to the stored sample count; adaptive refreshes pass 0. The
// display case of name is preserved; an existing profile under a
// different case keeps its original display name.
func (s *Store) Upsert(ctx context.Context, name string, embedding []float32, sampleDelta int) error {
	display := strings.TrimSpace(name)
	if display == "" {
		return ErrEmptyName
	}
	if len(embedding) == 0 {
		return fmt.Errorf("profile: upsert %q: empty embedding", display)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if dim := doc.dim(); dim > 0 && dim != len(embedding) {
		return fmt.Errorf("%w: store has %d, got %d", ErrDimension, dim, len(embedding))
	}

	key := strings.ToLower(display)
	rec := doc.lookup(key)
	if rec == nil {
		rec = &userRecord{name: display}
		doc.insert(rec)
	}
	rec.Embedding = append([]float32(nil), embedding...)
	rec.Samples += sampleDelta
	rec.UpdatedAt = s.now().Format(TimeLayout)

	return s.save(doc)
}

// Remove deletes the profile for name. It reports whether a profile
// existed. Associated artifacts are purged best-effort.
func (s *Store) Remove(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}
	key := strings.ToLower(strings.TrimSpace(name))
	rec := doc.lookup(key)
	if rec == nil {
		return false, nil
	}
	doc.remove(key)
	if err := s.save(doc); err != nil {
		return false, err
	}
	if s.purger != nil {
		if err := s.purger.PurgeUser(ctx, rec.name); err != nil {
			log.Printf("profile: purge artifacts for %q: %v", rec.name, err)
		}
	}
	return true, nil
}

// Reset deletes every profile, leaving an empty versioned document.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(newDocument(s.rate)); err != nil {
		return err
	}
	if s.purger != nil {
		if err := s.purger.PurgeAll(ctx); err != nil {
			log.Printf("profile: purge all artifacts: %v", err)
		}
	}
	return nil
}

// load reads and parses the document. A missing file yields an empty,
// correctly-versioned document. Callers must hold at least a read lock.
func (s *Store) load() (*document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return newDocument(s.rate), nil
		}
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("%w: %s: unknown version %d", ErrCorrupt, s.path, doc.Version)
	}
	return &doc, nil
}

// save atomically replaces the document: write to a temp file in the
// same directory, sync, then rename over the target.
func (s *Store) save(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".profiles-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if tmpName != "" {
			os.Remove(tmpName)
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, fs.FileMode(0o644)); err != nil {
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return err
	}
	tmpName = ""
	return nil
}
