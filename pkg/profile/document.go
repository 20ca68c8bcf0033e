package profile

import (
	"strings"
	"time"
)

// document is the persisted JSON shape. Users are keyed by display name
// in the file; all in-memory lookups go through the lowercased form.
type document struct {
	Version    int                    `json:"version"`
	SampleRate int                    `json:"sample_rate"`
	Users      map[string]*userRecord `json:"users"`
}

type userRecord struct {
	Embedding []float32 `json:"embedding"`
	Samples   int       `json:"samples"`
	UpdatedAt string    `json:"updated_at"`

	// name is the display-cased map key, carried for purge callbacks.
	name string
}

func newDocument(rate int) *document {
	return &document{
		Version:    Version,
		SampleRate: rate,
		Users:      map[string]*userRecord{},
	}
}

// lookup finds the record whose lowercased display name equals key.
func (d *document) lookup(key string) *userRecord {
	for display, rec := range d.Users {
		if strings.ToLower(display) == key {
			rec.name = display
			return rec
		}
	}
	return nil
}

func (d *document) insert(rec *userRecord) {
	if d.Users == nil {
		d.Users = map[string]*userRecord{}
	}
	d.Users[rec.name] = rec
}

func (d *document) remove(key string) {
	for display := range d.Users {
		if strings.ToLower(display) == key {
			delete(d.Users, display)
		}
	}
}

// dim returns the embedding dimension of any stored record, or 0.
func (d *document) dim() int {
	for _, rec := range d.Users {
		return len(rec.Embedding)
	}
	return 0
}

// snapshot converts the raw document into the exported read model.
func (d *document) snapshot() *Snapshot {
	snap := &Snapshot{
		SampleRate: d.SampleRate,
		Users:      make(map[string]*Record, len(d.Users)),
	}
	for display, rec := range d.Users {
		emb := make([]float32, len(rec.Embedding))
		copy(emb, rec.Embedding)
		ts, _ := time.Parse(TimeLayout, rec.UpdatedAt)
		snap.Users[strings.ToLower(display)] = &Record{
			Name:      display,
			Embedding: emb,
			Samples:   rec.Samples,
			UpdatedAt: ts,
		}
	}
	return snap
}
