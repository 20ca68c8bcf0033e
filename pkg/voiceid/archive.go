package voiceid

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/voxidlab/voxid/pkg/audio"
	"github.com/voxidlab/voxid/pkg/audio/wav"
	"github.com/voxidlab/voxid/pkg/storage"
)

// WavArchive persists accepted enrollment captures as WAV files under
// users/{name}/{id}.wav in a FileStore. File IDs are UUIDv7 so listings
// sort chronologically. It also implements the profile store's purge
// hook so removing a user drops their archived audio.
type WavArchive struct {
	files storage.FileStore
}

// NewWavArchive creates an archive over the given file store.
func NewWavArchive(files storage.FileStore) *WavArchive {
	return &WavArchive{files: files}
}

// ArchiveCapture writes one capture for name.
func (a *WavArchive) ArchiveCapture(ctx context.Context, name string, wf audio.Waveform) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("voiceid: archive id: %w", err)
	}
	path := archiveUserPrefix(name) + "/" + id.String() + ".wav"
	w, err := a.files.Write(ctx, path)
	if err != nil {
		return err
	}
	if err := wav.Encode(w, wf); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// PurgeUser deletes every archived capture for name.
func (a *WavArchive) PurgeUser(ctx context.Context, name string) error {
	return a.purge(ctx, archiveUserPrefix(name))
}

// PurgeAll deletes every archived capture.
func (a *WavArchive) PurgeAll(ctx context.Context) error {
	return a.purge(ctx, "users")
}

func (a *WavArchive) purge(ctx context.Context, prefix string) error {
	paths, err := a.files.List(ctx, prefix)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := a.files.Delete(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// archiveUserPrefix escapes the display name into a safe path segment.
func archiveUserPrefix(name string) string {
	return "users/" + url.QueryEscape(strings.ToLower(strings.TrimSpace(name)))
}
