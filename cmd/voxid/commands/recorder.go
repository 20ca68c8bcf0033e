package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/voxidlab/voxid/pkg/audio"
	"github.com/voxidlab/voxid/pkg/audio/wav"
)

// ErrNoInput reports that a command needed a capture but every --input
// file has been consumed.
var ErrNoInput = errors.New("no input files left; pass more with --input")

// wavRecorder satisfies voiceid.Recorder by reading pre-recorded WAV
// files in order, one file per capture. The duration and device
// arguments are ignored; the file's own length and rate are kept so the
// pipeline resamples exactly as it would a live capture.
type wavRecorder struct {
	mu    sync.Mutex
	paths []string
	next  int
}

func newWavRecorder(paths []string) *wavRecorder {
	return &wavRecorder{paths: paths}
}

func (r *wavRecorder) Record(ctx context.Context, _ time.Duration, _ int) (audio.Waveform, error) {
	if err := ctx.Err(); err != nil {
		return audio.Waveform{}, err
	}

	r.mu.Lock()
	if r.next >= len(r.paths) {
		r.mu.Unlock()
		return audio.Waveform{}, ErrNoInput
	}
	path := r.paths[r.next]
	r.next++
	r.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return audio.Waveform{}, err
	}
	defer f.Close()

	wf, err := wav.Decode(f)
	if err != nil {
		return audio.Waveform{}, fmt.Errorf("%s: %w", path, err)
	}
	return wf, nil
}
