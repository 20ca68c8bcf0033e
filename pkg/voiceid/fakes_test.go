package voiceid

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/voxidlab/voxid/pkg/audio"
	"github.com/voxidlab/voxid/pkg/profile"
)

// clip builds a waveform whose samples double as the embedding the
// sampleExtractor will return, so tests encode embeddings directly in
// the capture queue.
func clip(vals ...float32) audio.Waveform {
	return audio.Waveform{Samples: vals, Rate: 16000}
}

// silence is below the default silence floor.
var silence = audio.Waveform{Samples: []float32{0, 0}, Rate: 16000}

func newTestStore(t *testing.T) *profile.Store {
	t.Helper()
	return profile.New(filepath.Join(t.TempDir(), "profiles.json"), nil)
}

// queueRecorder replays waveforms in order; an exhausted queue errors.
type queueRecorder struct {
	clips []audio.Waveform
}

func (r *queueRecorder) Record(_ context.Context, _ time.Duration, _ int) (audio.Waveform, error) {
	if len(r.clips) == 0 {
		return audio.Waveform{}, errors.New("recorder exhausted")
	}
	c := r.clips[0]
	r.clips = r.clips[1:]
	return c, nil
}

// sampleExtractor returns the waveform samples as the embedding.
type sampleExtractor struct{}

func (sampleExtractor) Embed(w audio.Waveform) ([]float32, error) {
	return append([]float32(nil), w.Samples...), nil
}

// lineNotifier records spoken lines.
type lineNotifier struct {
	lines []string
}

func (n *lineNotifier) Speak(text string) { n.lines = append(n.lines, text) }

func (n *lineNotifier) contains(sub string) bool {
	for _, l := range n.lines {
		if strings.Contains(l, sub) {
			return true
		}
	}
	return false
}

// staticConfirmer answers every question the same way and counts asks.
type staticConfirmer struct {
	answer bool
	asks   int
}

func (c *staticConfirmer) Confirm(string) bool {
	c.asks++
	return c.answer
}

// nameQueue replays typed names in order.
type nameQueue struct {
	names []string
}

func (q *nameQueue) PromptName(string) (string, error) {
	if len(q.names) == 0 {
		return "", errors.New("name queue exhausted")
	}
	n := q.names[0]
	q.names = q.names[1:]
	return n, nil
}

// recordingArchiver counts archived captures per name.
type recordingArchiver struct {
	counts map[string]int
	err    error
}

func (a *recordingArchiver) ArchiveCapture(_ context.Context, name string, _ audio.Waveform) error {
	if a.err != nil {
		return a.err
	}
	if a.counts == nil {
		a.counts = map[string]int{}
	}
	a.counts[name]++
	return nil
}

// recordingSampleLog counts appended embeddings per name.
type recordingSampleLog struct {
	counts map[string]int
	err    error
}

func (l *recordingSampleLog) Append(_ context.Context, name string, _ []float32, _ time.Time) error {
	if l.err != nil {
		return l.err
	}
	if l.counts == nil {
		l.counts = map[string]int{}
	}
	l.counts[name]++
	return nil
}
