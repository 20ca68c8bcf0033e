package voiceid

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/voxidlab/voxid/pkg/audio"
	"github.com/voxidlab/voxid/pkg/profile"
)

// MaxConsecutiveSilence is the number of back-to-back silent captures
// that aborts an enrollment.
const MaxConsecutiveSilence = 3

// Enroller collects voice samples and writes averaged embeddings to the
// profile store.
type Enroller struct {
	// Store receives the enrolled profile. Required.
	Store *profile.Store

	// Recorder captures audio samples. Required.
	Recorder Recorder

	// Extractor computes embeddings. Required.
	Extractor Extractor

	// Archive, if set, receives each accepted raw capture. Best-effort.
	Archive Archiver

	// Samples, if set, receives each accepted per-sample embedding.
	// Best-effort.
	Samples SampleLog

	// Duration is the capture length per sample. Defaults to
	// DefaultDuration.
	Duration time.Duration

	// Device is the input device index; < 0 selects the backend default.
	Device int

	// SilenceFloor overrides audio.DefaultSilenceFloor when > 0.
	SilenceFloor float32

	// Notifier, if set, receives progress lines.
	Notifier Notifier
}

// Enroll records target non-silent samples for name, averages their
// embeddings component-wise, and upserts the profile with the sample
// count incremented by target.
//
// Silent captures (and capture or embedding failures, which count as
// silent) do not consume the target; MaxConsecutiveSilence of them in a
// row aborts with ErrEnrollmentAborted, leaving the store unchanged.
func (e *Enroller) Enroll(ctx context.Context, name string, target int) (*profile.Record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, profile.ErrEmptyName
	}
	if target <= 0 {
		target = 1
	}
	duration := e.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}

	embeddings := make([][]float32, 0, target)
	silentRun := 0
	for len(embeddings) < target {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		wf, err := e.capture(ctx, duration)
		if err != nil {
			silentRun++
			e.speak(fmt.Sprintf("No usable audio (%d/%d).", silentRun, MaxConsecutiveSilence))
			if silentRun >= MaxConsecutiveSilence {
				return nil, ErrEnrollmentAborted
			}
			continue
		}

		emb, err := e.Extractor.Embed(wf)
		if err != nil {
			silentRun++
			log.Printf("voiceid: embed sample for %q: %v", name, err)
			if silentRun >= MaxConsecutiveSilence {
				return nil, ErrEnrollmentAborted
			}
			continue
		}
		silentRun = 0
		embeddings = append(embeddings, emb)
		e.speak(fmt.Sprintf("Captured sample %d of %d.", len(embeddings), target))

		// Side channels never fail enrollment.
		if e.Archive != nil {
			if aerr := e.Archive.ArchiveCapture(ctx, name, wf); aerr != nil {
				log.Printf("voiceid: archive capture for %q: %v", name, aerr)
			}
		}
		if e.Samples != nil {
			if serr := e.Samples.Append(ctx, name, emb, time.Now()); serr != nil {
				log.Printf("voiceid: log sample for %q: %v", name, serr)
			}
		}
	}

	mean := Mean(embeddings)
	if err := e.Store.Upsert(ctx, name, mean, target); err != nil {
		return nil, err
	}
	rec, _, err := e.Store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// capture records one sample, normalizing errors and silence into a
// single failure mode.
func (e *Enroller) capture(ctx context.Context, duration time.Duration) (audio.Waveform, error) {
	wf, err := e.Recorder.Record(ctx, duration, e.Device)
	if err != nil {
		return audio.Waveform{}, err
	}
	if wf.IsSilent(e.SilenceFloor) {
		return audio.Waveform{}, audio.ErrSilent
	}
	return wf, nil
}

func (e *Enroller) speak(text string) {
	if e.Notifier != nil {
		e.Notifier.Speak(text)
	}
}
