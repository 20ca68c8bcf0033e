// Package voiceid implements offline speaker verification and enrollment
// over a persisted profile store.
//
// # Pipeline
//
// Identification runs in three stages:
//
//  1. Recorder.Record: a fixed-duration capture from the audio backend
//  2. Extractor.Embed: waveform to fixed-dimension voice embedding
//  3. Identify: cosine similarity against every enrolled profile
//
// The best-scoring profile wins when its similarity reaches the caller's
// threshold; otherwise the speaker is [Unknown] and the best score is
// still reported for diagnostics.
//
// # Enrollment
//
// [Enroller.Enroll] collects a fixed number of non-silent captures,
// averages their embeddings, and writes the result through the profile
// store. [Session.EnsureKnownSpeaker] drives the full interactive flow:
// identify, prompt unknown speakers for enrollment, resolve near-duplicate
// names, and verify claimed identities against existing profiles.
//
// # Adaptation
//
// Recognized speakers get a gentle exponential-moving-average refresh of
// their stored embedding ([Refresh]), so profiles track session-to-session
// voice drift without full re-enrollment. The blend factor bounds how far
// a single session can move a profile.
package voiceid

import (
	"context"
	"errors"
	"time"

	"github.com/voxidlab/voxid/pkg/audio"
)

// Unknown is the identity reported when no profile matches.
const Unknown = "Unknown"

// DefaultThreshold is the minimum cosine similarity for a positive
// identification.
const DefaultThreshold = 0.65

// DefaultDuration is the capture length for one sample.
const DefaultDuration = 3 * time.Second

var (
	// ErrEnrollmentAborted reports that enrollment hit the consecutive
	// silent-capture cap before collecting enough valid samples. The
	// profile store is left untouched; the caller may retry.
	ErrEnrollmentAborted = errors.New("voiceid: enrollment aborted after repeated silent captures")

	// ErrNameCollisionUnresolved reports that the caller could not supply
	// an acceptable non-colliding name within the rename budget.
	ErrNameCollisionUnresolved = errors.New("voiceid: name collision unresolved")
)

// Outcome is the result of an identification attempt. Name is either an
// enrolled display name or [Unknown]. Score is the best cosine similarity
// observed in [-1, 1]; it is zero only when the store is empty or no
// usable audio was captured.
type Outcome struct {
	Name  string
	Score float64
}

// Known reports whether the outcome names an enrolled speaker.
func (o Outcome) Known() bool { return o.Name != Unknown }

// Recorder captures audio from an input device. Implementations block
// for the requested duration. A device index < 0 selects the backend
// default. Device failures may surface as errors or as empty waveforms;
// callers treat both as silent captures.
type Recorder interface {
	Record(ctx context.Context, duration time.Duration, device int) (audio.Waveform, error)
}

// Extractor turns a waveform into a fixed-dimension voice embedding.
// Implementations must be deterministic and safe for concurrent use.
type Extractor interface {
	Embed(w audio.Waveform) ([]float32, error)
}

// Notifier delivers short status lines to the user (console, TTS).
// Implementations must not block beyond a UI-acceptable delay.
type Notifier interface {
	Speak(text string)
}

// Confirmer asks the user a yes/no question and blocks for the answer.
type Confirmer interface {
	Confirm(prompt string) bool
}

// NamePrompter asks the user to type a name.
type NamePrompter interface {
	PromptName(prompt string) (string, error)
}

// Archiver persists raw captures for auditability. Archive failures must
// not fail enrollment; callers log and continue.
type Archiver interface {
	ArchiveCapture(ctx context.Context, name string, w audio.Waveform) error
}

// SampleLog records each accepted per-sample embedding. Like the
// archiver it is best-effort.
type SampleLog interface {
	Append(ctx context.Context, name string, embedding []float32, at time.Time) error
}
