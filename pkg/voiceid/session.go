package voiceid

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/voxidlab/voxid/pkg/profile"
)

// Session bundles the profile store with the capture and interaction
// collaborators for identification and enrollment flows. There is no
// ambient global state: everything a flow touches is carried here or in
// its options.
type Session struct {
	// Store holds enrolled profiles. Required.
	Store *profile.Store

	// Recorder captures audio. Required.
	Recorder Recorder

	// Extractor computes embeddings. Required.
	Extractor Extractor

	// Notifier receives status lines. Nil falls back to the process
	// terminal.
	Notifier Notifier

	// Confirmer asks yes/no questions. Nil falls back to a blocking
	// terminal prompt.
	Confirmer Confirmer

	// Names prompts for typed names. Nil falls back to the terminal.
	Names NamePrompter

	// Archive, if set, receives accepted enrollment captures.
	Archive Archiver

	// Samples, if set, receives accepted per-sample embeddings.
	Samples SampleLog

	// SilenceFloor overrides audio.DefaultSilenceFloor when > 0.
	SilenceFloor float32
}

// EnsureOptions configures EnsureKnownSpeaker.
type EnsureOptions struct {
	// Duration is the capture length per attempt. Defaults to
	// DefaultDuration.
	Duration time.Duration

	// Threshold is the minimum similarity for a positive match.
	// Defaults to DefaultThreshold.
	Threshold float64

	// AutoEnroll enables the enrollment flow for unknown speakers.
	AutoEnroll bool

	// MaxSilenceAttempts bounds the identify loop. Each silent or
	// unmatched capture consumes one attempt. Defaults to 3.
	MaxSilenceAttempts int

	// Device is the input device index passed to the Recorder;
	// < 0 selects the backend default.
	Device int

	// NameThreshold is the fuzzy-name similarity treated as a collision.
	// Defaults to DefaultNameThreshold.
	NameThreshold float64

	// Alpha is the adaptive-refresh blend factor applied when a speaker
	// is recognized. 0 uses DefaultAlpha; negative disables refreshes.
	Alpha float64

	// RenameAttempts bounds how many replacement names the caller may
	// offer after a failed collision verification. Defaults to 3.
	RenameAttempts int
}

func (o *EnsureOptions) defaults() {
	if o.Duration <= 0 {
		o.Duration = DefaultDuration
	}
	if o.Threshold == 0 {
		o.Threshold = DefaultThreshold
	}
	if o.MaxSilenceAttempts <= 0 {
		o.MaxSilenceAttempts = 3
	}
	if o.NameThreshold == 0 {
		o.NameThreshold = DefaultNameThreshold
	}
	if o.RenameAttempts <= 0 {
		o.RenameAttempts = 3
	}
}

// ensureState names the phases of the EnsureKnownSpeaker flow. Every
// transition below is guarded by an explicit condition, so each can be
// exercised in isolation.
type ensureState int

const (
	stateCapturing ensureState = iota
	stateMatching
	stateRecognized
	stateUnknown
	statePromptEnroll
	stateDeclined
	stateEnrolling
	stateNameCollision
	stateVerifyExisting
	stateRenameRetry
)

// Identify performs a single capture-embed-match cycle. A silent or
// failed capture yields ("Unknown", 0) without error; storage failures
// propagate.
func (s *Session) Identify(ctx context.Context, duration time.Duration, device int, threshold float64) (Outcome, error) {
	if duration <= 0 {
		duration = DefaultDuration
	}
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	emb, ok := s.captureEmbed(ctx, duration, device)
	if !ok {
		return Outcome{Name: Unknown}, nil
	}
	snap, err := s.Store.Snapshot(ctx)
	if err != nil {
		return Outcome{}, err
	}
	return Identify(emb, snap, threshold), nil
}

// EnsureKnownSpeaker identifies the current speaker, enrolling them if
// unknown and permitted.
//
// It loops capture and match up to MaxSilenceAttempts; a recognized
// speaker is announced, adaptively refreshed, and returned. Once the
// attempt budget is spent the flow either stops (AutoEnroll off or
// consent declined, returning Unknown with the last score) or drives
// enrollment: the typed name is checked for near-duplicates against
// enrolled names, a collision triggers voice verification against the
// existing profile (success returns that identity), and a failed
// verification demands a different name before enrollment proceeds with
// a single sample. Enrollment finishes with score 0: a just-created
// profile has nothing meaningful to score against.
//
// Capture and embedding failures count as silence and are retried;
// storage failures are fatal and propagate.
func (s *Session) EnsureKnownSpeaker(ctx context.Context, opts EnsureOptions) (Outcome, error) {
	opts.defaults()

	var (
		state     = stateCapturing
		attempts  int
		lastScore float64
		lastEmb   []float32
		outcome   Outcome
		typed     string
		collide   string
		renames   int
		rejected  = map[string]bool{}
	)

	for {
		if err := ctx.Err(); err != nil {
			return Outcome{Name: Unknown, Score: lastScore}, err
		}

		switch state {
		case stateCapturing:
			if attempts >= opts.MaxSilenceAttempts {
				state = stateUnknown
				continue
			}
			attempts++
			emb, ok := s.captureEmbed(ctx, opts.Duration, opts.Device)
			if !ok {
				continue // silent capture, stay in stateCapturing
			}
			lastEmb = emb
			state = stateMatching

		case stateMatching:
			snap, err := s.Store.Snapshot(ctx)
			if err != nil {
				return Outcome{}, err
			}
			out := Identify(lastEmb, snap, opts.Threshold)
			lastScore = out.Score
			if out.Known() {
				s.speak(fmt.Sprintf("Recognized as %s (score %.2f).", out.Name, out.Score))
				outcome = out
				state = stateRecognized
			} else {
				state = stateCapturing
			}

		case stateRecognized:
			if opts.Alpha >= 0 && lastEmb != nil {
				if err := Refresh(ctx, s.Store, outcome.Name, lastEmb, opts.Alpha); err != nil {
					return Outcome{}, err
				}
			}
			return outcome, nil

		case stateUnknown:
			if !opts.AutoEnroll {
				return Outcome{Name: Unknown, Score: lastScore}, nil
			}
			state = statePromptEnroll

		case statePromptEnroll:
			ok := s.confirm("I don't recognize your voice.\nWould you like to enroll your voice now?")
			if !ok {
				state = stateDeclined
				continue
			}
			name, err := s.promptName("Please type your name as you'd like to be addressed: ")
			if err != nil {
				return Outcome{Name: Unknown, Score: lastScore}, err
			}
			typed = name
			state = stateEnrolling

		case stateDeclined:
			s.speak("Okay, continuing without enrolling.")
			return Outcome{Name: Unknown, Score: lastScore}, nil

		case stateEnrolling:
			snap, err := s.Store.Snapshot(ctx)
			if err != nil {
				return Outcome{}, err
			}
			if existing, ok := ResolveName(typed, snap.Names(), opts.NameThreshold); ok && !rejected[strings.ToLower(existing)] {
				collide = existing
				state = stateNameCollision
				continue
			}
			rec, err := s.enroller(opts).Enroll(ctx, typed, 1)
			if err != nil {
				return Outcome{Name: Unknown, Score: lastScore}, err
			}
			s.speak(fmt.Sprintf("Enrollment complete. Welcome, %s!", rec.Name))
			return Outcome{Name: rec.Name, Score: 0}, nil

		case stateNameCollision:
			s.speak(fmt.Sprintf("User %q already exists. Let me verify your voice...", collide))
			state = stateVerifyExisting

		case stateVerifyExisting:
			emb, ok := s.captureEmbed(ctx, opts.Duration, opts.Device)
			if !ok {
				state = stateRenameRetry
				continue
			}
			snap, err := s.Store.Snapshot(ctx)
			if err != nil {
				return Outcome{}, err
			}
			score, exists := VerifyAgainst(emb, snap, collide)
			if exists && score >= opts.Threshold {
				s.speak(fmt.Sprintf("Voice verified! Welcome back, %s!", collide))
				lastEmb = emb
				outcome = Outcome{Name: collide, Score: score}
				state = stateRecognized
				continue
			}
			s.speak(fmt.Sprintf("Voice doesn't match %s. Please use a different name.", collide))
			state = stateRenameRetry

		case stateRenameRetry:
			rejected[strings.ToLower(collide)] = true
			if renames >= opts.RenameAttempts {
				return Outcome{Name: Unknown, Score: lastScore}, ErrNameCollisionUnresolved
			}
			renames++
			name, err := s.promptName("Please enter a different name: ")
			if err != nil {
				return Outcome{Name: Unknown, Score: lastScore}, err
			}
			if name == "" || strings.EqualFold(name, collide) {
				s.speak("Please enter a different name.")
				continue // consume another rename attempt
			}
			typed = name
			state = stateEnrolling
		}
	}
}

// captureEmbed records one clip and embeds it. Any capture failure,
// silence, or embedding failure reports ok=false; the caller treats all
// of them as a silent attempt.
func (s *Session) captureEmbed(ctx context.Context, duration time.Duration, device int) ([]float32, bool) {
	wf, err := s.Recorder.Record(ctx, duration, device)
	if err != nil {
		log.Printf("voiceid: capture: %v", err)
		return nil, false
	}
	if wf.IsSilent(s.SilenceFloor) {
		return nil, false
	}
	emb, err := s.Extractor.Embed(wf)
	if err != nil {
		log.Printf("voiceid: embed: %v", err)
		return nil, false
	}
	return emb, true
}

func (s *Session) enroller(opts EnsureOptions) *Enroller {
	return &Enroller{
		Store:        s.Store,
		Recorder:     s.Recorder,
		Extractor:    s.Extractor,
		Archive:      s.Archive,
		Samples:      s.Samples,
		Duration:     opts.Duration,
		Device:       opts.Device,
		SilenceFloor: s.SilenceFloor,
		Notifier:     s.Notifier,
	}
}

func (s *Session) speak(text string) {
	if s.Notifier != nil {
		s.Notifier.Speak(text)
		return
	}
	terminal().Speak(text)
}

func (s *Session) confirm(prompt string) bool {
	if s.Confirmer != nil {
		return s.Confirmer.Confirm(prompt)
	}
	return terminal().Confirm(prompt)
}

func (s *Session) promptName(prompt string) (string, error) {
	if s.Names != nil {
		return s.Names.PromptName(prompt)
	}
	return terminal().PromptName(prompt)
}
