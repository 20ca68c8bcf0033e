package voiceid

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/voxidlab/voxid/pkg/audio"
)

func newTestSession(t *testing.T, clips ...audio.Waveform) (*Session, *lineNotifier) {
	t.Helper()
	notes := &lineNotifier{}
	return &Session{
		Store:     newTestStore(t),
		Recorder:  &queueRecorder{clips: clips},
		Extractor: sampleExtractor{},
		Notifier:  notes,
	}, notes
}

func TestSessionIdentifyKnown(t *testing.T) {
	ctx := context.Background()
	sess, _ := newTestSession(t, clip(1, 0))
	if err := sess.Store.Upsert(ctx, "Alice", []float32{1, 0}, 1); err != nil {
		t.Fatal(err)
	}

	out, err := sess.Identify(ctx, 0, -1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if out.Name != "Alice" || out.Score < 0.99 {
		t.Errorf("got (%q, %f), want (Alice, ~1)", out.Name, out.Score)
	}
}

func TestSessionIdentifySilent(t *testing.T) {
	ctx := context.Background()
	sess, _ := newTestSession(t, silence)
	out, err := sess.Identify(ctx, 0, -1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if out.Name != Unknown || out.Score != 0 {
		t.Errorf("got (%q, %f), want (Unknown, 0)", out.Name, out.Score)
	}
}

func TestEnsureRecognizedRefreshes(t *testing.T) {
	ctx := context.Background()
	sess, notes := newTestSession(t, clip(0.8, 0.6))
	if err := sess.Store.Upsert(ctx, "Alice", []float32{1, 0}, 1); err != nil {
		t.Fatal(err)
	}

	out, err := sess.EnsureKnownSpeaker(ctx, EnsureOptions{Alpha: 0.2})
	if err != nil {
		t.Fatal(err)
	}
	if out.Name != "Alice" {
		t.Fatalf("Name = %q, want Alice", out.Name)
	}
	if math.Abs(out.Score-0.8) > 1e-6 {
		t.Errorf("Score = %f, want 0.8", out.Score)
	}
	if !notes.contains("Recognized as Alice") {
		t.Errorf("missing recognition announcement, got %v", notes.lines)
	}

	// The profile moved alpha of the way toward the observation.
	rec, _, err := sess.Store.Get(ctx, "Alice")
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{0.8*1 + 0.2*0.8, 0.2 * 0.6}
	for i := range want {
		if math.Abs(float64(rec.Embedding[i]-want[i])) > 1e-6 {
			t.Errorf("Embedding[%d] = %f, want %f", i, rec.Embedding[i], want[i])
		}
	}
	if rec.Samples != 1 {
		t.Errorf("Samples = %d, want 1", rec.Samples)
	}
}

func TestEnsureRefreshDisabled(t *testing.T) {
	ctx := context.Background()
	sess, _ := newTestSession(t, clip(0.8, 0.6))
	if err := sess.Store.Upsert(ctx, "Alice", []float32{1, 0}, 1); err != nil {
		t.Fatal(err)
	}

	if _, err := sess.EnsureKnownSpeaker(ctx, EnsureOptions{Alpha: -1}); err != nil {
		t.Fatal(err)
	}
	rec, _, err := sess.Store.Get(ctx, "Alice")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Embedding[0] != 1 || rec.Embedding[1] != 0 {
		t.Errorf("Embedding = %v, want unchanged [1 0]", rec.Embedding)
	}
}

func TestEnsureUnknownWithoutAutoEnroll(t *testing.T) {
	ctx := context.Background()
	sess, _ := newTestSession(t, clip(0, 1), clip(0, 1), clip(0, 1))
	confirm := &staticConfirmer{answer: true}
	sess.Confirmer = confirm
	if err := sess.Store.Upsert(ctx, "Alice", []float32{1, 0}, 1); err != nil {
		t.Fatal(err)
	}

	out, err := sess.EnsureKnownSpeaker(ctx, EnsureOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Name != Unknown {
		t.Errorf("Name = %q, want Unknown", out.Name)
	}
	if confirm.asks != 0 {
		t.Errorf("asked %d questions with AutoEnroll off, want 0", confirm.asks)
	}
}

func TestEnsureEnrollmentDeclined(t *testing.T) {
	ctx := context.Background()
	sess, notes := newTestSession(t, silence, silence, silence)
	sess.Confirmer = &staticConfirmer{answer: false}

	out, err := sess.EnsureKnownSpeaker(ctx, EnsureOptions{AutoEnroll: true})
	if err != nil {
		t.Fatal(err)
	}
	if out.Name != Unknown {
		t.Errorf("Name = %q, want Unknown", out.Name)
	}
	if !notes.contains("continuing without enrolling") {
		t.Errorf("missing decline message, got %v", notes.lines)
	}
}

func TestEnsureEnrollsNewSpeaker(t *testing.T) {
	ctx := context.Background()
	// Three unmatched identify attempts, then one enrollment sample.
	sess, _ := newTestSession(t, clip(0, 1), clip(0, 1), clip(0, 1), clip(0, 1))
	sess.Confirmer = &staticConfirmer{answer: true}
	sess.Names = &nameQueue{names: []string{"Dana"}}

	out, err := sess.EnsureKnownSpeaker(ctx, EnsureOptions{AutoEnroll: true})
	if err != nil {
		t.Fatal(err)
	}
	// A just-created profile has nothing meaningful to score against.
	if out.Name != "Dana" || out.Score != 0 {
		t.Errorf("got (%q, %f), want (Dana, 0)", out.Name, out.Score)
	}

	rec, ok, err := sess.Store.Get(ctx, "Dana")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if rec.Samples != 1 {
		t.Errorf("Samples = %d, want 1", rec.Samples)
	}
	if rec.Embedding[0] != 0 || rec.Embedding[1] != 1 {
		t.Errorf("Embedding = %v, want [0 1]", rec.Embedding)
	}
}

func TestEnsureNameCollisionVerified(t *testing.T) {
	ctx := context.Background()
	// Unknown voice for three attempts, then the verification capture
	// matches Bob's stored embedding.
	sess, notes := newTestSession(t, clip(0, 1), clip(0, 1), clip(0, 1), clip(1, 0))
	sess.Confirmer = &staticConfirmer{answer: true}
	sess.Names = &nameQueue{names: []string{"Bobb"}}
	if err := sess.Store.Upsert(ctx, "Bob", []float32{1, 0}, 1); err != nil {
		t.Fatal(err)
	}

	out, err := sess.EnsureKnownSpeaker(ctx, EnsureOptions{AutoEnroll: true})
	if err != nil {
		t.Fatal(err)
	}
	if out.Name != "Bob" || out.Score < 0.99 {
		t.Errorf("got (%q, %f), want (Bob, ~1)", out.Name, out.Score)
	}
	if !notes.contains("Welcome back, Bob") {
		t.Errorf("missing verification message, got %v", notes.lines)
	}
	// No second profile appeared.
	snap, err := sess.Store.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Len() != 1 {
		t.Errorf("Len = %d, want 1", snap.Len())
	}
}

func TestEnsureCollisionRenamed(t *testing.T) {
	ctx := context.Background()
	// Verification fails (voice stays orthogonal to Bob), a fresh name
	// is typed, and enrollment proceeds under it.
	sess, notes := newTestSession(t,
		clip(0, 1), clip(0, 1), clip(0, 1), // identify attempts
		clip(0, 1), // failed verification
		clip(0, 1), // enrollment sample
	)
	sess.Confirmer = &staticConfirmer{answer: true}
	sess.Names = &nameQueue{names: []string{"Bobb", "Carl"}}
	if err := sess.Store.Upsert(ctx, "Bob", []float32{1, 0}, 1); err != nil {
		t.Fatal(err)
	}

	out, err := sess.EnsureKnownSpeaker(ctx, EnsureOptions{AutoEnroll: true})
	if err != nil {
		t.Fatal(err)
	}
	if out.Name != "Carl" || out.Score != 0 {
		t.Errorf("got (%q, %f), want (Carl, 0)", out.Name, out.Score)
	}
	if !notes.contains("doesn't match Bob") {
		t.Errorf("missing mismatch message, got %v", notes.lines)
	}
	if _, ok, _ := sess.Store.Get(ctx, "Carl"); !ok {
		t.Error("Carl was not enrolled")
	}
}

func TestEnsureRenameAttemptsExhausted(t *testing.T) {
	ctx := context.Background()
	sess, _ := newTestSession(t,
		clip(0, 1), clip(0, 1), clip(0, 1), // identify attempts
		silence, // verification capture fails
	)
	sess.Confirmer = &staticConfirmer{answer: true}
	// Empty replacement names burn through every rename attempt.
	sess.Names = &nameQueue{names: []string{"Bobb", "", "", ""}}
	if err := sess.Store.Upsert(ctx, "Bob", []float32{1, 0}, 1); err != nil {
		t.Fatal(err)
	}

	_, err := sess.EnsureKnownSpeaker(ctx, EnsureOptions{AutoEnroll: true})
	if !errors.Is(err, ErrNameCollisionUnresolved) {
		t.Fatalf("err = %v, want ErrNameCollisionUnresolved", err)
	}
}

func TestEnsureCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sess, _ := newTestSession(t, clip(1, 0))
	if _, err := sess.EnsureKnownSpeaker(ctx, EnsureOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
