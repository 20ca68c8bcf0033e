package voiceid

import (
	"strings"
	"testing"

	"github.com/voxidlab/voxid/pkg/profile"
)

// testSnap builds a snapshot from display-name/embedding pairs.
func testSnap(recs ...*profile.Record) *profile.Snapshot {
	s := &profile.Snapshot{SampleRate: 16000, Users: map[string]*profile.Record{}}
	for _, r := range recs {
		s.Users[strings.ToLower(r.Name)] = r
	}
	return s
}

func TestIdentifyBestMatch(t *testing.T) {
	snap := testSnap(
		&profile.Record{Name: "Alice", Embedding: []float32{1, 0, 0}},
		&profile.Record{Name: "Bob", Embedding: []float32{0, 1, 0}},
	)
	out := Identify([]float32{0.9, 0.1, 0}, snap, 0.65)
	if out.Name != "Alice" {
		t.Errorf("Name = %q, want Alice", out.Name)
	}
	if out.Score <= 0.9 {
		t.Errorf("Score = %f, want > 0.9", out.Score)
	}
	if !out.Known() {
		t.Error("Known() = false, want true")
	}
}

func TestIdentifyBelowThreshold(t *testing.T) {
	snap := testSnap(&profile.Record{Name: "Alice", Embedding: []float32{1, 0}})
	out := Identify([]float32{0.5, 0.866}, snap, 0.65)
	if out.Name != Unknown {
		t.Errorf("Name = %q, want Unknown", out.Name)
	}
	// The best score is still reported for diagnostics.
	if out.Score < 0.49 || out.Score > 0.51 {
		t.Errorf("Score = %f, want ~0.5", out.Score)
	}
	if out.Known() {
		t.Error("Known() = true, want false")
	}
}

func TestIdentifyExactThreshold(t *testing.T) {
	snap := testSnap(&profile.Record{Name: "Alice", Embedding: []float32{1, 0}})
	out := Identify([]float32{1, 0}, snap, 1.0)
	if out.Name != "Alice" {
		t.Errorf("score equal to threshold should match, got %q", out.Name)
	}
}

func TestIdentifyEmptySnapshot(t *testing.T) {
	out := Identify([]float32{1, 0}, testSnap(), 0.65)
	if out.Name != Unknown || out.Score != 0 {
		t.Errorf("got (%q, %f), want (Unknown, 0)", out.Name, out.Score)
	}
	out = Identify([]float32{1, 0}, nil, 0.65)
	if out.Name != Unknown {
		t.Errorf("nil snapshot: got %q, want Unknown", out.Name)
	}
}

func TestIdentifyTieBreak(t *testing.T) {
	// Identical embeddings force an exact tie; the first name in
	// lowercase-lexicographic order must win, regardless of map order.
	snap := testSnap(
		&profile.Record{Name: "Zed", Embedding: []float32{1, 0}},
		&profile.Record{Name: "amy", Embedding: []float32{1, 0}},
	)
	for i := 0; i < 20; i++ {
		out := Identify([]float32{1, 0}, snap, 0.65)
		if out.Name != "amy" {
			t.Fatalf("tie resolved to %q, want amy", out.Name)
		}
	}
}

func TestVerifyAgainst(t *testing.T) {
	snap := testSnap(&profile.Record{Name: "Bob", Embedding: []float32{0, 1}})

	score, ok := VerifyAgainst([]float32{0, 1}, snap, "bob")
	if !ok {
		t.Fatal("ok = false for enrolled name")
	}
	if score < 0.99 {
		t.Errorf("score = %f, want ~1", score)
	}

	if _, ok := VerifyAgainst([]float32{0, 1}, snap, "nobody"); ok {
		t.Error("ok = true for missing name")
	}
}
