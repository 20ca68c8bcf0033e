package voiceid

import (
	"sort"

	"github.com/voxidlab/voxid/pkg/profile"
)

// Identify scores the query embedding against every profile in the
// snapshot and returns the best match.
//
// Profiles are scanned in lexicographic order of their lowercased names,
// so an exact score tie deterministically resolves to the first name in
// that order. The best score is reported even below the threshold; an
// empty snapshot yields ("Unknown", 0).
func Identify(query []float32, snap *profile.Snapshot, threshold float64) Outcome {
	if snap == nil || snap.Len() == 0 {
		return Outcome{Name: Unknown}
	}

	keys := make([]string, 0, snap.Len())
	for k := range snap.Users {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		bestName  string
		bestScore float64
		scored    bool
	)
	for _, k := range keys {
		rec := snap.Users[k]
		sim := Cosine(query, rec.Embedding)
		// Strict > keeps the first name in iteration order on an exact tie.
		if !scored || sim > bestScore {
			bestName, bestScore, scored = rec.Name, sim, true
		}
	}

	if bestScore >= threshold {
		return Outcome{Name: bestName, Score: bestScore}
	}
	return Outcome{Name: Unknown, Score: bestScore}
}

// VerifyAgainst scores the query embedding against one specific profile.
// It is used to confirm a claimed identity during name-collision
// resolution. Returns the similarity and whether the profile exists.
func VerifyAgainst(query []float32, snap *profile.Snapshot, name string) (float64, bool) {
	rec, ok := snap.Lookup(name)
	if !ok {
		return 0, false
	}
	return Cosine(query, rec.Embedding), true
}
