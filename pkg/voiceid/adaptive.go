package voiceid

import (
	"context"

	"github.com/voxidlab/voxid/pkg/profile"
)

// DefaultAlpha is the exponential-moving-average blend factor for
// adaptive profile refreshes. Small on purpose: one session can move a
// profile at most this fraction of the way toward the new observation.
const DefaultAlpha = 0.2

// Refresh nudges the stored embedding for name toward the freshly
// observed one: updated = (1-alpha)*old + alpha*new. The sample count is
// not incremented. A name that is not enrolled is a silent skip, not an
// error. alpha outside (0, 1] falls back to DefaultAlpha.
func Refresh(ctx context.Context, store *profile.Store, name string, observed []float32, alpha float64) error {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultAlpha
	}
	rec, ok, err := store.Get(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if len(rec.Embedding) != len(observed) {
		return profile.ErrDimension
	}
	updated := make([]float32, len(observed))
	for i := range observed {
		updated[i] = float32((1-alpha)*float64(rec.Embedding[i]) + alpha*float64(observed[i]))
	}
	return store.Upsert(ctx, rec.Name, updated, 0)
}
