// Package embed provides voice embedding extractors.
//
// The production deployment plugs in a neural speaker model behind the
// same interface; [Spectral] is the built-in model-free extractor used
// for development and tests. It summarizes an utterance by the
// per-band mean and standard deviation of its log mel filterbank
// features, L2-normalized. The result is deterministic, pure Go, and
// needs no model files.
package embed

import (
	"errors"
	"math"

	"github.com/voxidlab/voxid/pkg/audio"
	"github.com/voxidlab/voxid/pkg/audio/fbank"
)

// ErrTooShort reports audio shorter than one analysis window.
var ErrTooShort = errors.New("embed: audio too short")

// Spectral is a model-free voice embedding extractor.
// Safe for concurrent use.
type Spectral struct {
	fb *fbank.Extractor
}

// NewSpectral creates a Spectral extractor over the given filterbank
// configuration. Use fbank.DefaultConfig for the standard 16 kHz setup,
// which yields 160-dimensional embeddings (mean + stddev per mel band).
func NewSpectral(cfg fbank.Config) *Spectral {
	return &Spectral{fb: fbank.New(cfg)}
}

// Dim returns the embedding dimension: two statistics per mel band.
func (s *Spectral) Dim() int { return 2 * s.fb.NumMels() }

// Embed computes the utterance embedding for a waveform. The waveform
// is resampled to the filterbank rate if needed.
func (s *Spectral) Embed(w audio.Waveform) ([]float32, error) {
	features, err := s.fb.ExtractWaveform(w)
	if err != nil {
		return nil, err
	}
	if len(features) == 0 {
		return nil, ErrTooShort
	}

	mels := s.fb.NumMels()
	frames := float64(len(features))
	emb := make([]float32, 2*mels)

	for m := 0; m < mels; m++ {
		var sum float64
		for _, f := range features {
			sum += float64(f[m])
		}
		mean := sum / frames

		var varSum float64
		for _, f := range features {
			d := float64(f[m]) - mean
			varSum += d * d
		}
		emb[m] = float32(mean)
		emb[mels+m] = float32(math.Sqrt(varSum / frames))
	}

	// L2 normalize so cosine scores depend on shape, not loudness.
	var norm float64
	for _, v := range emb {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		scale := float32(1 / norm)
		for i := range emb {
			emb[i] *= scale
		}
	}
	return emb, nil
}
