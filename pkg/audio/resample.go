package audio

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Resample converts a waveform to the target sample rate using a pure Go
// resampler (no CGO/FFI dependencies). A waveform already at the target
// rate is returned unchanged.
func Resample(w Waveform, rate int) (Waveform, error) {
	if rate <= 0 {
		return Waveform{}, fmt.Errorf("audio: invalid target rate %d", rate)
	}
	if w.Rate == rate || len(w.Samples) == 0 {
		return Waveform{Samples: w.Samples, Rate: rate}, nil
	}
	if w.Rate <= 0 {
		return Waveform{}, fmt.Errorf("audio: invalid source rate %d", w.Rate)
	}

	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(w.Rate),
		OutputRate: float64(rate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return Waveform{}, fmt.Errorf("audio: create resampler: %w", err)
	}

	input := make([]float64, len(w.Samples))
	for i, s := range w.Samples {
		input[i] = float64(s)
	}
	output, err := rs.Process(input)
	if err != nil {
		return Waveform{}, fmt.Errorf("audio: resample: %w", err)
	}

	samples := make([]float32, len(output))
	for i, s := range output {
		switch {
		case s > 1.0:
			samples[i] = 1.0
		case s < -1.0:
			samples[i] = -1.0
		default:
			samples[i] = float32(s)
		}
	}
	return Waveform{Samples: samples, Rate: rate}, nil
}
