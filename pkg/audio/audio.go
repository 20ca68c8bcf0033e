// Package audio provides the waveform model shared by the capture,
// archive, and identification layers.
//
// A [Waveform] is mono float32 PCM with samples in [-1, 1]. Capture
// backends may deliver any sample rate; [Resample] normalizes a waveform
// to the rate the profile store was created with (16 kHz by default).
//
// Silence detection is peak-amplitude based: a capture whose loudest
// sample stays below [DefaultSilenceFloor] carries no usable speech and
// is discarded before feature extraction.
package audio

import (
	"errors"
	"time"
)

// DefaultSampleRate is the capture rate expected by speaker embedding
// models (16 kHz mono).
const DefaultSampleRate = 16000

// DefaultSilenceFloor is the peak amplitude below which a capture is
// treated as silent, on the [-1, 1] sample scale.
const DefaultSilenceFloor = 0.01

// ErrSilent reports that a capture contained no detectable speech.
// Callers treat it as recoverable and retry up to their attempt budget.
var ErrSilent = errors.New("audio: capture silent")

// Waveform is a mono audio clip.
type Waveform struct {
	// Samples are float32 PCM values in [-1, 1].
	Samples []float32

	// Rate is the sample rate in Hz.
	Rate int
}

// Duration returns the clip length.
func (w Waveform) Duration() time.Duration {
	if w.Rate <= 0 {
		return 0
	}
	return time.Duration(float64(len(w.Samples)) / float64(w.Rate) * float64(time.Second))
}

// Peak returns the largest absolute sample value.
func (w Waveform) Peak() float32 {
	var peak float32
	for _, s := range w.Samples {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return peak
}

// IsSilent reports whether the peak amplitude stays below floor.
// A floor <= 0 falls back to DefaultSilenceFloor. Empty waveforms are
// always silent.
func (w Waveform) IsSilent(floor float32) bool {
	if floor <= 0 {
		floor = DefaultSilenceFloor
	}
	if len(w.Samples) == 0 {
		return true
	}
	return w.Peak() < floor
}

// Clone returns a deep copy of the waveform.
func (w Waveform) Clone() Waveform {
	cp := make([]float32, len(w.Samples))
	copy(cp, w.Samples)
	return Waveform{Samples: cp, Rate: w.Rate}
}

// PCM16 converts the waveform to 16-bit signed little-endian bytes,
// clamping samples outside [-1, 1].
func (w Waveform) PCM16() []byte {
	out := make([]byte, len(w.Samples)*2)
	for i, s := range w.Samples {
		v := pcm16Sample(s)
		out[i*2] = byte(v)
		out[i*2+1] = byte(v >> 8)
	}
	return out
}

// FromPCM16 builds a waveform from 16-bit signed little-endian mono bytes.
// A trailing odd byte is ignored.
func FromPCM16(b []byte, rate int) Waveform {
	n := len(b) / 2
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		v := int16(b[i*2]) | int16(b[i*2+1])<<8
		samples[i] = float32(v) / 32768.0
	}
	return Waveform{Samples: samples, Rate: rate}
}

func pcm16Sample(s float32) int16 {
	if s >= 1.0 {
		return 32767
	}
	if s <= -1.0 {
		return -32768
	}
	return int16(s * 32767.0)
}
