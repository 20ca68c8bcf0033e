// Package wav encodes and decodes PCM16 RIFF/WAVE files.
//
// Only the subset needed for capture archiving is implemented: 16-bit
// signed little-endian PCM, mono output, mono or stereo input (stereo is
// downmixed to mono on decode). Unknown chunks are skipped.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/voxidlab/voxid/pkg/audio"
)

// ErrFormat reports a file that is not PCM16 RIFF/WAVE.
var ErrFormat = errors.New("wav: unsupported format")

const (
	formatPCM      = 1
	headerSize     = 44
	bitsPerSample  = 16
	bytesPerSample = 2
)

// Encode writes the waveform as a mono PCM16 WAV file.
func Encode(w io.Writer, wf audio.Waveform) error {
	if wf.Rate <= 0 {
		return fmt.Errorf("wav: invalid sample rate %d", wf.Rate)
	}
	data := wf.PCM16()

	var header [headerSize]byte
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+len(data)))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], 1) // mono
	binary.LittleEndian.PutUint32(header[24:28], uint32(wf.Rate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(wf.Rate*bytesPerSample))
	binary.LittleEndian.PutUint16(header[32:34], bytesPerSample) // block align
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(len(data)))

	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// Decode reads a PCM16 WAV file. Stereo input is downmixed to mono by
// averaging channels.
func Decode(r io.Reader) (audio.Waveform, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return audio.Waveform{}, fmt.Errorf("wav: read header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return audio.Waveform{}, ErrFormat
	}

	var (
		rate     int
		channels int
		sawFmt   bool
	)
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return audio.Waveform{}, fmt.Errorf("wav: missing data chunk: %w", ErrFormat)
			}
			return audio.Waveform{}, err
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return audio.Waveform{}, err
			}
			if len(body) < 16 {
				return audio.Waveform{}, ErrFormat
			}
			format := binary.LittleEndian.Uint16(body[0:2])
			channels = int(binary.LittleEndian.Uint16(body[2:4]))
			rate = int(binary.LittleEndian.Uint32(body[4:8]))
			bits := binary.LittleEndian.Uint16(body[14:16])
			if format != formatPCM || bits != bitsPerSample {
				return audio.Waveform{}, ErrFormat
			}
			if channels != 1 && channels != 2 {
				return audio.Waveform{}, ErrFormat
			}
			sawFmt = true

		case "data":
			if !sawFmt {
				return audio.Waveform{}, ErrFormat
			}
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return audio.Waveform{}, err
			}
			if channels == 2 {
				body = downmix(body)
			}
			return audio.FromPCM16(body, rate), nil

		default:
			// Skip unknown chunks (LIST, fact, ...). Chunks are padded
			// to even sizes.
			skip := int64(size)
			if size%2 == 1 {
				skip++
			}
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return audio.Waveform{}, err
			}
		}
	}
}

// downmix averages interleaved stereo PCM16 frames into mono.
func downmix(b []byte) []byte {
	frames := len(b) / 4
	out := make([]byte, frames*2)
	for i := 0; i < frames; i++ {
		l := int16(b[i*4]) | int16(b[i*4+1])<<8
		r := int16(b[i*4+2]) | int16(b[i*4+3])<<8
		m := int16((int32(l) + int32(r)) / 2)
		out[i*2] = byte(m)
		out[i*2+1] = byte(m >> 8)
	}
	return out
}
