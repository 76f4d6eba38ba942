// Package pcm loads audio files into the signed 8-bit format held in chip
// sample memory and writes rendered output back out as WAV.
package pcm

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

var (
	ErrUnsupportedFormat = errors.New("pcm: unsupported file format")
	ErrInvalidWAV        = errors.New("pcm: not a valid wav file")
	ErrEmpty             = errors.New("pcm: no sample data")
)

// Sample is mono signed 8-bit PCM at a known rate. Stereo sources keep
// their first channel.
type Sample struct {
	Rate int
	Data []int8
}

// Load opens and decodes the file at path.
func Load(path string) (Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return Sample{}, fmt.Errorf("pcm: %w", err)
	}
	defer f.Close()

	return Decode(filepath.Base(path), f)
}

// LoadAt loads the file at path and decimates it to rate when rate is
// positive. A rate so low that no samples remain is ErrEmpty.
func LoadAt(path string, rate int) (Sample, error) {
	s, err := Load(path)
	if err != nil {
		return Sample{}, err
	}
	if rate > 0 {
		s = s.Decimate(rate)
	}
	if len(s.Data) == 0 {
		return Sample{}, fmt.Errorf("%w: %s at %d Hz", ErrEmpty, filepath.Base(path), rate)
	}
	return s, nil
}

// Decode reads a WAV or MP3 stream, choosing the decoder from the
// extension of name.
func Decode(name string, r io.ReadSeeker) (Sample, error) {
	var (
		s   Sample
		err error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav":
		s, err = decodeWAV(r)
	case ".mp3":
		s, err = decodeMP3(r)
	default:
		return Sample{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
	if err != nil {
		return Sample{}, err
	}
	if len(s.Data) == 0 {
		return Sample{}, ErrEmpty
	}
	return s, nil
}

func decodeWAV(r io.ReadSeeker) (Sample, error) {
	dec := wav.NewDecoder(r)
	if dec == nil || !dec.IsValidFile() {
		return Sample{}, ErrInvalidWAV
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Sample{}, fmt.Errorf("pcm: wav: %w", err)
	}

	chans := int(dec.NumChans)
	if chans < 1 {
		return Sample{}, ErrInvalidWAV
	}
	depth := int(dec.BitDepth)

	s := Sample{
		Rate: int(dec.SampleRate),
		Data: make([]int8, 0, len(buf.Data)/chans),
	}
	for i := 0; i < len(buf.Data); i += chans {
		s.Data = append(s.Data, toInt8(buf.Data[i], depth))
	}
	return s, nil
}

// toInt8 reduces a decoded integer sample of the given bit depth to 8 bits.
// 8-bit WAV data is unsigned with a 128 midpoint.
func toInt8(v, depth int) int8 {
	switch {
	case depth <= 8:
		return int8(v - 128)
	default:
		return int8(v >> uint(depth-8))
	}
}

func decodeMP3(r io.Reader) (Sample, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return Sample{}, fmt.Errorf("pcm: mp3: %w", err)
	}

	// The decoder always yields 16-bit little-endian stereo, 4 bytes per
	// frame. Keep the high byte of the left sample.
	s := Sample{Rate: dec.SampleRate()}
	chunk := make([]byte, 4096)
	for {
		n, err := io.ReadFull(dec, chunk)
		for i := 0; i+1 < n; i += 4 {
			s.Data = append(s.Data, int8(chunk[i+1]))
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return Sample{}, fmt.Errorf("pcm: mp3: %w", err)
		}
	}
	return s, nil
}

// Decimate returns the sample reduced to rate by nearest-sample picking.
// Rates at or above the current rate return an unchanged copy.
func (s Sample) Decimate(rate int) Sample {
	if rate <= 0 || s.Rate <= 0 || rate >= s.Rate {
		return Sample{Rate: s.Rate, Data: append([]int8(nil), s.Data...)}
	}

	n := int(int64(len(s.Data)) * int64(rate) / int64(s.Rate))
	out := Sample{Rate: rate, Data: make([]int8, n)}
	for i := range out.Data {
		out.Data[i] = s.Data[int64(i)*int64(s.Rate)/int64(rate)]
	}
	return out
}

// Bytes returns the sample as raw bytes in sample-memory layout.
func (s Sample) Bytes() []byte {
	b := make([]byte, len(s.Data))
	for i, v := range s.Data {
		b[i] = byte(v)
	}
	return b
}
