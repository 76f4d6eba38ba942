package pcm

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavFormatPCM is the WAVE_FORMAT_PCM format tag.
const wavFormatPCM = 1

// WAVWriter encodes interleaved 16-bit stereo frames to a WAV stream.
type WAVWriter struct {
	enc    *wav.Encoder
	buf    *audio.IntBuffer
	frames int
}

// NewWAVWriter starts a 16-bit stereo WAV stream at rate on w. Close must
// be called to finalize the header.
func NewWAVWriter(w io.WriteSeeker, rate int) *WAVWriter {
	return &WAVWriter{
		enc: wav.NewEncoder(w, rate, 16, 2, wavFormatPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 2, SampleRate: rate},
			SourceBitDepth: 16,
		},
	}
}

// Write appends interleaved L/R samples. A trailing odd sample is dropped.
func (w *WAVWriter) Write(samples []int16) error {
	n := len(samples) &^ 1
	if n == 0 {
		return nil
	}
	if cap(w.buf.Data) < n {
		w.buf.Data = make([]int, n)
	}
	w.buf.Data = w.buf.Data[:n]
	for i := 0; i < n; i++ {
		w.buf.Data[i] = int(samples[i])
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("pcm: wav: %w", err)
	}
	w.frames += n / 2
	return nil
}

// Frames returns the number of stereo frames written so far.
func (w *WAVWriter) Frames() int {
	return w.frames
}

// Close finalizes the WAV header. It does not close the underlying writer.
func (w *WAVWriter) Close() error {
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("pcm: wav: %w", err)
	}
	return nil
}
