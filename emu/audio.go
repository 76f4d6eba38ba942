package emu

// Output format used by hosts. The chip itself has no notion of sample
// rate; one Render frame is one output sample pair.
const (
	SampleRate   = 48000
	DefaultFPS   = 60
	audioBufSize = 2 * SampleRate / 10 // Headroom for the slowest period rate
)

// periodFrames returns the period rate and the stereo frames rendered per
// period for an output rate. Non-positive inputs fall back to the defaults.
func periodFrames(rate, fps int) (int, int) {
	if rate <= 0 {
		rate = SampleRate
	}
	if fps <= 0 {
		fps = DefaultFPS
	}
	return fps, max(rate/fps, 1)
}

// renderPeriod renders one period of audio into the emulator's stereo
// buffer, reusing its backing array.
func (e *Emulator) renderPeriod(volume int) {
	n := e.framesPerPeriod * 2
	if cap(e.audioBuffer) < n {
		e.audioBuffer = make([]int16, n)
	}
	e.audioBuffer = e.audioBuffer[:n]
	e.chip.Render(e.audioBuffer, e.framesPerPeriod)

	if volume != maxVolume {
		for i, s := range e.audioBuffer {
			e.audioBuffer[i] = int16(int32(s) * int32(volume) / maxVolume)
		}
	}
}

// GetAudioSamples returns the last rendered period as interleaved 16-bit
// stereo PCM. The slice is reused by the next RunFrame.
func (e *Emulator) GetAudioSamples() []int16 {
	return e.audioBuffer
}

// clampInt32 clamps v to [min, max].
func clampInt32(v, min, max int32) int32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// saturate clamps a wide intermediate to the symmetric filter range.
func saturate(v int64) int64 {
	if v > 32767 {
		return 32767
	}
	if v < -32767 {
		return -32767
	}
	return v
}
