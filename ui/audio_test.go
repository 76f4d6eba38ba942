package ui

import "testing"

func TestPacingFor(t *testing.T) {
	tests := []struct {
		frames int
		want   Pacing
	}{
		{800, Pacing{Capacity: 32768, MinLevel: 9600, MaxLevel: 19200}},
		{48, Pacing{Capacity: 32768, MinLevel: 9600, MaxLevel: 19200}},
		{4800, Pacing{Capacity: 76800, MinLevel: 19200, MaxLevel: 38400}},
		{48000, Pacing{Capacity: 768000, MinLevel: 192000, MaxLevel: 384000}},
	}
	for _, tt := range tests {
		if got := PacingFor(tt.frames); got != tt.want {
			t.Errorf("PacingFor(%d) = %+v, want %+v", tt.frames, got, tt.want)
		}
	}
}

func TestPacingFor_LongPeriodFits(t *testing.T) {
	// One 1 Hz period at 48kHz
	const frames = 48000
	p := PacingFor(frames)
	rb := NewAudioRingBuffer(p.Capacity)

	period := make([]byte, frames*bytesPerFrame)
	rb.Write(period)
	rb.Write(period)

	if rb.Dropped() != 0 {
		t.Errorf("dropped %d bytes queueing two periods", rb.Dropped())
	}
	if rb.Buffered() < p.MinLevel || rb.Buffered() > p.MaxLevel {
		t.Errorf("buffered %d outside pacing band [%d, %d]", rb.Buffered(), p.MinLevel, p.MaxLevel)
	}
}
