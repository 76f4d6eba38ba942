package emu

import "testing"

// fillEnvelope sets every entry of EG i to level with the given multiplier
// and stride.
func fillEnvelope(c *Chip, i int, mult int8, stride, level uint8) {
	poke16(c, RegEnvSelect, 1<<uint(i))
	c.Poke(EnvPortBase+EnvMultiplier, uint8(mult))
	c.Poke(EnvPortBase+EnvStride, stride)
	for k := 0; k < envTableLen; k++ {
		c.Poke(EnvPortBase+EnvEntries+uint16(k), level)
	}
}

func TestChip_NewIsSilent(t *testing.T) {
	c := New()
	buf := make([]int16, 256)
	for i := range buf {
		buf[i] = 1
	}
	c.Render(buf, 128)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("sample %d = %d, want 0 from power-on state", i, v)
		}
	}
}

func TestChip_Reset(t *testing.T) {
	c := setupTwoVoice()
	c.Render(make([]int16, 64), 32)
	c.Reset()

	if *c != *New() {
		t.Error("Reset did not return the chip to power-on state")
	}
}

func TestChip_Destroy(t *testing.T) {
	c := New()
	c.Destroy()
}

func TestChip_EnvelopeStepsOncePerFrame(t *testing.T) {
	c := New()
	fillEnvelope(c, 3, 1, 1, 200)

	// EG3 is referenced three times across two channels
	c.Poke(RegChannelSelect, 0x01)
	c.Poke(ChannelPortBase+ChAmplitudeEG, 3)
	c.Poke(ChannelPortBase+ChStage0EGs+1, 3)
	c.Poke(RegChannelSelect, 0x02)
	c.Poke(ChannelPortBase+ChAmplitudeEG, 3)

	buf := make([]int16, 64)
	c.Render(buf, 1)
	if got := c.EnvelopeState(3).Entry; got != 1 {
		t.Errorf("after 1 frame: entry = %d, want 1", got)
	}

	c.Render(buf, 4)
	if got := c.EnvelopeState(3).Entry; got != 5 {
		t.Errorf("after 5 frames: entry = %d, want 5", got)
	}
	if c.EnvelopeState(3).StepQueued {
		t.Error("step left queued after render")
	}
}

func TestChip_UnreferencedEnvelopeHolds(t *testing.T) {
	c := New()
	fillEnvelope(c, 5, 1, 1, 100)

	c.Render(make([]int16, 200), 100)
	st := c.EnvelopeState(5)
	if st.Entry != 0 || st.StepQueued {
		t.Errorf("EG5 state = %+v, want untouched", st)
	}

	// EG0 is referenced by every channel at power-on
	if got := c.EnvelopeState(0).Entry; got != envTableLen {
		t.Errorf("EG0 entry = %d, want %d", got, envTableLen)
	}
}

func TestChip_EnvelopeKeyResetClearedByRender(t *testing.T) {
	c := New()
	poke16(c, RegEnvSelect, 0x0001)
	c.Poke(EnvPortBase+EnvControl, EnvKeyReset|EnvKeyOn)
	poke16(c, RegEnvSelect, 0x0200)
	c.Poke(EnvPortBase+EnvControl, EnvKeyReset)

	c.Render(make([]int16, 2), 1)

	poke16(c, RegEnvSelect, 0x0001)
	if got := c.Peek(EnvPortBase + EnvControl); got != EnvKeyOn {
		t.Errorf("EG0 control = %#02x, want key-on only", got)
	}
	// EG9 is never rendered, so its reset stays pending
	poke16(c, RegEnvSelect, 0x0200)
	if got := c.Peek(EnvPortBase + EnvControl); got != EnvKeyReset {
		t.Errorf("EG9 control = %#02x, want key-reset pending", got)
	}
}

func TestChip_ChannelKeyResetClearedByRender(t *testing.T) {
	c := New()
	c.Poke(RegChannelSelect, 0xFF)
	poke16(c, ChannelPortBase+ChLoopEnd, 1000)
	poke16(c, ChannelPortBase+ChLoopStart, 30)
	c.Poke(ChannelPortBase+ChControl, ChKeyReset)

	c.Render(make([]int16, 2), 1)

	for i := 0; i < NumChannels; i++ {
		st := c.ChannelState(i)
		if st.Control&ChKeyReset != 0 {
			t.Errorf("channel %d: key-reset still set", i)
		}
		if st.ReadPtr != 31 {
			t.Errorf("channel %d: readPtr = %d, want 31", i, st.ReadPtr)
		}
	}
	if got := c.Peek(ChannelPortBase + ChControl); got != 0 {
		t.Errorf("peek control = %#02x, want 0", got)
	}
}

func TestChip_ShortBuffer(t *testing.T) {
	c := setupTwoVoice()

	c.Render(nil, 10)
	c.Render(make([]int16, 2), 0)
	c.Render(make([]int16, 2), -1)

	buf := make([]int16, 3)
	c.Render(buf, 10)
	if got := c.ChannelState(1).ReadPtr; got != 65 {
		t.Errorf("readPtr = %d, want 65 after one rendered frame", got)
	}
}

func TestChip_MixSaturates(t *testing.T) {
	tests := []struct {
		name   string
		sample uint8
		want   int16
	}{
		{"positive", 0x7F, 32767},
		{"negative", 0x80, -32768},
	}

	for _, tt := range tests {
		c := New()
		c.Memory()[0] = tt.sample
		fillEnvelope(c, 1, 127, 1, 255)

		c.Poke(RegChannelSelect, 0xFF)
		c.Poke(ChannelPortBase+ChVolumeL, 127)
		c.Poke(ChannelPortBase+ChVolumeR, 127)
		c.Poke(ChannelPortBase+ChAmplitudeEG, 1)
		for k, eg := range [5]uint8{1, 2, 2, 1, 2} {
			c.Poke(ChannelPortBase+ChStage0EGs+uint16(k), eg)
			c.Poke(ChannelPortBase+ChStage1EGs+uint16(k), eg)
		}

		buf := make([]int16, 16)
		c.Render(buf, 8)
		for i, v := range buf {
			if v != tt.want {
				t.Errorf("%s: sample %d = %d, want %d", tt.name, i, v, tt.want)
				break
			}
		}
	}
}

func TestChip_StereoVolume(t *testing.T) {
	c := New()
	c.Memory()[0] = 0x40
	fillEnvelope(c, 1, 127, 1, 255)
	fillEnvelope(c, 3, 1, 1, 255)

	c.Poke(RegChannelSelect, 0x01)
	c.Poke(ChannelPortBase+ChVolumeL, 127)
	c.Poke(ChannelPortBase+ChVolumeR, 0)
	c.Poke(ChannelPortBase+ChAmplitudeEG, 3)
	for k, eg := range [5]uint8{1, 2, 2, 1, 2} {
		c.Poke(ChannelPortBase+ChStage0EGs+uint16(k), eg)
		c.Poke(ChannelPortBase+ChStage1EGs+uint16(k), eg)
	}
	c.Poke(RegChannelSelect, 0xFE)
	c.Poke(ChannelPortBase+ChAmplitudeEG, 2)
	for k := 0; k < 5; k++ {
		c.Poke(ChannelPortBase+ChStage0EGs+uint16(k), 2)
		c.Poke(ChannelPortBase+ChStage1EGs+uint16(k), 2)
	}

	buf := make([]int16, 2)
	c.Render(buf, 1)
	if buf[0] != 15300 || buf[1] != 0 {
		t.Errorf("got (%d, %d), want (15300, 0)", buf[0], buf[1])
	}
}

func TestChip_MemoryAliases(t *testing.T) {
	c := New()
	c.Memory()[5] = 0x77
	poke16(c, RegWritePtr, 5)
	if got := c.Peek(RegWriteData); got != 0x77 {
		t.Errorf("peek = %#02x, want 0x77", got)
	}
	if len(c.Memory()) != MemorySize {
		t.Errorf("memory length = %d, want %d", len(c.Memory()), MemorySize)
	}
}

func TestChip_StateIndexMasked(t *testing.T) {
	c := New()
	c.eg[1].entry = 9
	c.ch[2].readPtr = 99

	if got := c.EnvelopeState(17).Entry; got != 9 {
		t.Errorf("EnvelopeState(17).Entry = %d, want 9", got)
	}
	if got := c.ChannelState(10).ReadPtr; got != 99 {
		t.Errorf("ChannelState(10).ReadPtr = %d, want 99", got)
	}
}

func TestSide_String(t *testing.T) {
	if Left.String() != "L" || Right.String() != "R" {
		t.Errorf("got %q %q, want L R", Left, Right)
	}
}
