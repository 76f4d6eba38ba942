package emu

import "testing"

func TestRegister_ChannelBroadcast(t *testing.T) {
	tests := []struct {
		mask uint8
		want []int
	}{
		{0x00, nil},
		{0x01, []int{0}},
		{0x05, []int{0, 2}},
		{0x80, []int{7}},
		{0xFF, []int{0, 1, 2, 3, 4, 5, 6, 7}},
	}

	for _, tt := range tests {
		c := New()
		c.Poke(RegChannelSelect, tt.mask)
		c.Poke(ChannelPortBase+ChVolumeL, 0x55)

		selected := make(map[int]bool)
		for _, i := range tt.want {
			selected[i] = true
		}
		for i := 0; i < NumChannels; i++ {
			want := int8(0)
			if selected[i] {
				want = 0x55
			}
			if c.ch[i].volumeL != want {
				t.Errorf("mask %#02x: channel %d volumeL = %d, want %d", tt.mask, i, c.ch[i].volumeL, want)
			}
		}
	}
}

func TestRegister_EnvelopeBroadcastHighByte(t *testing.T) {
	c := New()
	poke16(c, RegEnvSelect, 0x8001)
	c.Poke(EnvPortBase+EnvMultiplier, 0xF0)

	for i := 0; i < NumEnvelopes; i++ {
		want := int8(0)
		if i == 0 || i == 15 {
			want = -16
		}
		if c.eg[i].multiplier != want {
			t.Errorf("EG %d multiplier = %d, want %d", i, c.eg[i].multiplier, want)
		}
	}
}

func TestRegister_SelectMaskLittleEndian(t *testing.T) {
	c := New()
	c.Poke(RegEnvSelect, 0x34)
	c.Poke(RegEnvSelect+1, 0x12)
	if c.envSelect != 0x1234 {
		t.Errorf("envSelect = %#04x, want 0x1234", c.envSelect)
	}
	if c.Peek(RegEnvSelect) != 0x34 || c.Peek(RegEnvSelect+1) != 0x12 {
		t.Errorf("peek = %#02x %#02x, want 0x34 0x12", c.Peek(RegEnvSelect), c.Peek(RegEnvSelect+1))
	}
}

func TestRegister_HalfWritePreservesOtherByte(t *testing.T) {
	c := New()
	c.Poke(RegChannelSelect, 0x01)
	poke16(c, ChannelPortBase+ChLoopEnd, 0x1234)
	c.Poke(ChannelPortBase+ChLoopEnd, 0x56)

	if c.ch[0].loopEnd != 0x1256 {
		t.Errorf("loopEnd = %#04x, want 0x1256", c.ch[0].loopEnd)
	}

	c.Poke(ChannelPortBase+ChLoopEnd+1, 0x0A)
	if c.ch[0].loopEnd != 0x0A56 {
		t.Errorf("loopEnd = %#04x, want 0x0a56", c.ch[0].loopEnd)
	}
}

func TestRegister_WriteDataIncrements(t *testing.T) {
	c := New()
	poke16(c, RegWritePtr, 100)
	for i := 0; i < 4; i++ {
		c.Poke(RegWriteData, uint8(0x10+i))
	}

	for i := 0; i < 4; i++ {
		if c.mem[100+i] != uint8(0x10+i) {
			t.Errorf("mem[%d] = %#02x, want %#02x", 100+i, c.mem[100+i], 0x10+i)
		}
	}
	if c.writePtr != 104 {
		t.Errorf("writePtr = %d, want 104", c.writePtr)
	}
}

func TestRegister_WriteDataWraps(t *testing.T) {
	c := New()
	poke16(c, RegWritePtr, 0x7FFF)
	c.Poke(RegWriteData, 0xAA)
	c.Poke(RegWriteData, 0xBB)

	if c.mem[0x7FFF] != 0xAA {
		t.Errorf("mem[0x7fff] = %#02x, want 0xaa", c.mem[0x7FFF])
	}
	if c.mem[0] != 0xBB {
		t.Errorf("mem[0] = %#02x, want 0xbb", c.mem[0])
	}
	if c.writePtr != 1 {
		t.Errorf("writePtr = %d, want 1", c.writePtr)
	}
}

func TestRegister_WritePtrHighBitMasked(t *testing.T) {
	c := New()
	poke16(c, RegWritePtr, 0x8005)
	c.Poke(RegWriteData, 0x42)
	if c.mem[5] != 0x42 {
		t.Errorf("mem[5] = %#02x, want 0x42", c.mem[5])
	}
}

func TestRegister_PeekDataDoesNotAdvance(t *testing.T) {
	c := New()
	c.mem[10] = 0x99
	poke16(c, RegWritePtr, 10)

	for i := 0; i < 3; i++ {
		if got := c.Peek(RegWriteData); got != 0x99 {
			t.Fatalf("peek %d = %#02x, want 0x99", i, got)
		}
	}
	if c.writePtr != 10 {
		t.Errorf("writePtr = %d, want 10", c.writePtr)
	}
}

func TestRegister_UnassignedIgnored(t *testing.T) {
	c := New()
	c.Poke(RegChannelSelect, 0xFF)
	poke16(c, RegEnvSelect, 0xFFFF)
	ref := *c

	for _, reg := range []uint16{0x03, 0x09, 0x0A, 0x0F, 0x60, 0x80, 0xFFFF} {
		c.Poke(reg, 0x5A)
		if c.Peek(reg) != 0 {
			t.Errorf("peek %#04x = %#02x, want 0", reg, c.Peek(reg))
		}
	}
	// Unused sub-registers inside the port windows
	c.Poke(EnvPortBase+0x04, 0x5A)
	c.Poke(ChannelPortBase+0x11, 0x5A)

	if *c != ref {
		t.Error("write to unassigned address changed chip state")
	}
}

func TestRegister_EnvelopeIndexMasked(t *testing.T) {
	c := New()
	c.Poke(RegChannelSelect, 0x01)
	c.Poke(ChannelPortBase+ChAmplitudeEG, 0x13)
	c.Poke(ChannelPortBase+ChStage1EGs+4, 0xFF)

	if c.ch[0].ampEG != 3 {
		t.Errorf("ampEG = %d, want 3", c.ch[0].ampEG)
	}
	if c.ch[0].coeffEG[1][4] != 15 {
		t.Errorf("stage 1 tap 4 EG = %d, want 15", c.ch[0].coeffEG[1][4])
	}
}

func TestRegister_EnvelopeFields(t *testing.T) {
	c := New()
	poke16(c, RegEnvSelect, 0x0004)
	c.Poke(EnvPortBase+EnvControl, 0xFF)
	c.Poke(EnvPortBase+EnvHoldPoint, 45)
	c.Poke(EnvPortBase+EnvStride, 9)
	c.Poke(EnvPortBase+EnvEntries, 11)
	c.Poke(EnvPortBase+EnvEntries+envTableLen-1, 22)

	e := &c.eg[2]
	if e.control != EnvKeyReset|EnvKeyOn {
		t.Errorf("control = %#02x, want 0x03", e.control)
	}
	if e.holdPoint != envTableLen-1 {
		t.Errorf("holdPoint = %d, want %d", e.holdPoint, envTableLen-1)
	}
	if e.stride != 9 {
		t.Errorf("stride = %d, want 9", e.stride)
	}
	if e.entries[0] != 11 || e.entries[envTableLen-1] != 22 {
		t.Errorf("entries[0], entries[39] = %d, %d, want 11, 22", e.entries[0], e.entries[envTableLen-1])
	}

	if got := c.Peek(EnvPortBase + EnvStride); got != 9 {
		t.Errorf("peek stride = %d, want 9", got)
	}
	if got := c.Peek(EnvPortBase + EnvEntries + envTableLen - 1); got != 22 {
		t.Errorf("peek last entry = %d, want 22", got)
	}
}

func TestRegister_ChannelReadBack(t *testing.T) {
	c := New()
	c.Poke(RegChannelSelect, 0x06)
	c.Poke(ChannelPortBase+ChVolumeR, 0x9C)
	poke16(c, ChannelPortBase+ChAccumulatorMax, 0x0302)
	poke16(c, ChannelPortBase+ChRunStart, 0x1111)
	poke16(c, ChannelPortBase+ChRunEnd, 0x2222)
	c.Poke(ChannelPortBase+ChStage0EGs+2, 7)

	// Reads come from the lowest selected channel (1)
	checks := []struct {
		reg  uint16
		want uint8
	}{
		{ChannelPortBase + ChVolumeR, 0x9C},
		{ChannelPortBase + ChAccumulatorMax, 0x02},
		{ChannelPortBase + ChAccumulatorMax + 1, 0x03},
		{ChannelPortBase + ChRunStart, 0x11},
		{ChannelPortBase + ChRunEnd + 1, 0x22},
		{ChannelPortBase + ChStage0EGs + 2, 7},
	}
	for _, ck := range checks {
		if got := c.Peek(ck.reg); got != ck.want {
			t.Errorf("peek %#04x = %#02x, want %#02x", ck.reg, got, ck.want)
		}
	}

	c.ch[1].volumeR = 1
	if got := c.Peek(ChannelPortBase + ChVolumeR); got != 1 {
		t.Errorf("peek volumeR = %d, want 1 from channel 1", got)
	}
}

func TestRegister_PeekNoSelection(t *testing.T) {
	c := New()
	c.ch[0].volumeL = 10
	c.eg[0].stride = 10

	if got := c.Peek(ChannelPortBase + ChVolumeL); got != 0 {
		t.Errorf("channel peek with empty mask = %d, want 0", got)
	}
	if got := c.Peek(EnvPortBase + EnvStride); got != 0 {
		t.Errorf("EG peek with empty mask = %d, want 0", got)
	}
}

func TestRegister_ControlWord(t *testing.T) {
	c := New()
	poke16(c, RegControl, 0xBEEF)
	if c.Peek(RegControl) != 0xEF || c.Peek(RegControl+1) != 0xBE {
		t.Errorf("control = %#02x%02x, want 0xbeef", c.Peek(RegControl+1), c.Peek(RegControl))
	}
}

func TestForEachSelected(t *testing.T) {
	var got []int
	forEachSelected(0x8421, 16, func(i int) { got = append(got, i) })

	want := []int{0, 5, 10, 15}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	// Bits at or above count are ignored
	got = got[:0]
	forEachSelected(0xFF00, 8, func(i int) { got = append(got, i) })
	if len(got) != 0 {
		t.Errorf("got %v for out-of-range bits, want none", got)
	}
}
