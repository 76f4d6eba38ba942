package emu

// EnvelopeState is a read-only view of an envelope generator's cursor.
type EnvelopeState struct {
	Control    uint8
	Entry      uint8 // 0-40, 40 when the table is exhausted
	StrideCnt  uint8
	StepQueued bool
	Level      uint8 // Table level at the cursor
}

// ChannelState is a read-only view of a channel's playback position.
type ChannelState struct {
	Control     uint16
	ReadPtr     uint16
	Accumulator uint16
	LoopStart   uint16
	LoopEnd     uint16
}

// EnvelopeState returns the cursor state of envelope i. The index is
// masked to the valid range.
func (c *Chip) EnvelopeState(i int) EnvelopeState {
	e := &c.eg[i&envelopeMask]
	idx := e.entry
	if idx >= envTableLen {
		idx = envTableLen - 1
	}
	return EnvelopeState{
		Control:    e.control,
		Entry:      e.entry,
		StrideCnt:  e.strideCnt,
		StepQueued: e.stepQueued,
		Level:      e.entries[idx],
	}
}

// ChannelState returns the playback state of channel i. The index is
// masked to the valid range.
func (c *Chip) ChannelState(i int) ChannelState {
	ch := &c.ch[i&(NumChannels-1)]
	return ChannelState{
		Control:     ch.control,
		ReadPtr:     ch.readPtr,
		Accumulator: ch.accumulator,
		LoopStart:   ch.loopStart & memoryMask,
		LoopEnd:     ch.loopEnd & memoryMask,
	}
}

// Memory returns sample memory. The returned slice aliases chip state.
func (c *Chip) Memory() []uint8 {
	return c.mem[:]
}
