package emu

// Channel control register bits.
const (
	chKeyReset = 0x0001 // One-shot: restart playback at loop start
)

// channel holds register and playback state for one wavetable voice.
type channel struct {
	// Register fields
	control        uint16 // chKeyReset
	volumeL        int8   // Left volume, Q7
	volumeR        int8   // Right volume, Q7
	accumulatorMax uint16 // Rate divider: plays at output/(max+1)
	ampEG          uint8  // Amplitude envelope index (0-15)
	coeffEG        [2][5]uint8
	loopStart      uint16
	loopEnd        uint16 // Inclusive
	runStart       uint16 // Reserved
	runEnd         uint16 // Reserved

	stages [2]BiquadStage

	// Runtime state
	accumulator uint16
	readPtr     uint16 // Always within [0, MemorySize)
}

// render produces one sample for side. Both sides must be rendered each
// frame, left first; only the right call advances the read pointer.
func (c *channel) render(side Side, eg *[NumEnvelopes]envelope, mem *[MemorySize]uint8) int16 {
	keyReset := c.control&chKeyReset != 0
	if keyReset {
		c.readPtr = c.loopStart & memoryMask
		c.accumulator = c.accumulatorMax
	} else if c.pastLoopEnd() {
		c.readPtr = c.loopStart & memoryMask
	}

	vol := c.volumeL
	if side == Right {
		vol = c.volumeR
	}
	pcm := int32(int8(mem[c.readPtr]))
	s := clampInt32(pcm*256*int32(vol)/128, -32767, 32767)

	if side == Right {
		c.stepPlayback()
	}

	for st := range c.stages {
		for k, idx := range c.coeffEG[st] {
			c.stages[st].Coefficients[k] = int32(eg[idx].render(false))
		}
	}

	y := c.stages[0].Process(int16(s), side)
	y = c.stages[1].Process(y, side)

	amp := int32(eg[c.ampEG].render(true))
	out := clampInt32((int32(y)/256)*amp, -32767, 32767)

	if keyReset {
		c.control &^= chKeyReset
	}
	return int16(out)
}

// pastLoopEnd reports whether the read pointer has left the loop region.
// Distances are taken relative to loop start so a loop may wrap past the
// end of sample memory.
func (c *channel) pastLoopEnd() bool {
	start := c.loopStart & memoryMask
	end := c.loopEnd & memoryMask
	pos := (c.readPtr - start) & memoryMask
	length := (end - start) & memoryMask
	return pos > length
}

// stepPlayback runs the rate divider: the read pointer advances on every
// (accumulatorMax+1)th call.
func (c *channel) stepPlayback() {
	if c.accumulator == 0 {
		c.readPtr = (c.readPtr + 1) & memoryMask
		c.accumulator = c.accumulatorMax
		return
	}
	c.accumulator--
}

// envelopeRefs returns the set of envelopes this channel reads each frame.
func (c *channel) envelopeRefs() uint16 {
	mask := uint16(1) << c.ampEG
	for st := range c.coeffEG {
		for _, idx := range c.coeffEG[st] {
			mask |= 1 << idx
		}
	}
	return mask
}

// writeRegister applies one channel port sub-register write.
func (c *channel) writeRegister(sub uint16, val uint8) {
	switch {
	case sub == ChControl || sub == ChControl+1:
		setHalf(&c.control, sub, val)
	case sub == ChVolumeL:
		c.volumeL = int8(val)
	case sub == ChVolumeR:
		c.volumeR = int8(val)
	case sub == ChAccumulatorMax || sub == ChAccumulatorMax+1:
		setHalf(&c.accumulatorMax, sub, val)
	case sub == ChAmplitudeEG:
		c.ampEG = val & envelopeMask
	case sub >= ChStage0EGs && sub < ChStage0EGs+5:
		c.coeffEG[0][sub-ChStage0EGs] = val & envelopeMask
	case sub >= ChStage1EGs && sub < ChStage1EGs+5:
		c.coeffEG[1][sub-ChStage1EGs] = val & envelopeMask
	case sub == ChLoopStart || sub == ChLoopStart+1:
		setHalf(&c.loopStart, sub, val)
	case sub == ChLoopEnd || sub == ChLoopEnd+1:
		setHalf(&c.loopEnd, sub, val)
	case sub == ChRunStart || sub == ChRunStart+1:
		setHalf(&c.runStart, sub, val)
	case sub == ChRunEnd || sub == ChRunEnd+1:
		setHalf(&c.runEnd, sub, val)
	}
}

// readRegister returns the value of one channel port sub-register.
func (c *channel) readRegister(sub uint16) uint8 {
	switch {
	case sub == ChControl || sub == ChControl+1:
		return getHalf(c.control, sub)
	case sub == ChVolumeL:
		return uint8(c.volumeL)
	case sub == ChVolumeR:
		return uint8(c.volumeR)
	case sub == ChAccumulatorMax || sub == ChAccumulatorMax+1:
		return getHalf(c.accumulatorMax, sub)
	case sub == ChAmplitudeEG:
		return c.ampEG
	case sub >= ChStage0EGs && sub < ChStage0EGs+5:
		return c.coeffEG[0][sub-ChStage0EGs]
	case sub >= ChStage1EGs && sub < ChStage1EGs+5:
		return c.coeffEG[1][sub-ChStage1EGs]
	case sub == ChLoopStart || sub == ChLoopStart+1:
		return getHalf(c.loopStart, sub)
	case sub == ChLoopEnd || sub == ChLoopEnd+1:
		return getHalf(c.loopEnd, sub)
	case sub == ChRunStart || sub == ChRunStart+1:
		return getHalf(c.runStart, sub)
	case sub == ChRunEnd || sub == ChRunEnd+1:
		return getHalf(c.runEnd, sub)
	}
	return 0
}
