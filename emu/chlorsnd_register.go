package emu

// Global register addresses. 16-bit registers are little-endian pairs: the
// low byte lives at the even address, the high byte at the odd address.
const (
	RegControl       = 0x0000 // Control word (0x00 low, 0x01 high)
	RegChannelSelect = 0x0002 // Channel port broadcast mask
	RegEnvSelect     = 0x0004 // EG port broadcast mask (0x04 low, 0x05 high)
	RegWritePtr      = 0x0006 // Sample memory write pointer (0x06 low, 0x07 high)
	RegWriteData     = 0x0008 // Sample memory data, post-increments the pointer
)

// Broadcast port windows.
const (
	EnvPortBase     = 0x0010
	EnvPortEnd      = 0x0040
	ChannelPortBase = 0x0040
	ChannelPortEnd  = 0x0060
)

// EG port sub-registers (add EnvPortBase for the bus address).
const (
	EnvControl    = 0x00 // bit0 key-reset, bit1 key-on
	EnvMultiplier = 0x01
	EnvHoldPoint  = 0x02
	EnvStride     = 0x03
	EnvEntries    = 0x08 // 40 level entries
)

// Channel port sub-registers (add ChannelPortBase for the bus address).
const (
	ChControl        = 0x00 // bit0 key-reset
	ChVolumeL        = 0x02
	ChVolumeR        = 0x03
	ChAccumulatorMax = 0x04
	ChAmplitudeEG    = 0x06 // Amplitude EG index
	ChStage0EGs      = 0x07 // Stage 0 coefficient EG indices (5)
	ChStage1EGs      = 0x0C // Stage 1 coefficient EG indices (5)
	ChLoopStart      = 0x18
	ChLoopEnd        = 0x1A
	ChRunStart       = 0x1C
	ChRunEnd         = 0x1E
)

// Control bits exposed for hosts.
const (
	EnvKeyReset = egKeyReset
	EnvKeyOn    = egKeyOn
	ChKeyReset  = chKeyReset
)

// Poke writes one byte to the register bus. Writes to unassigned addresses
// are ignored. Writes into the EG and channel ports are broadcast to every
// unit selected by the matching select mask.
func (c *Chip) Poke(reg uint16, val uint8) {
	switch {
	case reg == RegControl || reg == RegControl+1:
		setHalf(&c.control, reg, val)
	case reg == RegChannelSelect:
		c.channelSelect = val
	case reg == RegEnvSelect || reg == RegEnvSelect+1:
		setHalf(&c.envSelect, reg, val)
	case reg == RegWritePtr || reg == RegWritePtr+1:
		setHalf(&c.writePtr, reg, val)
	case reg == RegWriteData:
		c.mem[c.writePtr&memoryMask] = val
		c.writePtr = (c.writePtr + 1) & memoryMask
	case reg >= EnvPortBase && reg < EnvPortEnd:
		sub := reg - EnvPortBase
		forEachSelected(uint32(c.envSelect), NumEnvelopes, func(i int) {
			c.eg[i].writeRegister(sub, val)
		})
	case reg >= ChannelPortBase && reg < ChannelPortEnd:
		sub := reg - ChannelPortBase
		forEachSelected(uint32(c.channelSelect), NumChannels, func(i int) {
			c.ch[i].writeRegister(sub, val)
		})
	}
}

// Peek reads one byte back from the register bus. Port reads return the
// lowest-indexed selected unit, or 0 when no unit is selected. Reading the
// data register returns the byte at the write pointer without advancing it.
func (c *Chip) Peek(reg uint16) uint8 {
	switch {
	case reg == RegControl || reg == RegControl+1:
		return getHalf(c.control, reg)
	case reg == RegChannelSelect:
		return c.channelSelect
	case reg == RegEnvSelect || reg == RegEnvSelect+1:
		return getHalf(c.envSelect, reg)
	case reg == RegWritePtr || reg == RegWritePtr+1:
		return getHalf(c.writePtr, reg)
	case reg == RegWriteData:
		return c.mem[c.writePtr&memoryMask]
	case reg >= EnvPortBase && reg < EnvPortEnd:
		if i := firstSelected(uint32(c.envSelect), NumEnvelopes); i >= 0 {
			return c.eg[i].readRegister(reg - EnvPortBase)
		}
	case reg >= ChannelPortBase && reg < ChannelPortEnd:
		if i := firstSelected(uint32(c.channelSelect), NumChannels); i >= 0 {
			return c.ch[i].readRegister(reg - ChannelPortBase)
		}
	}
	return 0
}

// forEachSelected calls fn with the index of every set bit in mask below
// count, in ascending order.
func forEachSelected(mask uint32, count int, fn func(i int)) {
	for i := 0; i < count; i++ {
		if mask&(1<<uint(i)) != 0 {
			fn(i)
		}
	}
}

// firstSelected returns the lowest set bit index in mask below count, or -1.
func firstSelected(mask uint32, count int) int {
	for i := 0; i < count; i++ {
		if mask&(1<<uint(i)) != 0 {
			return i
		}
	}
	return -1
}

// setHalf replaces the low byte (even address) or high byte (odd address)
// of a 16-bit register.
func setHalf(r *uint16, addr uint16, val uint8) {
	if addr&1 != 0 {
		*r = (*r & 0x00FF) | uint16(val)<<8
	} else {
		*r = (*r & 0xFF00) | uint16(val)
	}
}

// getHalf returns the byte of a 16-bit register selected by addr parity.
func getHalf(r uint16, addr uint16) uint8 {
	if addr&1 != 0 {
		return uint8(r >> 8)
	}
	return uint8(r)
}
