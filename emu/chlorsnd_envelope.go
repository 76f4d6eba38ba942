package emu

// Envelope control register bits.
const (
	egKeyReset = 0x01 // One-shot: rewind the cursor on next render
	egKeyOn    = 0x02 // Hold at holdPoint while set
)

// envTableLen is the number of level entries in an envelope table.
const envTableLen = 40

// envelope is one table-driven envelope generator. The cursor walks the
// 40-entry level table one entry per stride queued steps (stride 0 behaves
// as 1) and parks on the last entry once exhausted.
type envelope struct {
	// Register fields
	control    uint8              // egKeyReset | egKeyOn
	multiplier int8               // Signed output scale
	holdPoint  uint8              // Entry to park on while key-on is held (0-39)
	stride     uint8              // Queued steps each entry is held for
	entries    [envTableLen]uint8 // Level table

	// Runtime state
	entry      uint8 // Cursor, 0-40 (40 = exhausted)
	strideCnt  uint8 // Steps spent on the current entry
	stepQueued bool  // Set by the frame pre-scan, consumed by render
}

// render steps the envelope if a step is queued and returns its current
// output. Amplitude envelopes use the exponential path, filter coefficient
// envelopes use the linear path.
func (e *envelope) render(exponential bool) int16 {
	if e.control&egKeyReset != 0 {
		e.control &^= egKeyReset
		e.entry = 0
		e.strideCnt = 0
	}

	if e.stepQueued && e.entry < envTableLen {
		if int(e.strideCnt)+1 < int(e.stride) {
			e.strideCnt++
		} else if e.control&egKeyOn == 0 || e.entry != e.holdPoint {
			e.entry++
			e.strideCnt = 0
		}
	}
	e.stepQueued = false

	idx := e.entry
	if idx >= envTableLen {
		idx = envTableLen - 1
	}
	level := e.entries[idx]

	// |multiplier| <= 128 and level <= 255, so the product fits int16.
	if exponential {
		return int16(e.multiplier) * int16(expTable[level])
	}
	return int16(e.multiplier) * int16(level)
}

// writeRegister applies one EG port sub-register write.
func (e *envelope) writeRegister(sub uint16, val uint8) {
	switch {
	case sub == EnvControl:
		e.control = val & (egKeyReset | egKeyOn)
	case sub == EnvMultiplier:
		e.multiplier = int8(val)
	case sub == EnvHoldPoint:
		if val >= envTableLen {
			val = envTableLen - 1
		}
		e.holdPoint = val
	case sub == EnvStride:
		e.stride = val
	case sub >= EnvEntries && sub < EnvEntries+envTableLen:
		e.entries[sub-EnvEntries] = val
	}
}

// readRegister returns the value of one EG port sub-register.
func (e *envelope) readRegister(sub uint16) uint8 {
	switch {
	case sub == EnvControl:
		return e.control
	case sub == EnvMultiplier:
		return uint8(e.multiplier)
	case sub == EnvHoldPoint:
		return e.holdPoint
	case sub == EnvStride:
		return e.stride
	case sub >= EnvEntries && sub < EnvEntries+envTableLen:
		return e.entries[sub-EnvEntries]
	}
	return 0
}
