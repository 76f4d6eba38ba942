package emu

import (
	"strconv"
	"sync"

	emucore "github.com/user-none/eblitui/api"
)

// Compile-time interface check.
var _ emucore.Emulator = (*Emulator)(nil)

// Identification used by hosts.
const (
	Name    = "chlorsnd"
	Version = "0.1.0"
)

// ButtonChannelBase is the input bit of channel 0's retrigger button;
// channels 0-7 use bits 4-11, above the d-pad.
const ButtonChannelBase = 4

// Core option keys.
const (
	OptionVolume = "volume" // Output level in percent, 0-100
)

const maxVolume = 100

// pokeOp is one queued register write.
type pokeOp struct {
	reg uint16
	val uint8
}

// Emulator drives a Chip from a host. The render loop calls RunFrame once
// per period; any goroutine may queue register writes with Poke, SetInput
// or Retrigger, and they are applied at the start of the next period.
type Emulator struct {
	chip            *Chip
	fps             int
	framesPerPeriod int

	mu         sync.Mutex
	pending    []pokeOp
	retrigger  uint8 // Channel mask to key-reset on the next period
	resetQueue bool
	buttons    uint32 // Last input state, for press edges
	volume     int

	drain       []pokeOp // Swapped with pending under lock
	audioBuffer []int16
	scope       []byte
}

// NewEmulator wraps chip for rendering fps periods per second at the given
// output rate. A nil chip is replaced with a fresh one; non-positive rates
// take the defaults.
func NewEmulator(chip *Chip, rate, fps int) *Emulator {
	if chip == nil {
		chip = New()
	}
	fps, frames := periodFrames(rate, fps)
	return &Emulator{
		chip:            chip,
		fps:             fps,
		framesPerPeriod: frames,
		volume:          maxVolume,
		audioBuffer:     make([]int16, 0, audioBufSize),
		scope:           make([]byte, ScopeWidth*ScopeHeight*4),
	}
}

// Chip returns the wrapped chip. It must only be touched directly before
// the render loop starts or from the render loop itself.
func (e *Emulator) Chip() *Chip {
	return e.chip
}

// Poke queues a register write. Safe for concurrent use.
func (e *Emulator) Poke(reg uint16, val uint8) {
	e.mu.Lock()
	e.pending = append(e.pending, pokeOp{reg, val})
	e.mu.Unlock()
}

// Retrigger queues a key-reset of every channel in mask along with the
// amplitude envelope each one plays through. Safe for concurrent use.
func (e *Emulator) Retrigger(mask uint8) {
	e.mu.Lock()
	e.retrigger |= mask
	e.mu.Unlock()
}

// Reset queues a chip reset ahead of any pending writes. Safe for
// concurrent use.
func (e *Emulator) Reset() {
	e.mu.Lock()
	e.resetQueue = true
	e.pending = e.pending[:0]
	e.retrigger = 0
	e.mu.Unlock()
}

// RunFrame applies queued writes and renders one period.
func (e *Emulator) RunFrame() {
	e.mu.Lock()
	e.drain, e.pending = e.pending, e.drain[:0]
	retrigger := e.retrigger
	reset := e.resetQueue
	volume := e.volume
	e.retrigger = 0
	e.resetQueue = false
	e.mu.Unlock()

	if reset {
		e.chip.Reset()
	}
	for _, op := range e.drain {
		e.chip.Poke(op.reg, op.val)
	}
	if retrigger != 0 {
		e.keyReset(retrigger)
	}

	e.renderPeriod(volume)
	e.drawScope()
}

// keyReset sets the key-reset bit on each channel in mask and on its
// amplitude envelope, restoring both select masks afterwards.
func (e *Emulator) keyReset(mask uint8) {
	c := e.chip
	chSel := c.Peek(RegChannelSelect)
	egSelLo, egSelHi := c.Peek(RegEnvSelect), c.Peek(RegEnvSelect+1)

	forEachSelected(uint32(mask), NumChannels, func(i int) {
		c.Poke(RegChannelSelect, 1<<uint(i))
		c.Poke(ChannelPortBase+ChControl, c.Peek(ChannelPortBase+ChControl)|ChKeyReset)

		eg := uint16(1) << c.Peek(ChannelPortBase+ChAmplitudeEG)
		c.Poke(RegEnvSelect, uint8(eg))
		c.Poke(RegEnvSelect+1, uint8(eg>>8))
		c.Poke(EnvPortBase+EnvControl, c.Peek(EnvPortBase+EnvControl)|EnvKeyReset)
	})

	c.Poke(RegChannelSelect, chSel)
	c.Poke(RegEnvSelect, egSelLo)
	c.Poke(RegEnvSelect+1, egSelHi)
}

// SetInput retriggers the channels whose buttons (bits 4-11) went down
// since the last call. Only player 0 is wired.
func (e *Emulator) SetInput(player int, buttons uint32) {
	if player != 0 {
		return
	}
	e.mu.Lock()
	pressed := buttons &^ e.buttons
	e.buttons = buttons
	e.retrigger |= uint8(pressed >> ButtonChannelBase)
	e.mu.Unlock()
}

// GetRegion always reports NTSC; output timing does not depend on region.
func (e *Emulator) GetRegion() emucore.Region {
	return emucore.RegionNTSC
}

// SetRegion is a no-op.
func (e *Emulator) SetRegion(region emucore.Region) {}

// GetTiming returns the period rate. Scanlines is the scope height.
func (e *Emulator) GetTiming() emucore.Timing {
	return emucore.Timing{
		FPS:       e.fps,
		Scanlines: ScopeHeight,
	}
}

// FramesPerPeriod returns the stereo frames rendered by each RunFrame.
func (e *Emulator) FramesPerPeriod() int {
	return e.framesPerPeriod
}

// SetOption applies a core option. Unknown keys and malformed values are
// ignored.
func (e *Emulator) SetOption(key string, value string) {
	switch key {
	case OptionVolume:
		v, err := strconv.Atoi(value)
		if err != nil {
			return
		}
		e.mu.Lock()
		e.volume = min(max(v, 0), maxVolume)
		e.mu.Unlock()
	}
}

// Close releases the wrapped chip.
func (e *Emulator) Close() {
	e.chip.Destroy()
}
