package emu

// Chip geometry.
const (
	NumChannels  = 8
	NumEnvelopes = 16
	MemorySize   = 32768

	memoryMask   = MemorySize - 1
	envelopeMask = NumEnvelopes - 1
)

// Side selects the left or right signal path of a channel or biquad stage.
type Side uint8

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "R"
	}
	return "L"
}

// Chip implements the ChlorSND wavetable DSP.
// - 8 wavetable channels reading signed 8-bit PCM from shared memory
// - 16 table-driven envelope generators
// - 2 cascaded Q15 biquad stages per channel
//
// A Chip is not safe for concurrent use. Poke and Render must be serialized
// by the host.
type Chip struct {
	// Global registers
	control       uint16
	channelSelect uint8  // Broadcast target mask for the channel port
	envSelect     uint16 // Broadcast target mask for the EG port
	writePtr      uint16 // Sample memory write pointer (post-increments)

	eg [NumEnvelopes]envelope
	ch [NumChannels]channel

	// Sample memory, signed 8-bit PCM stored as raw bytes
	mem [MemorySize]uint8
}

// New creates a chip in its power-on state.
func New() *Chip {
	c := &Chip{}
	c.Reset()
	return c
}

// Reset returns all chip state, including sample memory, to zero.
func (c *Chip) Reset() {
	*c = Chip{}
}

// Destroy releases host-visible resources. The chip holds none, so this
// only exists to complete the init/poke/render/destroy lifecycle.
func (c *Chip) Destroy() {}

// Render fills buf with frames interleaved stereo frames (L, R). Each frame
// first marks every envelope referenced by any channel so that it advances
// exactly once, then renders channels 0-7 (left then right) and sums them.
// If buf holds fewer than 2*frames samples, only the frames that fit are
// rendered.
func (c *Chip) Render(buf []int16, frames int) {
	if frames > len(buf)/2 {
		frames = len(buf) / 2
	}

	for i := 0; i < frames; i++ {
		c.queueEnvelopeSteps(c.referencedEnvelopes())

		var left, right int32
		for ch := range c.ch {
			left += int32(c.ch[ch].render(Left, &c.eg, &c.mem))
			right += int32(c.ch[ch].render(Right, &c.eg, &c.mem))
		}

		buf[i*2] = int16(clampInt32(left, -32768, 32767))
		buf[i*2+1] = int16(clampInt32(right, -32768, 32767))
	}
}

// referencedEnvelopes returns the set of envelope units any channel reads
// from this frame, one bit per unit.
func (c *Chip) referencedEnvelopes() uint16 {
	var mask uint16
	for i := range c.ch {
		mask |= c.ch[i].envelopeRefs()
	}
	return mask
}

// queueEnvelopeSteps marks each envelope in mask to advance on its next
// render. Marking an already queued unit is a no-op.
func (c *Chip) queueEnvelopeSteps(mask uint16) {
	for i := range c.eg {
		if mask&(1<<uint(i)) != 0 {
			c.eg[i].stepQueued = true
		}
	}
}
