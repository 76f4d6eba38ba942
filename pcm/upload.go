package pcm

import (
	"errors"
	"fmt"

	"github.com/user-none/chlorsnd/emu"
)

var ErrTooLarge = errors.New("pcm: sample does not fit in sample memory")

// Poker is the register write side of a chip.
type Poker interface {
	Poke(reg uint16, val uint8)
}

// Upload stores data in sample memory starting at addr by setting the write
// pointer and streaming bytes through the auto-incrementing data register.
// Writes past the end of memory wrap to address 0.
func Upload(p Poker, addr uint16, data []byte) error {
	if len(data) > emu.MemorySize {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}

	p.Poke(emu.RegWritePtr, uint8(addr))
	p.Poke(emu.RegWritePtr+1, uint8(addr>>8))
	for _, b := range data {
		p.Poke(emu.RegWriteData, b)
	}
	return nil
}
