package emu

import "math"

// expTable maps an 8-bit envelope level to an exponential gain in 0-255.
// Level 0 is silence, level 255 is full scale, and every 32 levels double
// the gain (about 0.19 dB per step).
var expTable [256]uint8

func init() {
	for i := 1; i < 256; i++ {
		g := 255 * math.Pow(2, float64(i-255)/32.0)
		v := math.Round(g)
		if v < 1 {
			v = 1
		}
		expTable[i] = uint8(v)
	}
	expTable[0] = 0
}

// GetExpTable returns the envelope level lookup table (for testing)
func GetExpTable() []uint8 {
	return expTable[:]
}
