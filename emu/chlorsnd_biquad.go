package emu

// q15One is the Q15 representation of 1.0.
const q15One = 32768

// BiquadStage is a direct form 2 (non-transposed) second-order section in
// Q15 fixed point. Coefficients are shared by both sides; each side keeps
// its own delay line, which persists across frames.
type BiquadStage struct {
	// Coefficients in Q15: c[0..2] weight the delay line into the
	// intermediate value, c[2..4] weight the intermediate into the output.
	Coefficients [5]int32

	delaysL [3]int32
	delaysR [3]int32
}

// Process pushes one input sample through the stage on the given side and
// returns the output. Every partial sum saturates to [-32767, 32767].
func (b *BiquadStage) Process(input int16, side Side) int16 {
	d := &b.delaysL
	if side == Right {
		d = &b.delaysR
	}

	// Feedback state is negated as it shifts down the line.
	d[2] = -d[1]
	d[1] = -d[0]
	d[0] = int32(input)

	var w int64
	for i := 0; i < 3; i++ {
		w = saturate(w + int64(d[i])*int64(b.Coefficients[i])/q15One)
	}

	var y int64
	for i := 2; i < 5; i++ {
		y = saturate(y + w*int64(b.Coefficients[i])/q15One)
	}

	return int16(y)
}

// Delays returns a copy of the delay line for side (for testing).
func (b *BiquadStage) Delays(side Side) [3]int32 {
	if side == Right {
		return b.delaysR
	}
	return b.delaysL
}
