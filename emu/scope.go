package emu

// Oscilloscope framebuffer geometry. The left channel is traced in the top
// half, the right channel in the bottom half.
const (
	ScopeWidth  = 512
	ScopeHeight = 256

	scopeHalf = ScopeHeight / 2
)

// RGBA colors for the scope trace.
var (
	scopeBackground = [4]byte{0x10, 0x12, 0x18, 0xFF}
	scopeAxis       = [4]byte{0x30, 0x34, 0x40, 0xFF}
	scopeLeft       = [4]byte{0x40, 0xE0, 0x80, 0xFF}
	scopeRight      = [4]byte{0x40, 0xB0, 0xF0, 0xFF}
)

// GetFramebuffer returns the RGBA scope image of the last rendered period.
func (e *Emulator) GetFramebuffer() []byte {
	return e.scope
}

// GetFramebufferStride returns the stride (bytes per row) of the scope image.
func (e *Emulator) GetFramebufferStride() int {
	return ScopeWidth * 4
}

// GetActiveHeight returns the scope image height.
func (e *Emulator) GetActiveHeight() int {
	return ScopeHeight
}

// drawScope redraws the scope image from the current audio buffer.
func (e *Emulator) drawScope() {
	px := e.scope
	for i := 0; i < len(px); i += 4 {
		copy(px[i:i+4], scopeBackground[:])
	}
	for x := 0; x < ScopeWidth; x++ {
		setPixel(px, x, scopeHalf/2, scopeAxis)
		setPixel(px, x, scopeHalf+scopeHalf/2, scopeAxis)
	}

	frames := len(e.audioBuffer) / 2
	if frames == 0 {
		return
	}

	prevL, prevR := -1, -1
	for x := 0; x < ScopeWidth; x++ {
		f := x * frames / ScopeWidth
		yl := scopeRow(e.audioBuffer[f*2], 0)
		yr := scopeRow(e.audioBuffer[f*2+1], scopeHalf)
		if prevL < 0 {
			prevL, prevR = yl, yr
		}
		drawSpan(px, x, prevL, yl, scopeLeft)
		drawSpan(px, x, prevR, yr, scopeRight)
		prevL, prevR = yl, yr
	}
}

// scopeRow maps a sample to a row within the half starting at top.
func scopeRow(s int16, top int) int {
	center := top + scopeHalf/2
	y := center - int(s)*(scopeHalf/2)/32768
	return min(max(y, top), top+scopeHalf-1)
}

// drawSpan fills column x between rows a and b inclusive.
func drawSpan(px []byte, x, a, b int, c [4]byte) {
	if a > b {
		a, b = b, a
	}
	for y := a; y <= b; y++ {
		setPixel(px, x, y, c)
	}
}

func setPixel(px []byte, x, y int, c [4]byte) {
	i := (y*ScopeWidth + x) * 4
	copy(px[i:i+4], c[:])
}
