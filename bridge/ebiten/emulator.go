// Package ebiten provides an Ebiten-specific wrapper for the synth.
package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/user-none/chlorsnd/emu"
)

// Emulator wraps emu.Emulator with scope drawing.
type Emulator struct {
	*emu.Emulator

	offscreen *ebiten.Image           // Scope at native resolution
	drawOpts  ebiten.DrawImageOptions // Reused each frame
}

// NewEmulator wraps a chip for rendering fps periods per second at rate.
func NewEmulator(chip *emu.Chip, rate, fps int) *Emulator {
	return &Emulator{
		Emulator: emu.NewEmulator(chip, rate, fps),
	}
}

// Layout implements ebiten.Game.
func (e *Emulator) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// DrawCachedFramebuffer draws a scope snapshot scaled to fit the screen,
// keeping its aspect ratio.
func (e *Emulator) DrawCachedFramebuffer(screen *ebiten.Image, pixels []byte) {
	if len(pixels) < emu.ScopeWidth*emu.ScopeHeight*4 {
		return
	}

	if e.offscreen == nil {
		e.offscreen = ebiten.NewImage(emu.ScopeWidth, emu.ScopeHeight)
	}
	e.offscreen.WritePixels(pixels[:emu.ScopeWidth*emu.ScopeHeight*4])

	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	scale := min(float64(screenW)/emu.ScopeWidth, float64(screenH)/emu.ScopeHeight)
	offsetX := (float64(screenW) - emu.ScopeWidth*scale) / 2
	offsetY := (float64(screenH) - emu.ScopeHeight*scale) / 2

	e.drawOpts = ebiten.DrawImageOptions{}
	e.drawOpts.GeoM.Scale(scale, scale)
	e.drawOpts.GeoM.Translate(offsetX, offsetY)
	e.drawOpts.Filter = ebiten.FilterLinear
	screen.DrawImage(e.offscreen, &e.drawOpts)
}
