// Package cli provides a windowed player for a patched chip.
// Keys 1-8 retrigger channels 1-8, Space pauses, and the window shows an
// oscilloscope of the output.
package cli

import (
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	emubridge "github.com/user-none/chlorsnd/bridge/ebiten"
	"github.com/user-none/chlorsnd/ui"
)

// channelKeys holds the retrigger key for each channel.
var channelKeys = [...]ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8,
}

// Runner plays an emulator in a window. Rendering runs on its own
// goroutine paced by the audio buffer level; the Ebiten thread polls keys
// and draws the shared scope image.
type Runner struct {
	emulator    *emubridge.Emulator
	audioPlayer *ui.AudioPlayer

	pacing            ui.Pacing
	emuControl        *ui.EmuControl
	sharedKeys        *ui.SharedKeys
	sharedFramebuffer *ui.SharedFramebuffer
	emuDone           chan struct{}
}

// NewRunner starts rendering e. Audio initialization failure is
// non-fatal; the runner keeps drawing the scope without sound.
func NewRunner(e *emubridge.Emulator, volume float64) *Runner {
	pacing := ui.PacingFor(e.FramesPerPeriod())
	player, err := ui.NewAudioPlayer(volume, pacing.Capacity)
	if err != nil {
		log.Printf("Warning: audio initialization failed: %v", err)
	}

	r := &Runner{
		emulator:          e,
		audioPlayer:       player,
		pacing:            pacing,
		emuControl:        ui.NewEmuControl(),
		sharedKeys:        &ui.SharedKeys{},
		sharedFramebuffer: ui.NewSharedFramebuffer(),
		emuDone:           make(chan struct{}),
	}

	go r.emulationLoop()

	return r
}

// Close stops rendering and releases audio.
func (r *Runner) Close() {
	if r.emuControl != nil {
		r.emuControl.Stop()
		<-r.emuDone
	}

	if r.audioPlayer != nil {
		if n := r.audioPlayer.Overruns(); n > 0 {
			log.Printf("audio: %d bytes dropped on overrun", n)
		}
		r.audioPlayer.Close()
		r.audioPlayer = nil
	}
}

// emulationLoop renders one period per iteration, sleeping less when the
// audio buffer runs low and more when it runs high.
func (r *Runner) emulationLoop() {
	defer close(r.emuDone)

	timing := r.emulator.GetTiming()
	frameTime := time.Duration(float64(time.Second) / float64(timing.FPS))
	lastFrameTime := time.Now()

	for r.emuControl.ShouldRun() {
		if !r.emuControl.CheckPause() {
			return
		}

		if mask := r.sharedKeys.Take(); mask != 0 {
			r.emulator.Retrigger(mask)
		}

		r.emulator.RunFrame()

		if r.audioPlayer != nil {
			r.audioPlayer.QueueSamples(r.emulator.GetAudioSamples())
		}
		r.sharedFramebuffer.Update(r.emulator.GetFramebuffer())

		elapsed := time.Since(lastFrameTime)
		sleepTime := frameTime - elapsed

		if r.audioPlayer != nil {
			bufferLevel := r.audioPlayer.GetBufferLevel()
			if bufferLevel < r.pacing.MinLevel {
				sleepTime = time.Duration(float64(sleepTime) * 0.9)
			} else if bufferLevel > r.pacing.MaxLevel {
				sleepTime = time.Duration(float64(sleepTime) * 1.1)
			}
		}

		if sleepTime > time.Millisecond {
			time.Sleep(sleepTime)
		}

		lastFrameTime = time.Now()
	}
}

// Update implements ebiten.Game.
func (r *Runner) Update() error {
	if !ebiten.IsFocused() {
		return nil
	}

	var mask uint8
	for i, k := range channelKeys {
		if inpututil.IsKeyJustPressed(k) {
			mask |= 1 << uint(i)
		}
	}
	if mask != 0 {
		r.sharedKeys.Press(mask)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		wasPaused := r.emuControl.IsPaused()
		r.emuControl.TogglePause()
		if !wasPaused && r.audioPlayer != nil {
			r.audioPlayer.Clear()
		}
	}
	return nil
}

// Draw implements ebiten.Game.
func (r *Runner) Draw(screen *ebiten.Image) {
	pixels := r.sharedFramebuffer.Read()
	if pixels == nil {
		return
	}
	r.emulator.DrawCachedFramebuffer(screen, pixels)
}

// Layout implements ebiten.Game.
func (r *Runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	return r.emulator.Layout(outsideWidth, outsideHeight)
}
