package ui

import (
	"sync"

	"github.com/user-none/chlorsnd/emu"
)

// SharedKeys collects channel retrigger presses from the Ebiten thread
// for the render goroutine.
type SharedKeys struct {
	mu      sync.Mutex
	pending uint8
}

// Press marks the channels in mask for retrigger.
func (sk *SharedKeys) Press(mask uint8) {
	sk.mu.Lock()
	sk.pending |= mask
	sk.mu.Unlock()
}

// Take returns and clears the pending retrigger mask.
func (sk *SharedKeys) Take() uint8 {
	sk.mu.Lock()
	m := sk.pending
	sk.pending = 0
	sk.mu.Unlock()
	return m
}

// SharedFramebuffer holds the scope image written by the render goroutine
// and read by Ebiten's Draw. Read hands out a separate snapshot so Draw
// never races the next Update.
type SharedFramebuffer struct {
	mu         sync.Mutex
	writePixel []byte
	readPixel  []byte
	valid      bool
}

// NewSharedFramebuffer creates a framebuffer sized for the scope image.
func NewSharedFramebuffer() *SharedFramebuffer {
	n := emu.ScopeWidth * emu.ScopeHeight * 4
	return &SharedFramebuffer{
		writePixel: make([]byte, n),
		readPixel:  make([]byte, n),
	}
}

// Update copies a new scope image in.
func (sf *SharedFramebuffer) Update(pixels []byte) {
	sf.mu.Lock()
	copy(sf.writePixel, pixels)
	sf.valid = true
	sf.mu.Unlock()
}

// Read returns a snapshot of the latest image, or nil before the first
// Update.
func (sf *SharedFramebuffer) Read() []byte {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	if !sf.valid {
		return nil
	}
	copy(sf.readPixel, sf.writePixel)
	return sf.readPixel
}

// EmuControl coordinates pause, resume and stop between the Ebiten thread
// and the render goroutine.
type EmuControl struct {
	mu       sync.Mutex
	cond     *sync.Cond
	pauseReq bool
	paused   bool
	stopped  bool
}

// NewEmuControl creates a control in the running state.
func NewEmuControl() *EmuControl {
	ec := &EmuControl{}
	ec.cond = sync.NewCond(&ec.mu)
	return ec
}

// RequestPause asks the render goroutine to pause and waits until it has
// parked, or until the control is stopped.
func (ec *EmuControl) RequestPause() {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.pauseReq = true
	for !ec.paused && !ec.stopped {
		ec.cond.Wait()
	}
}

// RequestResume releases a paused render goroutine.
func (ec *EmuControl) RequestResume() {
	ec.mu.Lock()
	ec.pauseReq = false
	ec.mu.Unlock()
	ec.cond.Broadcast()
}

// TogglePause pauses a running goroutine or resumes a paused one.
func (ec *EmuControl) TogglePause() {
	if ec.IsPaused() {
		ec.RequestResume()
		return
	}
	ec.RequestPause()
}

// CheckPause is called by the render goroutine between periods. It parks
// while a pause is requested and returns false once the goroutine should
// exit.
func (ec *EmuControl) CheckPause() bool {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	for ec.pauseReq && !ec.stopped {
		if !ec.paused {
			ec.paused = true
			ec.cond.Broadcast()
		}
		ec.cond.Wait()
	}
	ec.paused = false
	return !ec.stopped
}

// Stop tells the render goroutine to exit and releases any waiters.
func (ec *EmuControl) Stop() {
	ec.mu.Lock()
	ec.stopped = true
	ec.pauseReq = false
	ec.mu.Unlock()
	ec.cond.Broadcast()
}

// ShouldRun reports whether the render goroutine should keep going.
func (ec *EmuControl) ShouldRun() bool {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return !ec.stopped
}

// IsPaused reports whether the render goroutine is parked.
func (ec *EmuControl) IsPaused() bool {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.paused
}
