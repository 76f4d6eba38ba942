package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/user-none/chlorsnd/emu"
)

// Default buffering at 48kHz stereo 16-bit: a ~170ms ring buffer, room for
// ten 60 Hz render periods, and a 50-100ms pacing band.
const (
	ringBufferCapacity = 32768
	adtMinBuffer       = 9600
	adtMaxBuffer       = 19200
)

// playerBufferSize is oto's internal buffer, 100ms of stereo 16-bit.
const playerBufferSize = emu.SampleRate / 10 * 4

// bytesPerFrame is one stereo 16-bit frame.
const bytesPerFrame = 4

// Pacing sizes audio buffering for one render period.
type Pacing struct {
	Capacity int // Ring buffer size in bytes
	MinLevel int // Render faster below this many buffered bytes
	MaxLevel int // Render slower above this many buffered bytes
}

// PacingFor returns buffer sizes for periods of framesPerPeriod frames.
// Short periods get the defaults. Long periods scale them so the ring
// buffer holds four periods and the pacing band spans one to two.
func PacingFor(framesPerPeriod int) Pacing {
	period := framesPerPeriod * bytesPerFrame
	return Pacing{
		Capacity: max(ringBufferCapacity, 4*period),
		MinLevel: max(adtMinBuffer, period),
		MaxLevel: max(adtMaxBuffer, 2*period),
	}
}

// AudioPlayer plays rendered chip periods through oto. Periods are
// queued into a ring buffer that oto's player pulls from.
type AudioPlayer struct {
	player     *oto.Player
	ringBuffer *AudioRingBuffer
	audioBytes []byte // Reused int16-to-byte conversion buffer
}

// oto context singleton
var (
	otoCtx      *oto.Context
	otoInitOnce sync.Once
	otoInitErr  error
)

// ensureOtoContext initializes the oto audio context on first use.
func ensureOtoContext() (*oto.Context, error) {
	otoInitOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   emu.SampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		}
		var readyChan chan struct{}
		otoCtx, readyChan, otoInitErr = oto.NewContext(op)
		if otoInitErr != nil {
			return
		}
		<-readyChan
	})
	return otoCtx, otoInitErr
}

// NewAudioPlayer starts playback at the given volume (0.0-1.0) with a ring
// buffer of capacity bytes. It fails when no audio device is available.
func NewAudioPlayer(volume float64, capacity int) (*AudioPlayer, error) {
	ctx, err := ensureOtoContext()
	if err != nil {
		return nil, fmt.Errorf("oto audio not available: %w", err)
	}

	rb := NewAudioRingBuffer(capacity)
	player := ctx.NewPlayer(rb)
	player.SetBufferSize(playerBufferSize)
	player.SetVolume(volume)
	player.Play()

	return &AudioPlayer{
		player:     player,
		ringBuffer: rb,
		audioBytes: make([]byte, 0, 4096),
	}, nil
}

// QueueSamples queues one rendered period of interleaved stereo samples.
func (a *AudioPlayer) QueueSamples(samples []int16) {
	if len(samples) == 0 {
		return
	}
	a.audioBytes = appendLE16(a.audioBytes[:0], samples)
	a.ringBuffer.Write(a.audioBytes)
}

// appendLE16 appends samples to dst as little-endian 16-bit PCM.
func appendLE16(dst []byte, samples []int16) []byte {
	for _, s := range samples {
		dst = append(dst, byte(s), byte(s>>8))
	}
	return dst
}

// Overruns returns how many bytes were dropped because the renderer got
// ahead of playback.
func (a *AudioPlayer) Overruns() int {
	return a.ringBuffer.Dropped()
}

// GetBufferLevel returns the bytes queued in the ring buffer plus oto's
// internal buffer. The render loop paces itself on this.
func (a *AudioPlayer) GetBufferLevel() int {
	return a.ringBuffer.Buffered() + a.player.BufferedSize()
}

// Clear drops queued audio that has not reached oto yet.
func (a *AudioPlayer) Clear() {
	a.ringBuffer.Clear()
}

// SetVolume sets the playback volume (0.0 = silent, 1.0 = full).
func (a *AudioPlayer) SetVolume(vol float64) {
	a.player.SetVolume(vol)
}

// Close cleans up audio resources.
func (a *AudioPlayer) Close() {
	if a.ringBuffer != nil {
		a.ringBuffer.Close()
	}
	if a.player != nil {
		a.player.Close()
	}
}
