package ui

import (
	"io"
	"sync"
)

// AudioRingBuffer is a byte FIFO between the render goroutine and oto's
// player. Read blocks until data arrives or the buffer is closed. Write
// never blocks; when full, the oldest bytes are dropped and counted.
type AudioRingBuffer struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    []byte
	head   int // Next read position
	size   int // Bytes queued
	drop   int // Bytes discarded on overflow
	closed bool
}

// NewAudioRingBuffer creates a ring buffer holding up to capacity bytes.
func NewAudioRingBuffer(capacity int) *AudioRingBuffer {
	rb := &AudioRingBuffer{buf: make([]byte, capacity)}
	rb.cond = sync.NewCond(&rb.mu)
	return rb
}

// Write queues p, discarding the oldest queued bytes if p does not fit.
func (rb *AudioRingBuffer) Write(p []byte) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	capacity := len(rb.buf)
	if rb.closed || len(p) == 0 || capacity == 0 {
		return
	}

	if len(p) > capacity {
		rb.drop += len(p) - capacity
		p = p[len(p)-capacity:]
	}
	if over := rb.size + len(p) - capacity; over > 0 {
		rb.head = (rb.head + over) % capacity
		rb.size -= over
		rb.drop += over
	}

	tail := (rb.head + rb.size) % capacity
	n := copy(rb.buf[tail:], p)
	copy(rb.buf, p[n:])
	rb.size += len(p)

	rb.cond.Signal()
}

// Read implements io.Reader. It returns io.EOF once the buffer is closed
// and drained.
func (rb *AudioRingBuffer) Read(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for rb.size == 0 {
		if rb.closed {
			return 0, io.EOF
		}
		rb.cond.Wait()
	}

	n := min(len(p), rb.size)
	first := copy(p[:n], rb.buf[rb.head:])
	copy(p[first:n], rb.buf)
	rb.head = (rb.head + n) % len(rb.buf)
	rb.size -= n

	return n, nil
}

// Buffered returns the number of bytes queued.
func (rb *AudioRingBuffer) Buffered() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.size
}

// Dropped returns the total bytes discarded by overflowing writes.
func (rb *AudioRingBuffer) Dropped() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.drop
}

// Clear discards all queued data.
func (rb *AudioRingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.head = 0
	rb.size = 0
}

// Close wakes blocked readers. Queued data can still be read; after that
// Read returns io.EOF.
func (rb *AudioRingBuffer) Close() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.closed = true
	rb.cond.Broadcast()
}
