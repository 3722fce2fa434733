package ticks

import (
	"sync"
	"time"
)

// Tick is a reading of a wrapping millisecond counter.
type Tick uint32

// Source returns the current tick.
type Source func() Tick

// Period is the number of ticks before the counter wraps back to zero.
const Period uint64 = 1 << 32

// Diff returns the number of ticks from start to end using modular
// subtraction, so a counter rollover between the two readings still yields
// the forward distance. Intervals longer than one Period cannot be measured.
func Diff(end, start Tick) uint64 {
	return uint64(end - start)
}

// Since returns the ticks elapsed between start and the current reading of source.
func Since(source Source, start Tick) uint64 {
	return Diff(source(), start)
}

// Duration converts a tick count to a time.Duration.
func Duration(ms uint64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// System returns a Source counting milliseconds since the call, truncated to
// the counter width. It wraps roughly every 49.7 days.
func System() Source {
	epoch := time.Now()
	return func() Tick {
		return Tick(uint32(time.Since(epoch).Milliseconds()))
	}
}

// Manual is a hand-driven tick source.
type Manual struct {
	mu  sync.Mutex
	now Tick
}

// NewManual creates a manual clock reading start.
func NewManual(start Tick) *Manual {
	return &Manual{now: start}
}

// Now returns the current tick. It satisfies Source when passed as a method value.
func (clock *Manual) Now() Tick {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

// Advance moves the clock forward, wrapping at the counter width.
func (clock *Manual) Advance(ms uint32) {
	clock.mu.Lock()
	clock.now += Tick(ms)
	clock.mu.Unlock()
}

// Set jumps the clock to an absolute reading.
func (clock *Manual) Set(now Tick) {
	clock.mu.Lock()
	clock.now = now
	clock.mu.Unlock()
}
