package touch

import (
	"time"

	"cydwatch/internal/core/ticks"
)

// Debouncer accepts a touch only when more than the debounce window has
// passed since the last accepted one. It is owned by a single poll loop.
type Debouncer struct {
	window   uint64
	last     ticks.Tick
	accepted bool
}

// NewDebouncer creates a Debouncer with the given window.
func NewDebouncer(window time.Duration) *Debouncer {
	if window < 0 {
		window = 0
	}
	return &Debouncer{window: uint64(window / time.Millisecond)}
}

// Accept reports whether a touch at now should be acted on, and records it if so.
func (debouncer *Debouncer) Accept(now ticks.Tick) bool {
	if debouncer.accepted && ticks.Diff(now, debouncer.last) <= debouncer.window {
		return false
	}
	debouncer.last = now
	debouncer.accepted = true
	return true
}
