package stopwatch

import (
	"math"
	"sync"

	"cydwatch/internal/core/ticks"
)

// Stopwatch accumulates running time across start/stop cycles. Segment
// durations are measured with wraparound-safe tick differences, so a segment
// that spans a counter rollover is still counted correctly.
type Stopwatch struct {
	mu           sync.Mutex
	now          ticks.Source
	accumulated  uint64
	running      bool
	segmentStart ticks.Tick
	events       []chan Event
}

// New creates a stopped, zeroed Stopwatch reading ticks from now.
// A nil source falls back to the system millisecond counter.
func New(now ticks.Source) *Stopwatch {
	if now == nil {
		now = ticks.System()
	}
	return &Stopwatch{now: now}
}

// Subscribe registers a new observer channel.
func (watch *Stopwatch) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	watch.mu.Lock()
	watch.events = append(watch.events, ch)
	watch.mu.Unlock()
	return ch
}

// Unsubscribe detaches and closes one observer channel returned by
// Subscribe. Unknown channels are ignored.
func (watch *Stopwatch) Unsubscribe(events <-chan Event) {
	watch.mu.Lock()
	defer watch.mu.Unlock()
	for i, ch := range watch.events {
		if ch == events {
			watch.events = append(watch.events[:i], watch.events[i+1:]...)
			close(ch)
			return
		}
	}
}

// Close detaches and closes every observer channel.
func (watch *Stopwatch) Close() {
	watch.mu.Lock()
	events := watch.events
	watch.events = nil
	watch.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Start opens a new segment. It does nothing if one is already open.
func (watch *Stopwatch) Start() {
	watch.mu.Lock()
	defer watch.mu.Unlock()
	if watch.running {
		return
	}
	watch.segmentStart = watch.now()
	watch.running = true

	watch.emitLocked(Event{
		Type:    EventStarted,
		Running: true,
		Elapsed: watch.accumulated,
		At:      watch.segmentStart,
	})
}

// Stop closes the open segment and adds it to the total. It does nothing
// while stopped.
func (watch *Stopwatch) Stop() {
	watch.mu.Lock()
	defer watch.mu.Unlock()
	if !watch.running {
		return
	}
	now := watch.now()
	segment := ticks.Diff(now, watch.segmentStart)
	watch.accumulated = addSaturating(watch.accumulated, segment)
	watch.running = false

	watch.emitLocked(Event{
		Type:    EventStopped,
		Elapsed: watch.accumulated,
		Segment: segment,
		At:      now,
	})
}

// Reset zeroes the total and discards any open segment.
func (watch *Stopwatch) Reset() {
	watch.mu.Lock()
	defer watch.mu.Unlock()
	now := watch.now()
	var discarded uint64
	if watch.running {
		discarded = ticks.Diff(now, watch.segmentStart)
	}
	watch.accumulated = 0
	watch.running = false
	watch.segmentStart = 0

	watch.emitLocked(Event{
		Type:    EventReset,
		Segment: discarded,
		At:      now,
	})
}

// Elapsed returns the total running time in milliseconds, including the
// open segment while running.
func (watch *Stopwatch) Elapsed() uint64 {
	watch.mu.Lock()
	defer watch.mu.Unlock()
	return watch.elapsedLocked()
}

// IsRunning reports whether a segment is open.
func (watch *Stopwatch) IsRunning() bool {
	watch.mu.Lock()
	defer watch.mu.Unlock()
	return watch.running
}

// Lap returns the duration of the open segment, or zero while stopped.
func (watch *Stopwatch) Lap() uint64 {
	watch.mu.Lock()
	defer watch.mu.Unlock()
	if !watch.running {
		return 0
	}
	return ticks.Since(watch.now, watch.segmentStart)
}

// Format renders the elapsed time in the given style.
func (watch *Stopwatch) Format(style Style) string {
	return Format(watch.Elapsed(), style)
}

// SessionStats returns a consistent snapshot of the elapsed time and run state.
func (watch *Stopwatch) SessionStats() Stats {
	watch.mu.Lock()
	elapsed := watch.elapsedLocked()
	running := watch.running
	watch.mu.Unlock()

	stats := Decompose(elapsed)
	stats.IsRunning = running
	stats.Formatted = Format(elapsed, StyleFull)
	return stats
}

func (watch *Stopwatch) elapsedLocked() uint64 {
	if !watch.running {
		return watch.accumulated
	}
	return addSaturating(watch.accumulated, ticks.Since(watch.now, watch.segmentStart))
}

func (watch *Stopwatch) emitLocked(event Event) {
	for _, ch := range watch.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func addSaturating(total, delta uint64) uint64 {
	if total > math.MaxUint64-delta {
		return math.MaxUint64
	}
	return total + delta
}
