package stopwatch

import "cydwatch/internal/core/ticks"

// EventType defines the type of Stopwatch event.
type EventType string

const (
	EventStarted EventType = "started"
	EventStopped EventType = "stopped"
	EventReset   EventType = "reset"
)

// Event represents a Stopwatch transition for observers.
type Event struct {
	Type    EventType
	Running bool
	// Elapsed is the total after the transition.
	Elapsed uint64
	// Segment is the duration of the segment closed by a stop, or discarded by a reset.
	Segment uint64
	At      ticks.Tick
}
