package touch

import "time"

// Point is a screen coordinate in pixels.
type Point struct {
	X int
	Y int
}

// Rect is a button hit area. Edges are inclusive.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// Contains reports whether point lies within the rectangle, edges included.
func (r Rect) Contains(point Point) bool {
	return r.X <= point.X && point.X <= r.X+r.W && r.Y <= point.Y && point.Y <= r.Y+r.H
}

// Center returns the middle of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Button identifies an on-screen control.
type Button int

const (
	ButtonNone Button = iota
	ButtonStartStop
	ButtonReset
)

func (button Button) String() string {
	switch button {
	case ButtonStartStop:
		return "start_stop"
	case ButtonReset:
		return "reset"
	default:
		return "none"
	}
}

// Layout holds the button areas of a 320x240 screen.
type Layout struct {
	StartStop Rect
	Reset     Rect
}

// DefaultLayout returns the standard two-button layout.
func DefaultLayout() Layout {
	return Layout{
		StartStop: Rect{X: 50, Y: 180, W: 100, H: 40},
		Reset:     Rect{X: 170, Y: 180, W: 100, H: 40},
	}
}

// Hit returns the button under point.
func (layout Layout) Hit(point Point) Button {
	switch {
	case layout.StartStop.Contains(point):
		return ButtonStartStop
	case layout.Reset.Contains(point):
		return ButtonReset
	default:
		return ButtonNone
	}
}

// Source reports the current touch state. ok is false while nothing touches
// the screen.
type Source interface {
	Touch() (point Point, ok bool, err error)
}

const stableTolerance = 20

// Stable wraps a Source and only reports a touch when two readings taken
// window apart land within a few pixels of each other. The result is their
// midpoint.
type Stable struct {
	Source Source
	Window time.Duration
	Sleep  func(time.Duration)
}

// NewStable wraps source with the default sleeper.
func NewStable(source Source, window time.Duration) *Stable {
	return &Stable{Source: source, Window: window, Sleep: time.Sleep}
}

// Touch implements Source.
func (stable *Stable) Touch() (Point, bool, error) {
	first, ok, err := stable.Source.Touch()
	if err != nil || !ok {
		return Point{}, false, err
	}
	if stable.Window > 0 && stable.Sleep != nil {
		stable.Sleep(stable.Window)
	}
	second, ok, err := stable.Source.Touch()
	if err != nil || !ok {
		return Point{}, false, err
	}
	if abs(first.X-second.X) >= stableTolerance || abs(first.Y-second.Y) >= stableTolerance {
		return Point{}, false, nil
	}
	return Point{X: (first.X + second.X) / 2, Y: (first.Y + second.Y) / 2}, true, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
