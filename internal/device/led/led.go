package led

import (
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
)

// State is the visual status shown by an indicator.
type State int

const (
	Off State = iota
	// Ready means stopped with no accumulated time.
	Ready
	// Running means a segment is open.
	Running
	// Stopped means stopped with accumulated time.
	Stopped
)

func (state State) String() string {
	switch state {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "off"
	}
}

// StateFor maps the stopwatch read API onto an indicator state.
func StateFor(elapsed uint64, running bool) State {
	switch {
	case running:
		return Running
	case elapsed > 0:
		return Stopped
	default:
		return Ready
	}
}

// Indicator shows a State.
type Indicator interface {
	Set(State) error
}

// Disabled is an Indicator that shows nothing.
type Disabled struct{}

// Set implements Indicator.
func (Disabled) Set(State) error { return nil }

// RGB drives an active-low common-anode RGB LED: blue for ready, green for
// running, red for stopped.
type RGB struct {
	mu    sync.Mutex
	red   gpio.PinOut
	green gpio.PinOut
	blue  gpio.PinOut
	state State
}

// NewRGB takes ownership of the three pins and turns the LED off.
func NewRGB(red, green, blue gpio.PinOut) (*RGB, error) {
	if red == nil || green == nil || blue == nil {
		return nil, errors.New("led: all three pins are required")
	}
	rgb := &RGB{red: red, green: green, blue: blue}
	if err := rgb.Set(Off); err != nil {
		return nil, err
	}
	return rgb, nil
}

// Set implements Indicator.
func (rgb *RGB) Set(state State) error {
	rgb.mu.Lock()
	defer rgb.mu.Unlock()

	for _, pin := range []gpio.PinOut{rgb.red, rgb.green, rgb.blue} {
		if err := pin.Out(gpio.High); err != nil {
			return errors.Wrapf(err, "led: turn off %s", pin)
		}
	}

	var lit gpio.PinOut
	switch state {
	case Ready:
		lit = rgb.blue
	case Running:
		lit = rgb.green
	case Stopped:
		lit = rgb.red
	}
	if lit != nil {
		if err := lit.Out(gpio.Low); err != nil {
			return errors.Wrapf(err, "led: turn on %s", lit)
		}
	}
	rgb.state = state
	return nil
}

// State returns the last state successfully shown.
func (rgb *RGB) State() State {
	rgb.mu.Lock()
	defer rgb.mu.Unlock()
	return rgb.state
}
