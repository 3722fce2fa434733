package touch

import (
	"github.com/pkg/errors"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// XPT2046 control bytes: start bit, channel, 12-bit differential mode.
const (
	cmdReadX  = 0xD0
	cmdReadY  = 0x90
	cmdReadZ1 = 0xB0
	cmdReadZ2 = 0xC0

	maxRaw = 4095
)

// RawBounds maps the controller's 12-bit readings onto the screen.
type RawBounds struct {
	XMin int
	XMax int
	YMin int
	YMax int
}

// XPT2046Opts configures the resistive touch controller.
type XPT2046Opts struct {
	Width     int
	Height    int
	Bounds    RawBounds
	Threshold int
	SwapXY    bool
}

// DefaultXPT2046Opts matches a 320x240 landscape panel.
var DefaultXPT2046Opts = XPT2046Opts{
	Width:     320,
	Height:    240,
	Bounds:    RawBounds{XMin: 200, XMax: 3900, YMin: 200, YMax: 3900},
	Threshold: 400,
}

// XPT2046 reads a resistive touch controller over SPI.
type XPT2046 struct {
	conn conn.Conn
	irq  gpio.PinIn
	opts XPT2046Opts
}

// NewXPT2046 returns a controller reading through c. irq may be nil; when
// set, its active-low pen interrupt level short-circuits idle reads.
func NewXPT2046(c conn.Conn, irq gpio.PinIn, opts *XPT2046Opts) (*XPT2046, error) {
	if c == nil {
		return nil, errors.New("xpt2046: nil connection")
	}
	if opts == nil {
		opts = &DefaultXPT2046Opts
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.Errorf("xpt2046: invalid screen size %dx%d", opts.Width, opts.Height)
	}
	if opts.Bounds.XMax <= opts.Bounds.XMin || opts.Bounds.YMax <= opts.Bounds.YMin {
		return nil, errors.New("xpt2046: invalid raw bounds")
	}
	if irq != nil {
		if err := irq.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, errors.Wrap(err, "xpt2046: configure irq pin")
		}
	}
	return &XPT2046{conn: c, irq: irq, opts: *opts}, nil
}

// Touch implements Source.
func (dev *XPT2046) Touch() (Point, bool, error) {
	if dev.irq != nil && dev.irq.Read() == gpio.High {
		return Point{}, false, nil
	}

	z1, err := dev.read(cmdReadZ1)
	if err != nil {
		return Point{}, false, err
	}
	z2, err := dev.read(cmdReadZ2)
	if err != nil {
		return Point{}, false, err
	}
	if z1+maxRaw-z2 < dev.opts.Threshold {
		return Point{}, false, nil
	}

	rawX, err := dev.read(cmdReadX)
	if err != nil {
		return Point{}, false, err
	}
	rawY, err := dev.read(cmdReadY)
	if err != nil {
		return Point{}, false, err
	}
	if dev.opts.SwapXY {
		rawX, rawY = rawY, rawX
	}

	bounds := dev.opts.Bounds
	return Point{
		X: scale(rawX, bounds.XMin, bounds.XMax, dev.opts.Width),
		Y: scale(rawY, bounds.YMin, bounds.YMax, dev.opts.Height),
	}, true, nil
}

func (dev *XPT2046) read(cmd byte) (int, error) {
	w := []byte{cmd, 0, 0}
	r := make([]byte, len(w))
	if err := dev.conn.Tx(w, r); err != nil {
		return 0, errors.Wrapf(err, "xpt2046: read 0x%02X", cmd)
	}
	return (int(r[1])<<8 | int(r[2])) >> 3 & maxRaw, nil
}

func scale(raw, lo, hi, size int) int {
	value := (raw - lo) * size / (hi - lo)
	if value < 0 {
		return 0
	}
	if value >= size {
		return size - 1
	}
	return value
}
