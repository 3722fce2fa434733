package display

import (
	"image"
	"sync"

	"cydwatch/internal/device/touch"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
)

// Screen is where the stopwatch shows its state.
type Screen interface {
	Show(view View) error
	Clear() error
}

// Panel is a pixel device; periph display drivers satisfy it.
type Panel interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

// PanelScreen renders views onto a Panel. Frames are scaled to the panel
// size and a view identical to the last one shown is not redrawn.
type PanelScreen struct {
	mu     sync.Mutex
	panel  Panel
	layout touch.Layout
	last   *View
}

// NewPanelScreen creates a PanelScreen. Button positions come from layout so
// that drawn buttons match the touch hit areas.
func NewPanelScreen(panel Panel, layout touch.Layout) *PanelScreen {
	return &PanelScreen{panel: panel, layout: layout}
}

// Show draws view unless it matches the previously shown one.
func (screen *PanelScreen) Show(view View) error {
	screen.mu.Lock()
	defer screen.mu.Unlock()
	if screen.last != nil && *screen.last == view {
		return nil
	}

	frame := Render(view, screen.layout)
	if err := screen.drawLocked(frame); err != nil {
		return err
	}
	screen.last = &view
	return nil
}

// Clear blanks the panel.
func (screen *PanelScreen) Clear() error {
	screen.mu.Lock()
	defer screen.mu.Unlock()
	screen.last = nil

	bounds := screen.panel.Bounds()
	blank := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	fill(blank, blank.Bounds(), colorBlack)
	if err := screen.panel.Draw(bounds, blank, image.Point{}); err != nil {
		return errors.Wrap(err, "clear panel")
	}
	return nil
}

func (screen *PanelScreen) drawLocked(frame *image.RGBA) error {
	bounds := screen.panel.Bounds()
	var src image.Image = frame
	if bounds.Dx() != Width || bounds.Dy() != Height {
		scaled := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), frame, frame.Bounds(), draw.Src, nil)
		src = scaled
	}
	if err := screen.panel.Draw(bounds, src, image.Point{}); err != nil {
		return errors.Wrap(err, "draw panel")
	}
	return nil
}

// OpenSSD1306 opens a 128x64 SSD1306 panel on bus.
func OpenSSD1306(bus i2c.Bus) (Panel, error) {
	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return nil, errors.Wrap(err, "open ssd1306")
	}
	return dev, nil
}
