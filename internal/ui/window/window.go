package window

import (
	"image"
	"sync"

	"cydwatch/internal/device/display"
	"cydwatch/internal/device/touch"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

const scale = float32(2)

// Window is the desktop stand-in for the touchscreen. It shows rendered
// frames and turns clicks and key presses into touch points.
type Window struct {
	mu     sync.Mutex
	window fyne.Window
	screen *screenWidget
	layout touch.Layout
	taps   *touch.Queue
	last   *display.View
}

// New creates the stopwatch window. Taps are pushed into taps.
func New(app fyne.App, layout touch.Layout, taps *touch.Queue) *Window {
	window := app.NewWindow("CYD Stopwatch")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	stopwatchWindow := &Window{
		window: window,
		layout: layout,
		taps:   taps,
	}
	stopwatchWindow.screen = newScreenWidget(stopwatchWindow.tap)
	stopwatchWindow.screen.setFrame(display.Render(display.View{}, layout))

	window.SetContent(stopwatchWindow.screen)
	window.Resize(fyne.NewSize(display.Width*scale, display.Height*scale))
	window.SetFixedSize(true)
	window.Canvas().SetOnTypedKey(stopwatchWindow.typedKey)
	window.SetCloseIntercept(func() {
		window.Hide()
	})
	return stopwatchWindow
}

// Show implements display.Screen.
func (stopwatchWindow *Window) Show(view display.View) error {
	stopwatchWindow.mu.Lock()
	if stopwatchWindow.last != nil && *stopwatchWindow.last == view {
		stopwatchWindow.mu.Unlock()
		return nil
	}
	stopwatchWindow.last = &view
	stopwatchWindow.mu.Unlock()

	frame := display.Render(view, stopwatchWindow.layout)
	fyne.Do(func() {
		stopwatchWindow.screen.setFrame(frame)
	})
	return nil
}

// Clear implements display.Screen.
func (stopwatchWindow *Window) Clear() error {
	stopwatchWindow.mu.Lock()
	stopwatchWindow.last = nil
	stopwatchWindow.mu.Unlock()

	blank := image.NewRGBA(image.Rect(0, 0, display.Width, display.Height))
	fyne.Do(func() {
		stopwatchWindow.screen.setFrame(blank)
	})
	return nil
}

// Present brings the window to the front.
func (stopwatchWindow *Window) Present() {
	stopwatchWindow.window.Show()
	stopwatchWindow.window.RequestFocus()
}

// QuitOnClose makes closing the window quit app instead of hiding it, for
// desktops without a system tray.
func (stopwatchWindow *Window) QuitOnClose(app fyne.App) {
	stopwatchWindow.window.SetCloseIntercept(app.Quit)
}

func (stopwatchWindow *Window) tap(point touch.Point) {
	if stopwatchWindow.taps != nil {
		stopwatchWindow.taps.Push(point)
	}
}

// typedKey maps space to START/STOP and R to RESET.
func (stopwatchWindow *Window) typedKey(event *fyne.KeyEvent) {
	switch event.Name {
	case fyne.KeySpace, fyne.KeyReturn:
		stopwatchWindow.tap(stopwatchWindow.layout.StartStop.Center())
	case fyne.KeyR, fyne.KeyBackspace:
		stopwatchWindow.tap(stopwatchWindow.layout.Reset.Center())
	}
}

// framePoint converts a position inside a widget of the given size into
// frame coordinates.
func framePoint(position fyne.Position, size fyne.Size) touch.Point {
	if size.Width <= 0 || size.Height <= 0 {
		return touch.Point{}
	}
	x := int(position.X / size.Width * display.Width)
	y := int(position.Y / size.Height * display.Height)
	return touch.Point{X: clamp(x, display.Width-1), Y: clamp(y, display.Height-1)}
}

func clamp(value, hi int) int {
	if value < 0 {
		return 0
	}
	if value > hi {
		return hi
	}
	return value
}

// screenWidget shows a frame stretched over its area and reports taps in
// frame coordinates.
type screenWidget struct {
	widget.BaseWidget
	image *canvas.Image
	onTap func(touch.Point)
}

func newScreenWidget(onTap func(touch.Point)) *screenWidget {
	screen := &screenWidget{
		image: canvas.NewImageFromImage(nil),
		onTap: onTap,
	}
	screen.image.FillMode = canvas.ImageFillStretch
	screen.image.ScaleMode = canvas.ImageScalePixels
	screen.ExtendBaseWidget(screen)
	return screen
}

func (screen *screenWidget) setFrame(frame image.Image) {
	screen.image.Image = frame
	screen.image.Refresh()
}

// Tapped implements fyne.Tappable.
func (screen *screenWidget) Tapped(event *fyne.PointEvent) {
	if screen.onTap != nil {
		screen.onTap(framePoint(event.Position, screen.Size()))
	}
}

// MinSize keeps the frame at its native size.
func (screen *screenWidget) MinSize() fyne.Size {
	return fyne.NewSize(display.Width, display.Height)
}

// CreateRenderer implements fyne.Widget.
func (screen *screenWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(screen.image)
}
