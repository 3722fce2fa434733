package window

import (
	"testing"

	"cydwatch/internal/device/display"
	"cydwatch/internal/device/touch"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramePoint(t *testing.T) {
	size := fyne.NewSize(640, 480)
	assert.Equal(t, touch.Point{X: 100, Y: 200}, framePoint(fyne.NewPos(200, 400), size))
	assert.Equal(t, touch.Point{X: 0, Y: 0}, framePoint(fyne.NewPos(-5, -5), size))
	assert.Equal(t, touch.Point{X: display.Width - 1, Y: display.Height - 1}, framePoint(fyne.NewPos(640, 480), size))
	assert.Equal(t, touch.Point{}, framePoint(fyne.NewPos(10, 10), fyne.Size{}))
}

func TestKeysMapToButtons(t *testing.T) {
	queue := touch.NewQueue(4)
	layout := touch.DefaultLayout()
	stopwatchWindow := &Window{layout: layout, taps: queue}

	stopwatchWindow.typedKey(&fyne.KeyEvent{Name: fyne.KeySpace})
	point, ok, err := queue.Touch()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, touch.ButtonStartStop, layout.Hit(point))

	_, ok, _ = queue.Touch()
	assert.False(t, ok)

	stopwatchWindow.typedKey(&fyne.KeyEvent{Name: fyne.KeyR})
	point, ok, _ = queue.Touch()
	require.True(t, ok)
	assert.Equal(t, touch.ButtonReset, layout.Hit(point))

	stopwatchWindow.typedKey(&fyne.KeyEvent{Name: fyne.KeyA})
	_, _, _ = queue.Touch()
	_, ok, _ = queue.Touch()
	assert.False(t, ok)
}

func TestTapPushesFramePoint(t *testing.T) {
	app := test.NewTempApp(t)
	queue := touch.NewQueue(4)
	stopwatchWindow := New(app, touch.DefaultLayout(), queue)
	stopwatchWindow.screen.Resize(fyne.NewSize(display.Width*scale, display.Height*scale))

	test.TapAt(stopwatchWindow.screen, fyne.NewPos(200, 400))
	point, ok, err := queue.Touch()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, touch.Point{X: 100, Y: 200}, point)
}

func TestShowSkipsUnchangedView(t *testing.T) {
	app := test.NewTempApp(t)
	stopwatchWindow := New(app, touch.DefaultLayout(), nil)

	require.NoError(t, stopwatchWindow.Show(display.View{Elapsed: 5}))
	first := stopwatchWindow.screen.image.Image
	require.NoError(t, stopwatchWindow.Show(display.View{Elapsed: 5}))
	assert.Same(t, first, stopwatchWindow.screen.image.Image)

	require.NoError(t, stopwatchWindow.Clear())
	assert.NotSame(t, first, stopwatchWindow.screen.image.Image)
}
