package display

import (
	"fmt"
	"image"
	"image/color"

	"cydwatch/internal/core/stopwatch"
	"cydwatch/internal/device/touch"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	// Width and Height are the logical frame size; panels of other sizes get a scaled copy.
	Width  = 320
	Height = 240

	timeScale = 3
)

var (
	colorBlack    = color.RGBA{0, 0, 0, 255}
	colorWhite    = color.RGBA{255, 255, 255, 255}
	colorRed      = color.RGBA{255, 0, 0, 255}
	colorGreen    = color.RGBA{0, 255, 0, 255}
	colorBlue     = color.RGBA{0, 128, 255, 255}
	colorYellow   = color.RGBA{255, 255, 0, 255}
	colorCyan     = color.RGBA{0, 255, 255, 255}
	colorDarkGray = color.RGBA{64, 64, 64, 255}
)

// View is everything one frame shows.
type View struct {
	Elapsed          uint64
	Running          bool
	ShowMilliseconds bool
	ShowLight        bool
	LightLevel       int
	// Message, when set, is drawn as a banner over the time.
	Message string
}

// Status returns the word shown in the status bar.
func (view View) Status() string {
	switch {
	case view.Running:
		return "Running"
	case view.Elapsed > 0:
		return "Stopped"
	default:
		return "Ready"
	}
}

// TimeText returns the time string shown in large digits.
func (view View) TimeText() string {
	if view.ShowMilliseconds {
		return stopwatch.Format(view.Elapsed, stopwatch.StyleFull)
	}
	return stopwatch.Format(view.Elapsed, stopwatch.StyleShort)
}

// StartStopLabel returns the label of the left button.
func (view View) StartStopLabel() string {
	if view.Running {
		return "STOP"
	}
	return "START"
}

// blink reports whether the running dot is lit; it toggles every 500 ms.
func (view View) blink() bool {
	return view.Running && (view.Elapsed/500)%2 == 1
}

// Render draws view into a new Width x Height frame.
func Render(view View, layout touch.Layout) *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, Width, Height))
	fill(frame, frame.Bounds(), colorBlack)

	title := "CYD STOPWATCH"
	drawText(frame, (Width-textWidth(title))/2, 24, title, colorYellow)

	timeColor := color.Color(colorWhite)
	if view.Running {
		timeColor = colorGreen
	}
	drawLargeText(frame, 90, view.TimeText(), timeColor)
	if view.blink() {
		fillCircle(frame, 300, 90, 5, colorRed)
	}

	drawButton(frame, layout.StartStop, view.StartStopLabel())
	drawButton(frame, layout.Reset, "RESET")

	statusColor := colorBlue
	switch view.Status() {
	case "Running":
		statusColor = colorGreen
	case "Stopped":
		statusColor = colorRed
	}
	drawText(frame, 5, 236, "Status: ", colorCyan)
	drawText(frame, 5+textWidth("Status: "), 236, view.Status(), statusColor)
	if view.ShowLight {
		drawText(frame, 200, 236, fmt.Sprintf("Light: %dk", view.LightLevel/1000), colorCyan)
	}

	if view.Message != "" {
		banner := image.Rect(50, 100, 270, 140)
		fill(frame, banner, colorBlack)
		stroke(frame, banner, colorYellow)
		drawText(frame, (Width-textWidth(view.Message))/2, 124, view.Message, colorYellow)
	}
	return frame
}

func drawButton(dst draw.Image, area touch.Rect, label string) {
	rect := image.Rect(area.X, area.Y, area.X+area.W, area.Y+area.H)
	fill(dst, rect, colorDarkGray)
	stroke(dst, rect, colorWhite)
	x := area.X + (area.W-textWidth(label))/2
	y := area.Y + (area.H+basicfont.Face7x13.Ascent)/2
	drawText(dst, x, y, label, colorWhite)
}

func textWidth(text string) int {
	return font.MeasureString(basicfont.Face7x13, text).Ceil()
}

// drawText draws text with its baseline at y.
func drawText(dst draw.Image, x, y int, text string, c color.Color) {
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}

// drawLargeText draws text horizontally centred, timeScale times the base
// font size, with its vertical centre at centerY.
func drawLargeText(dst draw.Image, centerY int, text string, c color.Color) {
	face := basicfont.Face7x13
	width := textWidth(text)
	glyphs := image.NewRGBA(image.Rect(0, 0, width, face.Height))
	drawText(glyphs, 0, face.Ascent, text, c)

	scaledWidth := width * timeScale
	scaledHeight := face.Height * timeScale
	x := (dst.Bounds().Dx() - scaledWidth) / 2
	y := centerY - scaledHeight/2
	target := image.Rect(x, y, x+scaledWidth, y+scaledHeight)
	draw.NearestNeighbor.Scale(dst, target, glyphs, glyphs.Bounds(), draw.Over, nil)
}

func fill(dst draw.Image, rect image.Rectangle, c color.Color) {
	draw.Draw(dst, rect, image.NewUniform(c), image.Point{}, draw.Src)
}

func stroke(dst draw.Image, rect image.Rectangle, c color.Color) {
	fill(dst, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+1), c)
	fill(dst, image.Rect(rect.Min.X, rect.Max.Y-1, rect.Max.X, rect.Max.Y), c)
	fill(dst, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+1, rect.Max.Y), c)
	fill(dst, image.Rect(rect.Max.X-1, rect.Min.Y, rect.Max.X, rect.Max.Y), c)
}

func fillCircle(dst draw.Image, cx, cy, radius int, c color.Color) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				dst.Set(cx+dx, cy+dy, c)
			}
		}
	}
}
