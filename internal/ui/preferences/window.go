package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cydwatch/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

var logLevels = []string{"debug", "info", "warning", "error"}

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	config   model.Config
	onSave   func(model.Config)
	update   *widget.Entry
	debounce *widget.Entry
	showMS   *widget.Check
	showLux  *widget.Check
	webOn    *widget.Check
	webAddr  *widget.Entry
	webPush  *widget.Entry
	logLevel *widget.Select
}

// New creates a preferences window.
func New(app fyne.App, config model.Config, onSave func(model.Config)) *Window {
	window := app.NewWindow("CYD Stopwatch Settings")

	prefs := &Window{
		window:   window,
		onSave:   onSave,
		update:   widget.NewEntry(),
		debounce: widget.NewEntry(),
		showMS:   widget.NewCheck("Show milliseconds", nil),
		showLux:  widget.NewCheck("Show light level", nil),
		webOn:    widget.NewCheck("Enable web monitor (restart required)", nil),
		webAddr:  widget.NewEntry(),
		webPush:  widget.NewEntry(),
		logLevel: widget.NewSelect(logLevels, nil),
	}
	prefs.UpdateConfig(config)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Display", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Refresh every"), prefs.update, widget.NewLabel("ms")),
		prefs.showMS,
		prefs.showLux,
		widget.NewLabelWithStyle("Touch", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Ignore repeat taps within"), prefs.debounce, widget.NewLabel("ms")),
		widget.NewLabelWithStyle("Remote monitor", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.webOn,
		container.NewHBox(widget.NewLabel("Listen on"), prefs.webAddr),
		container.NewHBox(widget.NewLabel("Push every"), prefs.webPush, widget.NewLabel("ms")),
		container.NewHBox(widget.NewLabel("Log level"), prefs.logLevel),
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 460))
	window.SetCloseIntercept(func() {
		window.Hide()
	})
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateConfig replaces window values.
func (prefs *Window) UpdateConfig(config model.Config) {
	prefs.config = config
	prefs.update.SetText(formatMillis(config.Display.UpdateInterval))
	prefs.debounce.SetText(formatMillis(config.Touch.Debounce))
	prefs.showMS.SetChecked(config.Display.ShowMilliseconds)
	prefs.showLux.SetChecked(config.Light.Enabled)
	prefs.webOn.SetChecked(config.Web.Enabled)
	prefs.webAddr.SetText(config.Web.Addr)
	prefs.webPush.SetText(formatMillis(config.Web.PushInterval))
	prefs.logLevel.SetSelected(config.LogLevel)
}

func (prefs *Window) handleSave() {
	prefs.config = prefs.collect()
	if prefs.onSave != nil {
		prefs.onSave(prefs.config)
	}
	prefs.window.Hide()
}

// collect merges the form into the current config. Fields that do not
// parse keep their previous values.
func (prefs *Window) collect() model.Config {
	config := prefs.config

	if ms, ok := parsePositiveInt(prefs.update.Text); ok {
		config.Display.UpdateInterval = time.Duration(ms) * time.Millisecond
	}
	if ms, ok := parsePositiveInt(prefs.debounce.Text); ok {
		config.Touch.Debounce = time.Duration(ms) * time.Millisecond
	}
	if ms, ok := parsePositiveInt(prefs.webPush.Text); ok {
		config.Web.PushInterval = time.Duration(ms) * time.Millisecond
	}
	if addr := strings.TrimSpace(prefs.webAddr.Text); addr != "" {
		config.Web.Addr = addr
	}
	if prefs.logLevel.Selected != "" {
		config.LogLevel = prefs.logLevel.Selected
	}

	config.Display.ShowMilliseconds = prefs.showMS.Checked
	config.Light.Enabled = prefs.showLux.Checked
	config.Web.Enabled = prefs.webOn.Checked
	return config
}

func formatMillis(value time.Duration) string {
	return fmt.Sprintf("%d", value/time.Millisecond)
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
