package app

import (
	"context"
	"sync"
	"time"

	"cydwatch/internal/core/model"
	"cydwatch/internal/core/stopwatch"
	"cydwatch/internal/core/ticks"
	"cydwatch/internal/device/display"
	"cydwatch/internal/device/led"
	"cydwatch/internal/device/light"
	"cydwatch/internal/device/touch"
	"cydwatch/internal/logging"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	lightInterval   uint64 = 1000
	messageDuration uint64 = 2000
)

// Options holds the collaborators of a Controller. Light is optional.
type Options struct {
	Stopwatch *stopwatch.Stopwatch
	Touch     touch.Source
	Layout    touch.Layout
	Screen    display.Screen
	Indicator led.Indicator
	Light     light.Sensor
	Config    model.Config
	Log       *logrus.Entry
	Now       ticks.Source
}

// Controller owns the poll loop that connects touch input, the stopwatch,
// the screen and the status LED. Run must be called from one goroutine only.
type Controller struct {
	watch     *stopwatch.Stopwatch
	source    touch.Source
	layout    touch.Layout
	screen    display.Screen
	indicator led.Indicator
	sensor    light.Sensor
	config    model.Config
	log       *logrus.Entry
	now       ticks.Source

	debouncer *touch.Debouncer
	pressed   bool
	ledState  led.State
	ledKnown  bool

	lightLevel int
	lightRead  ticks.Tick
	lightKnown bool

	message      string
	messageSince ticks.Tick

	touchErrors   rate.Sometimes
	displayErrors rate.Sometimes
	lightErrors   rate.Sometimes

	mu          sync.Mutex
	pending     *model.Config
	reconfigure chan struct{}
}

// New creates a Controller. Missing optional collaborators get no-op defaults.
func New(opts Options) *Controller {
	now := opts.Now
	if now == nil {
		now = ticks.System()
	}
	watch := opts.Stopwatch
	if watch == nil {
		watch = stopwatch.New(now)
	}
	indicator := opts.Indicator
	if indicator == nil {
		indicator = led.Disabled{}
	}
	logger := opts.Log
	if logger == nil {
		logger = logging.Discard()
	}
	layout := opts.Layout
	if layout == (touch.Layout{}) {
		layout = touch.DefaultLayout()
	}

	return &Controller{
		watch:         watch,
		source:        opts.Touch,
		layout:        layout,
		screen:        opts.Screen,
		indicator:     indicator,
		sensor:        opts.Light,
		config:        opts.Config,
		log:           logger,
		now:           now,
		debouncer:     touch.NewDebouncer(opts.Config.Touch.Debounce),
		touchErrors:   rate.Sometimes{First: 1, Interval: 3 * time.Second},
		displayErrors: rate.Sometimes{First: 1, Interval: 3 * time.Second},
		lightErrors:   rate.Sometimes{First: 1, Interval: 30 * time.Second},
		reconfigure:   make(chan struct{}, 1),
	}
}

// Stopwatch returns the stopwatch driven by the controller.
func (controller *Controller) Stopwatch() *stopwatch.Stopwatch {
	return controller.watch
}

// UpdateConfig hands new settings to a running controller. Run applies the
// most recent one on its next loop iteration; earlier pending updates are
// superseded. Hardware selection and the web monitor are not affected.
func (controller *Controller) UpdateConfig(config model.Config) {
	controller.mu.Lock()
	controller.pending = &config
	controller.mu.Unlock()

	select {
	case controller.reconfigure <- struct{}{}:
	default:
	}
}

// Run polls touch input and refreshes the screen until ctx is cancelled.
// The LED is switched off and the screen cleared before it returns.
func (controller *Controller) Run(ctx context.Context) error {
	if delay := controller.config.StartupDelay; delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
	defer controller.cleanup()

	controller.log.WithFields(logrus.Fields{
		"poll_interval":   controller.config.Touch.PollInterval,
		"update_interval": controller.config.Display.UpdateInterval,
	}).Info("stopwatch ready")
	controller.refresh()

	pollTicker := time.NewTicker(positive(controller.config.Touch.PollInterval, 10*time.Millisecond))
	defer pollTicker.Stop()
	displayTicker := time.NewTicker(positive(controller.config.Display.UpdateInterval, 100*time.Millisecond))
	defer displayTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pollTicker.C:
			controller.poll()
		case <-displayTicker.C:
			controller.refresh()
		case <-controller.reconfigure:
			if controller.applyPending() {
				pollTicker.Reset(positive(controller.config.Touch.PollInterval, 10*time.Millisecond))
				displayTicker.Reset(positive(controller.config.Display.UpdateInterval, 100*time.Millisecond))
			}
		}
	}
}

// applyPending swaps in the config queued by UpdateConfig and redraws with
// it. It reports whether there was anything to apply.
func (controller *Controller) applyPending() bool {
	controller.mu.Lock()
	pending := controller.pending
	controller.pending = nil
	controller.mu.Unlock()
	if pending == nil {
		return false
	}

	config := *pending
	if config.Touch.Debounce != controller.config.Touch.Debounce {
		controller.debouncer = touch.NewDebouncer(config.Touch.Debounce)
	}
	if config.LogLevel != controller.config.LogLevel && config.LogLevel != "" {
		level, err := logrus.ParseLevel(config.LogLevel)
		if err != nil {
			controller.log.WithError(err).Warn("ignoring log level")
		} else {
			controller.log.Logger.SetLevel(level)
		}
	}
	controller.config = config

	controller.log.WithFields(logrus.Fields{
		"poll_interval":     config.Touch.PollInterval,
		"update_interval":   config.Display.UpdateInterval,
		"debounce":          config.Touch.Debounce,
		"show_milliseconds": config.Display.ShowMilliseconds,
	}).Info("settings applied")
	controller.refresh()
	return true
}

// poll reads the touch source once and acts on a new press.
func (controller *Controller) poll() {
	if controller.source == nil {
		return
	}
	point, ok, err := controller.source.Touch()
	if err != nil {
		controller.pressed = false
		controller.touchErrors.Do(func() {
			controller.log.WithError(err).Warn("touch read failed")
		})
		controller.showMessage("Touch error")
		return
	}
	if !ok {
		controller.pressed = false
		return
	}
	if controller.pressed {
		return
	}
	controller.pressed = true

	button := controller.layout.Hit(point)
	if button == touch.ButtonNone {
		return
	}
	if !controller.debouncer.Accept(controller.now()) {
		controller.log.WithField("button", button).Debug("touch debounced")
		return
	}
	controller.press(button)
}

// press applies a button action and refreshes the outputs immediately.
func (controller *Controller) press(button touch.Button) {
	controller.log.WithField("button", button).Debug("button pressed")
	switch button {
	case touch.ButtonStartStop:
		if controller.watch.IsRunning() {
			controller.watch.Stop()
			controller.logSession()
		} else {
			controller.watch.Start()
		}
	case touch.ButtonReset:
		controller.watch.Reset()
	default:
		return
	}
	controller.refresh()
}

// refresh pushes the current state to the LED and the screen.
func (controller *Controller) refresh() {
	stats := controller.watch.SessionStats()
	controller.updateLED(led.StateFor(stats.TotalMS, stats.IsRunning))

	if controller.screen == nil {
		return
	}
	view := display.View{
		Elapsed:          stats.TotalMS,
		Running:          stats.IsRunning,
		ShowMilliseconds: controller.config.Display.ShowMilliseconds,
		Message:          controller.currentMessage(),
	}
	if controller.sensor != nil {
		view.ShowLight = true
		view.LightLevel = controller.readLight()
	}
	if err := controller.screen.Show(view); err != nil {
		controller.displayErrors.Do(func() {
			controller.log.WithError(err).Warn("display update failed")
		})
	}
}

func (controller *Controller) updateLED(state led.State) {
	if controller.ledKnown && state == controller.ledState {
		return
	}
	if err := controller.indicator.Set(state); err != nil {
		controller.log.WithError(err).WithField("state", state).Warn("led update failed")
		return
	}
	controller.ledState = state
	controller.ledKnown = true
}

// readLight returns the cached light level, sampling the sensor at most once per second.
func (controller *Controller) readLight() int {
	now := controller.now()
	if controller.lightKnown && ticks.Diff(now, controller.lightRead) < lightInterval {
		return controller.lightLevel
	}
	level, err := controller.sensor.Level()
	if err != nil {
		controller.lightErrors.Do(func() {
			controller.log.WithError(err).Warn("light sensor read failed")
		})
	}
	controller.lightLevel = level
	controller.lightRead = now
	controller.lightKnown = true
	return level
}

func (controller *Controller) showMessage(message string) {
	controller.message = message
	controller.messageSince = controller.now()
}

func (controller *Controller) currentMessage() string {
	if controller.message == "" {
		return ""
	}
	if ticks.Diff(controller.now(), controller.messageSince) >= messageDuration {
		controller.message = ""
	}
	return controller.message
}

func (controller *Controller) logSession() {
	stats := controller.watch.SessionStats()
	if stats.TotalMS == 0 {
		return
	}
	controller.log.WithFields(logrus.Fields{
		"total_ms":  stats.TotalMS,
		"elapsed":   ticks.Duration(stats.TotalMS),
		"formatted": stats.Formatted,
		"minimal":   stopwatch.Format(stats.TotalMS, stopwatch.StyleMinimal),
	}).Info("session stopped")
}

func (controller *Controller) cleanup() {
	if err := controller.indicator.Set(led.Off); err != nil {
		controller.log.WithError(err).Warn("led shutdown failed")
	}
	controller.ledKnown = false
	if controller.screen != nil {
		if err := controller.screen.Clear(); err != nil {
			controller.log.WithError(err).Warn("display cleanup failed")
		}
	}
	controller.log.Info("stopwatch stopped")
}

func positive(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}
