package main

import (
	"context"
	"io"

	"cydwatch/internal/app"
	"cydwatch/internal/core/model"
	"cydwatch/internal/device/display"
	"cydwatch/internal/device/led"
	"cydwatch/internal/device/light"
	"cydwatch/internal/device/touch"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

const touchClock = 2 * physic.MegaHertz

// hardware holds the opened peripherals. Touch and the screen are required,
// the LED and the light sensor fall back to nothing when unavailable.
type hardware struct {
	touch     touch.Source
	screen    display.Screen
	indicator led.Indicator
	light     light.Sensor
	closers   []io.Closer
}

func (hw *hardware) close() {
	for i := len(hw.closers) - 1; i >= 0; i-- {
		_ = hw.closers[i].Close()
	}
}

// runDevice drives the physical panel until ctx is cancelled.
func runDevice(ctx context.Context, current *session) error {
	if _, err := host.Init(); err != nil {
		return errors.Wrap(err, "initialize periph host")
	}

	layout := touch.DefaultLayout()
	hw, err := openHardware(current.config, layout, current.log("device"))
	if err != nil {
		return err
	}
	defer hw.close()

	controller := app.New(app.Options{
		Stopwatch: current.watch,
		Touch:     hw.touch,
		Layout:    layout,
		Screen:    hw.screen,
		Indicator: hw.indicator,
		Light:     hw.light,
		Config:    current.config,
		Log:       current.log("controller"),
	})

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return controller.Run(groupCtx)
	})
	if server := current.webServer(); server != nil {
		group.Go(func() error {
			return server.Run(groupCtx)
		})
	}
	return group.Wait()
}

func openHardware(config model.Config, layout touch.Layout, log *logrus.Entry) (*hardware, error) {
	hw := &hardware{indicator: led.Disabled{}}
	ok := false
	defer func() {
		if !ok {
			hw.close()
		}
	}()

	source, err := openTouch(config.Touch, hw)
	if err != nil {
		return nil, err
	}
	hw.touch = source

	buses := map[string]i2c.Bus{}
	displayBus, err := openBus(config.Display.I2CBus, buses, hw)
	if err != nil {
		return nil, err
	}
	panel, err := display.OpenSSD1306(displayBus)
	if err != nil {
		return nil, err
	}
	hw.screen = display.NewPanelScreen(panel, layout)

	if config.LED.Enabled {
		indicator, err := openLED(config.LED)
		if err != nil {
			log.WithError(err).Warn("status led unavailable")
		} else {
			hw.indicator = indicator
		}
	}

	if config.Light.Enabled {
		sensor, err := openLight(config.Light, buses, hw)
		if err != nil {
			log.WithError(err).Warn("light sensor unavailable")
		} else {
			hw.light = sensor
		}
	}

	log.WithFields(logrus.Fields{
		"led":   config.LED.Enabled,
		"light": hw.light != nil,
	}).Info("hardware ready")
	ok = true
	return hw, nil
}

func openTouch(config model.TouchConfig, hw *hardware) (touch.Source, error) {
	port, err := spireg.Open(config.SPIPort)
	if err != nil {
		return nil, errors.Wrapf(err, "open spi port %q", config.SPIPort)
	}
	hw.closers = append(hw.closers, port)

	c, err := port.Connect(touchClock, spi.Mode0, 8)
	if err != nil {
		return nil, errors.Wrap(err, "connect touch controller")
	}

	var irq gpio.PinIn
	if config.IRQPin != "" {
		pin := gpioreg.ByName(config.IRQPin)
		if pin == nil {
			return nil, errors.Errorf("unknown touch irq pin %q", config.IRQPin)
		}
		irq = pin
	}

	controller, err := touch.NewXPT2046(c, irq, nil)
	if err != nil {
		return nil, err
	}
	return touch.NewStable(controller, config.Stability), nil
}

func openBus(name string, buses map[string]i2c.Bus, hw *hardware) (i2c.Bus, error) {
	if bus, ok := buses[name]; ok {
		return bus, nil
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "open i2c bus %q", name)
	}
	hw.closers = append(hw.closers, bus)
	buses[name] = bus
	return bus, nil
}

func openLED(config model.LEDConfig) (*led.RGB, error) {
	pins := make([]gpio.PinOut, 0, 3)
	for _, name := range []string{config.RedPin, config.GreenPin, config.BluePin} {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, errors.Errorf("unknown led pin %q", name)
		}
		pins = append(pins, pin)
	}
	return led.NewRGB(pins[0], pins[1], pins[2])
}

func openLight(config model.LightConfig, buses map[string]i2c.Bus, hw *hardware) (light.Sensor, error) {
	bus, err := openBus(config.I2CBus, buses, hw)
	if err != nil {
		return nil, err
	}
	adc, err := light.NewADS1115(bus, config.Channel)
	if err != nil {
		return nil, err
	}
	return light.NewAveraged(adc), nil
}
