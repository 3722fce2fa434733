package main

import (
	"context"

	"cydwatch/internal/app"
	"cydwatch/internal/core/model"
	"cydwatch/internal/device/led"
	"cydwatch/internal/device/touch"
	"cydwatch/internal/ui/preferences"
	"cydwatch/internal/ui/tray"
	"cydwatch/internal/ui/window"
	"cydwatch/resources"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"golang.org/x/sync/errgroup"
)

// runDesktop shows the stopwatch in a window, with the tray icon standing in
// for the status LED. It returns when the app quits or ctx is cancelled.
func runDesktop(ctx context.Context, current *session) error {
	log := current.log("desktop")

	fyneApp := fyneapp.NewWithID("com.cydwatch.app")
	fyneApp.SetIcon(resources.MustIcon("ready.svg"))

	layout := touch.DefaultLayout()
	taps := touch.NewQueue(8)
	stopwatchWindow := window.New(fyneApp, layout, taps)

	var controller *app.Controller
	prefsWindow := preferences.New(fyneApp, current.config, func(updated model.Config) {
		if err := current.saveConfig(updated); err != nil {
			log.WithError(err).Error("save settings failed")
			return
		}
		controller.UpdateConfig(updated)
	})

	var indicator led.Indicator = led.Disabled{}
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		indicator = tray.New(desktopApp, tray.Callbacks{
			OnStartStop: func() {
				taps.Push(layout.StartStop.Center())
			},
			OnReset: func() {
				taps.Push(layout.Reset.Center())
			},
			OnShowWindow:  stopwatchWindow.Present,
			OnPreferences: prefsWindow.Show,
			OnQuit:        fyneApp.Quit,
		})
	} else {
		log.Warn("system tray unsupported on this platform")
		stopwatchWindow.QuitOnClose(fyneApp)
	}

	controller = app.New(app.Options{
		Stopwatch: current.watch,
		Touch:     taps,
		Layout:    layout,
		Screen:    stopwatchWindow,
		Indicator: indicator,
		Config:    current.config,
		Log:       current.log("controller"),
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return controller.Run(groupCtx)
	})
	if server := current.webServer(); server != nil {
		group.Go(func() error {
			return server.Run(groupCtx)
		})
	}

	appDone := make(chan struct{})
	go func() {
		select {
		case <-groupCtx.Done():
			fyne.Do(fyneApp.Quit)
		case <-appDone:
		}
	}()

	stopwatchWindow.Present()
	fyneApp.Run()
	close(appDone)
	cancel()
	return group.Wait()
}
