package tray

import (
	"fmt"
	"sync"

	"cydwatch/internal/device/led"
	"cydwatch/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStartStop   func()
	OnReset       func()
	OnShowWindow  func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state. It is the status indicator of the
// desktop build: Set switches the tray icon the way the RGB LED switches
// colour on the device.
type Manager struct {
	mu            sync.Mutex
	app           desktop.App
	callbacks     Callbacks
	do            func(func())
	state         led.State
	pending       led.State
	statusItem    *fyne.MenuItem
	startStopItem *fyne.MenuItem
	resetItem     *fyne.MenuItem
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		do:        fyne.Do,
		pending:   led.Ready,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true
	manager.startStopItem = fyne.NewMenuItem("Start", func() {
		if manager.callbacks.OnStartStop != nil {
			manager.callbacks.OnStartStop()
		}
	})
	manager.resetItem = fyne.NewMenuItem("Reset", func() {
		if manager.callbacks.OnReset != nil {
			manager.callbacks.OnReset()
		}
	})

	manager.applyLocked(led.Ready)
	return manager
}

// Set implements led.Indicator. The menu is updated on the fyne goroutine;
// pending tracks the last requested state so that a change queued behind an
// earlier one is never dropped.
func (manager *Manager) Set(state led.State) error {
	manager.mu.Lock()
	unchanged := state == manager.pending
	manager.pending = state
	manager.mu.Unlock()
	if unchanged {
		return nil
	}
	manager.do(func() {
		manager.mu.Lock()
		defer manager.mu.Unlock()
		manager.applyLocked(state)
	})
	return nil
}

// State returns the state currently shown.
func (manager *Manager) State() led.State {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return manager.state
}

func (manager *Manager) applyLocked(state led.State) {
	manager.state = state
	manager.statusItem.Label = fmt.Sprintf("Status: %s", state)
	if state == led.Running {
		manager.startStopItem.Label = "Stop"
	} else {
		manager.startStopItem.Label = "Start"
	}
	manager.resetItem.Disabled = state == led.Ready

	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayIcon(resources.StateIcon(state))
	manager.app.SetSystemTrayMenu(manager.menu())
}

func (manager *Manager) menu() *fyne.Menu {
	return fyne.NewMenu("CYD Stopwatch",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.startStopItem,
		manager.resetItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show stopwatch", func() {
			if manager.callbacks.OnShowWindow != nil {
				manager.callbacks.OnShowWindow()
			}
		}),
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	)
}
