package tray

import (
	"testing"

	"cydwatch/internal/device/led"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetUpdatesMenu(t *testing.T) {
	test.NewTempApp(t)
	manager := New(nil, Callbacks{})
	assert.Equal(t, led.Ready, manager.State())
	assert.Equal(t, "Status: ready", manager.statusItem.Label)
	assert.True(t, manager.resetItem.Disabled)

	require.NoError(t, manager.Set(led.Running))
	assert.Equal(t, led.Running, manager.State())
	assert.Equal(t, "Stop", manager.startStopItem.Label)
	assert.False(t, manager.resetItem.Disabled)

	require.NoError(t, manager.Set(led.Stopped))
	assert.Equal(t, "Status: stopped", manager.statusItem.Label)
	assert.Equal(t, "Start", manager.startStopItem.Label)
}

func TestMenuActions(t *testing.T) {
	var started, reset, shown, prefs, quit int
	manager := New(nil, Callbacks{
		OnStartStop:   func() { started++ },
		OnReset:       func() { reset++ },
		OnShowWindow:  func() { shown++ },
		OnPreferences: func() { prefs++ },
		OnQuit:        func() { quit++ },
	})

	menu := manager.menu()
	labels := make(map[string]func())
	for _, item := range menu.Items {
		labels[item.Label] = item.Action
	}

	labels["Start"]()
	labels["Reset"]()
	labels["Show stopwatch"]()
	labels["Preferences"]()
	labels["Quit"]()
	assert.Equal(t, []int{1, 1, 1, 1, 1}, []int{started, reset, shown, prefs, quit})
}

func TestSetKeepsChangesQueuedBehindEachOther(t *testing.T) {
	manager := New(nil, Callbacks{})
	var queued []func()
	manager.do = func(fn func()) { queued = append(queued, fn) }

	require.NoError(t, manager.Set(led.Running))
	require.NoError(t, manager.Set(led.Ready))
	require.NoError(t, manager.Set(led.Ready))
	assert.Len(t, queued, 2)
	assert.Equal(t, led.Ready, manager.State())

	queued[0]()
	assert.Equal(t, led.Running, manager.State())
	queued[1]()
	assert.Equal(t, led.Ready, manager.State())
	assert.Equal(t, "Status: ready", manager.statusItem.Label)
	assert.True(t, manager.resetItem.Disabled)
}
