package preferences

import (
	"testing"
	"time"

	"cydwatch/internal/core/model"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveMergesForm(t *testing.T) {
	app := test.NewTempApp(t)
	var saved *model.Config
	prefs := New(app, model.DefaultConfig(), func(config model.Config) {
		saved = &config
	})

	assert.Equal(t, "100", prefs.update.Text)
	assert.Equal(t, "200", prefs.debounce.Text)

	prefs.update.SetText("250")
	prefs.debounce.SetText("not a number")
	prefs.webOn.SetChecked(true)
	prefs.webAddr.SetText(" :9090 ")
	prefs.webPush.SetText("-5")
	prefs.showMS.SetChecked(false)
	prefs.logLevel.SetSelected("debug")
	prefs.handleSave()

	require.NotNil(t, saved)
	assert.Equal(t, 250*time.Millisecond, saved.Display.UpdateInterval)
	assert.Equal(t, 200*time.Millisecond, saved.Touch.Debounce)
	assert.True(t, saved.Web.Enabled)
	assert.Equal(t, ":9090", saved.Web.Addr)
	assert.Equal(t, time.Second, saved.Web.PushInterval)
	assert.False(t, saved.Display.ShowMilliseconds)
	assert.Equal(t, "debug", saved.LogLevel)
	assert.Equal(t, "GPIO36", saved.Touch.IRQPin)
}

func TestParsePositiveInt(t *testing.T) {
	value, ok := parsePositiveInt(" 42 ")
	assert.True(t, ok)
	assert.Equal(t, 42, value)

	_, ok = parsePositiveInt("0")
	assert.False(t, ok)
	_, ok = parsePositiveInt("x")
	assert.False(t, ok)
}
