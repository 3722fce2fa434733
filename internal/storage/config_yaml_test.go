package storage

import (
	"testing"
	"time"

	"cydwatch/internal/core/model"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPath = "/etc/cydwatch/config.yaml"

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	config, err := LoadConfig(afero.NewMemMapFs(), testPath)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfig(), config)
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testPath, []byte(`
display_update_interval_ms: 250
show_milliseconds: false
touch_debounce_ms: 300
led_enabled: false
web_monitor_enabled: true
web_monitor_addr: "127.0.0.1:9000"
startup_delay_ms: 0
log_level: debug
`), 0o644))

	config, err := LoadConfig(fs, testPath)
	require.NoError(t, err)

	defaults := model.DefaultConfig()
	assert.Equal(t, 250*time.Millisecond, config.Display.UpdateInterval)
	assert.False(t, config.Display.ShowMilliseconds)
	assert.Equal(t, 300*time.Millisecond, config.Touch.Debounce)
	assert.Equal(t, defaults.Touch.PollInterval, config.Touch.PollInterval)
	assert.False(t, config.LED.Enabled)
	assert.Equal(t, defaults.LED.RedPin, config.LED.RedPin)
	assert.True(t, config.Light.Enabled)
	assert.True(t, config.Web.Enabled)
	assert.Equal(t, "127.0.0.1:9000", config.Web.Addr)
	assert.Equal(t, time.Duration(0), config.StartupDelay)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testPath, []byte(`
display_update_interval_ms: -5
light_channel: 9
startup_delay_ms: -1
`), 0o644))

	config, err := LoadConfig(fs, testPath)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfig(), config)
}

func TestLoadRejectsMalformedYaml(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testPath, []byte("display_update_interval_ms: [1, 2"), 0o644))

	config, err := LoadConfig(fs, testPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config yaml")
	assert.Equal(t, model.DefaultConfig(), config)
}

func TestSaveThenLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	config := model.DefaultConfig()
	config.Display.UpdateInterval = 50 * time.Millisecond
	config.LED.Enabled = false
	config.Light.Channel = 2
	config.Web.Enabled = true
	config.StartupDelay = 0

	require.NoError(t, SaveConfig(fs, testPath, config))
	exists, err := afero.DirExists(fs, "/etc/cydwatch")
	require.NoError(t, err)
	assert.True(t, exists)

	loaded, err := LoadConfig(fs, testPath)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}
