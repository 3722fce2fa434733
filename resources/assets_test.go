package resources

import (
	"testing"

	"cydwatch/internal/device/led"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateIcons(t *testing.T) {
	for _, state := range []led.State{led.Off, led.Ready, led.Running, led.Stopped} {
		icon := StateIcon(state)
		require.NotNil(t, icon, state.String())
		assert.Contains(t, string(icon.Content()), "<svg")
	}
	assert.Equal(t, "running.svg", StateIcon(led.Running).Name())
}

func TestIconIsCached(t *testing.T) {
	first, err := Icon("ready.svg")
	require.NoError(t, err)
	second, err := Icon("ready.svg")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestMissingIcon(t *testing.T) {
	_, err := Icon("missing.svg")
	assert.Error(t, err)
	assert.Panics(t, func() { MustIcon("missing.svg") })
}
