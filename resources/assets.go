package resources

import (
	"embed"
	"sync"

	"cydwatch/internal/device/led"

	"fyne.io/fyne/v2"
	"github.com/pkg/errors"
)

const iconDir = "icons/"

//go:embed icons/*.svg
var iconFS embed.FS

var iconCache sync.Map

// Icon returns a Fyne resource for the given icon file.
func Icon(fileName string) (fyne.Resource, error) {
	path := iconDir + fileName
	if cached, ok := iconCache.Load(path); ok {
		return cached.(fyne.Resource), nil
	}

	data, err := iconFS.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load icon %s", path)
	}

	resource := fyne.NewStaticResource(fileName, data)
	iconCache.Store(path, resource)
	return resource, nil
}

// MustIcon returns a Fyne resource or panics on error.
func MustIcon(fileName string) fyne.Resource {
	resource, err := Icon(fileName)
	if err != nil {
		panic(err)
	}
	return resource
}

// StateIcon returns the tray icon for an indicator state.
func StateIcon(state led.State) fyne.Resource {
	switch state {
	case led.Ready:
		return MustIcon("ready.svg")
	case led.Running:
		return MustIcon("running.svg")
	case led.Stopped:
		return MustIcon("stopped.svg")
	default:
		return MustIcon("off.svg")
	}
}
