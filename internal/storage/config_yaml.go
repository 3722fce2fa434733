package storage

import (
	"os"
	"path/filepath"
	"time"

	"cydwatch/internal/core/model"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

type yamlConfig struct {
	DisplayUpdateIntervalMS int    `yaml:"display_update_interval_ms,omitempty"`
	ShowMilliseconds        *bool  `yaml:"show_milliseconds,omitempty"`
	DisplayI2CBus           string `yaml:"display_i2c_bus,omitempty"`

	TouchPollIntervalMS int    `yaml:"touch_poll_interval_ms,omitempty"`
	TouchDebounceMS     int    `yaml:"touch_debounce_ms,omitempty"`
	TouchStabilityMS    int    `yaml:"touch_stability_ms,omitempty"`
	TouchSPIPort        string `yaml:"touch_spi_port,omitempty"`
	TouchIRQPin         string `yaml:"touch_irq_pin,omitempty"`

	LEDEnabled  *bool  `yaml:"led_enabled,omitempty"`
	LEDRedPin   string `yaml:"led_red_pin,omitempty"`
	LEDGreenPin string `yaml:"led_green_pin,omitempty"`
	LEDBluePin  string `yaml:"led_blue_pin,omitempty"`

	LightEnabled *bool  `yaml:"show_light_sensor,omitempty"`
	LightI2CBus  string `yaml:"light_i2c_bus,omitempty"`
	LightChannel *int   `yaml:"light_channel,omitempty"`

	WebEnabled        *bool  `yaml:"web_monitor_enabled,omitempty"`
	WebAddr           string `yaml:"web_monitor_addr,omitempty"`
	WebPushIntervalMS int    `yaml:"web_push_interval_ms,omitempty"`

	StartupDelayMS *int   `yaml:"startup_delay_ms,omitempty"`
	LogLevel       string `yaml:"log_level,omitempty"`
}

// DefaultPath returns the config file location under the user config directory.
func DefaultPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve user config dir")
	}
	return filepath.Join(configDir, appName, configFileName), nil
}

// LoadConfig reads settings from YAML on top of model.DefaultConfig.
// If the file does not exist, the defaults are returned.
func LoadConfig(fs afero.Fs, path string) (model.Config, error) {
	config := model.DefaultConfig()

	rawData, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, errors.Wrap(err, "read config file")
	}

	var fileData yamlConfig
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return config, errors.Wrap(err, "parse config yaml")
	}

	applyYamlConfig(&config, fileData)
	return config, nil
}

// SaveConfig writes settings to YAML, creating the parent directory.
func SaveConfig(fs afero.Fs, path string, config model.Config) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create config directory")
	}

	serialized, err := yaml.Marshal(toYamlConfig(config))
	if err != nil {
		return errors.Wrap(err, "marshal config yaml")
	}

	if err := afero.WriteFile(fs, path, serialized, 0o644); err != nil {
		return errors.Wrap(err, "write config file")
	}
	return nil
}

func toYamlConfig(config model.Config) yamlConfig {
	startupDelay := int(config.StartupDelay / time.Millisecond)
	channel := config.Light.Channel
	return yamlConfig{
		DisplayUpdateIntervalMS: millis(config.Display.UpdateInterval),
		ShowMilliseconds:        boolPtr(config.Display.ShowMilliseconds),
		DisplayI2CBus:           config.Display.I2CBus,
		TouchPollIntervalMS:     millis(config.Touch.PollInterval),
		TouchDebounceMS:         millis(config.Touch.Debounce),
		TouchStabilityMS:        millis(config.Touch.Stability),
		TouchSPIPort:            config.Touch.SPIPort,
		TouchIRQPin:             config.Touch.IRQPin,
		LEDEnabled:              boolPtr(config.LED.Enabled),
		LEDRedPin:               config.LED.RedPin,
		LEDGreenPin:             config.LED.GreenPin,
		LEDBluePin:              config.LED.BluePin,
		LightEnabled:            boolPtr(config.Light.Enabled),
		LightI2CBus:             config.Light.I2CBus,
		LightChannel:            &channel,
		WebEnabled:              boolPtr(config.Web.Enabled),
		WebAddr:                 config.Web.Addr,
		WebPushIntervalMS:       millis(config.Web.PushInterval),
		StartupDelayMS:          &startupDelay,
		LogLevel:                config.LogLevel,
	}
}

func applyYamlConfig(config *model.Config, fileData yamlConfig) {
	if fileData.DisplayUpdateIntervalMS > 0 {
		config.Display.UpdateInterval = time.Duration(fileData.DisplayUpdateIntervalMS) * time.Millisecond
	}
	if fileData.ShowMilliseconds != nil {
		config.Display.ShowMilliseconds = *fileData.ShowMilliseconds
	}
	if fileData.DisplayI2CBus != "" {
		config.Display.I2CBus = fileData.DisplayI2CBus
	}

	if fileData.TouchPollIntervalMS > 0 {
		config.Touch.PollInterval = time.Duration(fileData.TouchPollIntervalMS) * time.Millisecond
	}
	if fileData.TouchDebounceMS > 0 {
		config.Touch.Debounce = time.Duration(fileData.TouchDebounceMS) * time.Millisecond
	}
	if fileData.TouchStabilityMS > 0 {
		config.Touch.Stability = time.Duration(fileData.TouchStabilityMS) * time.Millisecond
	}
	if fileData.TouchSPIPort != "" {
		config.Touch.SPIPort = fileData.TouchSPIPort
	}
	if fileData.TouchIRQPin != "" {
		config.Touch.IRQPin = fileData.TouchIRQPin
	}

	if fileData.LEDEnabled != nil {
		config.LED.Enabled = *fileData.LEDEnabled
	}
	if fileData.LEDRedPin != "" {
		config.LED.RedPin = fileData.LEDRedPin
	}
	if fileData.LEDGreenPin != "" {
		config.LED.GreenPin = fileData.LEDGreenPin
	}
	if fileData.LEDBluePin != "" {
		config.LED.BluePin = fileData.LEDBluePin
	}

	if fileData.LightEnabled != nil {
		config.Light.Enabled = *fileData.LightEnabled
	}
	if fileData.LightI2CBus != "" {
		config.Light.I2CBus = fileData.LightI2CBus
	}
	if fileData.LightChannel != nil && *fileData.LightChannel >= 0 && *fileData.LightChannel <= 3 {
		config.Light.Channel = *fileData.LightChannel
	}

	if fileData.WebEnabled != nil {
		config.Web.Enabled = *fileData.WebEnabled
	}
	if fileData.WebAddr != "" {
		config.Web.Addr = fileData.WebAddr
	}
	if fileData.WebPushIntervalMS > 0 {
		config.Web.PushInterval = time.Duration(fileData.WebPushIntervalMS) * time.Millisecond
	}

	if fileData.StartupDelayMS != nil && *fileData.StartupDelayMS >= 0 {
		config.StartupDelay = time.Duration(*fileData.StartupDelayMS) * time.Millisecond
	}
	if fileData.LogLevel != "" {
		config.LogLevel = fileData.LogLevel
	}
}

func millis(value time.Duration) int {
	return int(value / time.Millisecond)
}

func boolPtr(value bool) *bool {
	return &value
}
