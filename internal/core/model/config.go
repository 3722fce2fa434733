package model

import "time"

// DisplayConfig describes the panel and refresh policy.
type DisplayConfig struct {
	UpdateInterval   time.Duration
	ShowMilliseconds bool
	I2CBus           string
}

// TouchConfig describes the touch controller and debounce policy.
type TouchConfig struct {
	PollInterval time.Duration
	Debounce     time.Duration
	Stability    time.Duration
	SPIPort      string
	IRQPin       string
}

// LEDConfig describes the active-low RGB status LED.
type LEDConfig struct {
	Enabled  bool
	RedPin   string
	GreenPin string
	BluePin  string
}

// LightConfig describes the optional ambient light sensor.
type LightConfig struct {
	Enabled bool
	I2CBus  string
	Channel int
}

// WebConfig describes the remote monitor.
type WebConfig struct {
	Enabled      bool
	Addr         string
	PushInterval time.Duration
}

// Config contains every setting of the stopwatch appliance. It is resolved
// once at startup and passed by value to the components that need it.
type Config struct {
	Display DisplayConfig
	Touch   TouchConfig
	LED     LEDConfig
	Light   LightConfig
	Web     WebConfig

	StartupDelay time.Duration
	LogLevel     string
}

// DefaultConfig returns the settings used when no config file overrides them.
func DefaultConfig() Config {
	return Config{
		Display: DisplayConfig{
			UpdateInterval:   100 * time.Millisecond,
			ShowMilliseconds: true,
			I2CBus:           "",
		},
		Touch: TouchConfig{
			PollInterval: 10 * time.Millisecond,
			Debounce:     200 * time.Millisecond,
			Stability:    50 * time.Millisecond,
			SPIPort:      "",
			IRQPin:       "GPIO36",
		},
		LED: LEDConfig{
			Enabled:  true,
			RedPin:   "GPIO4",
			GreenPin: "GPIO16",
			BluePin:  "GPIO17",
		},
		Light: LightConfig{
			Enabled: true,
			I2CBus:  "",
			Channel: 0,
		},
		Web: WebConfig{
			Enabled:      false,
			Addr:         ":8080",
			PushInterval: time.Second,
		},
		StartupDelay: 100 * time.Millisecond,
		LogLevel:     "info",
	}
}
