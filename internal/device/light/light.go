package light

import (
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
)

// Sensor reports an ambient light level in raw converter units.
type Sensor interface {
	Level() (int, error)
}

// Averaged smooths a Sensor by averaging several readings taken a short gap apart.
type Averaged struct {
	Sensor  Sensor
	Samples int
	Gap     time.Duration
	Sleep   func(time.Duration)
}

// NewAveraged takes five readings 2 ms apart.
func NewAveraged(sensor Sensor) *Averaged {
	return &Averaged{
		Sensor:  sensor,
		Samples: 5,
		Gap:     2 * time.Millisecond,
		Sleep:   time.Sleep,
	}
}

// Level implements Sensor. Any failed reading yields zero.
func (averaged *Averaged) Level() (int, error) {
	samples := averaged.Samples
	if samples <= 0 {
		samples = 1
	}
	total := 0
	for i := 0; i < samples; i++ {
		if i > 0 && averaged.Gap > 0 && averaged.Sleep != nil {
			averaged.Sleep(averaged.Gap)
		}
		value, err := averaged.Sensor.Level()
		if err != nil {
			return 0, err
		}
		total += value
	}
	return total / samples, nil
}

// Sampler is the part of analog.PinADC an ADC needs.
type Sampler interface {
	Read() (analog.Sample, error)
}

// ADC reads light level from one analog input.
type ADC struct {
	pin Sampler
}

// NewADC wraps an analog input.
func NewADC(pin Sampler) *ADC {
	return &ADC{pin: pin}
}

// Level implements Sensor.
func (adc *ADC) Level() (int, error) {
	sample, err := adc.pin.Read()
	if err != nil {
		return 0, errors.Wrap(err, "light: read adc")
	}
	if sample.Raw < 0 {
		return 0, nil
	}
	return int(sample.Raw), nil
}

// NewADS1115 opens channel of an ADS1115 on bus with a photoresistor divider
// powered from 3.3 V.
func NewADS1115(bus i2c.Bus, channel int) (*ADC, error) {
	channels := []ads1x15.Channel{ads1x15.Channel0, ads1x15.Channel1, ads1x15.Channel2, ads1x15.Channel3}
	if channel < 0 || channel >= len(channels) {
		return nil, errors.Errorf("light: invalid ads1115 channel %d", channel)
	}
	dev, err := ads1x15.NewADS1115(bus, &ads1x15.DefaultOpts)
	if err != nil {
		return nil, errors.Wrap(err, "light: open ads1115")
	}
	pin, err := dev.PinForChannel(channels[channel], 3300*physic.MilliVolt, 10*physic.Hertz, ads1x15.SaveEnergy)
	if err != nil {
		return nil, errors.Wrap(err, "light: configure ads1115 channel")
	}
	return NewADC(pin), nil
}
