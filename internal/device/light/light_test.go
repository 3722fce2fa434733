package light

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/analog"
)

type scriptedSensor struct {
	values []int
	err    error
	calls  int
}

func (sensor *scriptedSensor) Level() (int, error) {
	sensor.calls++
	if sensor.err != nil {
		return 0, sensor.err
	}
	value := sensor.values[0]
	sensor.values = sensor.values[1:]
	return value, nil
}

type fakeSampler struct {
	sample analog.Sample
	err    error
}

func (sampler fakeSampler) Read() (analog.Sample, error) {
	return sampler.sample, sampler.err
}

func TestAveraged(t *testing.T) {
	var slept []time.Duration
	sensor := &scriptedSensor{values: []int{2000, 2100, 1900, 2050, 1950}}
	averaged := NewAveraged(sensor)
	averaged.Sleep = func(d time.Duration) { slept = append(slept, d) }

	level, err := averaged.Level()
	require.NoError(t, err)
	assert.Equal(t, 2000, level)
	assert.Equal(t, 5, sensor.calls)
	assert.Len(t, slept, 4)
	assert.Equal(t, 2*time.Millisecond, slept[0])
}

func TestAveragedFailureYieldsZero(t *testing.T) {
	sensor := &scriptedSensor{err: errors.New("adc busy")}
	averaged := NewAveraged(sensor)
	averaged.Sleep = func(time.Duration) {}

	level, err := averaged.Level()
	assert.Error(t, err)
	assert.Equal(t, 0, level)
}

func TestADC(t *testing.T) {
	level, err := NewADC(fakeSampler{sample: analog.Sample{Raw: 1234}}).Level()
	require.NoError(t, err)
	assert.Equal(t, 1234, level)

	level, err = NewADC(fakeSampler{sample: analog.Sample{Raw: -3}}).Level()
	require.NoError(t, err)
	assert.Equal(t, 0, level)

	_, err = NewADC(fakeSampler{err: errors.New("nack")}).Level()
	assert.Error(t, err)
}

func TestNewADS1115RejectsChannel(t *testing.T) {
	_, err := NewADS1115(nil, 7)
	assert.Error(t, err)
}
