package ticks

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDiff(t *testing.T) {
	assert.Equal(t, uint64(0), Diff(42, 42))
	assert.Equal(t, uint64(500), Diff(500, 0))
	assert.Equal(t, uint64(15), Diff(5, Tick(math.MaxUint32-9)))
	assert.Equal(t, uint64(1), Diff(0, Tick(math.MaxUint32)))
	assert.Equal(t, Period-1, Diff(0, 1))
}

func TestManualWraps(t *testing.T) {
	clock := NewManual(Tick(math.MaxUint32 - 4))
	start := clock.Now()
	clock.Advance(10)

	assert.Equal(t, Tick(5), clock.Now())
	assert.Equal(t, uint64(10), Since(clock.Now, start))

	clock.Set(100)
	assert.Equal(t, Tick(100), clock.Now())
}

func TestSystemIsNonDecreasing(t *testing.T) {
	source := System()
	first := source()
	time.Sleep(5 * time.Millisecond)
	second := source()

	assert.GreaterOrEqual(t, Diff(second, first), uint64(5))
}

func TestDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, Duration(1500))
}
