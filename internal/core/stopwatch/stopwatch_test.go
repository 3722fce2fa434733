package stopwatch

import (
	"math"
	"sync"
	"testing"

	"cydwatch/internal/core/ticks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatch(start ticks.Tick) (*Stopwatch, *ticks.Manual) {
	clock := ticks.NewManual(start)
	return New(clock.Now), clock
}

func TestInitialState(t *testing.T) {
	watch, _ := newTestWatch(1234)
	assert.False(t, watch.IsRunning())
	assert.Equal(t, uint64(0), watch.Elapsed())
	assert.Equal(t, uint64(0), watch.Lap())
}

func TestStartIsIdempotent(t *testing.T) {
	watch, clock := newTestWatch(0)
	watch.Start()
	clock.Advance(300)
	watch.Start()
	clock.Advance(200)

	assert.Equal(t, uint64(500), watch.Elapsed())
	assert.Equal(t, ticks.Tick(0), watch.segmentStart)
}

func TestStopIsIdempotent(t *testing.T) {
	watch, clock := newTestWatch(0)
	watch.Stop()
	assert.Equal(t, uint64(0), watch.accumulated)
	assert.False(t, watch.running)

	watch.Start()
	clock.Advance(250)
	watch.Stop()
	clock.Advance(1000)
	watch.Stop()

	assert.Equal(t, uint64(250), watch.accumulated)
	assert.False(t, watch.IsRunning())
}

func TestScenario(t *testing.T) {
	watch, clock := newTestWatch(0)
	watch.Start()
	clock.Set(500)
	assert.Equal(t, uint64(500), watch.Elapsed())

	watch.Stop()
	assert.Equal(t, uint64(500), watch.accumulated)

	clock.Set(700)
	watch.Start()
	clock.Set(900)
	watch.Stop()
	assert.Equal(t, uint64(700), watch.accumulated)

	assert.Equal(t, Stats{
		TotalMS:      700,
		Hours:        0,
		Minutes:      0,
		Seconds:      0,
		Milliseconds: 700,
		IsRunning:    false,
		Formatted:    "00:00:00.700",
	}, watch.SessionStats())
}

func TestWraparound(t *testing.T) {
	const period = ticks.Period
	watch, clock := newTestWatch(ticks.Tick(period - 10))
	watch.Start()
	clock.Set(5)

	assert.Equal(t, uint64(15), watch.Elapsed())
	assert.Equal(t, uint64(15), watch.Lap())

	watch.Stop()
	assert.Equal(t, uint64(15), watch.Elapsed())
}

func TestWraparoundAcrossManySegments(t *testing.T) {
	watch, clock := newTestWatch(ticks.Tick(math.MaxUint32 - 1000))
	var expected uint64
	for i := 0; i < 10; i++ {
		watch.Start()
		clock.Advance(333)
		watch.Stop()
		expected += 333
		clock.Advance(77)
	}
	assert.Equal(t, expected, watch.Elapsed())
}

func TestMonotonicAcrossStops(t *testing.T) {
	watch, clock := newTestWatch(ticks.Tick(math.MaxUint32 - 2500))
	var last uint64
	for i := 0; i < 50; i++ {
		watch.Start()
		clock.Advance(uint32(97 * (i + 1)))
		current := watch.Elapsed()
		require.GreaterOrEqual(t, current, last)
		watch.Stop()
		require.GreaterOrEqual(t, watch.Elapsed(), current)
		last = watch.Elapsed()
		clock.Advance(13)
	}
}

func TestResetClears(t *testing.T) {
	watch, clock := newTestWatch(0)
	watch.Start()
	clock.Advance(400)
	watch.Stop()
	watch.Start()
	clock.Advance(400)

	watch.Reset()
	assert.Equal(t, uint64(0), watch.Elapsed())
	assert.False(t, watch.IsRunning())

	clock.Advance(1000)
	assert.Equal(t, uint64(0), watch.Elapsed())

	watch.Reset()
	assert.Equal(t, uint64(0), watch.Elapsed())
}

func TestAccumulatorSaturates(t *testing.T) {
	watch, clock := newTestWatch(0)
	watch.accumulated = math.MaxUint64 - 5
	watch.Start()
	clock.Advance(100)

	assert.Equal(t, uint64(math.MaxUint64), watch.Elapsed())
	watch.Stop()
	assert.Equal(t, uint64(math.MaxUint64), watch.Elapsed())
}

func TestEvents(t *testing.T) {
	watch, clock := newTestWatch(10)
	events := watch.Subscribe(8)

	watch.Start()
	clock.Advance(120)
	watch.Stop()
	watch.Start()
	clock.Advance(30)
	watch.Reset()
	watch.Close()

	var received []Event
	for event := range events {
		received = append(received, event)
	}
	require.Len(t, received, 4)
	assert.Equal(t, Event{Type: EventStarted, Running: true, At: 10}, received[0])
	assert.Equal(t, Event{Type: EventStopped, Elapsed: 120, Segment: 120, At: 130}, received[1])
	assert.Equal(t, EventStarted, received[2].Type)
	assert.Equal(t, uint64(120), received[2].Elapsed)
	assert.Equal(t, Event{Type: EventReset, Segment: 30, At: 160}, received[3])
}

func TestUnsubscribe(t *testing.T) {
	watch, _ := newTestWatch(0)
	kept := watch.Subscribe(4)
	dropped := watch.Subscribe(4)

	watch.Unsubscribe(dropped)
	watch.Unsubscribe(dropped)
	watch.Start()

	_, open := <-dropped
	assert.False(t, open)
	assert.Len(t, kept, 1)
	assert.Len(t, watch.events, 1)

	watch.Unsubscribe(make(chan Event))
	assert.Len(t, watch.events, 1)
}

func TestIdempotentCallsDoNotEmit(t *testing.T) {
	watch, _ := newTestWatch(0)
	events := watch.Subscribe(4)
	watch.Stop()
	watch.Start()
	watch.Start()

	assert.Len(t, events, 1)
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	watch, clock := newTestWatch(0)
	_ = watch.Subscribe(1)
	for i := 0; i < 10; i++ {
		watch.Start()
		clock.Advance(1)
		watch.Stop()
	}
	assert.Equal(t, uint64(10), watch.Elapsed())
}

func TestConcurrentUse(t *testing.T) {
	watch, clock := newTestWatch(0)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				switch (i + j) % 4 {
				case 0:
					watch.Start()
				case 1:
					clock.Advance(1)
				case 2:
					watch.Stop()
				default:
					_ = watch.SessionStats()
				}
			}
		}(i)
	}
	wg.Wait()
	watch.Stop()

	stats := watch.SessionStats()
	assert.False(t, stats.IsRunning)
	assert.LessOrEqual(t, stats.TotalMS, uint64(8*200))
}

func TestNilSourceUsesSystemClock(t *testing.T) {
	watch := New(nil)
	watch.Start()
	assert.True(t, watch.IsRunning())
	watch.Stop()
	assert.False(t, watch.IsRunning())
}
