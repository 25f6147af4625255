package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFake_AfterFuncFiresOnce(t *testing.T) {
	c := NewFake(epoch)
	fired := 0
	c.AfterFunc(500*time.Millisecond, func() { fired++ })

	c.Advance(499 * time.Millisecond)
	assert.Equal(t, 0, fired)
	c.Advance(time.Millisecond)
	assert.Equal(t, 1, fired)
	c.Advance(time.Second)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, c.Pending())
}

func TestFake_EveryTicksUntilStopped(t *testing.T) {
	c := NewFake(epoch)
	ticks := 0
	tk := c.Every(100*time.Millisecond, func() { ticks++ })

	c.Advance(350 * time.Millisecond)
	assert.Equal(t, 3, ticks)

	assert.True(t, tk.Stop())
	assert.False(t, tk.Stop(), "second stop reports not pending")
	c.Advance(time.Second)
	assert.Equal(t, 3, ticks)
}

func TestFake_CallbackSeesEventTime(t *testing.T) {
	c := NewFake(epoch)
	var seen time.Time
	c.AfterFunc(250*time.Millisecond, func() { seen = c.Now() })
	c.Advance(time.Second)
	assert.Equal(t, epoch.Add(250*time.Millisecond), seen)
	assert.Equal(t, epoch.Add(time.Second), c.Now())
}

func TestFake_CallbackCanStopAnotherTimer(t *testing.T) {
	c := NewFake(epoch)
	ticks := 0
	tk := c.Every(100*time.Millisecond, func() { ticks++ })
	c.AfterFunc(250*time.Millisecond, func() { tk.Stop() })

	c.Advance(time.Second)
	assert.Equal(t, 2, ticks)
}

func TestFake_CallbackCanSchedule(t *testing.T) {
	c := NewFake(epoch)
	var order []string
	c.AfterFunc(100*time.Millisecond, func() {
		order = append(order, "first")
		c.AfterFunc(100*time.Millisecond, func() { order = append(order, "second") })
	})
	c.Advance(time.Second)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestStopwatch(t *testing.T) {
	c := NewFake(epoch)
	sw := NewStopwatch(c)

	sw.Start()
	c.Advance(2 * time.Second)
	assert.Equal(t, 2*time.Second, sw.Elapsed())

	assert.True(t, sw.Stop())
	assert.False(t, sw.Stop())
	c.Advance(5 * time.Second)
	assert.Equal(t, 2*time.Second, sw.Elapsed())

	sw.Start()
	c.Advance(time.Second)
	assert.Equal(t, 3*time.Second, sw.Elapsed())

	sw.Reset()
	assert.Equal(t, time.Duration(0), sw.Elapsed())
	assert.False(t, sw.Running())
}

func TestReal_EveryStops(t *testing.T) {
	var ticks atomic.Int32
	tk := Real().Every(5*time.Millisecond, func() { ticks.Add(1) })
	time.Sleep(30 * time.Millisecond)
	assert.True(t, tk.Stop())
	time.Sleep(10 * time.Millisecond)

	after := ticks.Load()
	assert.Positive(t, after)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, ticks.Load())
}
