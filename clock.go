package particlefield

import (
	"time"

	"github.com/gekko3d/particlefield/fieldrt/rt/core"
)

// Clock is the monotonic frame clock that drives u_time.
type Clock struct {
	Start time.Time
	Time  time.Time
	Dt    time.Duration

	now func() time.Time
}

func NewClock() *Clock {
	return newClockAt(time.Now)
}

func newClockAt(now func() time.Time) *Clock {
	start := now()
	return &Clock{
		Start: start,
		Time:  start,
		now:   now,
	}
}

// Tick advances the clock to the current instant.
func (c *Clock) Tick() {
	now := c.now()

	c.Dt = now.Sub(c.Time)
	c.Time = now
}

// Elapsed is seconds between Start and the last Tick.
func (c *Clock) Elapsed() float64 {
	return c.Time.Sub(c.Start).Seconds()
}

// ShaderTime is Elapsed folded into one animation period at the given speed.
func (c *Clock) ShaderTime(speed float32) float32 {
	return float32(core.WrapTime(c.Elapsed(), speed))
}
