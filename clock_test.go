package particlefield

import (
	"testing"
	"time"

	"github.com/gekko3d/particlefield/fieldrt/rt/core"
	"github.com/stretchr/testify/assert"
)

type fakeNow struct {
	t time.Time
}

func (f *fakeNow) now() time.Time { return f.t }

func (f *fakeNow) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestClockTick(t *testing.T) {
	f := &fakeNow{t: time.Unix(1000, 0)}
	c := newClockAt(f.now)
	assert.Equal(t, 0.0, c.Elapsed())

	f.advance(16 * time.Millisecond)
	c.Tick()
	assert.Equal(t, 16*time.Millisecond, c.Dt)
	assert.InDelta(t, 0.016, c.Elapsed(), 1e-9)

	f.advance(2 * time.Second)
	c.Tick()
	assert.InDelta(t, 2.016, c.Elapsed(), 1e-9)
}

func TestClockShaderTimeWraps(t *testing.T) {
	f := &fakeNow{t: time.Unix(0, 0)}
	c := newClockAt(f.now)

	speed := float32(0.3)
	period := core.AnimationPeriod / float64(speed)

	f.advance(time.Duration(1.5 * period * float64(time.Second)))
	c.Tick()
	st := c.ShaderTime(speed)
	assert.Less(t, float64(st), period)
	assert.InDelta(t, period/2, st, 1e-3)

	assert.InDelta(t, c.Elapsed(), c.ShaderTime(0), 1e-3)
}
