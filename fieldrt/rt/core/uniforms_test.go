package core

import (
	"encoding/binary"
	"math"
	"sync"
	"testing"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformBlockLayout(t *testing.T) {
	var b UniformBlock
	assert.Equal(t, uintptr(UniformBlockSize), unsafe.Sizeof(b))
	assert.Equal(t, uintptr(192), unsafe.Offsetof(b.ColorA))
	assert.Equal(t, uintptr(208), unsafe.Offsetof(b.ColorB))
	assert.Equal(t, uintptr(224), unsafe.Offsetof(b.Resolution))
	assert.Equal(t, uintptr(232), unsafe.Offsetof(b.Time))
	assert.Equal(t, uintptr(244), unsafe.Offsetof(b.ParticalSize))
}

func TestUniformBlockBytes(t *testing.T) {
	u := testUniforms()
	u.Time = 12.5
	u.Resolution = mgl32.Vec2{800, 600}
	block := u.Block(Transforms{Model: mgl32.Ident4(), View: mgl32.Ident4(), Proj: mgl32.Ident4()})

	data := block.Bytes()
	require.Len(t, data, UniformBlockSize)

	f32 := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
	}
	assert.Equal(t, float32(800), f32(224))
	assert.Equal(t, float32(600), f32(228))
	assert.Equal(t, float32(12.5), f32(232))
	assert.Equal(t, float32(0.3), f32(236))
	assert.Equal(t, float32(0.15), f32(240))
	assert.Equal(t, float32(28), f32(244))
	assert.Equal(t, float32(1), f32(192+12), "color_a alpha")
}

func TestResolutionCell(t *testing.T) {
	var c ResolutionCell
	_, ok := c.Snapshot()
	assert.False(t, ok)

	assert.False(t, c.Set(0, 600))
	assert.False(t, c.Set(800, -1))
	_, ok = c.Snapshot()
	assert.False(t, ok)

	assert.True(t, c.Set(800, 600))
	assert.False(t, c.Set(0, 0), "minimised window")
	res, ok := c.Snapshot()
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec2{800, 600}, res)

	u := testUniforms()
	assert.Equal(t, mgl32.Vec2{1, 1}, u.Resolution)
	assert.True(t, u.ApplyResolution(&c))
	assert.Equal(t, mgl32.Vec2{800, 600}, u.Resolution)
}

func TestResolutionCellConcurrentWriters(t *testing.T) {
	var c ResolutionCell
	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set(n*100, n*10)
			}
		}(i)
	}
	for j := 0; j < 100; j++ {
		if res, ok := c.Snapshot(); ok {
			assert.Equal(t, res.X(), res.Y()*10, "snapshot must be a pair from one Set")
		}
	}
	wg.Wait()
}
