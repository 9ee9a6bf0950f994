package core

import (
	"sync"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Uniforms is the per-frame parameter set shared by every vertex and fragment.
type Uniforms struct {
	Time         float32 // u_time, seconds
	Speed        float32 // u_speed
	Intensity    float32 // u_intensity
	ParticleSize float32 // u_partical_size, pixels before attenuation
	ColorA       mgl32.Vec3
	ColorB       mgl32.Vec3
	Resolution   mgl32.Vec2 // u_resolution, pixels
}

func NewUniforms(speed, intensity, particleSize float32, colorA, colorB mgl32.Vec3) *Uniforms {
	return &Uniforms{
		Speed:        speed,
		Intensity:    intensity,
		ParticleSize: particleSize,
		ColorA:       colorA,
		ColorB:       colorB,
		Resolution:   mgl32.Vec2{1, 1},
	}
}

// Transforms are the built-in matrices a host framework would supply.
type Transforms struct {
	Model mgl32.Mat4
	View  mgl32.Mat4
	Proj  mgl32.Mat4
}

// UniformBlock matches FieldUniforms in particle_field.wgsl byte for byte.
type UniformBlock struct {
	Model        mgl32.Mat4
	View         mgl32.Mat4
	Proj         mgl32.Mat4
	ColorA       mgl32.Vec4
	ColorB       mgl32.Vec4
	Resolution   mgl32.Vec2
	Time         float32
	Speed        float32
	Intensity    float32
	ParticalSize float32
	Pad          [2]float32
}

const UniformBlockSize = 256

func (u *Uniforms) Block(tr Transforms) UniformBlock {
	return UniformBlock{
		Model:        tr.Model,
		View:         tr.View,
		Proj:         tr.Proj,
		ColorA:       u.ColorA.Vec4(1),
		ColorB:       u.ColorB.Vec4(1),
		Resolution:   u.Resolution,
		Time:         u.Time,
		Speed:        u.Speed,
		Intensity:    u.Intensity,
		ParticalSize: u.ParticleSize,
	}
}

func (b *UniformBlock) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(b)), unsafe.Sizeof(*b))
}

// ResolutionCell carries the viewport size from the resize callback to the
// frame loop. The frame reads one snapshot at its start.
type ResolutionCell struct {
	mu     sync.Mutex
	width  int
	height int
	valid  bool
}

// Set stores (w, h). Non-positive sizes (a minimised window) are ignored
// and reported as false.
func (c *ResolutionCell) Set(w, h int) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	c.mu.Lock()
	c.width, c.height, c.valid = w, h, true
	c.mu.Unlock()
	return true
}

// Snapshot returns the last stored size, and false if nothing was ever stored.
func (c *ResolutionCell) Snapshot() (mgl32.Vec2, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid {
		return mgl32.Vec2{}, false
	}
	return mgl32.Vec2{float32(c.width), float32(c.height)}, true
}

// ApplyResolution copies the cell snapshot into u_resolution.
func (u *Uniforms) ApplyResolution(c *ResolutionCell) bool {
	res, ok := c.Snapshot()
	if ok {
		u.Resolution = res
	}
	return ok
}
