package core

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultFovY        = 75 // degrees
	DefaultNear        = 0.1
	DefaultFar         = 1000
	DefaultDamping     = 0.05
	DefaultRotateSpeed = 1.0

	polarEpsilon = 1e-6
)

// glToWebGPU remaps clip z from [-w, w] to [0, w].
var glToWebGPU = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// OrbitCamera circles Target on a sphere, Y up. Azimuth is measured from +Z
// around +Y, Polar from +Y. Drag input accumulates into a pending delta
// that Update bleeds off by Damping each frame.
type OrbitCamera struct {
	Target   mgl32.Vec3
	Distance float32
	Azimuth  float32
	Polar    float32

	FovY float32 // degrees
	Near float32
	Far  float32

	RotateSpeed  float32
	Damping      float32
	EnableRotate bool
	EnableZoom   bool
	EnablePan    bool

	dAzimuth float32
	dPolar   float32
	zoom     float32
	pan      mgl32.Vec3
}

// NewOrbitCamera derives the spherical position of eye around target.
func NewOrbitCamera(eye, target mgl32.Vec3) *OrbitCamera {
	off := eye.Sub(target)
	r := off.Len()
	c := &OrbitCamera{
		Target:       target,
		Distance:     r,
		FovY:         DefaultFovY,
		Near:         DefaultNear,
		Far:          DefaultFar,
		RotateSpeed:  DefaultRotateSpeed,
		Damping:      DefaultDamping,
		EnableRotate: true,
		zoom:         1,
	}
	if r > 0 {
		c.Azimuth = math32.Atan2(off.X(), off.Z())
		c.Polar = math32.Acos(clampUnit(off.Y() / r))
	}
	return c
}

// Rotate feeds a pointer drag of (dx, dy) pixels. A drag across the full
// viewport height turns the camera once around.
func (c *OrbitCamera) Rotate(dx, dy, viewportHeight float32) {
	if !c.EnableRotate || viewportHeight <= 0 {
		return
	}
	c.dAzimuth -= 2 * math.Pi * dx / viewportHeight * c.RotateSpeed
	c.dPolar -= 2 * math.Pi * dy / viewportHeight * c.RotateSpeed
}

// Zoom scales the distance by factor on the next Update.
func (c *OrbitCamera) Zoom(factor float32) {
	if !c.EnableZoom || factor <= 0 {
		return
	}
	c.zoom *= factor
}

// Pan moves the target by delta on the next Update.
func (c *OrbitCamera) Pan(delta mgl32.Vec3) {
	if !c.EnablePan {
		return
	}
	c.pan = c.pan.Add(delta)
}

// Update applies pending input. With Damping in (0, 1] only that fraction
// of the pending rotation lands each call; 0 applies it all at once.
func (c *OrbitCamera) Update() {
	if c.Damping > 0 {
		c.Azimuth += c.dAzimuth * c.Damping
		c.Polar += c.dPolar * c.Damping
		c.dAzimuth *= 1 - c.Damping
		c.dPolar *= 1 - c.Damping
	} else {
		c.Azimuth += c.dAzimuth
		c.Polar += c.dPolar
		c.dAzimuth, c.dPolar = 0, 0
	}
	c.Polar = math32.Max(polarEpsilon, math32.Min(math.Pi-polarEpsilon, c.Polar))

	c.Distance *= c.zoom
	c.zoom = 1
	c.Target = c.Target.Add(c.pan)
	c.pan = mgl32.Vec3{}
}

func (c *OrbitCamera) Position() mgl32.Vec3 {
	sp := math32.Sin(c.Polar)
	return c.Target.Add(mgl32.Vec3{
		c.Distance * sp * math32.Sin(c.Azimuth),
		c.Distance * math32.Cos(c.Polar),
		c.Distance * sp * math32.Cos(c.Azimuth),
	})
}

func (c *OrbitCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// Projection is a perspective matrix with clip z in [0, w].
func (c *OrbitCamera) Projection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return glToWebGPU.Mul4(mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, c.Near, c.Far))
}

func clampUnit(v float32) float32 {
	return math32.Max(-1, math32.Min(1, v))
}
