package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewOrbitCameraFromPosition(t *testing.T) {
	cam := NewOrbitCamera(mgl32.Vec3{8, 0, 0}, mgl32.Vec3{})

	assert.InDelta(t, 8, cam.Distance, 1e-6)
	assert.InDelta(t, math.Pi/2, cam.Azimuth, 1e-6)
	assert.InDelta(t, math.Pi/2, cam.Polar, 1e-6)
	assert.True(t, cam.EnableRotate)
	assert.False(t, cam.EnableZoom)
	assert.False(t, cam.EnablePan)

	pos := cam.Position()
	assert.InDelta(t, 8, pos.X(), 1e-5)
	assert.InDelta(t, 0, pos.Y(), 1e-5)
	assert.InDelta(t, 0, pos.Z(), 1e-5)
}

func TestOrbitRotateIsDamped(t *testing.T) {
	cam := NewOrbitCamera(mgl32.Vec3{8, 0, 0}, mgl32.Vec3{})
	start := cam.Azimuth

	cam.Rotate(100, 0, 1000)
	cam.Update()
	step := 2 * math.Pi * 0.1
	assert.InDelta(t, float64(start)-step*DefaultDamping, cam.Azimuth, 1e-5)

	for i := 0; i < 1000; i++ {
		cam.Update()
	}
	assert.InDelta(t, float64(start)-step, cam.Azimuth, 1e-4)
}

func TestOrbitDistanceIsFixed(t *testing.T) {
	cam := NewOrbitCamera(mgl32.Vec3{8, 0, 0}, mgl32.Vec3{})
	cam.Zoom(0.5)
	cam.Pan(mgl32.Vec3{1, 2, 3})
	for i := 0; i < 50; i++ {
		cam.Rotate(13, -7, 720)
		cam.Update()
		assert.InDelta(t, 8, cam.Position().Len(), 1e-4)
	}
	assert.Equal(t, mgl32.Vec3{}, cam.Target)

	cam.EnableZoom = true
	cam.Zoom(0.5)
	cam.Update()
	assert.InDelta(t, 4, cam.Distance, 1e-5)
}

func TestOrbitPolarIsClamped(t *testing.T) {
	cam := NewOrbitCamera(mgl32.Vec3{8, 0, 0}, mgl32.Vec3{})
	cam.Damping = 0
	cam.Rotate(0, -10000, 1000)
	cam.Update()
	assert.Greater(t, cam.Polar, float32(0))
	assert.LessOrEqual(t, cam.Polar, float32(math.Pi))

	cam.Rotate(0, 20000, 1000)
	cam.Update()
	assert.Greater(t, cam.Polar, float32(0))
	assert.False(t, math.IsNaN(float64(cam.View().At(0, 0))))
}

func TestProjectionDepthRange(t *testing.T) {
	cam := NewOrbitCamera(mgl32.Vec3{8, 0, 0}, mgl32.Vec3{})
	proj := cam.Projection(16.0 / 9.0)

	ndcZ := func(viewZ float32) float32 {
		c := proj.Mul4x1(mgl32.Vec4{0, 0, viewZ, 1})
		return c.Z() / c.W()
	}
	assert.InDelta(t, 0, ndcZ(-DefaultNear), 1e-4)
	assert.InDelta(t, 1, ndcZ(-DefaultFar), 1e-3)
	mid := ndcZ(-8)
	assert.Greater(t, mid, float32(0))
	assert.Less(t, mid, float32(1))
}

func TestFieldTransformsAspect(t *testing.T) {
	u := testUniforms()
	u.Resolution = mgl32.Vec2{1600, 800}
	f := &Field{Uniforms: u, Scale: 1.5}
	cam := NewOrbitCamera(mgl32.Vec3{8, 0, 0}, mgl32.Vec3{})

	tr := f.Transforms(cam)
	assert.InDelta(t, tr.Proj.At(1, 1), 2*tr.Proj.At(0, 0), 1e-5)
	assert.Equal(t, float32(1.5), tr.Model.At(0, 0))
	assert.Equal(t, float32(1), tr.Model.At(3, 3))
}
