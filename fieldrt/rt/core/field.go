package core

import "github.com/go-gl/mathgl/mgl32"

// Field is the drawable: the baked point cloud, its uniforms and a uniform
// object scale.
type Field struct {
	Uniforms *Uniforms
	Points   []PointInstance
	Scale    float32
}

func (f *Field) Model() mgl32.Mat4 {
	return mgl32.Scale3D(f.Scale, f.Scale, f.Scale)
}

// Transforms assembles the matrices for cam at the current u_resolution.
func (f *Field) Transforms(cam *OrbitCamera) Transforms {
	res := f.Uniforms.Resolution
	aspect := float32(1)
	if res.Y() > 0 {
		aspect = res.X() / res.Y()
	}
	return Transforms{
		Model: f.Model(),
		View:  cam.View(),
		Proj:  cam.Projection(aspect),
	}
}
