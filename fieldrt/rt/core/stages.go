package core

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// CPU mirror of vs_main / fs_main in particle_field.wgsl.
// Any change to a formula here must be made in the WGSL source as well.

const (
	WaveFrequency float32 = 1.5

	// AnimationPeriod is the exact period of Wave in t: the three terms run
	// at rates 1.0, 1.3 and 0.7, which all complete whole cycles in 20*pi.
	AnimationPeriod = 20 * math.Pi

	minViewDepth float32 = 1e-3
)

// Wave is the periodic displacement field in [-1, 1].
func Wave(p mgl32.Vec3, phase, t float32) float32 {
	a := math32.Sin(WaveFrequency*p.X() + t + phase)
	b := math32.Sin(WaveFrequency*p.Y() + 1.3*t + 0.5*phase)
	c := math32.Sin(WaveFrequency*p.Z() + 0.7*t - phase)
	return (a + b + c) / 3
}

// WrapTime folds elapsed seconds into [0, AnimationPeriod/|speed|).
// Wave(p, phase, WrapTime(e, s)*s) equals Wave(p, phase, e*s).
func WrapTime(elapsed float64, speed float32) float64 {
	if speed == 0 {
		return elapsed
	}
	period := AnimationPeriod / math.Abs(float64(speed))
	wrapped := math.Mod(elapsed, period)
	if wrapped < 0 {
		wrapped += period
	}
	return wrapped
}

// MixFactor maps a wave value to the gradient parameter.
func MixFactor(w float32) float32 {
	return clamp01(0.5 + 0.5*w)
}

// PointSize applies perspective attenuation to the base sprite size.
func PointSize(base, viewDepth float32) float32 {
	return base / math32.Max(viewDepth, minViewDepth)
}

type Vertex struct {
	Position mgl32.Vec3
	Phase    float32
}

type VertexOut struct {
	Clip         mgl32.Vec4 // sprite centre, clip space
	ViewDepth    float32
	PointSize    float32 // sprite diameter, pixels
	Displacement float32
	Mix          float32
}

func VertexStage(u *Uniforms, tr *Transforms, v Vertex) VertexOut {
	t := u.Time * u.Speed
	n := v.Position.Normalize()
	w := Wave(v.Position, v.Phase, t)
	d := u.Intensity * w
	displaced := v.Position.Add(n.Mul(d))

	viewPos := tr.View.Mul4(tr.Model).Mul4x1(displaced.Vec4(1))
	depth := -viewPos.Z()

	return VertexOut{
		Clip:         tr.Proj.Mul4x1(viewPos),
		ViewDepth:    depth,
		PointSize:    PointSize(u.ParticleSize, depth),
		Displacement: d,
		Mix:          MixFactor(w),
	}
}

// QuadCorners are the two triangles every point sprite is expanded into.
var QuadCorners = [6]mgl32.Vec2{
	{-1, -1}, {1, -1}, {1, 1},
	{-1, -1}, {1, 1}, {-1, 1},
}

// SpriteCornerClip offsets the sprite centre to one quad corner. The offset
// is PointSize/2 pixels along each axis whatever the viewport size.
func SpriteCornerClip(out VertexOut, corner, resolution mgl32.Vec2) mgl32.Vec4 {
	off := mgl32.Vec2{
		corner.X() * out.PointSize / resolution.X(),
		corner.Y() * out.PointSize / resolution.Y(),
	}
	c := out.Clip
	return mgl32.Vec4{c.X() + off.X()*c.W(), c.Y() + off.Y()*c.W(), c.Z(), c.W()}
}

// MixColor interpolates between a and b; f is clamped to [0, 1].
func MixColor(a, b mgl32.Vec3, f float32) mgl32.Vec3 {
	f = clamp01(f)
	return a.Mul(1 - f).Add(b.Mul(f))
}

// SpriteAlpha is the radial falloff: 1 at the centre, 0 at r >= 1.
func SpriteAlpha(r float32) float32 {
	return 1 - smoothstep(0, 1, r)
}

// FragmentStage shades one sprite fragment. uv is the sprite-local
// coordinate in [-1, 1]^2; ok is false where the fragment is discarded.
func FragmentStage(u *Uniforms, mix float32, uv mgl32.Vec2) (rgba mgl32.Vec4, ok bool) {
	r := uv.Len()
	if r > 1 {
		return mgl32.Vec4{}, false
	}
	return MixColor(u.ColorA, u.ColorB, mix).Vec4(SpriteAlpha(r)), true
}

func smoothstep(edge0, edge1, x float32) float32 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
