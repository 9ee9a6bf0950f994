// Package preview renders a field on the CPU, for snapshots and for
// checking the shader stages without a GPU.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/gekko3d/particlefield/fieldrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

type Options struct {
	Width, Height int
	// Supersample renders at Width*Supersample before scaling down.
	Supersample int
	// Time is elapsed seconds; it is wrapped like the live clock.
	Time    float64
	Caption string
}

func (o Options) normalized() Options {
	if o.Width <= 0 {
		o.Width = 1
	}
	if o.Height <= 0 {
		o.Height = 1
	}
	if o.Supersample < 1 {
		o.Supersample = 1
	}
	return o
}

// Render draws field as seen by cam on a black background with additive
// blending. field is not modified.
func Render(field *core.Field, cam *core.OrbitCamera, opts Options) *image.RGBA {
	opts = opts.normalized()
	ss := opts.Supersample
	w, h := opts.Width*ss, opts.Height*ss

	u := *field.Uniforms
	u.Time = float32(core.WrapTime(opts.Time, u.Speed))
	u.Resolution = mgl32.Vec2{float32(w), float32(h)}
	u.ParticleSize *= float32(ss)

	f := &core.Field{Uniforms: &u, Points: field.Points, Scale: field.Scale}
	tr := f.Transforms(cam)

	acc := newAccumulator(w, h)
	for _, p := range field.Points {
		acc.splat(&u, core.VertexStage(&u, &tr, p.Vertex()))
	}
	full := acc.image()

	out := full
	if ss > 1 {
		out = image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
		draw.CatmullRom.Scale(out, out.Bounds(), full, full.Bounds(), draw.Src, nil)
	}
	if opts.Caption != "" {
		drawCaption(out, opts.Caption)
	}
	return out
}

type accumulator struct {
	w, h int
	rgb  []float32
}

func newAccumulator(w, h int) *accumulator {
	return &accumulator{w: w, h: h, rgb: make([]float32, w*h*3)}
}

// splat rasterises one sprite the way the quad pass does: centre from the
// clip position, diameter PointSize pixels, one fragment per covered pixel.
func (a *accumulator) splat(u *core.Uniforms, v core.VertexOut) {
	c := v.Clip
	if c.W() <= 0 {
		return
	}
	z := c.Z() / c.W()
	if z < 0 || z > 1 {
		return
	}
	cx := (c.X()/c.W()*0.5 + 0.5) * float32(a.w)
	cy := (0.5 - c.Y()/c.W()*0.5) * float32(a.h)
	radius := v.PointSize / 2
	if radius <= 0 {
		return
	}

	x0, x1 := clampInt(int(cx-radius), 0, a.w-1), clampInt(int(cx+radius)+1, 0, a.w-1)
	y0, y1 := clampInt(int(cy-radius), 0, a.h-1), clampInt(int(cy+radius)+1, 0, a.h-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			uv := mgl32.Vec2{
				(float32(x) + 0.5 - cx) / radius,
				(float32(y) + 0.5 - cy) / radius,
			}
			rgba, ok := core.FragmentStage(u, v.Mix, uv)
			if !ok {
				continue
			}
			i := (y*a.w + x) * 3
			a.rgb[i] += rgba.X() * rgba.W()
			a.rgb[i+1] += rgba.Y() * rgba.W()
			a.rgb[i+2] += rgba.Z() * rgba.W()
		}
	}
}

func (a *accumulator) image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, a.w, a.h))
	for i := 0; i < a.w*a.h; i++ {
		img.Pix[i*4] = toByte(a.rgb[i*3])
		img.Pix[i*4+1] = toByte(a.rgb[i*3+1])
		img.Pix[i*4+2] = toByte(a.rgb[i*3+2])
		img.Pix[i*4+3] = 0xff
	}
	return img
}

func drawCaption(img *image.RGBA, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(8, 8+basicfont.Face7x13.Ascent),
	}
	d.DrawString(text)
}

// WritePNG encodes img to path, replacing any existing file.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func toByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(v*255 + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
