package preview

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/particlefield/fieldrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testField(detail int) *core.Field {
	a := mgl32.Vec3{0x3f / 255.0, 0x30 / 255.0, 0x89 / 255.0}
	b := mgl32.Vec3{0, 0xbc / 255.0, 1}
	return &core.Field{
		Uniforms: core.NewUniforms(0.3, 0.15, 28, a, b),
		Points:   core.BakePoints(core.Icosphere(2, detail), 1),
		Scale:    1.5,
	}
}

func testCamera() *core.OrbitCamera {
	return core.NewOrbitCamera(mgl32.Vec3{8, 0, 0}, mgl32.Vec3{})
}

func lit(r, g, b uint8) bool { return r > 0 || g > 0 || b > 0 }

func TestRenderDrawsSphereOnBlack(t *testing.T) {
	img := Render(testField(8), testCamera(), Options{Width: 160, Height: 120})
	require.Equal(t, 160, img.Bounds().Dx())
	require.Equal(t, 120, img.Bounds().Dy())

	c := img.RGBAAt(0, 0)
	assert.False(t, lit(c.R, c.G, c.B), "corner should be background")

	litCentre := 0
	for y := 30; y < 90; y++ {
		for x := 40; x < 120; x++ {
			c := img.RGBAAt(x, y)
			if lit(c.R, c.G, c.B) {
				litCentre++
			}
		}
	}
	assert.Greater(t, litCentre, 100)
}

func TestRenderDoesNotMutateField(t *testing.T) {
	f := testField(2)
	before := *f.Uniforms
	Render(f, testCamera(), Options{Width: 64, Height: 64, Supersample: 2, Time: 3})
	assert.Equal(t, before, *f.Uniforms)
}

func TestRenderSupersampleKeepsSize(t *testing.T) {
	img := Render(testField(2), testCamera(), Options{Width: 50, Height: 40, Supersample: 3})
	assert.Equal(t, 50, img.Bounds().Dx())
	assert.Equal(t, 40, img.Bounds().Dy())
}

func TestRenderCaption(t *testing.T) {
	f := &core.Field{Uniforms: testField(0).Uniforms, Scale: 1}
	img := Render(f, testCamera(), Options{Width: 120, Height: 40, Caption: "t=0"})

	litPx := 0
	for y := 0; y < 24; y++ {
		for x := 0; x < 40; x++ {
			c := img.RGBAAt(x, y)
			if lit(c.R, c.G, c.B) {
				litPx++
			}
		}
	}
	assert.Greater(t, litPx, 0, "caption should be drawn over an empty field")
}

func TestWritePNG(t *testing.T) {
	img := Render(testField(1), testCamera(), Options{Width: 32, Height: 24})
	path := filepath.Join(t.TempDir(), "field.png")
	require.NoError(t, WritePNG(path, img))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())

	assert.Error(t, WritePNG(filepath.Join(t.TempDir(), "missing", "x.png"), img))
}
