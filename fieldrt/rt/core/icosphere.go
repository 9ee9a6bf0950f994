package core

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// PointInstance matches the per-instance attributes of particle_field.wgsl:
// @location(1) position: vec3<f32>, @location(2) phase: f32.
type PointInstance struct {
	Pos   [3]float32
	Phase float32
}

func (p PointInstance) Vertex() Vertex {
	return Vertex{Position: mgl32.Vec3(p.Pos), Phase: p.Phase}
}

var (
	icoT = float32((1 + math.Sqrt(5)) / 2)

	icoVertices = [12]mgl32.Vec3{
		{-1, icoT, 0}, {1, icoT, 0}, {-1, -icoT, 0}, {1, -icoT, 0},
		{0, -1, icoT}, {0, 1, icoT}, {0, -1, -icoT}, {0, 1, -icoT},
		{icoT, 0, -1}, {icoT, 0, 1}, {-icoT, 0, -1}, {-icoT, 0, 1},
	}

	icoFaces = [20][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
)

// IcosphereVertexCount is the length of Icosphere(r, detail).
func IcosphereVertexCount(detail int) int {
	cols := detail + 1
	return 20 * cols * cols * 3
}

// IcosphereUniqueCount is the number of distinct positions in Icosphere(r, detail).
func IcosphereUniqueCount(detail int) int {
	cols := detail + 1
	return 10*cols*cols + 2
}

// Icosphere returns the non-indexed triangle list of an icosahedron whose
// faces are split into (detail+1)^2 triangles each and pushed out to radius.
// Points on shared edges appear once per adjacent triangle.
func Icosphere(radius float32, detail int) []mgl32.Vec3 {
	if detail < 0 {
		detail = 0
	}
	out := make([]mgl32.Vec3, 0, IcosphereVertexCount(detail))
	for _, f := range icoFaces {
		out = subdivideFace(out, icoVertices[f[0]], icoVertices[f[1]], icoVertices[f[2]], detail)
	}
	for i, p := range out {
		out[i] = p.Normalize().Mul(radius)
	}
	return out
}

func subdivideFace(out []mgl32.Vec3, a, b, c mgl32.Vec3, detail int) []mgl32.Vec3 {
	cols := detail + 1

	// v[i][j]: row i runs from the a-c edge to the b-c edge
	v := make([][]mgl32.Vec3, cols+1)
	for i := 0; i <= cols; i++ {
		f := float32(i) / float32(cols)
		aj := lerp3(a, c, f)
		bj := lerp3(b, c, f)
		rows := cols - i
		v[i] = make([]mgl32.Vec3, rows+1)
		for j := 0; j <= rows; j++ {
			if j == 0 && i == cols {
				v[i][j] = aj
			} else {
				v[i][j] = lerp3(aj, bj, float32(j)/float32(rows))
			}
		}
	}

	for i := 0; i < cols; i++ {
		for j := 0; j < 2*(cols-i)-1; j++ {
			k := j / 2
			if j%2 == 0 {
				out = append(out, v[i][k+1], v[i+1][k], v[i][k])
			} else {
				out = append(out, v[i][k+1], v[i+1][k+1], v[i+1][k])
			}
		}
	}
	return out
}

func lerp3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Dedupe drops points lying within dedupeEpsilon of an earlier point,
// keeping first occurrences in order.
func Dedupe(points []mgl32.Vec3) []mgl32.Vec3 {
	const cell = 10 * dedupeEpsilon
	grid := make(map[[3]int32][]int, len(points)/6+1)
	out := make([]mgl32.Vec3, 0, len(points)/6+1)

	cellOf := func(p mgl32.Vec3) [3]int32 {
		return [3]int32{
			int32(math32.Floor(p.X() / cell)),
			int32(math32.Floor(p.Y() / cell)),
			int32(math32.Floor(p.Z() / cell)),
		}
	}

	for _, p := range points {
		c := cellOf(p)
		if hasNeighbour(grid, out, c, p) {
			continue
		}
		grid[c] = append(grid[c], len(out))
		out = append(out, p)
	}
	return out
}

const dedupeEpsilon float32 = 1e-4

func hasNeighbour(grid map[[3]int32][]int, kept []mgl32.Vec3, c [3]int32, p mgl32.Vec3) bool {
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dz := int32(-1); dz <= 1; dz++ {
				for _, idx := range grid[[3]int32{c[0] + dx, c[1] + dy, c[2] + dz}] {
					if kept[idx].Sub(p).Len() < dedupeEpsilon {
						return true
					}
				}
			}
		}
	}
	return false
}

const phaseNoiseScale = 1.7

// BakePoints attaches a phase in [-pi, pi] to every point, sampled from
// seeded 3D Perlin noise over the point direction. Same seed, same phases.
func BakePoints(points []mgl32.Vec3, seed int64) []PointInstance {
	noise := perlin.NewPerlin(2, 2, 3, seed)
	out := make([]PointInstance, len(points))
	for i, p := range points {
		n := p.Normalize()
		v := noise.Noise3D(
			float64(n.X())*phaseNoiseScale,
			float64(n.Y())*phaseNoiseScale,
			float64(n.Z())*phaseNoiseScale,
		)
		v = math.Max(-1, math.Min(1, v))
		out[i] = PointInstance{
			Pos:   [3]float32{p.X(), p.Y(), p.Z()},
			Phase: float32(v * math.Pi),
		}
	}
	return out
}
