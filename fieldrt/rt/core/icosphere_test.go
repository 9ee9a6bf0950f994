package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIcosphereCounts(t *testing.T) {
	tests := []struct {
		detail int
		total  int
		unique int
	}{
		{0, 60, 12},
		{1, 240, 42},
		{3, 960, 162},
		{20, 26460, 4412},
	}

	for _, tt := range tests {
		points := Icosphere(2, tt.detail)
		require.Len(t, points, tt.total, "detail %d", tt.detail)
		assert.Equal(t, tt.total, IcosphereVertexCount(tt.detail))
		assert.Equal(t, tt.unique, IcosphereUniqueCount(tt.detail))
		assert.Len(t, Dedupe(points), tt.unique, "detail %d", tt.detail)
	}
}

func TestIcospherePointsLieOnSphere(t *testing.T) {
	for _, p := range Icosphere(2, 5) {
		assert.InDelta(t, 2, p.Len(), 1e-5)
	}
}

func TestIcosphereNegativeDetail(t *testing.T) {
	assert.Len(t, Icosphere(1, -3), IcosphereVertexCount(0))
}

func TestDedupeKeepsFirstOccurrenceOrder(t *testing.T) {
	points := Icosphere(1, 0)
	unique := Dedupe(points)
	require.NotEmpty(t, unique)
	assert.Equal(t, points[0], unique[0])
	assert.Equal(t, points[1], unique[1])
}

func TestBakePoints(t *testing.T) {
	points := Icosphere(2, 4)

	a := BakePoints(points, 7)
	b := BakePoints(points, 7)
	require.Len(t, a, len(points))
	assert.Equal(t, a, b, "same seed must give same phases")

	for i, p := range a {
		assert.LessOrEqual(t, math.Abs(float64(p.Phase)), math.Pi+1e-6)
		assert.Equal(t, points[i], p.Vertex().Position)
	}

	c := BakePoints(points, 8)
	differ := false
	for i := range a {
		if a[i].Phase != c[i].Phase {
			differ = true
			break
		}
	}
	assert.True(t, differ, "different seeds should give different phases")
}
