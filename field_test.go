package particlefield

import (
	"testing"

	"github.com/gekko3d/particlefield/fieldrt/rt/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Detail = 3

	field, err := BuildField(cfg)
	require.NoError(t, err)
	assert.Len(t, field.Points, core.IcosphereVertexCount(3))
	assert.Equal(t, float32(1.5), field.Scale)
	assert.Equal(t, float32(0.3), field.Uniforms.Speed)
	assert.Equal(t, float32(28), field.Uniforms.ParticleSize)

	cfg.Dedupe = true
	field, err = BuildField(cfg)
	require.NoError(t, err)
	assert.Len(t, field.Points, core.IcosphereUniqueCount(3))
}

func TestBuildFieldRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ColorA = "nope"
	_, err := BuildField(cfg)
	assert.Error(t, err)
}

func TestNewCamera(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CameraDistance = 5
	cam := NewCamera(cfg)
	pos := cam.Position()
	assert.InDelta(t, 5, pos.X(), 1e-5)
	assert.InDelta(t, 0, pos.Z(), 1e-5)
	assert.False(t, cam.EnableZoom)
}
