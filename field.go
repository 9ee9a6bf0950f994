package particlefield

import (
	"fmt"

	"github.com/gekko3d/particlefield/fieldrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// BuildField creates the point cloud and the uniform set described by cfg.
func BuildField(cfg Config) (*core.Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	colorA, colorB, err := cfg.Colors()
	if err != nil {
		return nil, err
	}

	points := core.Icosphere(cfg.Radius, cfg.Detail)
	if cfg.Dedupe {
		points = core.Dedupe(points)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("icosphere radius=%v detail=%d produced no points", cfg.Radius, cfg.Detail)
	}

	return &core.Field{
		Uniforms: core.NewUniforms(cfg.Speed, cfg.Intensity, cfg.ParticleSize, colorA, colorB),
		Points:   core.BakePoints(points, cfg.NoiseSeed),
		Scale:    cfg.Scale,
	}, nil
}

// NewCamera places the orbit camera on +X at the configured distance,
// looking at the origin, with zoom and pan disabled.
func NewCamera(cfg Config) *core.OrbitCamera {
	return core.NewOrbitCamera(mgl32.Vec3{cfg.CameraDistance, 0, 0}, mgl32.Vec3{0, 0, 0})
}
