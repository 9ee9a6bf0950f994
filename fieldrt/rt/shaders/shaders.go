package shaders

import (
	_ "embed"
)

//go:embed particle_field.wgsl
var ParticleFieldWGSL string
