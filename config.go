package particlefield

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// Config holds every tunable of the demo. Zero values are not meaningful;
// start from DefaultConfig and overlay a file or flags.
type Config struct {
	Speed        float32 `yaml:"speed"`
	Intensity    float32 `yaml:"intensity"`
	ParticleSize float32 `yaml:"particle_size"`
	ColorA       string  `yaml:"color_a"`
	ColorB       string  `yaml:"color_b"`

	Radius    float32 `yaml:"radius"`
	Detail    int     `yaml:"detail"`
	Scale     float32 `yaml:"scale"`
	Dedupe    bool    `yaml:"dedupe"`
	NoiseSeed int64   `yaml:"noise_seed"`

	CameraDistance float32 `yaml:"camera_distance"`

	Window WindowConfig `yaml:"window"`
	Debug  bool         `yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		Speed:          0.3,
		Intensity:      0.15,
		ParticleSize:   28.0,
		ColorA:         "#3f3089",
		ColorB:         "#00bcff",
		Radius:         2,
		Detail:         20,
		Scale:          1.5,
		Dedupe:         false,
		NoiseSeed:      1,
		CameraDistance: 8,
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Particle Field",
		},
	}
}

// LoadConfig returns DefaultConfig overlaid with the YAML file at path.
// Keys missing from the file keep their defaults. An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

var (
	ErrNonPositive = errors.New("value must be positive")
	ErrBadDetail   = errors.New("detail must be in [0, 256]")
)

func (c Config) Validate() error {
	if c.ParticleSize <= 0 {
		return fmt.Errorf("particle_size %v: %w", c.ParticleSize, ErrNonPositive)
	}
	if c.Radius <= 0 {
		return fmt.Errorf("radius %v: %w", c.Radius, ErrNonPositive)
	}
	if c.Scale <= 0 {
		return fmt.Errorf("scale %v: %w", c.Scale, ErrNonPositive)
	}
	if c.CameraDistance <= 0 {
		return fmt.Errorf("camera_distance %v: %w", c.CameraDistance, ErrNonPositive)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window %dx%d: %w", c.Window.Width, c.Window.Height, ErrNonPositive)
	}
	if c.Detail < 0 || c.Detail > 256 {
		return fmt.Errorf("detail %d: %w", c.Detail, ErrBadDetail)
	}
	if _, _, err := c.Colors(); err != nil {
		return err
	}
	return nil
}

// Colors parses the two gradient endpoints.
func (c Config) Colors() (a, b mgl32.Vec3, err error) {
	if a, err = ParseHexColor(c.ColorA); err != nil {
		return a, b, fmt.Errorf("color_a: %w", err)
	}
	if b, err = ParseHexColor(c.ColorB); err != nil {
		return a, b, fmt.Errorf("color_b: %w", err)
	}
	return a, b, nil
}

// ParseHexColor converts "#rrggbb" (or "#rgb") to an RGB triple in [0, 1].
// Components are taken as written, no sRGB to linear conversion is applied.
func ParseHexColor(s string) (mgl32.Vec3, error) {
	col, err := colorful.Hex(s)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return mgl32.Vec3{float32(col.R), float32(col.G), float32(col.B)}, nil
}
