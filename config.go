package particlefield

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
)

// FieldConfig holds every tunable of the particle field. JSON keys match the
// field names in snake case.
type FieldConfig struct {
	ParticleCount int     `json:"particle_count"`
	Spread        float32 `json:"spread"`

	PointSize float32 `json:"point_size"`
	Color     string  `json:"color"`
	Opacity   float32 `json:"opacity"`

	Drift       [3]float64 `json:"drift"`
	PointerGain float64    `json:"pointer_gain"`

	// NormalizeToRefresh scales per-frame increments by dt×60 so the rotation
	// speed no longer depends on the display refresh rate.
	NormalizeToRefresh bool `json:"normalize_to_refresh"`

	Fov            float32 `json:"fov"`
	Near           float32 `json:"near"`
	Far            float32 `json:"far"`
	CameraDistance float32 `json:"camera_distance"`

	// Seed for the particle layout; 0 picks a time-based seed.
	Seed int64 `json:"seed"`
}

func DefaultFieldConfig() FieldConfig {
	return FieldConfig{
		ParticleCount:  2000,
		Spread:         100,
		PointSize:      0.05,
		Color:          "#6C63FF",
		Opacity:        0.8,
		Drift:          [3]float64{0.0001, 0.0002, 0.0001},
		PointerGain:    0.00008,
		Fov:            75,
		Near:           0.1,
		Far:            1000,
		CameraDistance: 30,
	}
}

// LoadFieldConfig overlays the JSON file at path on top of the defaults.
func LoadFieldConfig(path string) (FieldConfig, error) {
	cfg := DefaultFieldConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c FieldConfig) Validate() error {
	switch {
	case c.ParticleCount <= 0:
		return fmt.Errorf("particle_count must be positive, got %d", c.ParticleCount)
	case c.Spread <= 0:
		return fmt.Errorf("spread must be positive, got %v", c.Spread)
	case c.Opacity < 0 || c.Opacity > 1:
		return fmt.Errorf("opacity must be within [0,1], got %v", c.Opacity)
	case c.Fov <= 0 || c.Fov >= 180:
		return fmt.Errorf("fov must be within (0,180), got %v", c.Fov)
	case c.Near <= 0 || c.Far <= c.Near:
		return fmt.Errorf("clip planes must satisfy 0 < near < far, got %v/%v", c.Near, c.Far)
	}
	if _, err := c.RGB(); err != nil {
		return err
	}
	return nil
}

// RGB parses Color as a hex string and returns its 0..1 components unchanged.
func (c FieldConfig) RGB() ([3]float32, error) {
	col, err := colorful.Hex(c.Color)
	if err != nil {
		return [3]float32{}, fmt.Errorf("invalid color %q: %w", c.Color, err)
	}
	return [3]float32{float32(col.R), float32(col.G), float32(col.B)}, nil
}
