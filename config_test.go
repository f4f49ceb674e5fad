package particlefield

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFieldConfig(t *testing.T) {
	cfg := DefaultFieldConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2000, cfg.ParticleCount)
	assert.Equal(t, [3]float64{0.0001, 0.0002, 0.0001}, cfg.Drift)
	assert.Equal(t, 0.00008, cfg.PointerGain)
	assert.False(t, cfg.NormalizeToRefresh)

	rgb, err := cfg.RGB()
	require.NoError(t, err)
	assert.InDelta(t, float32(0x63)/255, rgb[1], 1e-6)
}

func TestFieldConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FieldConfig)
	}{
		{"no particles", func(c *FieldConfig) { c.ParticleCount = 0 }},
		{"zero spread", func(c *FieldConfig) { c.Spread = 0 }},
		{"opacity above one", func(c *FieldConfig) { c.Opacity = 1.5 }},
		{"flat fov", func(c *FieldConfig) { c.Fov = 180 }},
		{"far before near", func(c *FieldConfig) { c.Far = 0.01 }},
		{"bad colour", func(c *FieldConfig) { c.Color = "#12" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultFieldConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFieldConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"particle_count": 500, "color": "#ff0000", "seed": 9}`), 0o644))

	cfg, err := LoadFieldConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.ParticleCount)
	assert.Equal(t, int64(9), cfg.Seed)
	// Untouched keys keep their defaults.
	assert.Equal(t, float32(75), cfg.Fov)

	_, err = LoadFieldConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
