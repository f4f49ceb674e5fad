package core

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testParams = RotationParams{
	Drift:       [3]float64{0.0001, 0.0002, 0.0001},
	PointerGain: 0.00008,
}

func TestParticleBuffer_LengthAndRange(t *testing.T) {
	buf := NewParticleBuffer(2000, 100, rand.New(rand.NewSource(7)))

	require.Len(t, buf.Positions, 3*2000)
	assert.Equal(t, 2000, buf.Count())
	for i, v := range buf.Positions {
		if v < -50 || v >= 50 {
			t.Fatalf("component %d out of range: %v", i, v)
		}
	}
}

func TestParticleBuffer_SameSeedSameBuffer(t *testing.T) {
	a := NewParticleBuffer(64, 100, rand.New(rand.NewSource(42)))
	b := NewParticleBuffer(64, 100, rand.New(rand.NewSource(42)))
	assert.Equal(t, a.Positions, b.Positions)

	c := NewParticleBuffer(64, 100, rand.New(rand.NewSource(43)))
	assert.NotEqual(t, a.Positions, c.Positions)
}

func TestParticleBuffer_NegativeCount(t *testing.T) {
	buf := NewParticleBuffer(-3, 100, nil)
	assert.Empty(t, buf.Positions)
}

func TestStepRotation(t *testing.T) {
	tests := []struct {
		name           string
		mouseX, mouseY float64
		want           Rotation
	}{
		{"pointer right of centre", 5, 10, Rotation{0.0009, 0.0006, 0.0001}},
		{"pointer at centre", 0, 250, Rotation{0.0001, 0.0002, 0.0001}},
		{"pointer left of centre", -5, 10, Rotation{0.0001, 0.0002, 0.0001}},
		{"pointer left with large y", -5, 1e6, Rotation{0.0001, 0.0002, 0.0001}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StepRotation(Rotation{}, tt.mouseX, tt.mouseY, testParams, 1)
			assert.InDelta(t, tt.want.X, got.X, 1e-12)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-12)
			assert.InDelta(t, tt.want.Z, got.Z, 1e-12)
		})
	}
}

func TestStepRotation_Accumulates(t *testing.T) {
	const n = 1000
	rot := Rotation{}
	for i := 0; i < n; i++ {
		rot = StepRotation(rot, 0, 0, testParams, 1)
	}

	assert.InDelta(t, 0.0001*n, rot.X, 1e-9)
	assert.InDelta(t, 0.0002*n, rot.Y, 1e-9)
	assert.InDelta(t, 0.0001*n, rot.Z, 1e-9)
}

func TestStepRotation_Scale(t *testing.T) {
	got := StepRotation(Rotation{}, 5, 10, testParams, 2)
	assert.InDelta(t, 0.0018, got.X, 1e-12)
	assert.InDelta(t, 0.0012, got.Y, 1e-12)
	assert.InDelta(t, 0.0002, got.Z, 1e-12)
}

func TestRotation_Mat4(t *testing.T) {
	assert.True(t, Rotation{}.Mat4().ApproxEqual(mgl32.Ident4()))

	// Quarter turn about Y sends +X to -Z.
	m := Rotation{Y: math.Pi / 2}.Mat4()
	v := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, m)
	assert.True(t, v.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-5), "got %v", v)
}

func TestScene_TotalParticles(t *testing.T) {
	s := NewScene()
	s.Add(NewPoints(NewParticleBuffer(10, 1, nil), NewPointsMaterial(0.05, [3]float32{1, 1, 1}, 0.8)))
	s.Add(NewPoints(NewParticleBuffer(5, 1, nil), NewPointsMaterial(0.05, [3]float32{1, 1, 1}, 0.8)))
	assert.Equal(t, 15, s.TotalParticles())
}

func TestPointsMaterial_RGBA(t *testing.T) {
	m := NewPointsMaterial(0.05, [3]float32{0.5, 0.25, 1}, 0.8)
	assert.True(t, m.Transparent)
	assert.Equal(t, AdditiveBlending, m.Blending)
	assert.Equal(t, [4]float32{0.5, 0.25, 1, 0.8}, m.RGBA())

	opaque := NewPointsMaterial(0.05, [3]float32{1, 1, 1}, 1)
	assert.Equal(t, float32(1), opaque.RGBA()[3])
}
