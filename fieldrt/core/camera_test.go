package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestPerspectiveCamera_Projection(t *testing.T) {
	cam := NewPerspectiveCamera(75, 16.0/9.0, 0.1, 1000)
	want := mgl32.Perspective(mgl32.DegToRad(75), 16.0/9.0, 0.1, 1000)
	assert.True(t, cam.ProjectionMatrix().ApproxEqual(want))

	// Aspect alone does not touch the projection.
	cam.Aspect = 1
	assert.True(t, cam.ProjectionMatrix().ApproxEqual(want))

	cam.UpdateProjectionMatrix()
	assert.True(t, cam.ProjectionMatrix().ApproxEqual(mgl32.Perspective(mgl32.DegToRad(75), 1, 0.1, 1000)))
}

func TestPerspectiveCamera_OriginProjectsToCentre(t *testing.T) {
	cam := NewPerspectiveCamera(75, 1, 0.1, 1000)
	cam.SetZ(30)

	clip := cam.ViewProjection().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	ndc := clip.Vec3().Mul(1 / clip.W())
	assert.InDelta(t, 0, ndc.X(), 1e-6)
	assert.InDelta(t, 0, ndc.Y(), 1e-6)
	assert.InDelta(t, 30, clip.W(), 1e-4)
}
