package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// PerspectiveCamera mirrors a classic perspective camera: the projection is only
// rebuilt by UpdateProjectionMatrix, so changing Aspect alone has no effect until then.
type PerspectiveCamera struct {
	Fov      float32 // vertical, degrees
	Aspect   float32
	Near     float32
	Far      float32
	Position mgl32.Vec3

	projection mgl32.Mat4
}

func NewPerspectiveCamera(fov, aspect, near, far float32) *PerspectiveCamera {
	c := &PerspectiveCamera{
		Fov:      fov,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
		Position: mgl32.Vec3{0, 0, 0},
	}
	c.UpdateProjectionMatrix()
	return c
}

// SetZ moves the camera along the view axis.
func (c *PerspectiveCamera) SetZ(z float32) {
	c.Position[2] = z
}

func (c *PerspectiveCamera) UpdateProjectionMatrix() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.Aspect, c.Near, c.Far)
}

func (c *PerspectiveCamera) ProjectionMatrix() mgl32.Mat4 {
	return c.projection
}

// GetViewMatrix looks down -Z from Position; the camera is never rotated.
func (c *PerspectiveCamera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(-c.Position.X(), -c.Position.Y(), -c.Position.Z())
}

func (c *PerspectiveCamera) ViewProjection() mgl32.Mat4 {
	return c.projection.Mul4(c.GetViewMatrix())
}
