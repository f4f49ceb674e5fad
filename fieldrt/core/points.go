package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Rotation holds Euler angles in radians, applied in XYZ order.
// Angles grow without wrap-around.
type Rotation struct {
	X, Y, Z float64
}

func (r Rotation) Mat4() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(float32(r.X)).
		Mul4(mgl32.HomogRotate3DY(float32(r.Y))).
		Mul4(mgl32.HomogRotate3DZ(float32(r.Z)))
}

// Points is a point-cloud mesh. Particles never move individually; only Rotation changes.
type Points struct {
	Geometry *ParticleBuffer
	Material PointsMaterial
	Rotation Rotation
}

func NewPoints(geometry *ParticleBuffer, material PointsMaterial) *Points {
	return &Points{
		Geometry: geometry,
		Material: material,
	}
}

func (p *Points) ObjectToWorld() mgl32.Mat4 {
	return p.Rotation.Mat4()
}

type RotationParams struct {
	Drift       [3]float64 // radians per frame
	PointerGain float64    // radians per pixel of pointer offset per frame
}

// StepRotation advances rot by one frame. The pointer term only applies while
// mouseX is strictly positive; mouseY alone never rotates the mesh.
// scale multiplies every increment (1 for a plain per-frame step).
func StepRotation(rot Rotation, mouseX, mouseY float64, p RotationParams, scale float64) Rotation {
	rot.X += p.Drift[0] * scale
	rot.Y += p.Drift[1] * scale
	rot.Z += p.Drift[2] * scale

	if mouseX > 0 {
		rot.X += mouseY * p.PointerGain * scale
		rot.Y += mouseX * p.PointerGain * scale
	}
	return rot
}
