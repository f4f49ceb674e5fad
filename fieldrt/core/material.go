package core

type Blending int

const (
	NormalBlending Blending = iota
	AdditiveBlending
)

type PointsMaterial struct {
	Size            float32    // world units when SizeAttenuation is set, pixels otherwise
	Color           [3]float32 // linear 0..1
	Transparent     bool
	Opacity         float32
	Blending        Blending
	SizeAttenuation bool
}

func NewPointsMaterial(size float32, color [3]float32, opacity float32) PointsMaterial {
	return PointsMaterial{
		Size:            size,
		Color:           color,
		Transparent:     opacity < 1,
		Opacity:         opacity,
		Blending:        AdditiveBlending,
		SizeAttenuation: true,
	}
}

// RGBA returns the colour with opacity folded into alpha.
func (m PointsMaterial) RGBA() [4]float32 {
	a := float32(1)
	if m.Transparent {
		a = m.Opacity
	}
	return [4]float32{m.Color[0], m.Color[1], m.Color[2], a}
}
