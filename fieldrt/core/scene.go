package core

type Scene struct {
	Points []*Points
}

func NewScene() *Scene {
	return &Scene{}
}

func (s *Scene) Add(p *Points) {
	s.Points = append(s.Points, p)
}

// TotalParticles sums the particle counts of every mesh in the scene.
func (s *Scene) TotalParticles() int {
	n := 0
	for _, p := range s.Points {
		if p.Geometry != nil {
			n += p.Geometry.Count()
		}
	}
	return n
}
