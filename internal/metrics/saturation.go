package metrics

import (
	"math"

	"github.com/san-kum/seesaw/internal/sim"
)

// Saturation is the fraction of frames whose target sits on the stop.
type Saturation struct {
	name     string
	maxAngle float64
	hits     int
	samples  int
}

func NewSaturation(maxAngle float64) *Saturation {
	return &Saturation{
		name:     "saturation",
		maxAngle: maxAngle,
	}
}

func (s *Saturation) Name() string {
	return s.name
}

func (s *Saturation) Observe(f sim.Frame) {
	s.samples++
	if math.Abs(f.Target) >= s.maxAngle {
		s.hits++
	}
}

func (s *Saturation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.hits) / float64(s.samples)
}

func (s *Saturation) Reset() {
	s.hits = 0
	s.samples = 0
}
