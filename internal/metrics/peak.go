package metrics

import (
	"math"

	"github.com/san-kum/seesaw/internal/sim"
)

type PeakAngle struct {
	name string
	peak float64
}

func NewPeakAngle() *PeakAngle {
	return &PeakAngle{name: "peak_angle"}
}

func (p *PeakAngle) Name() string {
	return p.name
}

func (p *PeakAngle) Observe(f sim.Frame) {
	p.peak = math.Max(p.peak, math.Abs(f.Angle))
}

func (p *PeakAngle) Value() float64 {
	return p.peak
}

func (p *PeakAngle) Reset() {
	p.peak = 0
}
