package metrics

import "github.com/san-kum/seesaw/internal/sim"

// SettleTime measures seconds from the most recent drop until the rendered
// angle reaches the target. It reports -1 while still moving.
type SettleTime struct {
	name     string
	lastDrop float64
	settled  float64
	waiting  bool
}

func NewSettleTime() *SettleTime {
	return &SettleTime{name: "settle_time"}
}

func (s *SettleTime) Name() string {
	return s.name
}

func (s *SettleTime) Observe(f sim.Frame) {
	if len(f.Dropped) > 0 {
		s.lastDrop = f.T
		s.waiting = true
	}
	if s.waiting && f.Angle == f.Target {
		s.settled = f.T - s.lastDrop
		s.waiting = false
	}
}

func (s *SettleTime) Value() float64 {
	if s.waiting {
		return -1
	}
	return s.settled
}

func (s *SettleTime) Reset() {
	s.lastDrop = 0
	s.settled = 0
	s.waiting = false
}
