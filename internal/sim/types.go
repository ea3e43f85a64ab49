package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/seesaw/internal/beam"
)

var (
	ErrInvalidConfig = errors.New("sim: invalid config")
	ErrInvalidDrop   = errors.New("sim: invalid drop")
	ErrNoStrategy    = errors.New("sim: no such strategy")
)

// Drop schedules a weight at time At. Weight 0 uses the session's own
// random next weight.
type Drop struct {
	At     float64 `json:"at" yaml:"at"`
	Offset float64 `json:"offset" yaml:"offset"`
	Weight int     `json:"weight,omitempty" yaml:"weight"`
}

// Frame is what observers and metrics see after every tick.
type Frame struct {
	Step    int
	T       float64
	Angle   float64
	Target  float64
	Left    float64
	Right   float64
	Dropped []beam.Item
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

type Config struct {
	Dt       float64
	Duration float64
	Seed     int64
}

func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, c.Duration)
	}
	return nil
}

type Result struct {
	Times   []float64
	Angles  []float64
	Targets []float64
	Left    []float64
	Right   []float64
	Items   []beam.Item
	Logs    []string
	Metrics map[string]float64
	Seed    int64
	Steps   int
}

// FinalAngle is the rendered angle on the last frame.
func (r *Result) FinalAngle() float64 {
	if len(r.Angles) == 0 {
		return 0
	}
	return r.Angles[len(r.Angles)-1]
}
