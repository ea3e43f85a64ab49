package experiment

import (
	"math/rand"

	"github.com/san-kum/seesaw/internal/beam"
	"github.com/san-kum/seesaw/internal/config"
	"github.com/san-kum/seesaw/internal/sim"
)

// Strategy decides where a sequence of drops lands.
type Strategy interface {
	Plan(r *rand.Rand, p beam.Params) []sim.Drop
}

type StrategyFunc func(r *rand.Rand, p beam.Params) []sim.Drop

func (f StrategyFunc) Plan(r *rand.Rand, p beam.Params) []sim.Drop { return f(r, p) }

func schedule(rc config.RunConfig, offset func(i int, r *rand.Rand, half float64) float64) StrategyFunc {
	return func(r *rand.Rand, p beam.Params) []sim.Drop {
		drops := make([]sim.Drop, 0, rc.Drops)
		for i := 0; i < rc.Drops; i++ {
			drops = append(drops, sim.Drop{
				At:     float64(i) * rc.Interval,
				Offset: offset(i, r, p.HalfLength()),
			})
		}
		return drops
	}
}

func newRandom(rc config.RunConfig) Strategy {
	return schedule(rc, func(_ int, r *rand.Rand, half float64) float64 {
		return (r.Float64()*2 - 1) * half
	})
}

// newAlternate mirrors each drop onto the opposite side of the previous one.
func newAlternate(rc config.RunConfig) Strategy {
	var last float64
	return schedule(rc, func(i int, r *rand.Rand, half float64) float64 {
		if i%2 == 1 {
			return -last
		}
		last = (0.2 + 0.8*r.Float64()) * half
		return last
	})
}

func newSide(rc config.RunConfig, sign float64) Strategy {
	return schedule(rc, func(_ int, r *rand.Rand, half float64) float64 {
		return sign * r.Float64() * half
	})
}

func newScript(rc config.RunConfig) Strategy {
	return StrategyFunc(func(_ *rand.Rand, _ beam.Params) []sim.Drop {
		drops := make([]sim.Drop, len(rc.Script))
		for i, d := range rc.Script {
			drops[i] = sim.Drop{At: d.At, Offset: d.Offset, Weight: d.Weight}
		}
		return drops
	})
}
