package experiment

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/seesaw/internal/beam"
	"github.com/san-kum/seesaw/internal/config"
	"github.com/san-kum/seesaw/internal/metrics"
	"github.com/san-kum/seesaw/internal/sim"
)

type Registry struct {
	strategies map[string]func(config.RunConfig) Strategy
}

func NewRegistry() *Registry {
	r := &Registry{
		strategies: make(map[string]func(config.RunConfig) Strategy),
	}

	r.strategies["random"] = newRandom
	r.strategies["alternate"] = newAlternate
	r.strategies["left"] = func(rc config.RunConfig) Strategy { return newSide(rc, -1) }
	r.strategies["right"] = func(rc config.RunConfig) Strategy { return newSide(rc, 1) }
	r.strategies["script"] = newScript

	return r
}

func (r *Registry) GetStrategy(name string, rc config.RunConfig) (Strategy, error) {
	fn, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", sim.ErrNoStrategy, name)
	}
	return fn(rc), nil
}

func (r *Registry) ListStrategies() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Plan builds the drop list for one seed. The plan rng is separate from the
// session's weight rng so the two streams do not interleave.
func (r *Registry) Plan(name string, rc config.RunConfig, p beam.Params, seed int64) ([]sim.Drop, error) {
	s, err := r.GetStrategy(name, rc)
	if err != nil {
		return nil, err
	}
	return s.Plan(rand.New(rand.NewSource(seed^0x5ee5a3)), p), nil
}

func (r *Registry) DefaultMetrics(p beam.Params) []sim.Metric {
	return []sim.Metric{
		metrics.NewSettleTime(),
		metrics.NewPeakAngle(),
		metrics.NewSaturation(p.MaxAngle),
	}
}
