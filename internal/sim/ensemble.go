package sim

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/seesaw/internal/beam"
)

// Ensemble runs one plan per seed concurrently. Every run gets its own
// Runner and metric instances since metrics carry state.
type Ensemble struct {
	params    beam.Params
	numRuns   int
	seedStart int64
	metrics   func() []Metric
	log       *zap.Logger
}

func NewEnsemble(params beam.Params, numRuns int, seedStart int64, metrics func() []Metric, log *zap.Logger) *Ensemble {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ensemble{params: params, numRuns: numRuns, seedStart: seedStart, metrics: metrics, log: log}
}

// Run calls planFor with each seed and returns results in seed order.
func (e *Ensemble) Run(ctx context.Context, cfg Config, planFor func(seed int64) ([]Drop, error)) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			seed := e.seedStart + int64(i)
			plan, err := planFor(seed)
			if err != nil {
				return err
			}

			r := New(e.params, e.log.With(zap.Int64("seed", seed)))
			if e.metrics != nil {
				for _, m := range e.metrics() {
					r.AddMetric(m)
				}
			}

			c := cfg
			c.Seed = seed
			res, err := r.Run(ctx, plan, c)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
