package experiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/seesaw/internal/config"
	"github.com/san-kum/seesaw/internal/sim"
)

// Experiment is one configured headless run.
type Experiment struct {
	cfg      *config.Config
	registry *Registry
	runner   *sim.Runner
}

func New(cfg *config.Config, registry *Registry, log *zap.Logger) *Experiment {
	runner := sim.New(cfg.Beam, log)
	for _, m := range registry.DefaultMetrics(cfg.Beam) {
		runner.AddMetric(m)
	}
	return &Experiment{cfg: cfg, registry: registry, runner: runner}
}

// Runner returns the underlying runner for adding observers.
func (e *Experiment) Runner() *sim.Runner {
	return e.runner
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Dt:       1.0 / float64(e.cfg.FPS),
		Duration: e.cfg.Run.Duration,
		Seed:     e.cfg.Run.Seed,
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	rc := e.cfg.Run
	plan, err := e.registry.Plan(rc.Strategy, rc, e.cfg.Beam, rc.Seed)
	if err != nil {
		return nil, err
	}
	if len(plan) == 0 {
		return nil, fmt.Errorf("%w: strategy %s produced no drops", sim.ErrInvalidConfig, rc.Strategy)
	}
	return e.runner.Run(ctx, plan, e.SimConfig())
}

// Sweep runs the configured strategy once per seed in [seedStart, seedStart+n).
func (e *Experiment) Sweep(ctx context.Context, n int, seedStart int64, log *zap.Logger) ([]*sim.Result, error) {
	rc := e.cfg.Run
	ens := sim.NewEnsemble(e.cfg.Beam, n, seedStart, func() []sim.Metric {
		return e.registry.DefaultMetrics(e.cfg.Beam)
	}, log)
	return ens.Run(ctx, e.SimConfig(), func(seed int64) ([]sim.Drop, error) {
		return e.registry.Plan(rc.Strategy, rc, e.cfg.Beam, seed)
	})
}
