package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"go.uber.org/zap"

	"github.com/san-kum/seesaw/internal/beam"
	"github.com/san-kum/seesaw/internal/seesaw"
)

// Runner replays a drop plan through a fresh session, one tick per Dt.
type Runner struct {
	params    beam.Params
	metrics   []Metric
	observers []Observer
	log       *zap.Logger
}

func New(params beam.Params, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		params:    params,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       log,
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Run(ctx context.Context, plan []Drop, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for i, d := range plan {
		if d.Weight != 0 && !r.params.ValidWeight(d.Weight) {
			return nil, fmt.Errorf("%w: drop %d has weight %d", ErrInvalidDrop, i, d.Weight)
		}
		if math.IsNaN(d.Offset) || math.IsInf(d.Offset, 0) || math.IsNaN(d.At) {
			return nil, fmt.Errorf("%w: drop %d is not finite", ErrInvalidDrop, i)
		}
	}

	queue := append([]Drop(nil), plan...)
	sort.SliceStable(queue, func(i, j int) bool { return queue[i].At < queue[j].At })

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Times:   make([]float64, 0, steps+1),
		Angles:  make([]float64, 0, steps+1),
		Targets: make([]float64, 0, steps+1),
		Left:    make([]float64, 0, steps+1),
		Right:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
		Seed:    cfg.Seed,
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	s := seesaw.New(r.params, beam.Point{}, rand.New(rand.NewSource(cfg.Seed)))

	for i := 0; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt
		var dropped []beam.Item
		for len(queue) > 0 && queue[0].At <= t+cfg.Dt/2 {
			d := queue[0]
			queue = queue[1:]
			if d.Weight != 0 {
				s.SetNextWeight(d.Weight)
			}
			out := s.Apply(seesaw.DroppedAt{LocalX: d.Offset})
			dropped = append(dropped, *out.Dropped)
			r.log.Debug("drop",
				zap.Float64("t", t),
				zap.Int("kg", out.Dropped.Weight),
				zap.Float64("offset", out.Dropped.Offset),
				zap.Float64("target", s.Target()))
		}
		if i > 0 {
			s.Apply(seesaw.Ticked{})
		}

		totals := s.Totals()
		f := Frame{
			Step:    i,
			T:       t,
			Angle:   s.Angle(),
			Target:  s.Target(),
			Left:    totals.Left,
			Right:   totals.Right,
			Dropped: dropped,
		}
		for _, m := range r.metrics {
			m.Observe(f)
		}
		for _, o := range r.observers {
			o.OnFrame(f)
		}

		result.Times = append(result.Times, f.T)
		result.Angles = append(result.Angles, f.Angle)
		result.Targets = append(result.Targets, f.Target)
		result.Left = append(result.Left, f.Left)
		result.Right = append(result.Right, f.Right)
		result.Steps = i
	}

	result.Items = s.Items()
	result.Logs = s.Logs()
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}
