package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/seesaw/internal/beam"
	"github.com/san-kum/seesaw/internal/config"
	"github.com/san-kum/seesaw/internal/sim"
)

func TestRegistry_Strategies(t *testing.T) {
	r := NewRegistry()
	p := beam.DefaultParams()
	rc := config.DefaultConfig().Run

	for _, name := range r.ListStrategies() {
		if name == "script" {
			continue
		}
		plan, err := r.Plan(name, rc, p, 7)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(plan) != rc.Drops {
			t.Errorf("%s: expected %d drops, got %d", name, rc.Drops, len(plan))
		}
		for i, d := range plan {
			if math.Abs(d.Offset) > p.HalfLength() {
				t.Errorf("%s: drop %d off the beam: %v", name, i, d.Offset)
			}
			if d.At != float64(i)*rc.Interval {
				t.Errorf("%s: drop %d at %v", name, i, d.At)
			}
		}
	}
}

func TestRegistry_Sides(t *testing.T) {
	r := NewRegistry()
	p := beam.DefaultParams()
	rc := config.DefaultConfig().Run

	left, _ := r.Plan("left", rc, p, 1)
	for _, d := range left {
		if d.Offset > 0 {
			t.Errorf("left strategy dropped right: %v", d.Offset)
		}
	}

	alt, _ := r.Plan("alternate", rc, p, 1)
	for i := 1; i < len(alt); i += 2 {
		if alt[i].Offset != -alt[i-1].Offset {
			t.Errorf("alternate pair %d not mirrored: %v %v", i, alt[i-1].Offset, alt[i].Offset)
		}
	}
}

func TestRegistry_Unknown(t *testing.T) {
	_, err := NewRegistry().GetStrategy("zigzag", config.RunConfig{})
	if !errors.Is(err, sim.ErrNoStrategy) {
		t.Errorf("expected ErrNoStrategy, got %v", err)
	}
}

func TestExperiment_Script(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Run.Strategy = "script"
	cfg.Run.Duration = 6
	cfg.Run.Script = []config.ScriptDrop{
		{Weight: 10, Offset: 200, At: 0},
		{Weight: 10, Offset: -200, At: 1},
	}

	result, err := New(cfg, NewRegistry(), nil).Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.FinalAngle() != 0 {
		t.Errorf("expected level beam, got %v", result.FinalAngle())
	}
	if result.Metrics["peak_angle"] <= 0 {
		t.Error("expected a non-zero peak angle")
	}
	if result.Metrics["settle_time"] < 0 {
		t.Error("expected the beam to settle")
	}
}

func TestExperiment_EmptyScript(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Run.Strategy = "script"
	_, err := New(cfg, NewRegistry(), nil).Run(context.Background())
	if !errors.Is(err, sim.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for empty plan, got %v", err)
	}
}

func TestExperiment_Sweep(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Run.Duration = 2
	cfg.Run.Drops = 3

	results, err := New(cfg, NewRegistry(), nil).Sweep(context.Background(), 4, 10, nil)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if len(r.Items) != 3 {
			t.Errorf("run %d placed %d items", i, len(r.Items))
		}
	}
}
