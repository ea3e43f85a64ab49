package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/seesaw/internal/config"
	"github.com/san-kum/seesaw/internal/experiment"
)

func TestParseRange(t *testing.T) {
	name, vals, err := ParseRange("follow_speed=0.1:0.3:3")
	if err != nil {
		t.Fatal(err)
	}
	if name != "follow_speed" || len(vals) != 3 {
		t.Fatalf("got %s %v", name, vals)
	}
	want := []float64{0.1, 0.2, 0.3}
	for i := range want {
		if d := vals[i] - want[i]; d > 1e-12 || d < -1e-12 {
			t.Errorf("vals[%d] = %v, want %v", i, vals[i], want[i])
		}
	}

	if _, vals, _ := ParseRange("max_angle=20"); len(vals) != 1 || vals[0] != 20 {
		t.Errorf("single value = %v", vals)
	}
	for _, bad := range []string{"follow_speed", "=1:2:3", "x=1:2", "x=a:b:3"} {
		if _, _, err := ParseRange(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func buildFor(t *testing.T) func(map[string]float64) (*experiment.Experiment, error) {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := config.DefaultConfig()
		cfg.Run.Strategy = "script"
		cfg.Run.Duration = 6
		cfg.Run.Script = []config.ScriptDrop{{Weight: 5, Offset: 120, At: 0}}
		for k, v := range params {
			if err := config.SetParam(&cfg.Beam, k, v); err != nil {
				t.Fatal(err)
			}
		}
		return experiment.New(cfg, experiment.NewRegistry(), nil), nil
	}
}

func TestGridSearch_FasterFollowSettlesSooner(t *testing.T) {
	g := NewGridSearch([]string{"follow_speed"}, [][]float64{{0.05, 0.1, 0.3}})
	best, val, err := g.Search(context.Background(), buildFor(t), "settle_time")
	if err != nil {
		t.Fatal(err)
	}
	if best["follow_speed"] != 0.3 {
		t.Errorf("best follow_speed = %v, want 0.3", best["follow_speed"])
	}
	if val <= 0 {
		t.Errorf("settle time = %v, want positive", val)
	}
}

func TestGridSearch_UnknownMetric(t *testing.T) {
	g := NewGridSearch([]string{"follow_speed"}, [][]float64{{0.1}})
	if _, _, err := g.Search(context.Background(), buildFor(t), "wobble"); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestGridSearch_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewGridSearch([]string{"follow_speed"}, [][]float64{{0.1, 0.2}})
	if _, _, err := g.Search(ctx, buildFor(t), "settle_time"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
