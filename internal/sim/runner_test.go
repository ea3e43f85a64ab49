package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/seesaw/internal/beam"
)

type recorder struct {
	frames []Frame
}

func (r *recorder) OnFrame(f Frame) { r.frames = append(r.frames, f) }

func TestRunner_Balanced(t *testing.T) {
	r := New(beam.DefaultParams(), nil)
	plan := []Drop{
		{At: 0, Offset: -100, Weight: 5},
		{At: 0.5, Offset: 100, Weight: 5},
	}

	result, err := r.Run(context.Background(), plan, Config{Dt: 1.0 / 60, Duration: 5, Seed: 1})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Targets[len(result.Targets)-1] != 0 {
		t.Errorf("expected balanced target, got %v", result.Targets[len(result.Targets)-1])
	}
	if math.Abs(result.FinalAngle()) > 0 {
		t.Errorf("expected beam to settle level, got %v", result.FinalAngle())
	}
	if len(result.Times) != 301 {
		t.Errorf("expected 301 frames, got %d", len(result.Times))
	}

	peak := 0.0
	for _, a := range result.Angles {
		peak = math.Min(peak, a)
	}
	if peak >= 0 {
		t.Error("beam should have dipped left before the second drop")
	}
}

func TestRunner_Saturates(t *testing.T) {
	r := New(beam.DefaultParams(), nil)
	result, err := r.Run(context.Background(), []Drop{{At: 0, Offset: 200, Weight: 10}}, Config{Dt: 0.01, Duration: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.FinalAngle() != 30 {
		t.Errorf("expected saturation at 30, got %v", result.FinalAngle())
	}
	for i, a := range result.Angles {
		if a > 30 {
			t.Fatalf("overshoot at frame %d: %v", i, a)
		}
	}
}

func TestRunner_ObserversAndDropsSeen(t *testing.T) {
	r := New(beam.DefaultParams(), nil)
	rec := &recorder{}
	r.AddObserver(rec)

	_, err := r.Run(context.Background(), []Drop{{At: 0.1, Offset: -20}, {At: 0.1, Offset: 20}}, Config{Dt: 0.1, Duration: 0.3})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(rec.frames) != 4 {
		t.Fatalf("expected 4 frames, got %d", len(rec.frames))
	}
	if len(rec.frames[1].Dropped) != 2 {
		t.Errorf("expected both drops on frame 1, got %d", len(rec.frames[1].Dropped))
	}
}

func TestRunner_SameSeedSameResult(t *testing.T) {
	plan := []Drop{{At: 0, Offset: 50}, {At: 1, Offset: -75}, {At: 2, Offset: 10}}
	cfg := Config{Dt: 0.05, Duration: 4, Seed: 42}

	a, err := New(beam.DefaultParams(), nil).Run(context.Background(), plan, cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(beam.DefaultParams(), nil).Run(context.Background(), plan, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Items {
		if a.Items[i] != b.Items[i] {
			t.Errorf("item %d differs: %v vs %v", i, a.Items[i], b.Items[i])
		}
	}
}

func TestRunner_InvalidInput(t *testing.T) {
	r := New(beam.DefaultParams(), nil)

	_, err := r.Run(context.Background(), nil, Config{Dt: 0, Duration: 1})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	_, err = r.Run(context.Background(), []Drop{{Weight: 11}}, Config{Dt: 0.1, Duration: 1})
	if !errors.Is(err, ErrInvalidDrop) {
		t.Errorf("expected ErrInvalidDrop, got %v", err)
	}
}

func TestRunner_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(beam.DefaultParams(), nil).Run(ctx, nil, Config{Dt: 0.1, Duration: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		cfg   Config
		valid bool
	}{
		{Config{Dt: 0.01, Duration: 1}, true},
		{Config{Dt: -1, Duration: 1}, false},
		{Config{Dt: 0.01, Duration: 0}, false},
	}
	for _, tt := range tests {
		if err := tt.cfg.Validate(); (err == nil) != tt.valid {
			t.Errorf("Validate(%+v) = %v", tt.cfg, err)
		}
	}
}
