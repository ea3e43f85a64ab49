package beam

import (
	"math"
	"testing"
)

func TestFollow_ConvergesMonotonically(t *testing.T) {
	const eps = 0.02
	current := 0.0
	for i := 0; i < 1000; i++ {
		next := Follow(current, 10, 0.1, eps)
		if next < current {
			t.Fatalf("step %d moved away: %v -> %v", i, current, next)
		}
		if next > 10 {
			t.Fatalf("overshoot at step %d: %v", i, next)
		}
		if math.Abs(10-next) < eps && next != 10 {
			t.Fatalf("inside eps but not snapped: %v", next)
		}
		current = next
		if current == 10 {
			return
		}
	}
	t.Fatalf("never reached target, stuck at %v", current)
}

func TestFollow_SnapsInsideEps(t *testing.T) {
	if got := Follow(9.99, 10, 0.12, 0.02); got != 10 {
		t.Errorf("Follow = %v, want exact snap to 10", got)
	}
	if got := Follow(-4, -4, 0.12, 0.02); got != -4 {
		t.Errorf("Follow at rest = %v, want -4", got)
	}
}

func TestFollower_Step(t *testing.T) {
	f := NewFollower(DefaultParams())
	f.Target = -20
	if !f.Step() {
		t.Fatal("expected movement on first step")
	}
	if math.Abs(f.Current-(-2.4)) > 1e-10 {
		t.Errorf("first step = %v, want -2.4", f.Current)
	}
	for i := 0; i < 500 && !f.Settled(); i++ {
		f.Step()
	}
	if !f.Settled() {
		t.Fatalf("follower did not settle: %v", f.Current)
	}
	if f.Step() {
		t.Error("settled follower should not move")
	}
}
