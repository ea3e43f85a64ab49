package beam

import (
	"math"
	"math/rand"
	"testing"
)

func TestComputeTorques(t *testing.T) {
	items := []Item{{5, -100}, {3, 50}, {2, 0}}
	tq := ComputeTorques(items)
	if tq.Left != 500 {
		t.Errorf("left torque = %v, want 500", tq.Left)
	}
	if tq.Right != 150 {
		t.Errorf("right torque = %v, want 150", tq.Right)
	}
}

func TestSideTotals_ZeroOffsetIsRight(t *testing.T) {
	totals := SideTotals([]Item{{4, 0}, {6, -1}})
	if totals.Left != 6 || totals.Right != 4 {
		t.Errorf("totals = %+v, want left 6 right 4", totals)
	}
}

func TestTargetAngle(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		name  string
		items []Item
		want  float64
	}{
		{"empty", nil, 0},
		{"balanced", []Item{{5, -100}, {5, 100}}, 0},
		{"saturated right", []Item{{10, 200}}, 30},
		{"saturated left", []Item{{10, -200}}, -30},
		{"linear", []Item{{3, 100}}, 10},
		{"net left", []Item{{3, -100}, {1, 60}}, -8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TargetFor(tt.items, p); math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("TargetFor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTargetAngle_MonotonicAndBounded(t *testing.T) {
	p := DefaultParams()
	prev := math.Inf(-1)
	for net := -2000.0; net <= 2000; net += 7.5 {
		a := TargetAngle(Torques{Right: math.Max(net, 0), Left: math.Max(-net, 0)}, p)
		if a < prev {
			t.Fatalf("not monotonic at net=%v: %v < %v", net, a, prev)
		}
		if a < -p.MaxAngle || a > p.MaxAngle {
			t.Fatalf("angle %v out of bounds at net=%v", a, net)
		}
		prev = a
	}
}

func TestSizeForWeight(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		kg   int
		want float64
	}{
		{1, 28},
		{10, 64},
		{0, 28},
		{42, 64},
		{4, 40},
	}
	for _, tt := range tests {
		if got := SizeForWeight(tt.kg, p); math.Abs(got-tt.want) > 1e-10 {
			t.Errorf("SizeForWeight(%d) = %v, want %v", tt.kg, got, tt.want)
		}
	}
}

func TestClampOffset(t *testing.T) {
	p := DefaultParams()
	if got := ClampOffset(1000, 10, p); got != 268 {
		t.Errorf("ClampOffset(1000, 10) = %v, want 268", got)
	}
	if got := ClampOffset(-1000, 1, p); got != -286 {
		t.Errorf("ClampOffset(-1000, 1) = %v, want -286", got)
	}
	if got := ClampOffset(-12.5, 7, p); got != -12.5 {
		t.Errorf("in-range offset changed: %v", got)
	}
}

func TestRandomWeight_InRange(t *testing.T) {
	p := DefaultParams()
	r := rand.New(rand.NewSource(7))
	seen := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		w := RandomWeight(r, p)
		if !p.ValidWeight(w) {
			t.Fatalf("weight %d out of range", w)
		}
		seen[w] = true
	}
	if len(seen) != p.MaxWeight-p.MinWeight+1 {
		t.Errorf("expected every weight to appear, saw %d distinct", len(seen))
	}
}

func TestFormatLogLine(t *testing.T) {
	tests := []struct {
		item Item
		want string
	}{
		{Item{7, -120.4}, "7kg dropped on left side at 120px from center"},
		{Item{3, 0}, "3kg dropped on right side at 0px from center"},
		{Item{10, 99.5}, "10kg dropped on right side at 100px from center"},
	}
	for _, tt := range tests {
		if got := FormatLogLine(tt.item); got != tt.want {
			t.Errorf("FormatLogLine(%+v) = %q, want %q", tt.item, got, tt.want)
		}
	}
}
