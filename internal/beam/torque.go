package beam

import (
	"fmt"
	"math"
	"math/rand"
)

// Item is a weight resting on the beam. Offset is signed: negative is left
// of the pivot, zero and positive are right.
type Item struct {
	Weight int     `json:"kg"`
	Offset float64 `json:"x"`
}

func (it Item) Left() bool { return it.Offset < 0 }

func (it Item) Side() string {
	if it.Left() {
		return "left"
	}
	return "right"
}

type Totals struct {
	Left  float64
	Right float64
}

type Torques struct {
	Left  float64
	Right float64
}

func (t Torques) Net() float64 { return t.Right - t.Left }

func SideTotals(items []Item) Totals {
	var t Totals
	for _, it := range items {
		if it.Left() {
			t.Left += float64(it.Weight)
		} else {
			t.Right += float64(it.Weight)
		}
	}
	return t
}

func ComputeTorques(items []Item) Torques {
	var t Torques
	for _, it := range items {
		d := math.Abs(it.Offset)
		if it.Left() {
			t.Left += float64(it.Weight) * d
		} else {
			t.Right += float64(it.Weight) * d
		}
	}
	return t
}

// TargetAngle maps net torque to a tilt, saturating at ±MaxAngle the way a
// seesaw rests against its stop.
func TargetAngle(t Torques, p Params) float64 {
	raw := t.Net() / p.TorqueDivisor
	return Clamp(raw, -p.MaxAngle, p.MaxAngle)
}

// TargetFor is TargetAngle(ComputeTorques(items), p).
func TargetFor(items []Item, p Params) float64 {
	return TargetAngle(ComputeTorques(items), p)
}

// SizeForWeight interpolates the rendered diameter across the weight range.
func SizeForWeight(kg int, p Params) float64 {
	span := p.MaxWeight - p.MinWeight
	if span <= 0 {
		return p.MinSize
	}
	k := Clamp(float64(kg), float64(p.MinWeight), float64(p.MaxWeight))
	return p.MinSize + (k-float64(p.MinWeight))*(p.MaxSize-p.MinSize)/float64(span)
}

// ClampOffset keeps an item of weight kg fully on the plank.
func ClampOffset(localX float64, kg int, p Params) float64 {
	safe := p.HalfLength() - SizeForWeight(kg, p)/2
	return Clamp(localX, -safe, safe)
}

func RandomWeight(r *rand.Rand, p Params) int {
	return r.Intn(p.MaxWeight-p.MinWeight+1) + p.MinWeight
}

func FormatLogLine(it Item) string {
	dist := math.Round(math.Abs(it.Offset))
	return fmt.Sprintf("%dkg dropped on %s side at %.0fpx from center", it.Weight, it.Side(), dist)
}
