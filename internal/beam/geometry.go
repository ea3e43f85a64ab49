package beam

import "math"

type Point struct {
	X, Y float64
}

func (p Point) Sub(o Point) Point { return Point{p.X - o.X, p.Y - o.Y} }
func (p Point) Add(o Point) Point { return Point{p.X + o.X, p.Y + o.Y} }

func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// ToLocal rotates the vector from pivot to pointer by -angleDeg, giving
// coordinates as if the beam were horizontal.
func ToLocal(pointer, pivot Point, angleDeg float64) Point {
	d := pointer.Sub(pivot)
	sin, cos := math.Sincos(Radians(angleDeg))
	return Point{
		X: d.X*cos + d.Y*sin,
		Y: -d.X*sin + d.Y*cos,
	}
}

// ToWorld places a beam-local point back into screen space at angleDeg.
func ToWorld(pivot, local Point, angleDeg float64) Point {
	sin, cos := math.Sincos(Radians(angleDeg))
	return Point{
		X: pivot.X + local.X*cos - local.Y*sin,
		Y: pivot.Y + local.X*sin + local.Y*cos,
	}
}

// OnPlank reports whether a beam-local y coordinate falls on the plank.
func OnPlank(localY float64, p Params) bool {
	return math.Abs(localY) <= p.PlankThickness/2+p.ClickTolerance
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
