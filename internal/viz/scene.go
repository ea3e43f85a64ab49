package viz

import (
	"math"

	"github.com/san-kum/seesaw/internal/beam"
	"github.com/san-kum/seesaw/internal/seesaw"
)

// Frame is everything the scene needs from a session.
type Frame struct {
	Params beam.Params
	Pivot  beam.Point
	Angle  float64
	Items  []beam.Item
	Ghost  seesaw.Ghost
}

func FrameOf(s *seesaw.Session) Frame {
	return Frame{
		Params: s.Params(),
		Pivot:  s.Pivot(),
		Angle:  s.Angle(),
		Items:  s.Items(),
		Ghost:  s.Ghost(),
	}
}

// Viewport scales world pixels onto canvas dots. World space shares its
// origin with the canvas; Scale is dots per world pixel.
type Viewport struct {
	Scale float64
	Cols  int
	Rows  int
}

// Fit picks a scale so the plank spans most of a cols x rows canvas with
// room for the ghost above it.
func Fit(cols, rows int, p beam.Params) Viewport {
	dotsW := float64(cols * 2)
	dotsH := float64(rows * 4)
	sx := dotsW * 0.9 / p.PlankLength
	sy := dotsH * 0.9 / (p.GhostOffset + p.MaxSize*2 + p.HalfLength()*math.Sin(beam.Radians(p.MaxAngle)))
	return Viewport{Scale: math.Min(sx, sy), Cols: cols, Rows: rows}
}

// Pivot is where the beam's center sits in world space for this viewport.
func (v Viewport) Pivot() beam.Point {
	return beam.Point{
		X: float64(v.Cols*2) / 2 / v.Scale,
		Y: float64(v.Rows*4) * 0.62 / v.Scale,
	}
}

func (v Viewport) ToDots(p beam.Point) (float64, float64) {
	return p.X * v.Scale, p.Y * v.Scale
}

// CellToWorld returns the world point at the center of a terminal cell.
func (v Viewport) CellToWorld(col, row int) beam.Point {
	return beam.Point{
		X: (float64(col*2) + 1) / v.Scale,
		Y: (float64(row*4) + 2) / v.Scale,
	}
}

// ClampInside keeps pt at least pad world pixels from every edge of the
// canvas, centering it on an axis too small to honor the padding.
func (v Viewport) ClampInside(pt beam.Point, pad float64) beam.Point {
	w := float64(v.Cols*2) / v.Scale
	h := float64(v.Rows*4) / v.Scale
	return beam.Point{X: clampAxis(pt.X, pad, w), Y: clampAxis(pt.Y, pad, h)}
}

func clampAxis(x, pad, size float64) float64 {
	if 2*pad > size {
		return size / 2
	}
	return beam.Clamp(x, pad, size-pad)
}

// CellHeight is the height of one terminal row in world pixels.
func (v Viewport) CellHeight() float64 {
	return 4 / v.Scale
}

func (v Viewport) line(c *Canvas, a, b beam.Point) {
	ax, ay := v.ToDots(a)
	bx, by := v.ToDots(b)
	c.DrawLine(int(math.Round(ax)), int(math.Round(ay)), int(math.Round(bx)), int(math.Round(by)))
}

const ghostPadding = 8

// Draw renders the frame onto c, clearing it first.
func Draw(c *Canvas, v Viewport, f Frame) {
	c.Clear()
	p := f.Params
	half := p.HalfLength()
	thick := p.PlankThickness / 2

	// pivot stand
	base := 3 * p.PlankThickness
	v.line(c, f.Pivot, beam.Point{X: f.Pivot.X - base, Y: f.Pivot.Y + 2*base})
	v.line(c, f.Pivot, beam.Point{X: f.Pivot.X + base, Y: f.Pivot.Y + 2*base})
	v.line(c, beam.Point{X: f.Pivot.X - base, Y: f.Pivot.Y + 2*base}, beam.Point{X: f.Pivot.X + base, Y: f.Pivot.Y + 2*base})

	// plank: a band of parallel lines across its thickness
	step := math.Max(1/v.Scale, 0.5)
	for y := -thick; y <= thick; y += step {
		a := beam.ToWorld(f.Pivot, beam.Point{X: -half, Y: y}, f.Angle)
		b := beam.ToWorld(f.Pivot, beam.Point{X: half, Y: y}, f.Angle)
		v.line(c, a, b)
	}

	for _, it := range f.Items {
		r := beam.SizeForWeight(it.Weight, p) / 2
		center := beam.ToWorld(f.Pivot, beam.Point{X: it.Offset, Y: -thick - r}, f.Angle)
		x, y := v.ToDots(center)
		c.FillCircle(x, y, r*v.Scale)
	}

	if f.Ghost.Visible {
		r := beam.SizeForWeight(f.Ghost.Weight, p) / 2
		x, y := v.ToDots(v.ClampInside(f.Ghost.Marker, r+ghostPadding))
		c.Circle(x, y, r*v.Scale)

		// dotted drop guide down to the plank surface
		_, sy := v.ToDots(f.Ghost.World)
		for gy := y + r*v.Scale + 2; gy < sy-2; gy += 3 {
			c.Set(int(math.Round(x)), int(math.Round(gy)))
		}
	}
}
