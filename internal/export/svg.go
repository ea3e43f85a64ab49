package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/seesaw/internal/beam"
	"github.com/san-kum/seesaw/internal/storage"
	"github.com/san-kum/seesaw/internal/viz"
)

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64, theme viz.Theme) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.DotsWide()) * scale
	height := float64(canvas.DotsHigh()) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, width, height, width, height, string(theme.Text)))

	dotRadius := scale * 0.4
	for y := 0; y < canvas.DotsHigh(); y++ {
		for x := 0; x < canvas.DotsWide(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SceneToSVG draws the final resting state of a run.
func SceneToSVG(meta *storage.RunMetadata, cols, rows int, scale float64, theme viz.Theme) string {
	p := meta.Params
	v := viz.Fit(cols, rows, p)
	c := viz.NewCanvas(cols, rows)
	viz.Draw(c, v, viz.Frame{
		Params: p,
		Pivot:  v.Pivot(),
		Angle:  beam.TargetFor(meta.Items, p),
		Items:  meta.Items,
	})
	return CanvasToSVG(c, scale, theme)
}

// TraceToSVG plots rendered angle (solid) and target angle (dashed) over
// time. The vertical range is fixed to ±maxAngle so plots of different runs
// line up.
func TraceToSVG(tr *storage.Trace, maxAngle float64, width, height int, theme viz.Theme) string {
	if tr == nil || len(tr.Times) < 2 {
		return ""
	}
	if maxAngle <= 0 {
		maxAngle = 1
	}

	t0, t1 := tr.Times[0], tr.Times[len(tr.Times)-1]
	span := t1 - t0
	if span == 0 {
		span = 1
	}
	pad := 0.1 * float64(height)
	x := func(t float64) float64 { return (t - t0) / span * float64(width) }
	y := func(a float64) float64 {
		return float64(height)/2 - a/maxAngle*(float64(height)/2-pad)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-width="1"/>
`, width, height, width, height, y(0), width, y(0), string(theme.Border)))

	sb.WriteString(path(tr.Times, tr.Targets, x, y, string(theme.Muted), ` stroke-dasharray="4 3"`))
	sb.WriteString(path(tr.Times, tr.Angles, x, y, string(theme.Primary), ""))

	sb.WriteString("</svg>")
	return sb.String()
}

func path(ts, vs []float64, x, y func(float64) float64, stroke, extra string) string {
	n := int(math.Min(float64(len(ts)), float64(len(vs))))
	if n < 2 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5"%s d="M`, stroke, extra))
	for i := 0; i < n; i++ {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x(ts[i]), y(vs[i])))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x(ts[i]), y(vs[i])))
		}
	}
	sb.WriteString("\"/>\n")
	return sb.String()
}
