package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/seesaw/internal/beam"
)

const LogPlaceholder = "No drops yet"

// HUD renders the totals line: side weights to one decimal, the next
// weight and the current tilt.
func HUD(st Styles, totals beam.Totals, next int, angle float64) string {
	return strings.Join([]string{
		st.Label.Render("left ") + st.Left.Render(fmt.Sprintf("%.1f kg", totals.Left)),
		st.Label.Render("right ") + st.Right.Render(fmt.Sprintf("%.1f kg", totals.Right)),
		st.Label.Render("next ") + st.Value.Render(fmt.Sprintf("%d kg", next)),
		st.Label.Render("tilt ") + st.Value.Render(fmt.Sprintf("%.1f°", angle)),
	}, "   ")
}

// LogPane renders up to max newest-first log lines, or the placeholder.
func LogPane(st Styles, logs []string, max int) string {
	if len(logs) == 0 {
		return st.Muted.Render(LogPlaceholder)
	}
	if max > 0 && len(logs) > max {
		logs = logs[:max]
	}
	lines := make([]string, len(logs))
	for i, l := range logs {
		if i == 0 {
			lines[i] = st.Scene.Render(l)
		} else {
			lines[i] = st.Muted.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}

// Sparkline renders a mini chart of recent angles.
func Sparkline(values []float64, width int, lo, hi float64) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	rng := hi - lo
	if rng == 0 {
		rng = 1
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	var sb strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(chars)-1))
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}
