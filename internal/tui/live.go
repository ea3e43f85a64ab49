package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/seesaw/internal/beam"
	"github.com/san-kum/seesaw/internal/sim"
	"github.com/san-kum/seesaw/internal/viz"
)

const (
	liveCols    = 70
	liveRows    = 16
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

var _ sim.Observer = (*LiveRenderer)(nil)

// LiveRenderer prints a headless run to a terminal as it happens. It is a
// sim.Observer; with Pace set it sleeps so frames land in wall-clock time.
type LiveRenderer struct {
	Pace bool

	out       io.Writer
	params    beam.Params
	frameRate int
	lastFrame time.Time
	start     time.Time

	view   viz.Viewport
	canvas *viz.Canvas
	styles viz.Styles
	items  []beam.Item
	label  string
}

func NewLiveRenderer(out io.Writer, label string, params beam.Params, frameRate int, theme viz.Theme) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{
		Pace:      true,
		out:       out,
		params:    params,
		frameRate: frameRate,
		view:      viz.Fit(liveCols, liveRows, params),
		canvas:    viz.NewCanvas(liveCols, liveRows),
		styles:    theme.Styles(),
		label:     label,
	}
}

func (r *LiveRenderer) OnFrame(f sim.Frame) {
	r.items = append(r.items, f.Dropped...)

	if r.Pace {
		if r.start.IsZero() {
			r.start = time.Now()
		}
		if wait := time.Duration(f.T*float64(time.Second)) - time.Since(r.start); wait > 0 {
			time.Sleep(wait)
		}
	}

	if len(f.Dropped) == 0 && time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()
	r.render(f)
}

func (r *LiveRenderer) render(f sim.Frame) {
	viz.Draw(r.canvas, r.view, viz.Frame{
		Params: r.params,
		Pivot:  r.view.Pivot(),
		Angle:  f.Angle,
		Items:  r.items,
	})

	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  t=%.2fs\n", r.styles.Title.Render(r.label), f.T))
	b.WriteString("  " + strings.Repeat("-", liveCols) + "\n")
	for _, row := range r.canvas.Grid {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}
	b.WriteString("  " + strings.Repeat("-", liveCols) + "\n")
	b.WriteString(fmt.Sprintf("  left=%.1fkg right=%.1fkg angle=%.1f target=%.1f items=%d\n",
		f.Left, f.Right, f.Angle, f.Target, len(r.items)))

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
