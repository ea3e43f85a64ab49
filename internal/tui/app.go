package tui

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/san-kum/seesaw/internal/beam"
	"github.com/san-kum/seesaw/internal/seesaw"
	"github.com/san-kum/seesaw/internal/store"
	"github.com/san-kum/seesaw/internal/viz"
)

const (
	// scene offset inside the terminal: title line, then the panel's
	// border and padding
	sceneLeft = 2
	sceneTop  = 2

	chromeRows = 14
	minCols    = 40
	minRows    = 8

	stepSlow   = 10.0
	stepFast   = 60.0
	historyLen = 120
	logRows    = 5
)

type Options struct {
	Params beam.Params
	FPS    int
	Theme  string
	Seed   int64
	State  *store.State
	Log    *zap.Logger
}

type tickMsg time.Time

func tick(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return tickMsg(t) })
}

type model struct {
	ctx     context.Context
	session *seesaw.Session
	state   *store.State
	log     *zap.Logger
	params  beam.Params

	fps    int
	theme  viz.Theme
	styles viz.Styles
	view   viz.Viewport
	canvas *viz.Canvas

	cursor  float64 // keyboard pointer, beam-local x
	mouse   bool    // pointer last driven by the mouse
	history []float64

	width  int
	height int
}

func newModel(ctx context.Context, opts Options) model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	theme := viz.GetTheme(opts.Theme)
	m := model{
		ctx:     ctx,
		state:   opts.State,
		log:     opts.Log,
		params:  opts.Params,
		fps:     opts.FPS,
		theme:   theme,
		styles:  theme.Styles(),
		history: make([]float64, 0, historyLen),
	}
	m.layout(80, 24)
	m.session = seesaw.New(opts.Params, m.view.Pivot(), rand.New(rand.NewSource(opts.Seed)))

	if m.state != nil {
		if rec, ok := m.state.Load(ctx); ok {
			m.session.Restore(rec)
			m.log.Info("restored session",
				zap.Int("items", len(rec.Placed)),
				zap.Int("logs", len(rec.Logs)))
		}
	}
	m.syncPointer()
	return m
}

func (m *model) layout(w, h int) {
	m.width, m.height = w, h
	cols := max(w-2*sceneLeft, minCols)
	rows := max(h-chromeRows, minRows)
	m.view = viz.Fit(cols, rows, m.params)
	m.canvas = viz.NewCanvas(cols, rows)
	if m.session != nil {
		m.session.SetPivot(m.view.Pivot())
	}
}

// syncPointer pins the keyboard pointer to the plank at the current angle.
func (m *model) syncPointer() {
	at := beam.ToWorld(m.session.Pivot(), beam.Point{X: m.cursor}, m.session.Angle())
	m.apply(seesaw.PointerMoved{At: at})
}

func (m *model) apply(ev seesaw.Event) seesaw.Outcome {
	out := m.session.Apply(ev)
	if out.Dropped != nil {
		m.log.Debug("drop",
			zap.Int("kg", out.Dropped.Weight),
			zap.Float64("x", out.Dropped.Offset),
			zap.Float64("target", m.session.Target()))
	}
	if out.Persist && m.state != nil {
		m.state.Save(m.ctx, m.session.Snapshot())
	}
	if out.Cleared && m.state != nil {
		m.state.Clear(m.ctx)
	}
	return out
}

func (m model) Init() tea.Cmd { return tick(m.fps) }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)
		if !m.mouse {
			m.syncPointer()
		}
		return m, nil
	case tickMsg:
		if !m.mouse && !m.session.Settled() {
			m.syncPointer()
		}
		m.apply(seesaw.Ticked{})
		m.history = append(m.history, m.session.Angle())
		if len(m.history) > historyLen {
			m.history = m.history[1:]
		}
		return m, tick(m.fps)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	half := m.params.HalfLength()
	switch msg.String() {
	case "q", "ctrl+c":
		if m.state != nil {
			m.state.Save(m.ctx, m.session.Snapshot())
		}
		return m, tea.Quit
	case "left", "h":
		m.moveCursor(-stepSlow, half)
	case "right", "l":
		m.moveCursor(stepSlow, half)
	case "shift+left", "H":
		m.moveCursor(-stepFast, half)
	case "shift+right", "L":
		m.moveCursor(stepFast, half)
	case " ", "enter":
		x := m.cursor
		if m.mouse {
			x = m.session.Ghost().Local
		}
		m.apply(seesaw.DroppedAt{LocalX: x})
		m.refreshPointer()
	case "r":
		m.apply(seesaw.ResetRequested{})
		m.history = m.history[:0]
		m.refreshPointer()
	case "t":
		m.theme = viz.NextTheme(m.theme)
		m.styles = m.theme.Styles()
	}
	return m, nil
}

func (m *model) moveCursor(dx, half float64) {
	if m.mouse {
		m.cursor = m.session.Ghost().Local
	}
	m.mouse = false
	m.cursor = beam.Clamp(m.cursor+dx, -half, half)
	m.syncPointer()
}

// refreshPointer re-sends the current pointer so the ghost picks up the
// new next weight.
func (m *model) refreshPointer() {
	if !m.mouse {
		m.syncPointer()
	}
}

func (m model) handleMouse(msg tea.MouseMsg) (model, tea.Cmd) {
	at := m.view.CellToWorld(msg.X-sceneLeft, msg.Y-sceneTop)
	switch {
	case msg.Action == tea.MouseActionMotion:
		m.mouse = true
		m.apply(seesaw.PointerMoved{At: at})
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.mouse = true
		m.apply(seesaw.Clicked{At: m.snapToPlank(at)})
		m.apply(seesaw.PointerMoved{At: at})
	}
	return m, nil
}

// snapToPlank moves a click that lands in the same terminal row band as the
// plank onto its surface; a cell is far coarser than the plank is thick.
func (m model) snapToPlank(at beam.Point) beam.Point {
	local := beam.ToLocal(at, m.session.Pivot(), m.session.Angle())
	if math.Abs(local.Y) > m.view.CellHeight()/2 {
		return at
	}
	return beam.ToWorld(m.session.Pivot(), beam.Point{X: local.X}, m.session.Angle())
}

func (m model) View() string {
	st := m.styles
	var b strings.Builder

	b.WriteString(st.Title.Render("seesaw") + "  " + st.Muted.Render(m.theme.Name) + "\n")

	viz.Draw(m.canvas, m.view, viz.FrameOf(m.session))
	scene := strings.TrimSuffix(m.canvas.String(), "\n")
	b.WriteString(st.Panel.Render(st.Scene.Render(scene)) + "\n")

	b.WriteString(" " + viz.HUD(st, m.session.Totals(), m.session.NextWeight(), m.session.Angle()) + "\n")

	lim := m.params.MaxAngle
	spark := viz.Sparkline(m.history, m.canvas.Width, -lim, lim)
	b.WriteString(" " + st.Label.Render("tilt ") + st.Value.Render(spark) + "\n")

	logs := viz.LogPane(st, m.session.Logs(), logRows)
	b.WriteString(st.Panel.Width(m.canvas.Width).Render(logs) + "\n")

	b.WriteString(st.KeyTip.Render(" ←→ move  shift fast  space drop  r reset  t theme  q quit"))
	return b.String()
}

// Run starts the interactive program and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newModel(ctx, opts),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
