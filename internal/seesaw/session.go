package seesaw

import (
	"math/rand"

	"github.com/san-kum/seesaw/internal/beam"
	"github.com/san-kum/seesaw/internal/store"
)

// Ghost is the preview of where the next weight would land.
type Ghost struct {
	Visible bool
	Weight  int
	Local   float64    // clamped beam-local x
	World   beam.Point // on the plank surface
	Marker  beam.Point // World lifted by GhostOffset
}

// Session owns all mutable state of one seesaw. It is not safe for
// concurrent use; a single driver (the UI loop or the headless runner)
// feeds it events.
type Session struct {
	params beam.Params
	rng    *rand.Rand
	pivot  beam.Point

	items  []beam.Item
	logs   []string
	next   int
	follow *beam.Follower

	pointer    beam.Point
	hasPointer bool
	pending    bool
	ghost      Ghost
}

func New(params beam.Params, pivot beam.Point, rng *rand.Rand) *Session {
	s := &Session{
		params: params,
		rng:    rng,
		pivot:  pivot,
		follow: beam.NewFollower(params),
	}
	s.next = beam.RandomWeight(rng, params)
	return s
}

func (s *Session) Params() beam.Params { return s.params }
func (s *Session) Pivot() beam.Point   { return s.pivot }

// SetPivot moves the beam's pivot in world space (e.g. on a resize).
func (s *Session) SetPivot(p beam.Point) {
	s.pivot = p
	s.pending = s.hasPointer
}

// PointerMove records the latest pointer position. Moves between two ticks
// coalesce: only the last one is processed.
func (s *Session) PointerMove(world beam.Point) {
	s.pointer = world
	s.hasPointer = true
	s.pending = true
}

func (s *Session) Pending() bool { return s.pending }

// Tick advances the rendered angle one frame and refreshes the ghost.
// It reports whether anything visible changed.
func (s *Session) Tick() bool {
	moved := s.follow.Step()
	if s.hasPointer && (moved || s.pending) {
		s.updateGhost()
		s.pending = false
		return true
	}
	return moved
}

func (s *Session) updateGhost() {
	local := beam.ToLocal(s.pointer, s.pivot, s.follow.Current)
	x := beam.ClampOffset(local.X, s.next, s.params)
	world := beam.ToWorld(s.pivot, beam.Point{X: x}, s.follow.Current)
	s.ghost = Ghost{
		Visible: true,
		Weight:  s.next,
		Local:   x,
		World:   world,
		Marker:  beam.Point{X: world.X, Y: world.Y - s.params.GhostOffset},
	}
}

// Drop handles a click in world space. Clicks that miss the plank are
// ignored.
func (s *Session) Drop(world beam.Point) (beam.Item, bool) {
	local := beam.ToLocal(world, s.pivot, s.follow.Current)
	if !beam.OnPlank(local.Y, s.params) {
		return beam.Item{}, false
	}
	return s.DropLocal(local.X), true
}

// DropLocal places the next weight at a beam-local x.
func (s *Session) DropLocal(localX float64) beam.Item {
	it := beam.Item{
		Weight: s.next,
		Offset: beam.ClampOffset(localX, s.next, s.params),
	}
	s.items = append(s.items, it)
	s.pushLog(beam.FormatLogLine(it))
	s.follow.Target = beam.TargetFor(s.items, s.params)
	s.next = beam.RandomWeight(s.rng, s.params)
	if s.hasPointer {
		s.updateGhost()
	}
	return it
}

// SetNextWeight overrides the randomly drawn next weight. Out-of-range
// weights are refused.
func (s *Session) SetNextWeight(kg int) bool {
	if !s.params.ValidWeight(kg) {
		return false
	}
	s.next = kg
	if s.hasPointer {
		s.updateGhost()
	}
	return true
}

func (s *Session) pushLog(line string) {
	s.logs = append([]string{line}, s.logs...)
	if len(s.logs) > s.params.LogLimit {
		s.logs = s.logs[:s.params.LogLimit]
	}
}

func (s *Session) Reset() {
	s.items = nil
	s.logs = nil
	s.follow.Reset()
	s.next = beam.RandomWeight(s.rng, s.params)
	if s.hasPointer {
		s.updateGhost()
	}
}

func (s *Session) Snapshot() store.Record {
	return store.Record{
		Placed:     s.Items(),
		Logs:       s.Logs(),
		NextWeight: s.next,
	}
}

// Restore replaces the session contents with a normalized record. The beam
// starts level and swings to the restored target on the following ticks.
func (s *Session) Restore(rec store.Record) {
	rec = store.Normalize(rec, s.params)
	s.items = rec.Placed
	s.logs = rec.Logs
	s.follow.Reset()
	s.follow.Target = beam.TargetFor(s.items, s.params)
	if rec.NextWeight != 0 {
		s.next = rec.NextWeight
	} else {
		s.next = beam.RandomWeight(s.rng, s.params)
	}
	s.pending = s.hasPointer
}

func (s *Session) Items() []beam.Item {
	return append([]beam.Item(nil), s.items...)
}

func (s *Session) Logs() []string {
	return append([]string(nil), s.logs...)
}

func (s *Session) Totals() beam.Totals   { return beam.SideTotals(s.items) }
func (s *Session) Torques() beam.Torques { return beam.ComputeTorques(s.items) }
func (s *Session) Angle() float64        { return s.follow.Current }
func (s *Session) Target() float64       { return s.follow.Target }
func (s *Session) Settled() bool         { return s.follow.Settled() }
func (s *Session) NextWeight() int       { return s.next }
func (s *Session) Ghost() Ghost          { return s.ghost }
