package seesaw

import "github.com/san-kum/seesaw/internal/beam"

// Event is an input or clock message applied to a Session.
type Event interface {
	event()
}

type PointerMoved struct{ At beam.Point }
type Clicked struct{ At beam.Point }
type DroppedAt struct{ LocalX float64 }
type Ticked struct{}
type ResetRequested struct{}

func (PointerMoved) event()   {}
func (Clicked) event()        {}
func (DroppedAt) event()      {}
func (Ticked) event()         {}
func (ResetRequested) event() {}

// Outcome tells the driver what an event did.
type Outcome struct {
	Redraw  bool
	Persist bool
	Dropped *beam.Item
	Cleared bool
}

// Apply is the single entry point for drivers: every state transition goes
// through here.
func (s *Session) Apply(ev Event) Outcome {
	switch ev := ev.(type) {
	case PointerMoved:
		s.PointerMove(ev.At)
		return Outcome{}
	case Clicked:
		it, ok := s.Drop(ev.At)
		if !ok {
			return Outcome{}
		}
		return Outcome{Redraw: true, Persist: true, Dropped: &it}
	case DroppedAt:
		it := s.DropLocal(ev.LocalX)
		return Outcome{Redraw: true, Persist: true, Dropped: &it}
	case Ticked:
		return Outcome{Redraw: s.Tick()}
	case ResetRequested:
		s.Reset()
		return Outcome{Redraw: true, Cleared: true}
	}
	return Outcome{}
}
