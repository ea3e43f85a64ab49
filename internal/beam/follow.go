package beam

import "math"

// Follow advances current one step toward target. Inside eps it snaps so the
// approach terminates instead of creeping forever.
func Follow(current, target, speed, eps float64) float64 {
	if math.Abs(target-current) < eps {
		return target
	}
	next := current + (target-current)*speed
	if math.Abs(target-next) < eps {
		return target
	}
	return next
}

// Follower is the rendered angle lagging behind a target.
type Follower struct {
	Current float64
	Target  float64
	Speed   float64
	Eps     float64
}

func NewFollower(p Params) *Follower {
	return &Follower{Speed: p.FollowSpeed, Eps: p.SnapEps}
}

// Step advances Current and reports whether it changed.
func (f *Follower) Step() bool {
	prev := f.Current
	f.Current = Follow(f.Current, f.Target, f.Speed, f.Eps)
	return f.Current != prev
}

func (f *Follower) Settled() bool {
	return f.Current == f.Target
}

func (f *Follower) Reset() {
	f.Current = 0
	f.Target = 0
}
