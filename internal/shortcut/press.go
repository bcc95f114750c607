package shortcut

import "time"

// RepeatWindow is how soon after a release a press still belongs to the
// same physical press. X11 auto-repeat arrives as release/press pairs a few
// milliseconds apart.
const RepeatWindow = 30 * time.Millisecond

// KeyEdge is one transition of a shortcut's key.
type KeyEdge int

const (
	KeyDown KeyEdge = iota
	KeyUp
)

// PressFilter turns an ordered stream of key edges into one activation per
// physical press. Each event source owns its own filter; it is not safe for
// concurrent use.
type PressFilter struct {
	window     time.Duration
	pressed    bool
	releasedAt time.Time
}

func NewPressFilter(window time.Duration) *PressFilter {
	return &PressFilter{window: window}
}

// Feed records e at time at and reports whether it starts a new press.
func (f *PressFilter) Feed(e KeyEdge, at time.Time) bool {
	switch e {
	case KeyDown:
		if f.pressed {
			return false
		}
		f.pressed = true
		if !f.releasedAt.IsZero() && at.Sub(f.releasedAt) < f.window {
			return false
		}
		return true
	case KeyUp:
		// A release without a press is noise and must not open a repeat window.
		if f.pressed {
			f.pressed = false
			f.releasedAt = at
		}
	}
	return false
}
