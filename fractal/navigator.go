package fractal

import "github.com/go-gl/mathgl/mgl64"

// ZoomGain is the multiplicative zoom step applied per scroll tick.
// Compounding multiplicatively keeps perceived zoom speed constant at every
// scale.
const ZoomGain = 1.1

type Button int

const (
	ButtonPrimary Button = iota
	ButtonOther
)

type Action int

const (
	Press Action = iota
	Release
)

// Navigator translates host input events into ViewState mutations. It is the
// only writer of the ViewState it is constructed with, and it expects to be
// called from the host's event thread only.
type Navigator struct {
	view *ViewState

	dragging bool
	last     mgl64.Vec2
}

func NewNavigator(view *ViewState) *Navigator {
	return &Navigator{view: view}
}

// Scroll zooms in for positive deltas and out for negative ones. Only the
// sign of delta matters; a zero delta does nothing.
func (n *Navigator) Scroll(delta float64) {
	if delta > 0 {
		n.view.Zoom *= ZoomGain
	} else if delta < 0 {
		n.view.Zoom /= ZoomGain
	}
}

// ButtonEvent starts a drag session on a primary press and ends it on a
// primary release. Other buttons and a release without a matching press are
// absorbed as no-ops.
func (n *Navigator) ButtonEvent(button Button, action Action, cursor mgl64.Vec2) {
	if button != ButtonPrimary {
		return
	}

	switch action {
	case Press:
		n.dragging = true
		n.last = cursor
	case Release:
		n.dragging = false
	}
}

// CursorMove pans the view while a drag session is active. Screen y grows
// downward while the imaginary axis renders upward, so the vertical delta is
// added where the horizontal one is subtracted.
func (n *Navigator) CursorMove(cursor mgl64.Vec2) {
	if !n.dragging {
		return
	}

	d := cursor.Sub(n.last)
	n.view.Pos[0] -= d[0] / n.view.Zoom
	n.view.Pos[1] += d[1] / n.view.Zoom
	n.last = cursor
}

// Dragging reports whether a drag session is active.
func (n *Navigator) Dragging() bool {
	return n.dragging
}
