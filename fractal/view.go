package fractal

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrZoomNotPositive       = errors.New("zoom must be positive")
	ErrIterationsNotPositive = errors.New("iteration bound must be at least 1")
)

// ViewState holds the navigation parameters selecting which part of the
// complex plane is visible and at what detail. A host owns a single instance,
// hands a pointer to a Navigator for mutation, and copies it by value once
// per frame so every render lane observes the same snapshot.
type ViewState struct {
	// Zoom is the view scale in pixels per plane unit. Always positive.
	Zoom float64

	// Pos is the plane coordinate rendered at the center of the viewport.
	Pos mgl64.Vec2

	// Iterations bounds the escape loop. Always at least 1.
	Iterations int32
}

// DefaultView is the view the explorer starts at: the full set, centered
// slightly left of the origin.
func DefaultView() ViewState {
	return ViewState{
		Zoom:       200,
		Pos:        mgl64.Vec2{-0.5, 0},
		Iterations: 1500,
	}
}

// NewView validates the ViewState invariants. Hosts must reject invalid
// configuration here, before the first frame; nothing downstream re-checks.
func NewView(zoom, x, y float64, iterations int32) (ViewState, error) {
	if zoom <= 0 {
		return ViewState{}, ErrZoomNotPositive
	}
	if iterations < 1 {
		return ViewState{}, ErrIterationsNotPositive
	}

	return ViewState{
		Zoom:       zoom,
		Pos:        mgl64.Vec2{x, y},
		Iterations: iterations,
	}, nil
}
