package fractal

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNewView(t *testing.T) {
	tests := []struct {
		name       string
		zoom       float64
		iterations int32
		wantErr    error
	}{
		{name: "defaults", zoom: 200, iterations: 1500},
		{name: "single iteration", zoom: 1, iterations: 1},
		{name: "tiny zoom", zoom: 1e-12, iterations: 10},
		{name: "zero zoom", zoom: 0, iterations: 100, wantErr: ErrZoomNotPositive},
		{name: "negative zoom", zoom: -200, iterations: 100, wantErr: ErrZoomNotPositive},
		{name: "zero iterations", zoom: 200, iterations: 0, wantErr: ErrIterationsNotPositive},
		{name: "negative iterations", zoom: 200, iterations: -5, wantErr: ErrIterationsNotPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := NewView(tt.zoom, 0, 0, tt.iterations)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewView() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}

			if view.Zoom != tt.zoom || view.Iterations != tt.iterations {
				t.Errorf("NewView() = %+v, want zoom %v, iterations %v",
					view, tt.zoom, tt.iterations)
			}
		})
	}
}

func TestDefaultView(t *testing.T) {
	view := DefaultView()

	if view.Zoom != 200 {
		t.Errorf("DefaultView().Zoom = %v, want 200", view.Zoom)
	}
	if view.Pos != (mgl64.Vec2{-0.5, 0}) {
		t.Errorf("DefaultView().Pos = %v, want (-0.5, 0)", view.Pos)
	}
	if view.Iterations != 1500 {
		t.Errorf("DefaultView().Iterations = %v, want 1500", view.Iterations)
	}
}
