package fractal

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

func TestMandelbrotProgram(t *testing.T) {
	p := Mandelbrot()

	if p.GetPixel == nil {
		t.Fatal("mandelbrot program has no CPU implementation")
	}
	if !strings.Contains(p.FragmentShader, "u_zoom") {
		t.Error("fragment shader does not declare u_zoom")
	}
	if !strings.Contains(p.VertexShader, "vert") {
		t.Error("vertex shader does not declare the vert attribute")
	}
}

// escapeColor builds the colour for a pixel that escaped after n of bound
// iterations, using the same float32 operations as the evaluator.
func escapeColor(n, bound int32) mgl32.Vec3 {
	t := float32(n) / float32(bound)
	return mgl32.Vec3{t, t * t, t * 0.5}
}

func TestMandelbrotPixel(t *testing.T) {
	resolution := mgl32.Vec2{800, 800}

	tests := []struct {
		name  string
		view  ViewState
		pixel mgl32.Vec2
		want  mgl32.Vec3
	}{
		{
			// c = (0, 0) never escapes; the loop exhausts the bound
			// and lands on the gradient endpoint.
			name:  "origin is interior",
			view:  ViewState{Zoom: 200, Iterations: 50},
			pixel: mgl32.Vec2{400, 400},
			want:  mgl32.Vec3{1, 1, 0.5},
		},
		{
			// Screen center of the default view maps to (-0.5, 0),
			// inside the main cardioid.
			name:  "default view center",
			view:  DefaultView(),
			pixel: mgl32.Vec2{400, 400},
			want:  mgl32.Vec3{1, 1, 0.5},
		},
		{
			// c = (2, 0) escapes on the first update (|c|^2 = 4), so a
			// single iteration runs.
			name:  "escape at the threshold",
			view:  ViewState{Zoom: 1, Iterations: 1500},
			pixel: mgl32.Vec2{402, 400},
			want:  escapeColor(1, 1500),
		},
		{
			name:  "far exterior is near black",
			view:  ViewState{Zoom: 1, Iterations: 1500},
			pixel: mgl32.Vec2{700, 400},
			want:  escapeColor(1, 1500),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mandelbrotPixel(tt.view, tt.pixel, resolution)
			if got != tt.want {
				t.Errorf("mandelbrotPixel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMandelbrotPixelDeterministic(t *testing.T) {
	view := ViewState{
		Zoom:       12345.678,
		Pos:        mgl64.Vec2{-0.743643, 0.131825},
		Iterations: 500,
	}
	pixel := mgl32.Vec2{311.5, 244.5}
	resolution := mgl32.Vec2{640, 480}

	first := mandelbrotPixel(view, pixel, resolution)
	for i := 0; i < 10; i++ {
		if got := mandelbrotPixel(view, pixel, resolution); got != first {
			t.Fatalf("invocation %d = %v, want %v", i, got, first)
		}
	}
}

func TestMandelbrotPixelBrightnessOrder(t *testing.T) {
	// Points closer to the set survive more iterations, so they must never
	// be darker than points further out on the same ray.
	view := ViewState{Zoom: 100, Iterations: 200}
	resolution := mgl32.Vec2{800, 800}

	// px=420 maps to c=(0.2, 0), inside the cardioid; px=600 to c=(2, 0).
	last := float32(2)
	for px := float32(420); px <= 600; px += 20 {
		c := mandelbrotPixel(view, mgl32.Vec2{px, 400}, resolution)
		if c[0] > last {
			t.Fatalf("brightness increased moving away from the set at px=%v", px)
		}
		last = c[0]
	}
}

func BenchmarkMandelbrotPixel(b *testing.B) {
	view := DefaultView()
	resolution := mgl32.Vec2{800, 800}
	pixel := mgl32.Vec2{400, 400} // interior, always runs the full bound

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		mandelbrotPixel(view, pixel, resolution)
	}
}
