package fractal

import (
	_ "embed"

	"github.com/go-gl/mathgl/mgl32"
)

//go:embed shaders/default.vert
var defaultVertexShader string

//go:embed shaders/mandelbrot.frag
var mandelbrotFragment string

// PixelFunc maps one framebuffer pixel to a normalized RGB colour. Pixel
// coordinates follow gl_FragCoord: origin at the bottom-left, units of
// pixels, fragment centers at half-pixel offsets. A PixelFunc holds no state
// and may be called from any number of goroutines at once, provided they all
// pass the same ViewState snapshot.
type PixelFunc func(view ViewState, pixel, resolution mgl32.Vec2) mgl32.Vec3

// Program bundles the GLSL pair run on the GPU with a CPU implementation of
// the same pixel function. The two perform the same single-precision
// arithmetic and agree modulo floating-point rounding.
type Program struct {
	Name           string
	VertexShader   string
	FragmentShader string
	GetPixel       PixelFunc
}

func Mandelbrot() Program {
	return Program{
		Name:           "mandelbrot",
		VertexShader:   defaultVertexShader,
		FragmentShader: mandelbrotFragment,
		GetPixel:       mandelbrotPixel,
	}
}

// mandelbrotPixel is the scalar reference for shaders/mandelbrot.frag.
//
// The escape loop runs in float32 on both paths. Past zoom factors of
// roughly 1e6 to 1e7 neighbouring pixels collapse onto the same float32 c
// and the image goes blocky; deep zoom past that point is out of scope.
func mandelbrotPixel(view ViewState, pixel, resolution mgl32.Vec2) mgl32.Vec3 {
	zoom := float32(view.Zoom)
	offset := mgl32.Vec2{float32(view.Pos[0]), float32(view.Pos[1])}
	c := pixel.Sub(resolution.Mul(0.5)).Mul(1 / zoom).Add(offset)

	var z mgl32.Vec2
	var n int32
	for z.Dot(z) < 4 && n < view.Iterations {
		z = mgl32.Vec2{z[0]*z[0] - z[1]*z[1] + c[0], 2*z[0]*z[1] + c[1]}
		n++
	}

	// Interior points exhaust the bound and land on the gradient endpoint,
	// same as points that escape arbitrarily slowly.
	t := float32(n) / float32(view.Iterations)
	return mgl32.Vec3{t, t * t, t * 0.5}
}
