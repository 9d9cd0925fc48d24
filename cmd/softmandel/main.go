// Command softmandel is a pure-Go Mandelbrot viewer. It renders with the CPU
// pixel function instead of a shader, and exists mostly to show that the
// navigation core is not tied to any particular windowing host.
package main

import (
	"log"
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/stewi1014/glmandel/fractal"
)

const (
	screenWidth  = 800
	screenHeight = 800

	// The GPU viewer's default bound of 1500 is far too slow for a
	// per-frame CPU render.
	softIterations = 256
)

type Game struct {
	view      fractal.ViewState
	navigator *fractal.Navigator
	getPixel  fractal.PixelFunc

	offscreen    *ebiten.Image
	offscreenPix []byte
	lastDrawn    fractal.ViewState
	drawnOnce    bool
}

func NewGame() *Game {
	g := &Game{
		view:         fractal.DefaultView(),
		getPixel:     fractal.Mandelbrot().GetPixel,
		offscreen:    ebiten.NewImage(screenWidth, screenHeight),
		offscreenPix: make([]byte, screenWidth*screenHeight*4),
	}
	g.view.Iterations = softIterations
	g.navigator = fractal.NewNavigator(&g.view)
	return g
}

func (g *Game) Update() error {
	_, wheelY := ebiten.Wheel()
	if wheelY != 0 {
		g.navigator.Scroll(wheelY)
	}

	cx, cy := ebiten.CursorPosition()
	cursor := mgl64.Vec2{float64(cx), float64(cy)}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.navigator.ButtonEvent(fractal.ButtonPrimary, fractal.Press, cursor)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.navigator.ButtonEvent(fractal.ButtonPrimary, fractal.Release, cursor)
	}
	g.navigator.CursorMove(cursor)

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.view = fractal.DefaultView()
		g.view.Iterations = softIterations
	}

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if !g.drawnOnce || g.view != g.lastDrawn {
		g.redraw()
		g.lastDrawn = g.view
		g.drawnOnce = true
	}

	screen.DrawImage(g.offscreen, nil)
}

// redraw evaluates every pixel against the current ViewState snapshot. Rows
// are fanned out across CPUs; the pixel function is stateless so the workers
// share nothing but the snapshot.
func (g *Game) redraw() {
	view := g.view
	resolution := mgl32.Vec2{screenWidth, screenHeight}

	rowsPerWorker := (screenHeight + runtime.NumCPU() - 1) / runtime.NumCPU()
	var wg sync.WaitGroup

	for minRow := 0; minRow < screenHeight; minRow += rowsPerWorker {
		maxRow := minRow + rowsPerWorker
		if maxRow > screenHeight {
			maxRow = screenHeight
		}

		wg.Add(1)
		go func(minRow, maxRow int) {
			defer wg.Done()
			for j := minRow; j < maxRow; j++ {
				// Screen rows run top to bottom, framebuffer rows
				// bottom to top.
				py := float32(screenHeight-1-j) + 0.5
				for i := 0; i < screenWidth; i++ {
					c := g.getPixel(view, mgl32.Vec2{float32(i) + 0.5, py}, resolution)
					p := 4 * (i + j*screenWidth)
					g.offscreenPix[p+0] = uint8(c[0] * 255)
					g.offscreenPix[p+1] = uint8(c[1] * 255)
					g.offscreenPix[p+2] = uint8(c[2] * 255)
					g.offscreenPix[p+3] = 0xff
				}
			}
		}(minRow, maxRow)
	}

	wg.Wait()
	g.offscreen.WritePixels(g.offscreenPix)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Mandelbrot (software) | Pan: Drag | Zoom: Wheel | Reset: R")
	if err := ebiten.RunGame(NewGame()); err != nil {
		log.Fatal(err)
	}
}
