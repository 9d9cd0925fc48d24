package fractal

import (
	"context"
	"errors"
	"image"
	"image/color"
	"log"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrNoCPUImplementation = errors.New("program does not have a CPU implementation")

// Image renders the program's CPU implementation into an image.Image of the
// given size. Pixels are computed on demand; image rows run top to bottom
// while framebuffer rows run bottom to top, so the adapter owns the row flip
// that keeps the imaginary axis growing upward on screen.
func (p Program) Image(view ViewState, width, height int) (image.Image, error) {
	if p.GetPixel == nil {
		return nil, ErrNoCPUImplementation
	}

	return &viewImage{
		getPixel: p.GetPixel,
		view:     view,
		width:    width,
		height:   height,
	}, nil
}

type viewImage struct {
	getPixel PixelFunc
	view     ViewState
	width    int
	height   int
}

func (i *viewImage) ColorModel() color.Model {
	return color.NRGBAModel
}

func (i *viewImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, i.width, i.height)
}

func (i *viewImage) At(x, y int) color.Color {
	// Sample fragment centers, as gl_FragCoord does.
	px := float32(x) + 0.5
	py := float32(i.height-1-y) + 0.5

	c := i.getPixel(i.view,
		mgl32.Vec2{px, py},
		mgl32.Vec2{float32(i.width), float32(i.height)},
	)

	return color.NRGBA{
		R: uint8(c[0] * 255),
		G: uint8(c[1] * 255),
		B: uint8(c[2] * 255),
		A: 0xff,
	}
}

func (i *viewImage) Opaque() bool {
	return true
}

// AntiAlias9x samples 9 positions for each sampled position, returning the
// average colour.
//
// dist is the number of pixels apart the sampled locations are.
func AntiAlias9x(fn PixelFunc, dist float32) PixelFunc {
	if dist == 0 {
		log.Println("pixels uselessly antialiased with distance of 0")
	}

	offsets := [3]float32{-dist, 0, dist}
	return func(view ViewState, pixel, resolution mgl32.Vec2) mgl32.Vec3 {
		avg := mgl32.Vec3{}
		for _, dx := range offsets {
			for _, dy := range offsets {
				avg = avg.Add(fn(view, mgl32.Vec2{pixel[0] + dx, pixel[1] + dy}, resolution))
			}
		}
		return avg.Mul(1 / float32(9))
	}
}

// WrapWithProgress replaces *img with a counting wrapper and returns a
// function reporting the fraction of pixels read so far. Pixels are read
// concurrently and progress is polled from yet another goroutine, so the
// counter is atomic.
func WrapWithProgress(img *image.Image) func() float64 {
	p := &progressImage{
		Image: *img,
	}

	*img = p
	return p.Progress
}

type progressImage struct {
	image.Image
	count atomic.Int64
}

func (i *progressImage) At(x, y int) color.Color {
	i.count.Add(1)
	return i.Image.At(x, y)
}

func (i *progressImage) Progress() float64 {
	end := i.Bounds().Dx() * i.Bounds().Dy()
	return float64(i.count.Load()) / float64(end)
}

func (i *progressImage) Opaque() bool {
	return true
}

// BufferImage wraps img with a pre-computed pixel buffer. Until Buffer is
// called, reads fall through to the wrapped image.
func BufferImage(img image.Image) *BufferedImage {
	return &BufferedImage{
		Image:  img,
		height: img.Bounds().Dy(),
	}
}

type BufferedImage struct {
	image.Image
	height int
	buff   []color.Color
}

func (b *BufferedImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Image.Bounds().Dx(), b.Image.Bounds().Dy())
}

func (b *BufferedImage) At(x, y int) color.Color {
	if b.buff == nil {
		return b.Image.At(x, y)
	}
	return b.buff[x*b.height+y]
}

// Buffer computes every pixel, fanning column chunks out across goroutines.
// Pixel computations are independent so no synchronization is needed beyond
// joining the workers.
func (b *BufferedImage) Buffer(ctx context.Context) error {
	b.buff = make([]color.Color, b.Image.Bounds().Dx()*b.Image.Bounds().Dy())

	min, max := b.Image.Bounds().Min, b.Image.Bounds().Max
	chunkSize := 50
	var wg sync.WaitGroup

	for chunkMin := min.X; chunkMin < max.X; chunkMin += chunkSize {
		chunkMax := chunkMin + chunkSize
		if chunkMax > max.X {
			chunkMax = max.X
		}

		wg.Add(1)
		go func(chunkMin, chunkMax int) {
			defer wg.Done()
			i := (chunkMin - min.X) * b.Image.Bounds().Dy()
			for x := chunkMin; x < chunkMax; x++ {
				if ctx.Err() != nil {
					return
				}

				for y := min.Y; y < max.Y; y++ {
					b.buff[i] = b.Image.At(x, y)
					i++
				}
			}
		}(chunkMin, chunkMax)
	}

	wg.Wait()

	return ctx.Err()
}

func (b *BufferedImage) Opaque() bool {
	return true
}
