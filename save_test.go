package main

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stewi1014/glmandel/fractal"
)

func TestSaveWritesPNG(t *testing.T) {
	view, err := fractal.NewView(20, -0.5, 0, 50)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		opts SaveOptions
	}{
		{name: "plain", opts: SaveOptions{Width: 64, Height: 48}},
		{name: "supersampled", opts: SaveOptions{Width: 64, Height: 48, Supersample: 2}},
		{name: "antialiased", opts: SaveOptions{Width: 32, Height: 32, Antialias: 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Name = filepath.Join(t.TempDir(), "out.png")

			err := save(context.Background(), tt.opts, fractal.Mandelbrot(), view)
			if err != nil {
				t.Fatal(err)
			}

			file, err := os.Open(tt.opts.Name)
			if err != nil {
				t.Fatal(err)
			}
			defer file.Close()

			img, err := png.Decode(file)
			if err != nil {
				t.Fatal(err)
			}

			want := image.Rect(0, 0, tt.opts.Width, tt.opts.Height)
			if img.Bounds() != want {
				t.Errorf("decoded bounds = %v, want %v", img.Bounds(), want)
			}
		})
	}
}

func TestSaveCancelled(t *testing.T) {
	view := fractal.DefaultView()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	name := filepath.Join(t.TempDir(), "out.png")
	err := save(ctx, SaveOptions{Name: name, Width: 16, Height: 16}, fractal.Mandelbrot(), view)
	if err != context.Canceled {
		t.Fatalf("save() error = %v, want context.Canceled", err)
	}

	if _, err := os.Stat(name); !os.IsNotExist(err) {
		t.Error("cancelled save left a partial file behind")
	}
}
