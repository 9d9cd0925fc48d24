package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/cobra"

	"github.com/stewi1014/glmandel/fractal"
)

func init() {
	// GLFW event handling must run on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	if err := mainCmd().ExecuteContext(ctx); err != nil {
		// Cobra has already printed the error.
		os.Exit(1)
	}
}

type viewFlags struct {
	zoom       float64
	centerX    float64
	centerY    float64
	iterations int32
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.zoom, "zoom", 200, "view scale in pixels per plane unit")
	cmd.Flags().Float64Var(&f.centerX, "x", -0.5, "real coordinate of the view center")
	cmd.Flags().Float64Var(&f.centerY, "y", 0, "imaginary coordinate of the view center")
	cmd.Flags().Int32Var(&f.iterations, "iterations", 1500, "escape loop iteration bound")
}

func (f *viewFlags) view() (fractal.ViewState, error) {
	return fractal.NewView(f.zoom, f.centerX, f.centerY, f.iterations)
}

func mainCmd() *cobra.Command {
	var flags viewFlags
	var width, height int

	cmd := &cobra.Command{
		Use:   "glmandel",
		Short: "Interactive GPU-rendered Mandelbrot explorer",
		Long: "glmandel opens an OpenGL window rendering the Mandelbrot set.\n" +
			"Drag with the left mouse button to pan, scroll to zoom,\n" +
			"press R to reset the view and Escape to quit.",
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			view, err := flags.view()
			if err != nil {
				return err
			}

			return runViewer(cmd.Context(), width, height, &view)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&width, "width", 800, "window width in pixels")
	cmd.Flags().IntVar(&height, "height", 800, "window height in pixels")

	cmd.AddCommand(renderCmd())

	return cmd
}

func runViewer(ctx context.Context, width, height int, view *fractal.ViewState) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw.Init failed: %w", err)
	}
	defer glfw.Terminate()

	window, err := NewRenderWindow("GLMandel", width, height, view)
	if err != nil {
		return err
	}
	defer window.Destroy()

	return window.Run(ctx)
}
