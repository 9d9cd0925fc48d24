package main

import (
	"context"
	"fmt"
	"log"
	"reflect"
	"runtime"
	"strings"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/stewi1014/glmandel/fractal"
)

// Uniforms mirrors the uniform block of the fractal program's shaders.
// Fields are located and uploaded by their uniform tag.
type Uniforms struct {
	Resolution    mgl32.Vec2 `uniform:"u_resolution"`
	Offset        mgl32.Vec2 `uniform:"u_offset"`
	Zoom          float32    `uniform:"u_zoom"`
	MaxIterations int32      `uniform:"u_maxiterations"`
}

func NewRenderWindow(
	title string,
	width, height int,
	view *fractal.ViewState,
) (*RenderWindow, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("glfw.CreateWindow failed: %w", err)
	}

	w := &RenderWindow{
		Window:    window,
		title:     title,
		view:      view,
		navigator: fractal.NewNavigator(view),
	}

	w.MakeContextCurrent()
	err = gl.Init()
	if err != nil {
		return nil, fmt.Errorf("gl.Init failed: %w", err)
	}

	w.width, w.height = w.GetFramebufferSize()

	// A single triangle large enough to cover clip space; the fragment
	// shader does all the work.
	verticies := []float32{
		-3, -2,
		0, 3,
		3, -2,
	}

	gl.GenVertexArrays(1, &w.vao)
	gl.BindVertexArray(w.vao)

	gl.GenBuffers(1, &w.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, w.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verticies)*4, gl.Ptr(verticies), gl.STATIC_DRAW)

	err = w.loadProgram(fractal.Mandelbrot())
	if err != nil {
		return nil, err
	}

	w.SetFramebufferSizeCallback(w.resize)
	w.SetScrollCallback(w.scroll)
	w.SetMouseButtonCallback(w.button)
	w.SetCursorPosCallback(w.cursorPos)
	w.SetKeyCallback(w.key)

	return w, nil
}

type RenderWindow struct {
	*glfw.Window

	title  string
	width  int
	height int

	view      *fractal.ViewState
	navigator *fractal.Navigator

	vao              uint32
	vbo              uint32
	program          uint32
	vertexAttrib     uint32
	uniformLocations map[string]int32
}

// Run drives the render loop until the window is closed or ctx is cancelled.
// Input callbacks fire from glfw.PollEvents on this thread, so the navigator
// never races the per-frame ViewState snapshot.
func (w *RenderWindow) Run(ctx context.Context) error {
	lastZoom := 0.0

	for !w.ShouldClose() {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}

		if w.view.Zoom != lastZoom {
			lastZoom = w.view.Zoom
			w.SetTitle(fmt.Sprintf("%s (zoom %.4g)", w.title, lastZoom))
		}

		gl.Clear(gl.COLOR_BUFFER_BIT)
		gl.UseProgram(w.program)
		w.loadUniforms(*w.view)
		gl.BindVertexArray(w.vao)
		gl.DrawArrays(gl.TRIANGLES, 0, 3)

		w.SwapBuffers()
		glfw.PollEvents()
	}

	return nil
}

func (w *RenderWindow) resize(_ *glfw.Window, width, height int) {
	w.width, w.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (w *RenderWindow) scroll(_ *glfw.Window, xoff, yoff float64) {
	w.navigator.Scroll(yoff)
}

func (w *RenderWindow) button(
	window *glfw.Window,
	button glfw.MouseButton,
	action glfw.Action,
	mods glfw.ModifierKey,
) {
	b := fractal.ButtonOther
	if button == glfw.MouseButtonLeft {
		b = fractal.ButtonPrimary
	}

	var a fractal.Action
	switch action {
	case glfw.Press:
		a = fractal.Press
	case glfw.Release:
		a = fractal.Release
	default:
		return
	}

	x, y := window.GetCursorPos()
	w.navigator.ButtonEvent(b, a, mgl64.Vec2{x, y})
}

func (w *RenderWindow) cursorPos(_ *glfw.Window, x, y float64) {
	w.navigator.CursorMove(mgl64.Vec2{x, y})
}

func (w *RenderWindow) key(
	_ *glfw.Window,
	key glfw.Key,
	scancode int,
	action glfw.Action,
	mods glfw.ModifierKey,
) {
	if action != glfw.Press {
		return
	}

	switch key {
	case glfw.KeyEscape:
		w.SetShouldClose(true)
	case glfw.KeyR:
		*w.view = fractal.DefaultView()
	}
}

func (w *RenderWindow) loadUniforms(view fractal.ViewState) {
	u := Uniforms{
		Resolution:    mgl32.Vec2{float32(w.width), float32(w.height)},
		Offset:        mgl32.Vec2{float32(view.Pos[0]), float32(view.Pos[1])},
		Zoom:          float32(view.Zoom),
		MaxIterations: view.Iterations,
	}

	v := reflect.ValueOf(&u).Elem()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)

		ptr := f.Addr().UnsafePointer()
		loc := w.uniformLocations[v.Type().Field(i).Tag.Get("uniform")]

		switch f.Type() {
		case reflect.TypeOf(mgl32.Vec2{}):
			gl.Uniform2fv(loc, 1, (*float32)(ptr))
		case reflect.TypeOf(float32(0)):
			gl.Uniform1fv(loc, 1, (*float32)(ptr))
		case reflect.TypeOf(int32(0)):
			gl.Uniform1iv(loc, 1, (*int32)(ptr))
		default:
			log.Printf("unsupported uniform type %v", f.Type())
		}
	}
}

func (w *RenderWindow) loadProgram(program fractal.Program) error {
	vertexShader, err := compileShader(program.VertexShader+"\x00", gl.VERTEX_SHADER)
	if err != nil {
		return err
	}

	fragmentShader, err := compileShader(program.FragmentShader+"\x00", gl.FRAGMENT_SHADER)
	if err != nil {
		return err
	}

	w.program = gl.CreateProgram()
	gl.AttachShader(w.program, vertexShader)
	gl.AttachShader(w.program, fragmentShader)
	// Output bindings only take effect at link time.
	gl.BindFragDataLocation(w.program, 0, gl.Str("outputColor\x00"))
	gl.LinkProgram(w.program)
	gl.UseProgram(w.program)

	defer gl.DeleteShader(vertexShader)
	defer gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(w.program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var l int32
		gl.GetProgramiv(w.program, gl.INFO_LOG_LENGTH, &l)

		infoLog := strings.Repeat("\x00", int(l+1))
		gl.GetProgramInfoLog(w.program, l, nil, gl.Str(infoLog))
		return fmt.Errorf("failed to link program: %v", infoLog)
	}

	w.uniformLocations = make(map[string]int32)
	t := reflect.TypeOf(Uniforms{})
	for i := 0; i < t.NumField(); i++ {
		name := strings.ToLower(t.Field(i).Tag.Get("uniform"))
		w.uniformLocations[name] = gl.GetUniformLocation(w.program, gl.Str(name+"\x00"))
	}

	w.vertexAttrib = uint32(gl.GetAttribLocation(w.program, gl.Str("vert\x00")))
	gl.EnableVertexAttribArray(w.vertexAttrib)
	gl.VertexAttribPointerWithOffset(w.vertexAttrib, 2, gl.FLOAT, false, 2*4, 0)

	return nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	defer runtime.KeepAlive(source)
	cstring, free := gl.Strs(source)
	defer free()

	shader := gl.CreateShader(shaderType)
	gl.ShaderSource(shader, 1, cstring, nil)
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var l int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &l)

		infoLog := strings.Repeat("\x00", int(l+1))
		gl.GetShaderInfoLog(shader, l, nil, gl.Str(infoLog))
		return 0, fmt.Errorf("shader\n\"\n%v\n\"\nfailed to compile: %v", source, infoLog)
	}

	return shader, nil
}
