package core

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string
}

type WindowConfig struct {
	Width      int
	Height     int
	Title      string
	Resizable  bool
	VSync      bool
	Fullscreen bool
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:      1370,
		Height:     900,
		Title:      "OpenGLRem",
		Resizable:  true,
		VSync:      true,
		Fullscreen: false,
	}
}

// InitError reports which startup stage failed so the caller can map it to
// an exit status.
type InitError struct {
	Stage Stage
	Err   error
}

type Stage int

const (
	StageGLFW Stage = iota + 1
	StageWindow
)

func (e *InitError) Error() string {
	switch e.Stage {
	case StageGLFW:
		return fmt.Sprintf("failed to initialize GLFW: %v", e.Err)
	default:
		return fmt.Sprintf("failed to create window: %v", e.Err)
	}
}

func (e *InitError) Unwrap() error { return e.Err }

// NewWindow initializes glfw and opens a window with a current OpenGL 4.1
// core context.
func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, &InitError{Stage: StageGLFW, Err: err}
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))

	monitor := (*glfw.Monitor)(nil)
	if config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, &InitError{Stage: StageWindow, Err: err}
	}
	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	window := &Window{
		Handle: handle,
		Width:  config.Width,
		Height: config.Height,
		Title:  config.Title,
	}

	handle.SetSizeCallback(func(w *glfw.Window, width, height int) {
		window.Width = width
		window.Height = height
	})

	return window, nil
}

// SetErrorCallback routes glfw errors to fn. It may be called before NewWindow.
func SetErrorCallback(fn func(code int, description string)) {
	glfw.SetErrorCallback(func(code glfw.ErrorCode, description string) {
		fn(int(code), description)
	})
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) Close() {
	w.Handle.SetShouldClose(true)
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

func (w *Window) GetSize() (int, int) {
	return w.Handle.GetSize()
}

func (w *Window) GetFramebufferSize() (int, int) {
	return w.Handle.GetFramebufferSize()
}

// AspectScale is height over width, used to keep the quad square.
func (w *Window) AspectScale() float32 {
	if w.Width == 0 {
		return 1
	}
	return float32(w.Height) / float32(w.Width)
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func (w *Window) IsKeyPressed(key int) bool {
	return w.Handle.GetKey(glfw.Key(key)) == glfw.Press
}

// Time returns seconds since glfw was initialized.
func Time() float64 {
	return glfw.GetTime()
}

func boolToInt(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

const KeyEscape = int(glfw.KeyEscape)
