package gui

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/inkyblackness/imgui-go/v4"

	"openglrem/core"
)

var mouseButtons = []glfw.MouseButton{glfw.MouseButton1, glfw.MouseButton2, glfw.MouseButton3}

// Platform feeds window input into imgui.
type Platform struct {
	window *core.Window
	io     imgui.IO

	time             float64
	mouseJustPressed [3]bool
}

func NewPlatform(window *core.Window, io imgui.IO) *Platform {
	p := &Platform{window: window, io: io}
	p.setKeyMapping()
	p.installCallbacks()
	return p
}

func (p *Platform) setKeyMapping() {
	keys := map[int]glfw.Key{
		imgui.KeyTab:        glfw.KeyTab,
		imgui.KeyLeftArrow:  glfw.KeyLeft,
		imgui.KeyRightArrow: glfw.KeyRight,
		imgui.KeyUpArrow:    glfw.KeyUp,
		imgui.KeyDownArrow:  glfw.KeyDown,
		imgui.KeyPageUp:     glfw.KeyPageUp,
		imgui.KeyPageDown:   glfw.KeyPageDown,
		imgui.KeyHome:       glfw.KeyHome,
		imgui.KeyEnd:        glfw.KeyEnd,
		imgui.KeyInsert:     glfw.KeyInsert,
		imgui.KeyDelete:     glfw.KeyDelete,
		imgui.KeyBackspace:  glfw.KeyBackspace,
		imgui.KeySpace:      glfw.KeySpace,
		imgui.KeyEnter:      glfw.KeyEnter,
		imgui.KeyEscape:     glfw.KeyEscape,
		imgui.KeyA:          glfw.KeyA,
		imgui.KeyC:          glfw.KeyC,
		imgui.KeyV:          glfw.KeyV,
		imgui.KeyX:          glfw.KeyX,
		imgui.KeyY:          glfw.KeyY,
		imgui.KeyZ:          glfw.KeyZ,
	}
	for imguiKey, key := range keys {
		p.io.KeyMap(imguiKey, int(key))
	}
}

func (p *Platform) installCallbacks() {
	w := p.window.Handle
	w.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if i := buttonIndex(button); i >= 0 && action == glfw.Press {
			p.mouseJustPressed[i] = true
		}
	})
	w.SetScrollCallback(func(_ *glfw.Window, x, y float64) {
		p.io.AddMouseWheelDelta(float32(x), float32(y))
	})
	w.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		switch action {
		case glfw.Press:
			p.io.KeyPress(int(key))
		case glfw.Release:
			p.io.KeyRelease(int(key))
		}
		p.io.KeyCtrl(int(glfw.KeyLeftControl), int(glfw.KeyRightControl))
		p.io.KeyShift(int(glfw.KeyLeftShift), int(glfw.KeyRightShift))
		p.io.KeyAlt(int(glfw.KeyLeftAlt), int(glfw.KeyRightAlt))
		p.io.KeySuper(int(glfw.KeyLeftSuper), int(glfw.KeyRightSuper))
	})
	w.SetCharCallback(func(_ *glfw.Window, char rune) {
		p.io.AddInputCharacters(string(char))
	})
}

func buttonIndex(button glfw.MouseButton) int {
	for i, b := range mouseButtons {
		if b == button {
			return i
		}
	}
	return -1
}

// DisplaySize is the window size in screen coordinates.
func (p *Platform) DisplaySize() [2]float32 {
	w, h := p.window.GetSize()
	return [2]float32{float32(w), float32(h)}
}

// FramebufferSize is the window size in pixels.
func (p *Platform) FramebufferSize() [2]float32 {
	w, h := p.window.GetFramebufferSize()
	return [2]float32{float32(w), float32(h)}
}

// NewFrame updates display size, timing and mouse state ahead of
// imgui.NewFrame.
func (p *Platform) NewFrame() {
	size := p.DisplaySize()
	p.io.SetDisplaySize(imgui.Vec2{X: size[0], Y: size[1]})

	now := core.Time()
	if p.time > 0 {
		p.io.SetDeltaTime(float32(now - p.time))
	}
	p.time = now

	handle := p.window.Handle
	if handle.GetAttrib(glfw.Focused) != 0 {
		x, y := handle.GetCursorPos()
		p.io.SetMousePosition(imgui.Vec2{X: float32(x), Y: float32(y)})
	} else {
		p.io.SetMousePosition(imgui.Vec2{X: -math.MaxFloat32, Y: -math.MaxFloat32})
	}

	// a click shorter than a frame still registers
	for i, button := range mouseButtons {
		down := p.mouseJustPressed[i] || handle.GetMouseButton(button) == glfw.Press
		p.io.SetMouseButtonDown(i, down)
		p.mouseJustPressed[i] = false
	}
}
