// Package gui draws the imgui overlay: the settings, texture picker and log
// panels on top of the scene.
package gui

import (
	"fmt"
	"log/slog"

	"github.com/inkyblackness/imgui-go/v4"

	"openglrem/core"
	"openglrem/internal/opengl"
)

type GUI struct {
	context  *imgui.Context
	platform *Platform
	renderer *Renderer
}

// New creates the imgui context bound to window. It must run on the thread
// owning the GL context.
func New(window *core.Window, fns opengl.Functions, log *slog.Logger) (*GUI, error) {
	ctx := imgui.CreateContext(nil)
	io := imgui.CurrentIO()
	io.SetIniFilename("")

	renderer, err := NewRenderer(fns, log, io)
	if err != nil {
		ctx.Destroy()
		return nil, fmt.Errorf("gui: %w", err)
	}

	return &GUI{
		context:  ctx,
		platform: NewPlatform(window, io),
		renderer: renderer,
	}, nil
}

// NewFrame starts a frame. Panels are drawn between NewFrame and Render.
func (g *GUI) NewFrame() {
	g.platform.NewFrame()
	imgui.NewFrame()
}

func (g *GUI) Render() {
	imgui.Render()
	g.renderer.Render(g.platform.DisplaySize(), g.platform.FramebufferSize(), imgui.RenderedDrawData())
}

func (g *GUI) Destroy() {
	g.renderer.Destroy()
	g.context.Destroy()
}
