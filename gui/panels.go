package gui

import (
	"fmt"
	"log/slog"

	"github.com/inkyblackness/imgui-go/v4"

	"openglrem/logger"
)

const millisPerSecond = 1000

// TextureView is a texture shown in the Textures panel.
type TextureView struct {
	Name string
	ID   uint32
}

func SettingsPanel(s *Settings) {
	imgui.Begin("Settings")
	imgui.Text("Shader settings:")
	imgui.SliderFloat("Texture mix value", &s.Mix, 0, 1)
	imgui.SliderFloatV("Rotation", &s.Rotation, -360, 360, "%.0f deg", imgui.SliderFlagsNone)
	imgui.SliderFloatV("X", &s.RotationX, -360, 360, "%.0f deg", imgui.SliderFlagsNone)
	imgui.SliderFloatV("Y", &s.RotationY, -360, 360, "%.0f deg", imgui.SliderFlagsNone)
	imgui.Separator()

	imgui.Text("Global settings:")
	imgui.ColorEdit3("Clear color", &s.Background)
	imgui.Separator()

	imgui.Text("Information:")
	framerate := imgui.CurrentIO().Framerate()
	if framerate > 0 {
		imgui.Text(fmt.Sprintf("Application average %.3f ms/frame (%.1f FPS)", millisPerSecond/framerate, framerate))
	}
	imgui.End()
}

// TexturesPanel draws one button per texture; clicking selects it.
func TexturesPanel(s *Settings, textures []TextureView, log *slog.Logger) {
	imgui.Begin("Textures")
	for i, tex := range textures {
		imgui.PushID(fmt.Sprintf("%d:%s", i, tex.Name))
		clicked := imgui.ImageButtonV(imgui.TextureID(tex.ID), imgui.Vec2{X: 128, Y: 128},
			imgui.Vec2{X: 0, Y: 1}, imgui.Vec2{X: 1, Y: 0}, -1,
			imgui.Vec4{}, imgui.Vec4{X: 1, Y: 1, Z: 1, W: 1})
		imgui.PopID()
		if clicked && s.Select(i, len(textures)) {
			log.Info("update texture id", "id", i, "name", tex.Name)
		}
	}
	imgui.End()
}

// LogPanel shows the entries collected by a visualizer.
type LogPanel struct {
	vis *logger.Visualizer
}

func NewLogPanel(vis *logger.Visualizer) *LogPanel {
	return &LogPanel{vis: vis}
}

// Draw moves pending entries into the history and renders it, scrolling to
// the bottom when something new arrived.
func (p *LogPanel) Draw() {
	p.vis.Drain()

	imgui.Begin("Logs")
	if imgui.Button("Clear") {
		p.vis.Clear()
	}
	imgui.Separator()

	imgui.BeginChild("scrolling")
	for _, e := range p.vis.History() {
		imgui.PushStyleColor(imgui.StyleColorText, imgui.Vec4{X: e.Color[0], Y: e.Color[1], Z: e.Color[2], W: e.Color[3]})
		imgui.Text(e.Text)
		imgui.PopStyleColor()
	}
	if p.vis.Updated() {
		imgui.SetScrollHereY(1.0)
	}
	imgui.EndChild()
	imgui.End()
}
