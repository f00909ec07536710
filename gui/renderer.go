package gui

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/inkyblackness/imgui-go/v4"

	"openglrem/internal/opengl"
	"openglrem/logger"
	"openglrem/shader"
)

const vertexShaderGUI = `#version 410 core
uniform mat4 ProjMtx;
in vec2 Position;
in vec2 UV;
in vec4 Color;
out vec2 Frag_UV;
out vec4 Frag_Color;
void main()
{
	Frag_UV = UV;
	Frag_Color = Color;
	gl_Position = ProjMtx * vec4(Position.xy, 0, 1);
}
`

const fragmentShaderGUI = `#version 410 core
uniform sampler2D Texture;
in vec2 Frag_UV;
in vec4 Frag_Color;
out vec4 Out_Color;
void main()
{
	Out_Color = Frag_Color * texture(Texture, Frag_UV.st);
}
`

// Renderer replays imgui draw lists through opengl.Functions.
type Renderer struct {
	gl     opengl.Functions
	log    *slog.Logger
	shader *shader.Shader

	attribs     [3]uint32
	vbo, ebo    uint32
	fontTexture uint32
}

// overlayAttributes are the imgui vertex attributes in Renderer.attribs order.
var overlayAttributes = [3]string{"Position", "UV", "Color"}

func NewRenderer(fns opengl.Functions, log *slog.Logger, io imgui.IO) (*Renderer, error) {
	log = logger.OrNop(log).With("component", "gui")
	sh := shader.NewFromSource(fns, log, vertexShaderGUI, fragmentShaderGUI)
	if !sh.Valid() {
		return nil, fmt.Errorf("gui shader: %w", sh.LastError())
	}

	rnd := &Renderer{gl: fns, log: log, shader: sh}
	for i, name := range overlayAttributes {
		loc := sh.Location(name, shader.Attribute)
		if loc < 0 {
			sh.Destroy()
			return nil, fmt.Errorf("gui shader: attribute %s not found", name)
		}
		rnd.attribs[i] = uint32(loc)
	}

	rnd.vbo = fns.CreateBuffer()
	rnd.ebo = fns.CreateBuffer()
	rnd.createFontTexture(io.Fonts())

	log.Info("gui renderer ready",
		"vendor", fns.GetString(opengl.VENDOR),
		"renderer", fns.GetString(opengl.RENDERER),
		"driver", fns.GetString(opengl.VERSION))
	return rnd, nil
}

func (rnd *Renderer) createFontTexture(fonts imgui.FontAtlas) {
	img := fonts.TextureDataRGBA32()
	previous := uint32(rnd.gl.GetInteger(opengl.TEXTURE_BINDING_2D))

	rnd.fontTexture = rnd.gl.CreateTexture()
	rnd.gl.BindTexture(opengl.TEXTURE_2D, rnd.fontTexture)
	rnd.gl.TexParameteri(opengl.TEXTURE_2D, opengl.TEXTURE_MIN_FILTER, int32(opengl.LINEAR))
	rnd.gl.TexParameteri(opengl.TEXTURE_2D, opengl.TEXTURE_MAG_FILTER, int32(opengl.LINEAR))
	rnd.gl.PixelStorei(opengl.UNPACK_ROW_LENGTH, 0)
	rnd.gl.TexImage2D(opengl.TEXTURE_2D, 0, opengl.RGBA, int32(img.Width), int32(img.Height),
		opengl.RGBA, opengl.UNSIGNED_BYTE, bytesAt(img.Pixels, img.Width*img.Height*4))

	fonts.SetTextureID(imgui.TextureID(rnd.fontTexture))
	rnd.gl.BindTexture(opengl.TEXTURE_2D, previous)
}

// bytesAt views size bytes of C memory owned by imgui.
func bytesAt(p unsafe.Pointer, size int) []byte {
	if p == nil || size <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(p), size)
}

// Render translates the imgui draw data to GL commands. The scene's GL state
// is restored afterwards.
func (rnd *Renderer) Render(displaySize, framebufferSize [2]float32, drawData imgui.DrawData) {
	winW, winH := displaySize[0], displaySize[1]
	fbW, fbH := framebufferSize[0], framebufferSize[1]
	// minimised
	if fbW <= 0 || fbH <= 0 || winW <= 0 || winH <= 0 {
		return
	}
	drawData.ScaleClipRects(imgui.Vec2{X: fbW / winW, Y: fbH / winH})

	saved := rnd.saveState()
	defer rnd.restoreState(saved)

	gl := rnd.gl
	gl.Enable(opengl.BLEND)
	gl.BlendEquationSeparate(opengl.FUNC_ADD, opengl.FUNC_ADD)
	gl.BlendFuncSeparate(opengl.SRC_ALPHA, opengl.ONE_MINUS_SRC_ALPHA, opengl.SRC_ALPHA, opengl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(opengl.CULL_FACE)
	gl.Disable(opengl.DEPTH_TEST)
	gl.Enable(opengl.SCISSOR_TEST)
	gl.PolygonMode(opengl.FRONT_AND_BACK, opengl.FILL)
	gl.Viewport(0, 0, int32(fbW), int32(fbH))

	rnd.shader.Bind()
	rnd.shader.SetInt("Texture", 0)
	rnd.shader.SetMat4("ProjMtx", mgl32.Ortho(0, winW, winH, 0, -1, 1))
	gl.ActiveTexture(opengl.TEXTURE0)

	// one vertex array per frame, deleted before returning
	vao := gl.CreateVertexArray()
	defer gl.DeleteVertexArray(vao)
	gl.BindVertexArray(vao)
	gl.BindBuffer(opengl.ARRAY_BUFFER, rnd.vbo)

	stride, posOffset, uvOffset, colOffset := imgui.VertexBufferLayout()
	layout := [3]struct {
		size       int32
		typ        opengl.Enum
		normalized bool
		offset     int
	}{
		{2, opengl.FLOAT, false, posOffset},
		{2, opengl.FLOAT, false, uvOffset},
		{4, opengl.UNSIGNED_BYTE, true, colOffset},
	}
	for i, a := range layout {
		gl.EnableVertexAttribArray(rnd.attribs[i])
		gl.VertexAttribPointer(rnd.attribs[i], a.size, a.typ, a.normalized, int32(stride), a.offset)
	}

	indexSize := imgui.IndexBufferLayout()
	indexType := opengl.UNSIGNED_SHORT
	if indexSize == 4 {
		indexType = opengl.UNSIGNED_INT
	}

	for _, list := range drawData.CommandLists() {
		vertices, vertexSize := list.VertexBuffer()
		gl.BindBuffer(opengl.ARRAY_BUFFER, rnd.vbo)
		gl.BufferData(opengl.ARRAY_BUFFER, bytesAt(vertices, vertexSize), opengl.STREAM_DRAW)

		indices, indexBytes := list.IndexBuffer()
		gl.BindBuffer(opengl.ELEMENT_ARRAY_BUFFER, rnd.ebo)
		gl.BufferData(opengl.ELEMENT_ARRAY_BUFFER, bytesAt(indices, indexBytes), opengl.STREAM_DRAW)

		offset := 0
		for _, cmd := range list.Commands() {
			if cmd.HasUserCallback() {
				cmd.CallUserCallback(list)
			} else {
				clip := cmd.ClipRect()
				gl.BindTexture(opengl.TEXTURE_2D, uint32(cmd.TextureID()))
				gl.Scissor(int32(clip.X), int32(fbH)-int32(clip.W), int32(clip.Z-clip.X), int32(clip.W-clip.Y))
				gl.DrawElements(opengl.TRIANGLES, int32(cmd.ElementCount()), indexType, offset)
			}
			offset += cmd.ElementCount() * indexSize
		}
	}
}

func (rnd *Renderer) Destroy() {
	if rnd.vbo != 0 {
		rnd.gl.DeleteBuffer(rnd.vbo)
		rnd.vbo = 0
	}
	if rnd.ebo != 0 {
		rnd.gl.DeleteBuffer(rnd.ebo)
		rnd.ebo = 0
	}
	if rnd.fontTexture != 0 {
		rnd.gl.DeleteTexture(rnd.fontTexture)
		imgui.CurrentIO().Fonts().SetTextureID(0)
		rnd.fontTexture = 0
	}
	rnd.shader.Destroy()
}

// glState is the GL state Render changes.
type glState struct {
	activeTexture int32
	program       int32
	texture       int32
	arrayBuffer   int32
	elementBuffer int32
	vertexArray   int32
	polygonMode   [2]int32
	viewport      [4]int32
	scissorBox    [4]int32
	blendSrcRGB   int32
	blendDstRGB   int32
	blendSrcAlpha int32
	blendDstAlpha int32
	blendEqRGB    int32
	blendEqAlpha  int32
	enabled       map[opengl.Enum]bool
}

var savedCapabilities = [...]opengl.Enum{opengl.BLEND, opengl.CULL_FACE, opengl.DEPTH_TEST, opengl.SCISSOR_TEST}

func (rnd *Renderer) saveState() *glState {
	gl := rnd.gl
	st := &glState{enabled: make(map[opengl.Enum]bool, len(savedCapabilities))}
	st.activeTexture = gl.GetInteger(opengl.ACTIVE_TEXTURE)
	gl.ActiveTexture(opengl.TEXTURE0)
	st.program = gl.GetInteger(opengl.CURRENT_PROGRAM)
	st.texture = gl.GetInteger(opengl.TEXTURE_BINDING_2D)
	st.arrayBuffer = gl.GetInteger(opengl.ARRAY_BUFFER_BINDING)
	st.elementBuffer = gl.GetInteger(opengl.ELEMENT_ARRAY_BUFFER_BINDING)
	st.vertexArray = gl.GetInteger(opengl.VERTEX_ARRAY_BINDING)
	gl.GetIntegers(opengl.POLYGON_MODE, st.polygonMode[:])
	gl.GetIntegers(opengl.VIEWPORT, st.viewport[:])
	gl.GetIntegers(opengl.SCISSOR_BOX, st.scissorBox[:])
	st.blendSrcRGB = gl.GetInteger(opengl.BLEND_SRC_RGB)
	st.blendDstRGB = gl.GetInteger(opengl.BLEND_DST_RGB)
	st.blendSrcAlpha = gl.GetInteger(opengl.BLEND_SRC_ALPHA)
	st.blendDstAlpha = gl.GetInteger(opengl.BLEND_DST_ALPHA)
	st.blendEqRGB = gl.GetInteger(opengl.BLEND_EQUATION_RGB)
	st.blendEqAlpha = gl.GetInteger(opengl.BLEND_EQUATION_ALPHA)
	for _, c := range savedCapabilities {
		st.enabled[c] = gl.IsEnabled(c)
	}
	return st
}

func (rnd *Renderer) restoreState(st *glState) {
	gl := rnd.gl
	gl.UseProgram(uint32(st.program))
	gl.BindTexture(opengl.TEXTURE_2D, uint32(st.texture))
	gl.ActiveTexture(opengl.Enum(st.activeTexture))
	gl.BindVertexArray(uint32(st.vertexArray))
	gl.BindBuffer(opengl.ARRAY_BUFFER, uint32(st.arrayBuffer))
	gl.BindBuffer(opengl.ELEMENT_ARRAY_BUFFER, uint32(st.elementBuffer))
	gl.BlendEquationSeparate(opengl.Enum(st.blendEqRGB), opengl.Enum(st.blendEqAlpha))
	gl.BlendFuncSeparate(opengl.Enum(st.blendSrcRGB), opengl.Enum(st.blendDstRGB),
		opengl.Enum(st.blendSrcAlpha), opengl.Enum(st.blendDstAlpha))
	for _, c := range savedCapabilities {
		if st.enabled[c] {
			gl.Enable(c)
		} else {
			gl.Disable(c)
		}
	}
	gl.PolygonMode(opengl.FRONT_AND_BACK, opengl.Enum(st.polygonMode[0]))
	gl.Viewport(st.viewport[0], st.viewport[1], st.viewport[2], st.viewport[3])
	gl.Scissor(st.scissorBox[0], st.scissorBox[1], st.scissorBox[2], st.scissorBox[3])
}
