package opengl

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// Backend calls the real driver through go-gl. It must only be used from the
// goroutine that owns the current context.
type Backend struct{}

var _ Functions = (*Backend)(nil)

// Init loads the GL function pointers for the current context.
func Init() (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	return &Backend{}, nil
}

func (*Backend) GetString(pname Enum) string {
	return gl.GoStr(gl.GetString(uint32(pname)))
}

func (*Backend) GetInteger(pname Enum) int32 {
	var v int32
	gl.GetIntegerv(uint32(pname), &v)
	return v
}

func (*Backend) GetIntegers(pname Enum, dst []int32) {
	if len(dst) > 0 {
		gl.GetIntegerv(uint32(pname), &dst[0])
	}
}

func (*Backend) CreateProgram() uint32  { return gl.CreateProgram() }
func (*Backend) DeleteProgram(p uint32) { gl.DeleteProgram(p) }

func (*Backend) CreateShader(kind Enum) uint32 { return gl.CreateShader(uint32(kind)) }
func (*Backend) DeleteShader(s uint32)         { gl.DeleteShader(s) }

func (*Backend) ShaderSource(s uint32, src string) {
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(s, 1, csrc, nil)
	free()
}

func (*Backend) CompileShader(s uint32) { gl.CompileShader(s) }

func (*Backend) GetShaderi(s uint32, pname Enum) int32 {
	var v int32
	gl.GetShaderiv(s, uint32(pname), &v)
	return v
}

func (b *Backend) GetShaderInfoLog(s uint32) string {
	logLen := b.GetShaderi(s, INFO_LOG_LENGTH)
	if logLen <= 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLen+1))
	gl.GetShaderInfoLog(s, logLen, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (*Backend) AttachShader(p, s uint32) { gl.AttachShader(p, s) }
func (*Backend) LinkProgram(p uint32)     { gl.LinkProgram(p) }

func (*Backend) GetProgrami(p uint32, pname Enum) int32 {
	var v int32
	gl.GetProgramiv(p, uint32(pname), &v)
	return v
}

func (b *Backend) GetProgramInfoLog(p uint32) string {
	logLen := b.GetProgrami(p, INFO_LOG_LENGTH)
	if logLen <= 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLen+1))
	gl.GetProgramInfoLog(p, logLen, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (*Backend) UseProgram(p uint32) { gl.UseProgram(p) }

func (*Backend) GetUniformLocation(p uint32, name string) int32 {
	return gl.GetUniformLocation(p, gl.Str(name+"\x00"))
}

func (*Backend) GetAttribLocation(p uint32, name string) int32 {
	return gl.GetAttribLocation(p, gl.Str(name+"\x00"))
}

func (*Backend) Uniform1f(loc int32, v float32) { gl.Uniform1f(loc, v) }
func (*Backend) Uniform1i(loc int32, v int32)   { gl.Uniform1i(loc, v) }

func (*Backend) UniformMatrix4fv(loc int32, m [16]float32) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (*Backend) CreateVertexArray() uint32 {
	var a uint32
	gl.GenVertexArrays(1, &a)
	return a
}

func (*Backend) DeleteVertexArray(a uint32) { gl.DeleteVertexArrays(1, &a) }
func (*Backend) BindVertexArray(a uint32)   { gl.BindVertexArray(a) }

func (*Backend) CreateBuffer() uint32 {
	var b uint32
	gl.GenBuffers(1, &b)
	return b
}

func (*Backend) DeleteBuffer(b uint32)            { gl.DeleteBuffers(1, &b) }
func (*Backend) BindBuffer(target Enum, b uint32) { gl.BindBuffer(uint32(target), b) }

func (*Backend) BufferData(target Enum, data []byte, usage Enum) {
	if len(data) == 0 {
		gl.BufferData(uint32(target), 0, nil, uint32(usage))
		return
	}
	gl.BufferData(uint32(target), len(data), gl.Ptr(data), uint32(usage))
}

func (*Backend) VertexAttribPointer(index uint32, size int32, typ Enum, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointer(index, size, uint32(typ), normalized, stride, gl.PtrOffset(offset))
}

func (*Backend) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (*Backend) DrawElements(mode Enum, count int32, typ Enum, offset int) {
	gl.DrawElements(uint32(mode), count, uint32(typ), gl.PtrOffset(offset))
}

func (*Backend) CreateTexture() uint32 {
	var t uint32
	gl.GenTextures(1, &t)
	return t
}

func (*Backend) DeleteTexture(t uint32)            { gl.DeleteTextures(1, &t) }
func (*Backend) ActiveTexture(unit Enum)           { gl.ActiveTexture(uint32(unit)) }
func (*Backend) BindTexture(target Enum, t uint32) { gl.BindTexture(uint32(target), t) }

func (*Backend) TexParameteri(target, pname Enum, param int32) {
	gl.TexParameteri(uint32(target), uint32(pname), param)
}

func (*Backend) TexImage2D(target Enum, level int32, internalFormat Enum, width, height int32, format, typ Enum, pixels []byte) {
	if len(pixels) == 0 {
		gl.TexImage2D(uint32(target), level, int32(internalFormat), width, height, 0, uint32(format), uint32(typ), nil)
		return
	}
	gl.TexImage2D(uint32(target), level, int32(internalFormat), width, height, 0, uint32(format), uint32(typ), gl.Ptr(pixels))
}

func (*Backend) GenerateMipmap(target Enum)          { gl.GenerateMipmap(uint32(target)) }
func (*Backend) PixelStorei(pname Enum, param int32) { gl.PixelStorei(uint32(pname), param) }
func (*Backend) ClearColor(r, g, b, a float32)       { gl.ClearColor(r, g, b, a) }
func (*Backend) Clear(mask Enum)                     { gl.Clear(uint32(mask)) }
func (*Backend) Viewport(x, y, width, height int32)  { gl.Viewport(x, y, width, height) }
func (*Backend) Enable(capability Enum)              { gl.Enable(uint32(capability)) }
func (*Backend) Disable(capability Enum)             { gl.Disable(uint32(capability)) }
func (*Backend) IsEnabled(capability Enum) bool      { return gl.IsEnabled(uint32(capability)) }
func (*Backend) Scissor(x, y, width, height int32)   { gl.Scissor(x, y, width, height) }
func (*Backend) PolygonMode(face, mode Enum)         { gl.PolygonMode(uint32(face), uint32(mode)) }

func (*Backend) BlendEquationSeparate(modeRGB, modeAlpha Enum) {
	gl.BlendEquationSeparate(uint32(modeRGB), uint32(modeAlpha))
}

func (*Backend) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha Enum) {
	gl.BlendFuncSeparate(uint32(srcRGB), uint32(dstRGB), uint32(srcAlpha), uint32(dstAlpha))
}
