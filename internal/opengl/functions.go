// Package opengl is the narrow OpenGL surface used by the shader, mesh and
// texture wrappers. Functions is implemented by the go-gl backend in this
// package and by the recording fake in gltest.
package opengl

type Enum uint32

const (
	FALSE = 0
	TRUE  = 1

	TRIANGLES Enum = 0x0004

	UNSIGNED_BYTE  Enum = 0x1401
	UNSIGNED_SHORT Enum = 0x1403
	UNSIGNED_INT   Enum = 0x1405
	FLOAT          Enum = 0x1406

	ARRAY_BUFFER         Enum = 0x8892
	ELEMENT_ARRAY_BUFFER Enum = 0x8893
	STATIC_DRAW          Enum = 0x88E4
	STREAM_DRAW          Enum = 0x88E0

	FRAGMENT_SHADER Enum = 0x8B30
	VERTEX_SHADER   Enum = 0x8B31
	COMPILE_STATUS  Enum = 0x8B81
	LINK_STATUS     Enum = 0x8B82
	INFO_LOG_LENGTH Enum = 0x8B84

	TEXTURE_2D Enum = 0x0DE1
	TEXTURE0   Enum = 0x84C0

	TEXTURE_MAG_FILTER Enum = 0x2800
	TEXTURE_MIN_FILTER Enum = 0x2801
	TEXTURE_WRAP_S     Enum = 0x2802
	TEXTURE_WRAP_T     Enum = 0x2803

	NEAREST              Enum = 0x2600
	LINEAR               Enum = 0x2601
	LINEAR_MIPMAP_LINEAR Enum = 0x2703
	REPEAT               Enum = 0x2901
	CLAMP_TO_EDGE        Enum = 0x812F
	MIRRORED_REPEAT      Enum = 0x8370

	RGB  Enum = 0x1907
	RGBA Enum = 0x1908

	UNPACK_ALIGNMENT  Enum = 0x0CF5
	UNPACK_ROW_LENGTH Enum = 0x0CF2

	DEPTH_BUFFER_BIT Enum = 0x0100
	COLOR_BUFFER_BIT Enum = 0x4000
	DEPTH_TEST       Enum = 0x0B71
	BLEND            Enum = 0x0BE2
	CULL_FACE        Enum = 0x0B44
	SCISSOR_TEST     Enum = 0x0C11

	FUNC_ADD            Enum = 0x8006
	SRC_ALPHA           Enum = 0x0302
	ONE_MINUS_SRC_ALPHA Enum = 0x0303
	FRONT_AND_BACK      Enum = 0x0408
	FILL                Enum = 0x1B02

	ACTIVE_TEXTURE               Enum = 0x84E0
	CURRENT_PROGRAM              Enum = 0x8B8D
	TEXTURE_BINDING_2D           Enum = 0x8069
	ARRAY_BUFFER_BINDING         Enum = 0x8894
	ELEMENT_ARRAY_BUFFER_BINDING Enum = 0x8895
	VERTEX_ARRAY_BINDING         Enum = 0x85B5
	POLYGON_MODE                 Enum = 0x0B40
	VIEWPORT                     Enum = 0x0BA2
	SCISSOR_BOX                  Enum = 0x0C10
	BLEND_SRC_RGB                Enum = 0x80C9
	BLEND_DST_RGB                Enum = 0x80C8
	BLEND_SRC_ALPHA              Enum = 0x80CB
	BLEND_DST_ALPHA              Enum = 0x80CA
	BLEND_EQUATION_RGB           Enum = 0x8009
	BLEND_EQUATION_ALPHA         Enum = 0x883D

	MAX_COMBINED_TEXTURE_IMAGE_UNITS Enum = 0x8B4D

	VENDOR   Enum = 0x1F00
	RENDERER Enum = 0x1F01
	VERSION  Enum = 0x1F02
)

// Functions is the subset of OpenGL the resource wrappers and the overlay
// renderer call. Handles are
// plain GL object names; 0 is never a valid object.
type Functions interface {
	GetString(pname Enum) string
	GetInteger(pname Enum) int32
	// GetIntegers fills dst with a multi-valued state such as VIEWPORT.
	GetIntegers(pname Enum, dst []int32)

	CreateProgram() uint32
	DeleteProgram(p uint32)
	CreateShader(kind Enum) uint32
	DeleteShader(s uint32)
	ShaderSource(s uint32, src string)
	CompileShader(s uint32)
	GetShaderi(s uint32, pname Enum) int32
	GetShaderInfoLog(s uint32) string
	AttachShader(p, s uint32)
	LinkProgram(p uint32)
	GetProgrami(p uint32, pname Enum) int32
	GetProgramInfoLog(p uint32) string
	UseProgram(p uint32)

	GetUniformLocation(p uint32, name string) int32
	GetAttribLocation(p uint32, name string) int32
	Uniform1f(loc int32, v float32)
	Uniform1i(loc int32, v int32)
	UniformMatrix4fv(loc int32, m [16]float32)

	CreateVertexArray() uint32
	DeleteVertexArray(a uint32)
	BindVertexArray(a uint32)
	CreateBuffer() uint32
	DeleteBuffer(b uint32)
	BindBuffer(target Enum, b uint32)
	BufferData(target Enum, data []byte, usage Enum)
	VertexAttribPointer(index uint32, size int32, typ Enum, normalized bool, stride int32, offset int)
	EnableVertexAttribArray(index uint32)
	DrawElements(mode Enum, count int32, typ Enum, offset int)

	CreateTexture() uint32
	DeleteTexture(t uint32)
	ActiveTexture(unit Enum)
	BindTexture(target Enum, t uint32)
	TexParameteri(target, pname Enum, param int32)
	TexImage2D(target Enum, level int32, internalFormat Enum, width, height int32, format, typ Enum, pixels []byte)
	GenerateMipmap(target Enum)
	PixelStorei(pname Enum, param int32)

	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	Viewport(x, y, width, height int32)
	Enable(capability Enum)
	Disable(capability Enum)
	IsEnabled(capability Enum) bool
	Scissor(x, y, width, height int32)
	BlendEquationSeparate(modeRGB, modeAlpha Enum)
	BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha Enum)
	PolygonMode(face, mode Enum)
}
