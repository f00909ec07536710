// Package gltest provides an in-memory opengl.Functions for tests. It records
// every call and emulates just enough driver behaviour for the resource
// wrappers: object names, compile and link status, and attribute and uniform
// locations derived from the GLSL declarations.
package gltest

import (
	"bufio"
	"fmt"
	"strings"

	"openglrem/internal/opengl"
)

type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

type shaderObject struct {
	kind     opengl.Enum
	source   string
	compiled bool
	log      string
}

type programObject struct {
	shaders  []uint32
	linked   bool
	log      string
	attribs  map[string]int32
	uniforms map[string]int32
}

// TexImage is one recorded TexImage2D upload.
type TexImage struct {
	Target         opengl.Enum
	InternalFormat opengl.Enum
	Format         opengl.Enum
	Width, Height  int32
	Size           int
}

type Recorder struct {
	Calls []Call

	// Integers answers GetInteger queries.
	Integers map[opengl.Enum]int32
	// IntegerArrays answers GetIntegers queries.
	IntegerArrays map[opengl.Enum][]int32
	// Enabled tracks Enable and Disable.
	Enabled map[opengl.Enum]bool
	// LinkError makes every LinkProgram fail with this info log when set.
	LinkError string

	CurrentProgram     uint32
	CurrentVertexArray uint32
	ActiveUnit         opengl.Enum
	Bound              map[opengl.Enum]uint32
	Uniforms           map[int32]any
	TexImages          []TexImage

	next     uint32
	live     map[uint32]string
	shaders  map[uint32]*shaderObject
	programs map[uint32]*programObject
}

var _ opengl.Functions = (*Recorder)(nil)

func New() *Recorder {
	return &Recorder{
		Integers:      make(map[opengl.Enum]int32),
		IntegerArrays: make(map[opengl.Enum][]int32),
		Enabled:       make(map[opengl.Enum]bool),
		Bound:         make(map[opengl.Enum]uint32),
		Uniforms:      make(map[int32]any),
		live:          make(map[uint32]string),
		shaders:       make(map[uint32]*shaderObject),
		programs:      make(map[uint32]*programObject),
	}
}

func (r *Recorder) record(name string, args ...any) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
}

func (r *Recorder) alloc(kind string) uint32 {
	r.next++
	r.live[r.next] = kind
	return r.next
}

func (r *Recorder) free(id uint32) {
	delete(r.live, id)
}

// Count returns how many times the named call was made.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Named returns the recorded calls with the given name in order.
func (r *Recorder) Named(name string) []Call {
	var calls []Call
	for _, c := range r.Calls {
		if c.Name == name {
			calls = append(calls, c)
		}
	}
	return calls
}

// Live returns the number of objects of the given kind ("program", "shader",
// "buffer", "vertexArray", "texture") that were created and not deleted.
func (r *Recorder) Live(kind string) int {
	n := 0
	for _, k := range r.live {
		if k == kind {
			n++
		}
	}
	return n
}

// Reset forgets the recorded calls but keeps object state.
func (r *Recorder) Reset() {
	r.Calls = nil
}

func (r *Recorder) GetString(pname opengl.Enum) string {
	r.record("GetString", pname)
	return "gltest"
}

func (r *Recorder) GetInteger(pname opengl.Enum) int32 {
	r.record("GetInteger", pname)
	return r.Integers[pname]
}

func (r *Recorder) GetIntegers(pname opengl.Enum, dst []int32) {
	r.record("GetIntegers", pname)
	if v, ok := r.IntegerArrays[pname]; ok {
		copy(dst, v)
		return
	}
	if len(dst) > 0 {
		dst[0] = r.Integers[pname]
	}
}

func (r *Recorder) CreateProgram() uint32 {
	id := r.alloc("program")
	r.programs[id] = &programObject{}
	r.record("CreateProgram")
	return id
}

func (r *Recorder) DeleteProgram(p uint32) {
	r.record("DeleteProgram", p)
	delete(r.programs, p)
	r.free(p)
}

func (r *Recorder) CreateShader(kind opengl.Enum) uint32 {
	id := r.alloc("shader")
	r.shaders[id] = &shaderObject{kind: kind}
	r.record("CreateShader", kind)
	return id
}

func (r *Recorder) DeleteShader(s uint32) {
	r.record("DeleteShader", s)
	delete(r.shaders, s)
	r.free(s)
}

func (r *Recorder) ShaderSource(s uint32, src string) {
	r.record("ShaderSource", s)
	if sh, ok := r.shaders[s]; ok {
		sh.source = src
	}
}

func (r *Recorder) CompileShader(s uint32) {
	r.record("CompileShader", s)
	sh, ok := r.shaders[s]
	if !ok {
		return
	}
	if !strings.Contains(sh.source, "void main") {
		sh.compiled = false
		sh.log = "0:1(1): error: entry point main not found"
		return
	}
	sh.compiled = true
	sh.log = ""
}

func (r *Recorder) GetShaderi(s uint32, pname opengl.Enum) int32 {
	r.record("GetShaderi", s, pname)
	sh, ok := r.shaders[s]
	if !ok {
		return 0
	}
	switch pname {
	case opengl.COMPILE_STATUS:
		if sh.compiled {
			return opengl.TRUE
		}
		return opengl.FALSE
	case opengl.INFO_LOG_LENGTH:
		if sh.log == "" {
			return 0
		}
		return int32(len(sh.log) + 1)
	}
	return 0
}

func (r *Recorder) GetShaderInfoLog(s uint32) string {
	r.record("GetShaderInfoLog", s)
	if sh, ok := r.shaders[s]; ok {
		return sh.log
	}
	return ""
}

func (r *Recorder) AttachShader(p, s uint32) {
	r.record("AttachShader", p, s)
	if prog, ok := r.programs[p]; ok {
		prog.shaders = append(prog.shaders, s)
	}
}

func (r *Recorder) LinkProgram(p uint32) {
	r.record("LinkProgram", p)
	prog, ok := r.programs[p]
	if !ok {
		return
	}
	prog.linked = false
	prog.attribs = make(map[string]int32)
	prog.uniforms = make(map[string]int32)

	if r.LinkError != "" {
		prog.log = r.LinkError
		return
	}
	for _, s := range prog.shaders {
		sh, ok := r.shaders[s]
		if !ok || !sh.compiled {
			prog.log = "error: attached shader is not compiled"
			return
		}
		for _, d := range declarations(sh.source) {
			switch {
			case d.qualifier == "uniform":
				if _, seen := prog.uniforms[d.name]; !seen {
					prog.uniforms[d.name] = int32(len(prog.uniforms))
				}
			case sh.kind == opengl.VERTEX_SHADER && (d.qualifier == "in" || d.qualifier == "attribute"):
				prog.attribs[d.name] = int32(len(prog.attribs))
			}
		}
	}
	prog.linked = true
	prog.log = ""
}

func (r *Recorder) GetProgrami(p uint32, pname opengl.Enum) int32 {
	r.record("GetProgrami", p, pname)
	prog, ok := r.programs[p]
	if !ok {
		return 0
	}
	switch pname {
	case opengl.LINK_STATUS:
		if prog.linked {
			return opengl.TRUE
		}
		return opengl.FALSE
	case opengl.INFO_LOG_LENGTH:
		if prog.log == "" {
			return 0
		}
		return int32(len(prog.log) + 1)
	}
	return 0
}

func (r *Recorder) GetProgramInfoLog(p uint32) string {
	r.record("GetProgramInfoLog", p)
	if prog, ok := r.programs[p]; ok {
		return prog.log
	}
	return ""
}

func (r *Recorder) UseProgram(p uint32) {
	r.record("UseProgram", p)
	r.CurrentProgram = p
}

func (r *Recorder) GetUniformLocation(p uint32, name string) int32 {
	r.record("GetUniformLocation", p, name)
	if prog, ok := r.programs[p]; ok && prog.linked {
		if loc, ok := prog.uniforms[name]; ok {
			return loc
		}
	}
	return -1
}

func (r *Recorder) GetAttribLocation(p uint32, name string) int32 {
	r.record("GetAttribLocation", p, name)
	if prog, ok := r.programs[p]; ok && prog.linked {
		if loc, ok := prog.attribs[name]; ok {
			return loc
		}
	}
	return -1
}

func (r *Recorder) Uniform1f(loc int32, v float32) {
	r.record("Uniform1f", loc, v)
	r.Uniforms[loc] = v
}

func (r *Recorder) Uniform1i(loc int32, v int32) {
	r.record("Uniform1i", loc, v)
	r.Uniforms[loc] = v
}

func (r *Recorder) UniformMatrix4fv(loc int32, m [16]float32) {
	r.record("UniformMatrix4fv", loc, m)
	r.Uniforms[loc] = m
}

func (r *Recorder) CreateVertexArray() uint32 {
	r.record("CreateVertexArray")
	return r.alloc("vertexArray")
}

func (r *Recorder) DeleteVertexArray(a uint32) {
	r.record("DeleteVertexArray", a)
	r.free(a)
}

func (r *Recorder) BindVertexArray(a uint32) {
	r.record("BindVertexArray", a)
	r.CurrentVertexArray = a
}

func (r *Recorder) CreateBuffer() uint32 {
	r.record("CreateBuffer")
	return r.alloc("buffer")
}

func (r *Recorder) DeleteBuffer(b uint32) {
	r.record("DeleteBuffer", b)
	r.free(b)
}

func (r *Recorder) BindBuffer(target opengl.Enum, b uint32) {
	r.record("BindBuffer", target, b)
	r.Bound[target] = b
}

func (r *Recorder) BufferData(target opengl.Enum, data []byte, usage opengl.Enum) {
	r.record("BufferData", target, len(data), usage)
}

func (r *Recorder) VertexAttribPointer(index uint32, size int32, typ opengl.Enum, normalized bool, stride int32, offset int) {
	r.record("VertexAttribPointer", index, size, typ, normalized, stride, offset)
}

func (r *Recorder) EnableVertexAttribArray(index uint32) {
	r.record("EnableVertexAttribArray", index)
}

func (r *Recorder) DrawElements(mode opengl.Enum, count int32, typ opengl.Enum, offset int) {
	r.record("DrawElements", mode, count, typ, offset)
}

func (r *Recorder) CreateTexture() uint32 {
	r.record("CreateTexture")
	return r.alloc("texture")
}

func (r *Recorder) DeleteTexture(t uint32) {
	r.record("DeleteTexture", t)
	r.free(t)
}

func (r *Recorder) ActiveTexture(unit opengl.Enum) {
	r.record("ActiveTexture", unit)
	r.ActiveUnit = unit
}

func (r *Recorder) BindTexture(target opengl.Enum, t uint32) {
	r.record("BindTexture", target, t)
	r.Bound[target] = t
}

func (r *Recorder) TexParameteri(target, pname opengl.Enum, param int32) {
	r.record("TexParameteri", target, pname, param)
}

func (r *Recorder) TexImage2D(target opengl.Enum, level int32, internalFormat opengl.Enum, width, height int32, format, typ opengl.Enum, pixels []byte) {
	r.record("TexImage2D", target, level, internalFormat, width, height, format, typ, len(pixels))
	r.TexImages = append(r.TexImages, TexImage{
		Target:         target,
		InternalFormat: internalFormat,
		Format:         format,
		Width:          width,
		Height:         height,
		Size:           len(pixels),
	})
}

func (r *Recorder) GenerateMipmap(target opengl.Enum) {
	r.record("GenerateMipmap", target)
}

func (r *Recorder) PixelStorei(pname opengl.Enum, param int32) {
	r.record("PixelStorei", pname, param)
}

func (r *Recorder) ClearColor(cr, cg, cb, ca float32) {
	r.record("ClearColor", cr, cg, cb, ca)
}

func (r *Recorder) Clear(mask opengl.Enum) {
	r.record("Clear", mask)
}

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.record("Viewport", x, y, width, height)
}

func (r *Recorder) Enable(capability opengl.Enum) {
	r.record("Enable", capability)
	r.Enabled[capability] = true
}

func (r *Recorder) Disable(capability opengl.Enum) {
	r.record("Disable", capability)
	r.Enabled[capability] = false
}

func (r *Recorder) IsEnabled(capability opengl.Enum) bool {
	r.record("IsEnabled", capability)
	return r.Enabled[capability]
}

func (r *Recorder) Scissor(x, y, width, height int32) {
	r.record("Scissor", x, y, width, height)
}

func (r *Recorder) BlendEquationSeparate(modeRGB, modeAlpha opengl.Enum) {
	r.record("BlendEquationSeparate", modeRGB, modeAlpha)
}

func (r *Recorder) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha opengl.Enum) {
	r.record("BlendFuncSeparate", srcRGB, dstRGB, srcAlpha, dstAlpha)
}

func (r *Recorder) PolygonMode(face, mode opengl.Enum) {
	r.record("PolygonMode", face, mode)
}

type declaration struct {
	qualifier string
	name      string
}

// declarations extracts "in", "attribute" and "uniform" declarations from
// GLSL source, ignoring layout qualifiers and array suffixes.
func declarations(src string) []declaration {
	var decls []declaration
	scanner := bufio.NewScanner(strings.NewReader(src))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if i := strings.Index(line, "//"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if strings.HasPrefix(line, "layout") {
			if i := strings.Index(line, ")"); i >= 0 {
				line = strings.TrimSpace(line[i+1:])
			}
		}
		if !strings.HasSuffix(line, ";") {
			continue
		}
		fields := strings.Fields(strings.TrimSuffix(line, ";"))
		if len(fields) != 3 {
			continue
		}
		switch fields[0] {
		case "in", "attribute", "uniform":
		default:
			continue
		}
		name := fields[2]
		if i := strings.Index(name, "["); i >= 0 {
			name = name[:i]
		}
		decls = append(decls, declaration{qualifier: fields[0], name: name})
	}
	return decls
}
