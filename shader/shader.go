// Package shader wraps a linked vertex+fragment OpenGL program.
package shader

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"openglrem/internal/opengl"
	"openglrem/logger"
)

// Error codes carried by Error. They double as process exit codes.
const (
	CodeEmptyPath      = -1
	CodeCompileFailure = -2
	CodeReadFailure    = -3
	CodeDestroyed      = -4
)

// NotFound is returned by Location for names the program does not expose.
const NotFound int32 = -1

type Error struct {
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("shader: %s (code %d)", e.Message, e.Code)
}

// Kind selects the namespace searched by Location.
type Kind int

const (
	Uniform Kind = iota
	Attribute
)

func (k Kind) String() string {
	if k == Attribute {
		return "attribute"
	}
	return "uniform"
}

// Shader owns one program object. A Shader that failed to build keeps its
// error and never holds a program.
type Shader struct {
	gl      opengl.Functions
	log     *slog.Logger
	program uint32
	err     *Error
}

// New reads and compiles the two stages from disk. It never returns nil;
// check Valid or LastError.
func New(gl opengl.Functions, log *slog.Logger, vertexPath, fragmentPath string) *Shader {
	s := &Shader{gl: gl, log: logger.OrNop(log).With("component", "shader")}

	if vertexPath == "" || fragmentPath == "" {
		s.fail(CodeEmptyPath, "the paths to shaders are empty")
		return s
	}

	vertexSrc, err := s.load(vertexPath)
	if err != nil {
		return s
	}
	fragmentSrc, err := s.load(fragmentPath)
	if err != nil {
		return s
	}

	s.build(vertexSrc, fragmentSrc)
	return s
}

// NewFromSource compiles the two stages from memory.
func NewFromSource(gl opengl.Functions, log *slog.Logger, vertexSrc, fragmentSrc string) *Shader {
	s := &Shader{gl: gl, log: logger.OrNop(log).With("component", "shader")}
	if vertexSrc == "" || fragmentSrc == "" {
		s.fail(CodeEmptyPath, "the shader sources are empty")
		return s
	}
	s.build(vertexSrc, fragmentSrc)
	return s
}

func (s *Shader) load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.fail(CodeReadFailure, fmt.Sprintf("cannot load %q: %v", path, err))
		return "", err
	}
	s.log.Info("load source", "path", path)
	return string(data), nil
}

func (s *Shader) build(vertexSrc, fragmentSrc string) {
	vertex, ok := s.compile(opengl.VERTEX_SHADER, vertexSrc)
	if !ok {
		return
	}
	defer s.gl.DeleteShader(vertex)

	fragment, ok := s.compile(opengl.FRAGMENT_SHADER, fragmentSrc)
	if !ok {
		return
	}
	defer s.gl.DeleteShader(fragment)

	prog := s.gl.CreateProgram()
	s.gl.AttachShader(prog, vertex)
	s.gl.AttachShader(prog, fragment)
	s.gl.LinkProgram(prog)

	if s.gl.GetProgrami(prog, opengl.LINK_STATUS) != opengl.TRUE {
		msg := s.gl.GetProgramInfoLog(prog)
		s.gl.DeleteProgram(prog)
		s.fail(CodeCompileFailure, "link failed: "+strings.TrimSpace(msg))
		return
	}

	s.program = prog
	s.log.Info("linked program", "program", prog)
}

func (s *Shader) compile(kind opengl.Enum, src string) (uint32, bool) {
	s.printSource(src)

	sh := s.gl.CreateShader(kind)
	s.gl.ShaderSource(sh, src)
	s.gl.CompileShader(sh)

	if s.gl.GetShaderi(sh, opengl.COMPILE_STATUS) != opengl.TRUE {
		msg := s.gl.GetShaderInfoLog(sh)
		s.gl.DeleteShader(sh)
		s.fail(CodeCompileFailure, fmt.Sprintf("%s compile failed: %s", stageName(kind), strings.TrimSpace(msg)))
		return 0, false
	}
	s.log.Debug("compiled shader", "stage", stageName(kind), "shader", sh)
	return sh, true
}

func (s *Shader) printSource(src string) {
	src = strings.TrimSuffix(src, "\n")
	for i, line := range strings.Split(src, "\n") {
		s.log.Debug(fmt.Sprintf("%d |%s", i+1, line))
	}
}

func stageName(kind opengl.Enum) string {
	if kind == opengl.FRAGMENT_SHADER {
		return "fragment"
	}
	return "vertex"
}

func (s *Shader) fail(code int, msg string) {
	s.err = &Error{Message: msg, Code: code}
	s.log.Error(msg, "code", code)
}

func (s *Shader) Valid() bool {
	return s.err == nil
}

// LastError is nil exactly when the shader is valid.
func (s *Shader) LastError() *Error {
	return s.err
}

// Program returns the GL program name, 0 for an invalid shader.
func (s *Shader) Program() uint32 {
	return s.program
}

// Location looks up a uniform or attribute by name. It returns NotFound for
// unknown names and for invalid shaders.
func (s *Shader) Location(name string, kind Kind) int32 {
	if !s.Valid() {
		return NotFound
	}
	switch kind {
	case Attribute:
		return s.gl.GetAttribLocation(s.program, name)
	default:
		return s.gl.GetUniformLocation(s.program, name)
	}
}

// uniform resolves name on every call.
func (s *Shader) uniform(name string) (int32, bool) {
	loc := s.Location(name, Uniform)
	if loc < 0 {
		s.log.Debug("uniform not found", "name", name)
		return NotFound, false
	}
	return loc, true
}

func (s *Shader) SetFloat(name string, v float32) {
	if loc, ok := s.uniform(name); ok {
		s.gl.Uniform1f(loc, v)
	}
}

func (s *Shader) SetInt(name string, v int32) {
	if loc, ok := s.uniform(name); ok {
		s.gl.Uniform1i(loc, v)
	}
}

func (s *Shader) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	s.SetInt(name, i)
}

func (s *Shader) SetMat4(name string, m mgl32.Mat4) {
	if loc, ok := s.uniform(name); ok {
		s.gl.UniformMatrix4fv(loc, m)
	}
}

// Bind makes the program current.
func (s *Shader) Bind() {
	if s.Valid() {
		s.gl.UseProgram(s.program)
	}
}

func (s *Shader) Unbind() {
	s.gl.UseProgram(0)
}

// Destroy deletes the program. The shader is invalid afterwards.
func (s *Shader) Destroy() {
	if s.program != 0 {
		s.gl.DeleteProgram(s.program)
		s.program = 0
	}
	if s.err == nil {
		s.err = &Error{Message: "program destroyed", Code: CodeDestroyed}
	}
}
