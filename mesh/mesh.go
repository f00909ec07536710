// Package mesh uploads static indexed geometry and draws it with the shader
// it was built against.
package mesh

import (
	"log/slog"
	"unsafe"

	"openglrem/core"
	"openglrem/internal/opengl"
	"openglrem/logger"
	"openglrem/shader"
)

// Mesh owns one vertex array, one vertex buffer and one index buffer. An
// invalid Mesh owns nothing and all its methods are no-ops.
type Mesh struct {
	gl     opengl.Functions
	log    *slog.Logger
	shader *shader.Shader

	vao, vbo, ebo uint32
	count         int32
	valid         bool
}

// New validates its arguments and uploads vertices and indices once. The
// attributes "position", "color" and "texCoord" are bound to the layout of
// core.Vertex.
func New(gl opengl.Functions, log *slog.Logger, vertices []core.Vertex, indices []uint32, sh *shader.Shader) *Mesh {
	m := &Mesh{
		gl:     gl,
		log:    logger.OrNop(log).With("component", "mesh"),
		shader: sh,
	}
	if !ValidateArgs(m.log, vertices, indices, sh) {
		m.log.Error("the arguments are not valid")
		return m
	}

	m.count = int32(len(indices))
	m.vao = gl.CreateVertexArray()
	m.vbo = gl.CreateBuffer()
	m.ebo = gl.CreateBuffer()
	sh.Bind()

	gl.BindVertexArray(m.vao)

	gl.BindBuffer(opengl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(opengl.ARRAY_BUFFER, vertexBytes(vertices), opengl.STATIC_DRAW)

	gl.BindBuffer(opengl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(opengl.ELEMENT_ARRAY_BUFFER, indexBytes(indices), opengl.STATIC_DRAW)

	m.bindAttributes()

	gl.BindVertexArray(0)
	sh.Unbind()

	m.valid = true
	m.log.Info("uploaded mesh", "vertices", len(vertices), "indices", m.count)
	return m
}

// ValidateArgs logs every failed precondition and reports whether all hold.
func ValidateArgs(log *slog.Logger, vertices []core.Vertex, indices []uint32, sh *shader.Shader) bool {
	log = logger.OrNop(log)
	valid := true
	if len(vertices) == 0 {
		valid = false
		log.Error("the vertices array is empty")
	}
	if len(indices) == 0 {
		valid = false
		log.Error("the indices array is empty")
	}
	if sh == nil {
		valid = false
		log.Error("the mesh shader is nil")
	} else if !sh.Valid() {
		valid = false
		log.Error("the mesh shader is not valid", "err", sh.LastError())
	}
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			valid = false
			log.Error("index out of range", "position", i, "index", idx, "vertices", len(vertices))
			break
		}
	}
	return valid
}

func (m *Mesh) bindAttributes() {
	for _, a := range core.VertexAttributes {
		loc := m.shader.Location(a.Name, shader.Attribute)
		if loc < 0 {
			m.log.Warn("attribute not used by shader, skipped", "name", a.Name)
			continue
		}
		m.gl.VertexAttribPointer(uint32(loc), int32(a.Count), opengl.FLOAT, false, int32(core.VertexStride), a.Offset)
		m.gl.EnableVertexAttribArray(uint32(loc))
		m.log.Debug("bound attribute",
			"name", a.Name, "id", loc, "count", a.Count, "offset", a.Offset, "stride", core.VertexStride)
	}
}

func vertexBytes(v []core.Vertex) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*core.VertexStride)
}

func indexBytes(i []uint32) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&i[0])), len(i)*4)
}

func (m *Mesh) Valid() bool { return m.valid }

// IndexCount is the number of indices issued by Draw.
func (m *Mesh) IndexCount() int32 { return m.count }

func (m *Mesh) Shader() *shader.Shader { return m.shader }

// Bind activates the shader and the vertex array together.
func (m *Mesh) Bind() {
	if !m.valid {
		return
	}
	m.shader.Bind()
	m.gl.BindVertexArray(m.vao)
}

// Draw issues one indexed triangle draw of every index.
func (m *Mesh) Draw() {
	if !m.valid {
		return
	}
	m.gl.DrawElements(opengl.TRIANGLES, m.count, opengl.UNSIGNED_INT, 0)
}

func (m *Mesh) Unbind() {
	if !m.valid {
		return
	}
	m.gl.BindVertexArray(0)
	m.shader.Unbind()
}

func (m *Mesh) Destroy() {
	if !m.valid {
		return
	}
	m.gl.DeleteVertexArray(m.vao)
	m.gl.DeleteBuffer(m.vbo)
	m.gl.DeleteBuffer(m.ebo)
	m.vao, m.vbo, m.ebo = 0, 0, 0
	m.valid = false
}
