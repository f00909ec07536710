package core

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorRed   = Color{1, 0, 0, 1}
	ColorGreen = Color{0, 1, 0, 1}
	ColorBlue  = Color{0, 0, 1, 1}
)

func (c Color) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

// Vertex is the only vertex format uploaded by the mesh wrapper. Its fields
// are tightly packed float32 values in position, color, texCoord order.
type Vertex struct {
	Position mgl32.Vec3
	Color    mgl32.Vec4
	TexCoord mgl32.Vec2
}

const (
	PositionCount = 3
	ColorCount    = 4
	TexCoordCount = 2

	PositionOffset = int(unsafe.Offsetof(Vertex{}.Position))
	ColorOffset    = int(unsafe.Offsetof(Vertex{}.Color))
	TexCoordOffset = int(unsafe.Offsetof(Vertex{}.TexCoord))
	VertexStride   = int(unsafe.Sizeof(Vertex{}))
)

// Attribute describes one vertex attribute as seen by a shader.
type Attribute struct {
	Name   string
	Count  int
	Offset int
}

// VertexAttributes lists the attributes of Vertex in declaration order, keyed
// by the names the shaders use.
var VertexAttributes = [...]Attribute{
	{Name: "position", Count: PositionCount, Offset: PositionOffset},
	{Name: "color", Count: ColorCount, Offset: ColorOffset},
	{Name: "texCoord", Count: TexCoordCount, Offset: TexCoordOffset},
}
