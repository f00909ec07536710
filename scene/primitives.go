package scene

import (
	"errors"
	"fmt"
	stdmath "math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"openglrem/core"
)

var ErrUnknownTemplate = errors.New("scene: unknown template")

// Template names a generated shape.
type Template string

const (
	Square   Template = "square"
	Triangle Template = "triangle"
	Polygon  Template = "polygon"
)

func ParseTemplate(s string) (Template, error) {
	switch t := Template(strings.ToLower(strings.TrimSpace(s))); t {
	case Square, Triangle, Polygon:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, s)
}

// corner colours of the generated shapes, counter-clockwise from bottom left
var cornerColors = [4]mgl32.Vec4{
	core.ColorRed.Vec4(),
	core.ColorGreen.Vec4(),
	core.ColorBlue.Vec4(),
	core.ColorWhite.Vec4(),
}

// Generate builds the vertices and indices of a template centred on the
// origin in the [-0.5, 0.5] square. segments subdivides the square per side
// and sets the side count of the polygon.
func Generate(t Template, segments int) ([]core.Vertex, []uint32, error) {
	switch t {
	case Square:
		v, i := CreateSquare(segments)
		return v, i, nil
	case Triangle:
		v, i := CreateTriangle()
		return v, i, nil
	case Polygon:
		v, i := CreatePolygon(segments)
		return v, i, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, string(t))
}

// CreateSquare generates a unit quad split into segments x segments cells.
// Colours blend bilinearly between the corner colours.
func CreateSquare(segments int) ([]core.Vertex, []uint32) {
	if segments < 1 {
		segments = 1
	}

	var vertices []core.Vertex
	var indices []uint32

	for row := 0; row <= segments; row++ {
		v := float32(row) / float32(segments)
		for col := 0; col <= segments; col++ {
			u := float32(col) / float32(segments)
			bottom := lerp4(cornerColors[0], cornerColors[1], u)
			top := lerp4(cornerColors[3], cornerColors[2], u)

			vertices = append(vertices, core.Vertex{
				Position: mgl32.Vec3{u - 0.5, v - 0.5, 0},
				Color:    lerp4(bottom, top, v),
				TexCoord: mgl32.Vec2{u, v},
			})
		}
	}

	for row := 0; row < segments; row++ {
		for col := 0; col < segments; col++ {
			current := uint32(row*(segments+1) + col)
			next := current + uint32(segments+1)

			indices = append(indices, current, current+1, next+1)
			indices = append(indices, next+1, next, current)
		}
	}

	return vertices, indices
}

func CreateTriangle() ([]core.Vertex, []uint32) {
	vertices := []core.Vertex{
		{Position: mgl32.Vec3{-0.5, -0.5, 0}, Color: cornerColors[0], TexCoord: mgl32.Vec2{0, 0}},
		{Position: mgl32.Vec3{0.5, -0.5, 0}, Color: cornerColors[1], TexCoord: mgl32.Vec2{1, 0}},
		{Position: mgl32.Vec3{0, 0.5, 0}, Color: cornerColors[2], TexCoord: mgl32.Vec2{0.5, 1}},
	}
	return vertices, []uint32{0, 1, 2}
}

// CreatePolygon generates a regular polygon as a triangle fan around its
// centre vertex.
func CreatePolygon(sides int) ([]core.Vertex, []uint32) {
	if sides < 3 {
		sides = 3
	}

	vertices := []core.Vertex{{
		Position: mgl32.Vec3{0, 0, 0},
		Color:    cornerColors[3],
		TexCoord: mgl32.Vec2{0.5, 0.5},
	}}
	var indices []uint32

	for i := 0; i < sides; i++ {
		theta := float64(i)*2.0*stdmath.Pi/float64(sides) + stdmath.Pi/2
		x := float32(stdmath.Cos(theta)) * 0.5
		y := float32(stdmath.Sin(theta)) * 0.5

		vertices = append(vertices, core.Vertex{
			Position: mgl32.Vec3{x, y, 0},
			Color:    cornerColors[i%3],
			TexCoord: mgl32.Vec2{x + 0.5, y + 0.5},
		})

		next := uint32(i+1)%uint32(sides) + 1
		indices = append(indices, 0, uint32(i+1), next)
	}

	return vertices, indices
}

func lerp4(a, b mgl32.Vec4, t float32) mgl32.Vec4 {
	return a.Add(b.Sub(a).Mul(t))
}
