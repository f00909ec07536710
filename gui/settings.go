package gui

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Settings is the state edited through the panels and read by the render
// loop. Angles are held in degrees the way the sliders show them.
type Settings struct {
	Mix        float32
	Rotation   float32
	RotationX  float32
	RotationY  float32
	Background [3]float32
	TexID      int
}

func NewSettings(mix float32, background [4]float32) *Settings {
	return &Settings{
		Mix:        mix,
		Background: [3]float32{background[0], background[1], background[2]},
	}
}

// Transform is rotZ * rotX * rotY * scale(aspect, 1, 0).
func (s *Settings) Transform(aspect float32) mgl32.Mat4 {
	m := mgl32.HomogRotate3DZ(mgl32.DegToRad(s.Rotation))
	m = m.Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(s.RotationX)))
	m = m.Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(s.RotationY)))
	return m.Mul4(mgl32.Scale3D(aspect, 1, 0))
}

// ClearColor returns the background with an opaque alpha.
func (s *Settings) ClearColor() [4]float32 {
	return [4]float32{s.Background[0], s.Background[1], s.Background[2], 1}
}

// Select changes the displayed texture. Out of range indices are ignored.
func (s *Settings) Select(i, count int) bool {
	if i < 0 || i >= count || i == s.TexID {
		return false
	}
	s.TexID = i
	return true
}
