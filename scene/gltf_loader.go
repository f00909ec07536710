package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"openglrem/core"
)

var ErrNoGeometry = errors.New("scene: gltf file has no mesh primitive")

// LoadGLTF reads the geometry of the first primitive of the first mesh in a
// .glb or .gltf file. Vertex colours are white; texture coordinates are
// flipped vertically to match the image loader.
func LoadGLTF(path string) ([]core.Vertex, []uint32, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	if len(doc.Meshes) == 0 || len(doc.Meshes[0].Primitives) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoGeometry, path)
	}
	return loadGLTFPrimitive(doc, doc.Meshes[0].Primitives[0])
}

func loadGLTFPrimitive(doc *gltf.Document, prim *gltf.Primitive) ([]core.Vertex, []uint32, error) {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, nil, fmt.Errorf("unsupported primitive mode %v", prim.Mode)
	}

	// Positions are required
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, nil, fmt.Errorf("positions: %w", err)
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, nil, fmt.Errorf("texture coordinates: %w", err)
		}
	}

	verts := make([]core.Vertex, len(positions))
	for i, p := range positions {
		v := core.Vertex{
			Position: mgl32.Vec3{p[0], p[1], p[2]},
			Color:    core.ColorWhite.Vec4(),
		}
		if i < len(uvs) {
			v.TexCoord = mgl32.Vec2{uvs[i][0], 1 - uvs[i][1]}
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(verts))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	return verts, indices, nil
}
