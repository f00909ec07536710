package scene

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"openglrem/core"
)

var ErrUnknownFormat = errors.New("scene: unknown model format")

// LoadModel picks the loader from the file extension.
func LoadModel(path string) ([]core.Vertex, []uint32, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return LoadOBJ(path)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}
