package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"openglrem/core"
)

// objCorner is one face corner: 0-based position, uv and colour indices.
// uv is -1 when absent.
type objCorner struct {
	v, vt int
	color mgl32.Vec4
}

// LoadOBJ reads every face of a Wavefront .obj file into one indexed
// triangle list. Polygons are fan-triangulated. Faces take the diffuse
// colour (Kd) of their material when an mtllib is referenced, white
// otherwise.
func LoadOBJ(path string) ([]core.Vertex, []uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	dir := filepath.Dir(path)

	var positions []mgl32.Vec3
	var uvs []mgl32.Vec2
	var corners []objCorner

	diffuse := map[string]mgl32.Vec4{}
	color := core.ColorWhite.Vec4()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
			}
			positions = append(positions, mgl32.Vec3{p[0], p[1], p[2]})

		case "vt":
			t, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
			}
			// bottom-left origin, same as the decoded texture rows
			uvs = append(uvs, mgl32.Vec2{t[0], t[1]})

		case "mtllib":
			for _, name := range fields[1:] {
				loaded, err := loadMTL(filepath.Join(dir, name))
				if err != nil {
					return nil, nil, err
				}
				for k, v := range loaded {
					diffuse[k] = v
				}
			}

		case "usemtl":
			color = core.ColorWhite.Vec4()
			if len(fields) > 1 {
				if kd, ok := diffuse[fields[1]]; ok {
					color = kd
				}
			}

		case "f":
			if len(fields) < 4 {
				return nil, nil, fmt.Errorf("%s:%d: face needs 3 vertices, got %d", path, lineNo, len(fields)-1)
			}
			face := make([]objCorner, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				c, err := parseCorner(tok, len(positions), len(uvs))
				if err != nil {
					return nil, nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
				}
				c.color = color
				face = append(face, c)
			}
			// 0-1-2, 0-2-3, ...
			for i := 1; i+1 < len(face); i++ {
				corners = append(corners, face[0], face[i], face[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scan obj: %w", err)
	}
	if len(corners) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoGeometry, path)
	}

	vertices, indices := buildOBJ(corners, positions, uvs)
	return vertices, indices, nil
}

// buildOBJ deduplicates identical corners.
func buildOBJ(corners []objCorner, positions []mgl32.Vec3, uvs []mgl32.Vec2) ([]core.Vertex, []uint32) {
	seen := map[objCorner]uint32{}
	var vertices []core.Vertex
	indices := make([]uint32, 0, len(corners))

	for _, c := range corners {
		if idx, ok := seen[c]; ok {
			indices = append(indices, idx)
			continue
		}
		v := core.Vertex{Position: positions[c.v], Color: c.color}
		if c.vt >= 0 {
			v.TexCoord = uvs[c.vt]
		}
		idx := uint32(len(vertices))
		vertices = append(vertices, v)
		seen[c] = idx
		indices = append(indices, idx)
	}
	return vertices, indices
}

// parseCorner parses "v", "v/vt", "v//vn" or "v/vt/vn". Negative indices
// count back from the last element read so far.
func parseCorner(tok string, nPos, nUV int) (objCorner, error) {
	parts := strings.Split(tok, "/")
	c := objCorner{vt: -1}

	v, err := resolveIndex(parts[0], nPos)
	if err != nil {
		return c, fmt.Errorf("vertex %q: %w", tok, err)
	}
	c.v = v

	if len(parts) > 1 && parts[1] != "" {
		vt, err := resolveIndex(parts[1], nUV)
		if err != nil {
			return c, fmt.Errorf("texture coordinate %q: %w", tok, err)
		}
		c.vt = vt
	}
	return c, nil
}

func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += n
	default:
		return 0, fmt.Errorf("index 0 is invalid")
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index out of range [0,%d)", n)
	}
	return i, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d components, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := range out {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

// loadMTL returns the diffuse colour of every material in an .mtl file.
func loadMTL(path string) (map[string]mgl32.Vec4, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mtl %q: %w", path, err)
	}
	defer f.Close()

	mats := map[string]mgl32.Vec4{}
	var cur string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "newmtl":
			cur = fields[1]
			mats[cur] = core.ColorWhite.Vec4()
		case "Kd":
			if cur == "" {
				continue
			}
			kd, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("mtl %s: %w", cur, err)
			}
			mats[cur] = mgl32.Vec4{kd[0], kd[1], kd[2], 1}
		}
	}
	return mats, scanner.Err()
}
