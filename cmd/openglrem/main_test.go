package main

import (
	"errors"
	"path/filepath"
	"testing"

	"openglrem/config"
	"openglrem/internal/opengl/gltest"
	"openglrem/shader"
)

func TestBuildMesh(t *testing.T) {
	gl := gltest.New()
	sh := shader.New(gl, nil, "../../resources/shaders/vs.glsl", "../../resources/shaders/fs.glsl")
	if !sh.Valid() {
		t.Fatal(sh.LastError())
	}

	m, err := buildMesh(gl, nil, config.Default().Mesh, sh)
	if err != nil {
		t.Fatalf("buildMesh() error = %v", err)
	}
	if !m.Valid() || m.IndexCount() == 0 {
		t.Errorf("buildMesh() mesh valid = %v, %d indices", m.Valid(), m.IndexCount())
	}
	m.Destroy()
}

func TestBuildMeshFailures(t *testing.T) {
	gl := gltest.New()
	broken := shader.NewFromSource(gl, nil, "broken", "broken")
	if _, err := buildMesh(gl, nil, config.Mesh{Template: "square", Segments: 1}, broken); !errors.Is(err, errInvalidMesh) {
		t.Errorf("buildMesh() with invalid shader error = %v, want %v", err, errInvalidMesh)
	}
	if gl.Live("buffer") != 0 || gl.Live("vertexArray") != 0 {
		t.Error("invalid mesh allocated GL objects")
	}

	missing := config.Mesh{Model: filepath.Join(t.TempDir(), "missing.obj")}
	if _, err := buildMesh(gl, nil, missing, broken); err == nil || errors.Is(err, errInvalidMesh) {
		t.Errorf("buildMesh() of missing model error = %v", err)
	}
}
