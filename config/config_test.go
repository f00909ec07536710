package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"openglrem/core"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "openglrem.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if cfg.Window.Width != 1370 || cfg.Window.Height != 900 || cfg.Window.Title != "OpenGLRem" {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Window.WindowConfig() != core.DefaultWindowConfig() {
		t.Errorf("window %+v differs from core defaults", cfg.Window)
	}
	if cfg.Scene.Mix != 0.8 || cfg.Scene.Background != [4]float32{0.3, 0.2, 0.4, 1} {
		t.Errorf("scene = %+v", cfg.Scene)
	}
	if len(cfg.Textures) != 2 {
		t.Errorf("textures = %v", cfg.Textures)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
window:
  width: 800
textures:
  - a.png
texture:
  strict: true
log:
  level: warn
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Window.Width != 800 || cfg.Window.Height != 900 {
		t.Errorf("window = %dx%d, want 800x900", cfg.Window.Width, cfg.Window.Height)
	}
	if len(cfg.Textures) != 1 || cfg.Textures[0] != "a.png" {
		t.Errorf("textures = %v", cfg.Textures)
	}
	if !cfg.Texture.Strict || cfg.Texture.MaxUnits != 32 {
		t.Errorf("texture = %+v", cfg.Texture)
	}
	if slog.Level(cfg.Log.Level) != slog.LevelWarn {
		t.Errorf("log level = %v", slog.Level(cfg.Log.Level))
	}
	if cfg.Shaders.Vertex != "resources/shaders/vs.glsl" {
		t.Errorf("vertex shader = %q", cfg.Shaders.Vertex)
	}
	if lc := cfg.LoggerConfig(); lc.Level != slog.LevelWarn || lc.Dir != "logs" {
		t.Errorf("LoggerConfig() = %+v", lc)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad level": "log:\n  level: loud\n",
		"bad mix":   "scene:\n  mix: 2\n",
		"bad size":  "window:\n  width: 0\n",
		"bad units": "texture:\n  max_units: 64\n",
		"not yaml":  "window: [",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Error("Load() returned no error")
			}
		})
	}
}

func TestLoadIfExists(t *testing.T) {
	cfg, err := LoadIfExists(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadIfExists() = %v", err)
	}
	if cfg.Window.Width != Default().Window.Width {
		t.Error("missing file did not yield defaults")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of missing file returned no error")
	}
}

func TestLevelMarshal(t *testing.T) {
	out, err := yaml.Marshal(Default().Log)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "level: DEBUG") {
		t.Errorf("marshalled log section:\n%s", out)
	}
}
