// Package config holds the demo settings. Defaults reproduce the built-in
// scene; a YAML file may override any subset of them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"openglrem/core"
	"openglrem/logger"
)

const DefaultPath = "openglrem.yaml"

type Config struct {
	Window   Window         `yaml:"window"`
	Shaders  Shaders        `yaml:"shaders"`
	Textures []string       `yaml:"textures"`
	Texture  TextureOptions `yaml:"texture"`
	Mesh     Mesh           `yaml:"mesh"`
	Scene    Scene          `yaml:"scene"`
	Log      Log            `yaml:"log"`
}

type Window struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	Resizable  bool   `yaml:"resizable"`
	VSync      bool   `yaml:"vsync"`
	Fullscreen bool   `yaml:"fullscreen"`
}

// WindowConfig converts w to the options core.NewWindow takes.
func (w Window) WindowConfig() core.WindowConfig {
	return core.WindowConfig(w)
}

type Shaders struct {
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
}

type TextureOptions struct {
	// Strict turns a failed pixel load into a startup error.
	Strict bool `yaml:"strict"`
	// MaxUnits caps the texture units handed out; 0 asks the driver.
	MaxUnits int `yaml:"max_units"`
}

type Mesh struct {
	Template string `yaml:"template"`
	Segments int    `yaml:"segments"`
	// Model is an optional .obj, .gltf or .glb file used instead of the template.
	Model string `yaml:"model"`
}

type Scene struct {
	Background [4]float32 `yaml:"background"`
	Mix        float32    `yaml:"mix"`
}

type Log struct {
	Level         Level  `yaml:"level"`
	Dir           string `yaml:"dir"`
	Console       bool   `yaml:"console"`
	PanelCapacity int    `yaml:"panel_capacity"`
}

// Level is a slog.Level written by name in YAML.
type Level slog.Level

func (l *Level) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := logger.ParseLevel(s)
	if err != nil {
		return err
	}
	*l = Level(parsed)
	return nil
}

func (l Level) MarshalYAML() (any, error) {
	return logger.LevelName(slog.Level(l)), nil
}

func Default() Config {
	return Config{
		Window: Window(core.DefaultWindowConfig()),
		Shaders: Shaders{
			Vertex:   "resources/shaders/vs.glsl",
			Fragment: "resources/shaders/fs.glsl",
		},
		Textures: []string{
			"resources/textures/texture_0.png",
			"resources/textures/texture_1.png",
		},
		Texture: TextureOptions{MaxUnits: 32},
		Mesh:    Mesh{Template: "square", Segments: 5},
		Scene: Scene{
			Background: [4]float32{0.3, 0.2, 0.4, 1.0},
			Mix:        0.8,
		},
		Log: Log{
			Level:         Level(slog.LevelDebug),
			Dir:           "logs",
			Console:       true,
			PanelCapacity: logger.DefaultCapacity,
		},
	}
}

// Load merges the YAML file at path over Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadIfExists is Load, except a missing file yields the defaults.
func LoadIfExists(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Scene.Mix < 0 || c.Scene.Mix > 1 {
		errs = append(errs, fmt.Errorf("scene mix %v outside [0,1]", c.Scene.Mix))
	}
	if c.Texture.MaxUnits < 0 || c.Texture.MaxUnits > 32 {
		errs = append(errs, fmt.Errorf("texture max_units %d outside [0,32]", c.Texture.MaxUnits))
	}
	if c.Mesh.Segments < 0 {
		errs = append(errs, fmt.Errorf("mesh segments %d must not be negative", c.Mesh.Segments))
	}
	if c.Log.PanelCapacity < 0 {
		errs = append(errs, fmt.Errorf("log panel_capacity %d must not be negative", c.Log.PanelCapacity))
	}
	return errors.Join(errs...)
}

// LoggerConfig converts the log section for logger.Initialize.
func (c Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:   slog.Level(c.Log.Level),
		Dir:     c.Log.Dir,
		Console: c.Log.Console,
	}
}
