package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"openglrem/config"
	"openglrem/core"
	"openglrem/gui"
	"openglrem/internal/opengl"
	"openglrem/logger"
	"openglrem/mesh"
	"openglrem/scene"
	"openglrem/shader"
	"openglrem/texture"
)

// Exit statuses. A failed shader exits with its own error code.
const (
	exitOK     = 0
	exitGLFW   = 1
	exitWindow = 2
	exitGL     = 3
	exitSetup  = 4
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to a YAML config file (default "+config.DefaultPath+" if present)")
	logLevel := flag.String("log-level", "", "override the configured log level")
	flag.Parse()

	cfg, err := loadConfig(*configPath, *logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitSetup
	}

	logs, err := logger.Initialize(cfg.LoggerConfig())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitSetup
	}
	defer logs.Close()
	log := logs.Logger()

	core.SetErrorCallback(func(code int, description string) {
		log.Error("glfw error", "code", code, "description", description)
	})

	window, err := core.NewWindow(cfg.Window.WindowConfig())
	if err != nil {
		logger.Fatal(log, "cannot open window", "err", err)
		var initErr *core.InitError
		if errors.As(err, &initErr) && initErr.Stage == core.StageGLFW {
			return exitGLFW
		}
		return exitWindow
	}
	defer window.Destroy()

	scale := window.AspectScale()
	log.Info("window ready", "width", window.Width, "height", window.Height, "scale", scale)

	fns, err := opengl.Init()
	if err != nil {
		logger.Fatal(log, "cannot initialize OpenGL", "err", err)
		return exitGL
	}

	sh := shader.New(fns, log, cfg.Shaders.Vertex, cfg.Shaders.Fragment)
	if !sh.Valid() {
		shErr := sh.LastError()
		logger.Fatal(log, "cannot create shader", "err", shErr.Message)
		return shErr.Code
	}
	defer sh.Destroy()

	m, err := buildMesh(fns, log, cfg.Mesh, sh)
	if err != nil {
		logger.Fatal(log, "cannot build mesh", "err", err)
		return exitSetup
	}
	defer m.Destroy()

	textures, err := loadTextures(fns, log, cfg, sh)
	defer func() {
		for _, t := range textures {
			t.Destroy()
		}
	}()
	if err != nil {
		logger.Fatal(log, "cannot create textures", "err", err)
		return exitSetup
	}

	overlay, err := gui.New(window, fns, log)
	if err != nil {
		logger.Fatal(log, "cannot create gui", "err", err)
		return exitSetup
	}
	defer overlay.Destroy()

	vis := logger.NewVisualizer(cfg.Log.PanelCapacity)
	logs.Attach(vis)
	logPanel := gui.NewLogPanel(vis)

	views := make([]gui.TextureView, len(textures))
	for i, t := range textures {
		views[i] = gui.TextureView{Name: cfg.Textures[i], ID: t.ID()}
	}
	settings := gui.NewSettings(cfg.Scene.Mix, cfg.Scene.Background)

	for !window.ShouldClose() {
		window.PollEvents()
		if window.IsKeyPressed(core.KeyEscape) {
			window.Close()
		}

		w, h := window.GetFramebufferSize()
		bg := settings.ClearColor()
		fns.Viewport(0, 0, int32(w), int32(h))
		fns.ClearColor(bg[0], bg[1], bg[2], bg[3])
		fns.Clear(opengl.COLOR_BUFFER_BIT | opengl.DEPTH_BUFFER_BIT)

		overlay.NewFrame()

		sh.Bind()
		sh.SetMat4("transform", settings.Transform(scale))
		sh.SetFloat("mix_value", settings.Mix)
		sh.SetInt("texId", int32(settings.TexID))
		sh.Unbind()

		var current *texture.Texture
		if settings.TexID < len(textures) {
			current = textures[settings.TexID]
			current.Bind()
		}
		m.Bind()
		m.Draw()
		m.Unbind()
		if current != nil {
			current.Unbind()
		}

		gui.SettingsPanel(settings)
		gui.TexturesPanel(settings, views, log)
		logPanel.Draw()

		overlay.Render()
		window.SwapBuffers()
	}

	log.Info("shutting down")
	return exitOK
}

func loadConfig(path, level string) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if path == "" {
		cfg, err = config.LoadIfExists(config.DefaultPath)
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return cfg, err
	}

	if level != "" {
		l, err := logger.ParseLevel(level)
		if err != nil {
			return cfg, err
		}
		cfg.Log.Level = config.Level(l)
	}
	return cfg, nil
}

var errInvalidMesh = errors.New("mesh is not valid")

func buildMesh(fns opengl.Functions, log *slog.Logger, cfg config.Mesh, sh *shader.Shader) (*mesh.Mesh, error) {
	vertices, indices, err := loadGeometry(cfg)
	if err != nil {
		return nil, fmt.Errorf("geometry: %w", err)
	}
	m := mesh.New(fns, log, vertices, indices, sh)
	if !m.Valid() {
		return nil, errInvalidMesh
	}
	return m, nil
}

func loadGeometry(cfg config.Mesh) ([]core.Vertex, []uint32, error) {
	if cfg.Model != "" {
		return scene.LoadModel(cfg.Model)
	}
	t, err := scene.ParseTemplate(cfg.Template)
	if err != nil {
		return nil, nil, err
	}
	return scene.Generate(t, cfg.Segments)
}

// loadTextures returns every texture created so far, even on error, so the
// caller can release them.
func loadTextures(fns opengl.Functions, log *slog.Logger, cfg config.Config, sh *shader.Shader) ([]*texture.Texture, error) {
	limit := cfg.Texture.MaxUnits
	if limit == 0 {
		limit = texture.QueryMaxUnits(fns)
	}
	units := texture.NewUnitAllocator(limit)
	gen := texture.NewGenerator(fns, log, units, texture.WithStrict(cfg.Texture.Strict))

	var textures []*texture.Texture
	for _, name := range cfg.Textures {
		t, err := gen.Gen(name, sh, nil, texture.Kind2D)
		if err != nil {
			return textures, fmt.Errorf("texture %s: %w", name, err)
		}
		textures = append(textures, t)
	}
	return textures, nil
}
