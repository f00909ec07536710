package texture

import (
	"fmt"
	"log/slog"
	"sort"

	"openglrem/internal/opengl"
	"openglrem/logger"
)

// Params maps a sampling parameter name to its value.
type Params map[opengl.Enum]int32

// DefaultParams repeats in both directions and filters linearly.
func DefaultParams() Params {
	return Params{
		opengl.TEXTURE_WRAP_S:     int32(opengl.REPEAT),
		opengl.TEXTURE_WRAP_T:     int32(opengl.REPEAT),
		opengl.TEXTURE_MIN_FILTER: int32(opengl.LINEAR),
		opengl.TEXTURE_MAG_FILTER: int32(opengl.LINEAR),
	}
}

// keys returns the parameter names in ascending order.
func (p Params) keys() []opengl.Enum {
	keys := make([]opengl.Enum, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// SamplerBinder is the part of a shader the generator needs to publish the
// unit of a new texture.
type SamplerBinder interface {
	Bind()
	Unbind()
	SetInt(name string, v int32)
}

// SamplerName is the uniform that receives the unit index of a texture.
func SamplerName(unit int) string {
	return fmt.Sprintf("sample_%d", unit)
}

type Generator struct {
	gl      opengl.Functions
	log     *slog.Logger
	units   *UnitAllocator
	decoder Decoder
	strict  bool
}

type Option func(*Generator)

// WithStrict makes a failed pixel load a construction failure. By default the
// texture is kept and the failure is reported through Texture.Status.
func WithStrict(strict bool) Option {
	return func(g *Generator) { g.strict = strict }
}

func WithDecoder(d Decoder) Option {
	return func(g *Generator) { g.decoder = d }
}

func NewGenerator(gl opengl.Functions, log *slog.Logger, units *UnitAllocator, opts ...Option) *Generator {
	g := &Generator{
		gl:      gl,
		log:     logger.OrNop(log).With("component", "texture"),
		units:   units,
		decoder: ImageDecoder{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Gen creates a texture on the next free unit, applies params (DefaultParams
// when nil), loads filename and binds the unit to "sample_<unit>" in sh.
func (g *Generator) Gen(filename string, sh SamplerBinder, params Params, kind Kind) (*Texture, error) {
	unit, err := g.units.Acquire()
	if err != nil {
		g.log.Error("cannot generate texture", "file", filename, "err", err)
		return nil, err
	}

	t, err := newTexture(g.gl, kind, unit)
	if err != nil {
		g.units.Release(unit)
		g.log.Error("cannot generate texture", "file", filename, "err", err)
		return nil, err
	}
	t.release = func() { g.units.Release(unit) }

	if params == nil {
		params = DefaultParams()
	}
	for _, k := range params.keys() {
		t.Set(k, params[k])
	}

	if err := t.Load(g.decoder, filename); err != nil {
		if g.strict {
			t.Destroy()
			g.log.Error("cannot load texture", "file", filename, "err", err)
			return nil, err
		}
		g.log.Error("cannot load texture, keeping empty image", "file", filename, "err", err)
	} else {
		g.log.Info("loaded texture", "file", filename, "id", t.ID(), "unit", unit)
	}
	t.Unbind()

	if sh != nil {
		sh.Bind()
		sh.SetInt(SamplerName(unit), int32(unit))
		sh.Unbind()
	}
	return t, nil
}
