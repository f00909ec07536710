// Package texture owns GPU texture objects, their texture unit slots and the
// pixel upload path.
package texture

import (
	"errors"
	"fmt"

	"openglrem/internal/opengl"
)

var (
	ErrEmptyFilename    = errors.New("texture: empty filename")
	ErrCannotLoadSource = errors.New("texture: cannot load source")
	ErrIncorrectType    = errors.New("texture: unsupported channel count")
	ErrIncorrectUnit    = errors.New("texture: incorrect texture unit")
	ErrUnknownKind      = errors.New("texture: unknown kind")
)

// Kind is the closed set of texture variants.
type Kind int

const (
	Kind2D Kind = iota
)

func (k Kind) String() string {
	switch k {
	case Kind2D:
		return "2D"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Target is the GL binding target of the kind.
func (k Kind) Target() (opengl.Enum, error) {
	switch k {
	case Kind2D:
		return opengl.TEXTURE_2D, nil
	}
	return 0, fmt.Errorf("%w: %v", ErrUnknownKind, k)
}

// Texture is one texture object permanently assigned to one texture unit.
type Texture struct {
	gl     opengl.Functions
	id     uint32
	kind   Kind
	target opengl.Enum
	unit   int
	status error

	release func()
}

func newTexture(gl opengl.Functions, kind Kind, unit int) (*Texture, error) {
	target, err := kind.Target()
	if err != nil {
		return nil, err
	}
	if unit < 0 || unit >= MaxUnits {
		return nil, fmt.Errorf("%w: %d", ErrIncorrectUnit, unit)
	}
	t := &Texture{
		gl:     gl,
		id:     gl.CreateTexture(),
		kind:   kind,
		target: target,
		unit:   unit,
	}
	t.Bind()
	return t, nil
}

func (t *Texture) ID() uint32 { return t.id }
func (t *Texture) Unit() int  { return t.unit }
func (t *Texture) Kind() Kind { return t.kind }

// Status is the result of the last pixel load, nil when the upload succeeded.
func (t *Texture) Status() error { return t.status }

// Bind activates the texture's unit and binds the texture to it.
func (t *Texture) Bind() {
	t.gl.ActiveTexture(opengl.TEXTURE0 + opengl.Enum(t.unit))
	t.gl.BindTexture(t.target, t.id)
}

// Unbind clears the binding on the texture's own unit.
func (t *Texture) Unbind() {
	t.gl.ActiveTexture(opengl.TEXTURE0 + opengl.Enum(t.unit))
	t.gl.BindTexture(t.target, 0)
}

// Set applies one sampling parameter. The texture is bound first.
func (t *Texture) Set(pname opengl.Enum, value int32) {
	t.Bind()
	t.gl.TexParameteri(t.target, pname, value)
}

// Load decodes filename with dec and uploads it, replacing the image.
func (t *Texture) Load(dec Decoder, filename string) error {
	t.status = t.load(dec, filename)
	return t.status
}

func (t *Texture) load(dec Decoder, filename string) error {
	if filename == "" {
		return ErrEmptyFilename
	}
	px, err := dec.Decode(filename)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrCannotLoadSource, filename, err)
	}
	switch t.kind {
	case Kind2D:
		return t.upload2D(px)
	}
	return fmt.Errorf("%w: %v", ErrUnknownKind, t.kind)
}

func (t *Texture) upload2D(px Pixels) error {
	format, err := channelFormat(px.Channels)
	if err != nil {
		return err
	}
	if want := px.Width * px.Height * px.Channels; len(px.Data) < want {
		return fmt.Errorf("%w: %d bytes for %dx%dx%d image", ErrCannotLoadSource, len(px.Data), px.Width, px.Height, px.Channels)
	}

	t.Bind()
	alignment := int32(4)
	if format == opengl.RGB {
		alignment = 1
	}
	t.gl.PixelStorei(opengl.UNPACK_ALIGNMENT, alignment)
	t.gl.TexImage2D(t.target, 0, format, int32(px.Width), int32(px.Height), format, opengl.UNSIGNED_BYTE, px.Data)
	t.gl.GenerateMipmap(t.target)
	return nil
}

func channelFormat(channels int) (opengl.Enum, error) {
	switch channels {
	case 3:
		return opengl.RGB, nil
	case 4:
		return opengl.RGBA, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrIncorrectType, channels)
}

// Destroy deletes the texture object and returns its unit to the allocator.
func (t *Texture) Destroy() {
	if t.id != 0 {
		t.gl.DeleteTexture(t.id)
		t.id = 0
	}
	if t.release != nil {
		t.release()
		t.release = nil
	}
}
