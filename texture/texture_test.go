package texture

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"openglrem/internal/opengl"
	"openglrem/internal/opengl/gltest"
)

type fakeDecoder struct {
	px  Pixels
	err error
}

func (d fakeDecoder) Decode(string) (Pixels, error) {
	return d.px, d.err
}

func pixels(w, h, channels int) Pixels {
	return Pixels{Data: make([]byte, w*h*channels), Width: w, Height: h, Channels: channels}
}

type binderStub struct {
	bound, unbound int
	ints           map[string]int32
}

func (b *binderStub) Bind()   { b.bound++ }
func (b *binderStub) Unbind() { b.unbound++ }
func (b *binderStub) SetInt(name string, v int32) {
	if b.ints == nil {
		b.ints = make(map[string]int32)
	}
	b.ints[name] = v
}

func TestChannelFormats(t *testing.T) {
	tests := []struct {
		channels int
		format   opengl.Enum
		err      error
	}{
		{3, opengl.RGB, nil},
		{4, opengl.RGBA, nil},
		{1, 0, ErrIncorrectType},
		{2, 0, ErrIncorrectType},
	}
	for _, tt := range tests {
		gl := gltest.New()
		tex, err := newTexture(gl, Kind2D, 0)
		if err != nil {
			t.Fatal(err)
		}
		err = tex.Load(fakeDecoder{px: pixels(2, 2, tt.channels)}, "img.png")
		if !errors.Is(err, tt.err) {
			t.Errorf("%d channels: err = %v, want %v", tt.channels, err, tt.err)
		}
		if tt.err != nil {
			if len(gl.TexImages) != 0 || gl.Count("GenerateMipmap") != 0 {
				t.Errorf("%d channels: uploaded despite error", tt.channels)
			}
			continue
		}
		if len(gl.TexImages) != 1 {
			t.Fatalf("%d channels: %d uploads, want 1", tt.channels, len(gl.TexImages))
		}
		up := gl.TexImages[0]
		if up.InternalFormat != tt.format || up.Format != tt.format {
			t.Errorf("%d channels: format = %#x/%#x, want %#x", tt.channels, up.InternalFormat, up.Format, tt.format)
		}
		if up.Width != 2 || up.Height != 2 || up.Size != 4*tt.channels {
			t.Errorf("%d channels: upload = %+v", tt.channels, up)
		}
		if gl.Count("GenerateMipmap") != 1 {
			t.Errorf("%d channels: mipmaps not generated", tt.channels)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	gl := gltest.New()
	tex, _ := newTexture(gl, Kind2D, 0)

	if err := tex.Load(fakeDecoder{}, ""); !errors.Is(err, ErrEmptyFilename) {
		t.Errorf("empty filename: err = %v", err)
	}
	if err := tex.Load(fakeDecoder{err: os.ErrNotExist}, "missing.png"); !errors.Is(err, ErrCannotLoadSource) {
		t.Errorf("missing file: err = %v", err)
	}
	if !errors.Is(tex.Status(), ErrCannotLoadSource) {
		t.Errorf("Status() = %v", tex.Status())
	}
	short := Pixels{Data: make([]byte, 3), Width: 2, Height: 2, Channels: 3}
	if err := tex.Load(fakeDecoder{px: short}, "short.png"); !errors.Is(err, ErrCannotLoadSource) {
		t.Errorf("short data: err = %v", err)
	}
}

func TestNewTextureRejectsUnit(t *testing.T) {
	gl := gltest.New()
	for _, unit := range []int{-1, MaxUnits} {
		if _, err := newTexture(gl, Kind2D, unit); !errors.Is(err, ErrIncorrectUnit) {
			t.Errorf("unit %d: err = %v", unit, err)
		}
	}
	if _, err := newTexture(gl, Kind(7), 0); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("unknown kind: err = %v", err)
	}
	if gl.Count("CreateTexture") != 0 {
		t.Error("texture created for invalid arguments")
	}
}

func TestBindUsesOwnUnit(t *testing.T) {
	gl := gltest.New()
	tex, _ := newTexture(gl, Kind2D, 5)
	gl.Reset()

	tex.Bind()
	if gl.ActiveUnit != opengl.TEXTURE0+5 || gl.Bound[opengl.TEXTURE_2D] != tex.ID() {
		t.Errorf("after Bind: unit %#x, bound %d", gl.ActiveUnit, gl.Bound[opengl.TEXTURE_2D])
	}
	tex.Unbind()
	if gl.ActiveUnit != opengl.TEXTURE0+5 || gl.Bound[opengl.TEXTURE_2D] != 0 {
		t.Errorf("after Unbind: unit %#x, bound %d", gl.ActiveUnit, gl.Bound[opengl.TEXTURE_2D])
	}

	tex.Set(opengl.TEXTURE_WRAP_S, int32(opengl.CLAMP_TO_EDGE))
	calls := gl.Named("TexParameteri")
	if len(calls) != 1 || calls[0].Args[0] != opengl.TEXTURE_2D {
		t.Errorf("TexParameteri calls = %v", calls)
	}

	tex.Destroy()
	if gl.Live("texture") != 0 || tex.ID() != 0 {
		t.Error("Destroy left the texture")
	}
}

func TestUnitAllocator(t *testing.T) {
	a := NewUnitAllocator(4)
	prev := -1
	for i := 0; i < 4; i++ {
		u, err := a.Acquire()
		if err != nil {
			t.Fatalf("Acquire() %d: %v", i, err)
		}
		if u <= prev {
			t.Errorf("unit %d not after %d", u, prev)
		}
		prev = u
	}
	if _, err := a.Acquire(); !errors.Is(err, ErrUnitsExhausted) {
		t.Fatalf("Acquire() past limit: err = %v", err)
	}
	if _, err := a.Acquire(); !errors.Is(err, ErrUnitsExhausted) {
		t.Fatalf("second Acquire() past limit: err = %v", err)
	}
	if a.InUse() != 4 {
		t.Errorf("InUse() = %d, want 4", a.InUse())
	}

	if err := a.Release(2); err != nil {
		t.Fatal(err)
	}
	if err := a.Release(2); !errors.Is(err, ErrIncorrectUnit) {
		t.Errorf("double Release: err = %v", err)
	}
	u, err := a.Acquire()
	if err != nil || u != 2 {
		t.Errorf("Acquire() after release = %d, %v; want 2", u, err)
	}
}

func TestUnitAllocatorLimit(t *testing.T) {
	if c := NewUnitAllocator(0).Cap(); c != MaxUnits {
		t.Errorf("Cap() = %d, want %d", c, MaxUnits)
	}
	if c := NewUnitAllocator(100).Cap(); c != MaxUnits {
		t.Errorf("Cap() = %d, want %d", c, MaxUnits)
	}

	gl := gltest.New()
	gl.Integers[opengl.MAX_COMBINED_TEXTURE_IMAGE_UNITS] = 16
	if n := QueryMaxUnits(gl); n != 16 {
		t.Errorf("QueryMaxUnits() = %d, want 16", n)
	}
	gl.Integers[opengl.MAX_COMBINED_TEXTURE_IMAGE_UNITS] = 192
	if n := QueryMaxUnits(gl); n != MaxUnits {
		t.Errorf("QueryMaxUnits() = %d, want %d", n, MaxUnits)
	}
}

func TestGeneratorAssignsUnitsAndSamplers(t *testing.T) {
	gl := gltest.New()
	units := NewUnitAllocator(2)
	g := NewGenerator(gl, nil, units, WithDecoder(fakeDecoder{px: pixels(1, 1, 4)}))
	sh := &binderStub{}

	first, err := g.Gen("a.png", sh, nil, Kind2D)
	if err != nil {
		t.Fatal(err)
	}
	second, err := g.Gen("b.png", sh, nil, Kind2D)
	if err != nil {
		t.Fatal(err)
	}
	if first.Unit() != 0 || second.Unit() != 1 {
		t.Errorf("units = %d, %d; want 0, 1", first.Unit(), second.Unit())
	}
	if sh.ints["sample_0"] != 0 || sh.ints["sample_1"] != 1 {
		t.Errorf("samplers = %v", sh.ints)
	}
	if sh.bound != 2 || sh.unbound != 2 {
		t.Errorf("shader bound %d, unbound %d; want 2, 2", sh.bound, sh.unbound)
	}

	created := gl.Count("CreateTexture")
	third, err := g.Gen("c.png", sh, nil, Kind2D)
	if third != nil || !errors.Is(err, ErrUnitsExhausted) {
		t.Errorf("Gen() past limit = %v, %v", third, err)
	}
	if gl.Count("CreateTexture") != created {
		t.Error("texture created after exhaustion")
	}

	second.Destroy()
	again, err := g.Gen("d.png", sh, nil, Kind2D)
	if err != nil || again.Unit() != 1 {
		t.Errorf("Gen() after Destroy = %v, %v", again, err)
	}
}

func TestGeneratorDefaultParams(t *testing.T) {
	gl := gltest.New()
	g := NewGenerator(gl, nil, NewUnitAllocator(0), WithDecoder(fakeDecoder{px: pixels(1, 1, 3)}))
	if _, err := g.Gen("a.png", nil, nil, Kind2D); err != nil {
		t.Fatal(err)
	}
	got := map[opengl.Enum]int32{}
	for _, c := range gl.Named("TexParameteri") {
		got[c.Args[1].(opengl.Enum)] = c.Args[2].(int32)
	}
	for k, v := range DefaultParams() {
		if got[k] != v {
			t.Errorf("param %#x = %d, want %d", k, got[k], v)
		}
	}
}

func TestGeneratorLenientAndStrict(t *testing.T) {
	bad := fakeDecoder{err: os.ErrNotExist}

	gl := gltest.New()
	units := NewUnitAllocator(0)
	sh := &binderStub{}
	tex, err := NewGenerator(gl, nil, units, WithDecoder(bad)).Gen("missing.png", sh, nil, Kind2D)
	if err != nil || tex == nil {
		t.Fatalf("lenient Gen() = %v, %v", tex, err)
	}
	if !errors.Is(tex.Status(), ErrCannotLoadSource) {
		t.Errorf("Status() = %v", tex.Status())
	}
	if _, ok := sh.ints["sample_0"]; !ok {
		t.Error("lenient texture not published to the shader")
	}

	gl = gltest.New()
	units = NewUnitAllocator(0)
	sh = &binderStub{}
	tex, err = NewGenerator(gl, nil, units, WithDecoder(bad), WithStrict(true)).Gen("missing.png", sh, nil, Kind2D)
	if tex != nil || !errors.Is(err, ErrCannotLoadSource) {
		t.Fatalf("strict Gen() = %v, %v", tex, err)
	}
	if units.InUse() != 0 || gl.Live("texture") != 0 {
		t.Error("strict failure leaked a unit or texture")
	}
	if len(sh.ints) != 0 {
		t.Error("strict failure published a sampler")
	}
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "img.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeRawPNG encodes 8-bit rows of the given PNG colour type directly, for
// layouts png.Encode never writes.
func writeRawPNG(t *testing.T, colorType byte, w, h int, pix []byte) string {
	t.Helper()
	var buf bytes.Buffer
	chunk := func(typ string, body []byte) {
		var n [4]byte
		binary.BigEndian.PutUint32(n[:], uint32(len(body)))
		buf.Write(n[:])
		crc := crc32.NewIEEE()
		crc.Write([]byte(typ))
		crc.Write(body)
		buf.WriteString(typ)
		buf.Write(body)
		binary.BigEndian.PutUint32(n[:], crc.Sum32())
		buf.Write(n[:])
	}

	buf.WriteString("\x89PNG\r\n\x1a\n")
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], uint32(w))
	binary.BigEndian.PutUint32(ihdr[4:], uint32(h))
	ihdr[8] = 8
	ihdr[9] = colorType
	chunk("IHDR", ihdr)

	var raw bytes.Buffer
	zw := zlib.NewWriter(&raw)
	stride := len(pix) / h
	for y := 0; y < h; y++ {
		zw.Write([]byte{0})
		zw.Write(pix[y*stride : (y+1)*stride])
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	chunk("IDAT", raw.Bytes())
	chunk("IEND", nil)

	path := filepath.Join(t.TempDir(), "raw.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImageDecoderUsesStoredChannels(t *testing.T) {
	tests := []struct {
		name      string
		colorType byte
		pix       []byte
		channels  int
	}{
		{"gray", 0, []byte{10, 20, 30, 40}, 1},
		{"gray+alpha", 4, []byte{10, 255, 20, 255, 30, 128, 40, 0}, 2},
		{"rgb", 2, bytes.Repeat([]byte{1, 2, 3}, 4), 3},
		// every pixel opaque, still stored with alpha
		{"opaque rgba", 6, bytes.Repeat([]byte{1, 2, 3, 255}, 4), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			px, err := ImageDecoder{KeepOrientation: true}.Decode(writeRawPNG(t, tt.colorType, 2, 2, tt.pix))
			if err != nil {
				t.Fatal(err)
			}
			if px.Channels != tt.channels || len(px.Data) != 4*tt.channels {
				t.Errorf("Decode() channels = %d, %d bytes; want %d", px.Channels, len(px.Data), tt.channels)
			}
		})
	}

	px, err := ImageDecoder{KeepOrientation: true}.Decode(writeRawPNG(t, 4, 2, 2, []byte{10, 255, 20, 255, 30, 128, 40, 0}))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(px.Data, []byte{10, 255, 20, 255, 30, 128, 40, 0}) {
		t.Errorf("gray+alpha data = %v", px.Data)
	}
}

func TestStoredChannelsDriveUpload(t *testing.T) {
	gl := gltest.New()
	g := NewGenerator(gl, nil, NewUnitAllocator(0))
	tex, err := g.Gen(writeRawPNG(t, 4, 2, 2, make([]byte, 8)), nil, nil, Kind2D)
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(tex.Status(), ErrIncorrectType) || len(gl.TexImages) != 0 {
		t.Errorf("gray+alpha: Status() = %v, %d uploads", tex.Status(), len(gl.TexImages))
	}

	gl = gltest.New()
	g = NewGenerator(gl, nil, NewUnitAllocator(0))
	if _, err := g.Gen(writeRawPNG(t, 6, 1, 1, []byte{9, 8, 7, 255}), nil, nil, Kind2D); err != nil {
		t.Fatal(err)
	}
	if len(gl.TexImages) != 1 || gl.TexImages[0].Format != opengl.RGBA {
		t.Errorf("opaque rgba uploads = %+v, want one RGBA", gl.TexImages)
	}
}

func TestImageDecoderChannelsAndFlip(t *testing.T) {
	opaque := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	opaque.Set(0, 0, color.NRGBA{R: 255, A: 255})
	opaque.Set(0, 1, color.NRGBA{B: 255, A: 255})

	px, err := ImageDecoder{}.Decode(writePNG(t, opaque))
	if err != nil {
		t.Fatal(err)
	}
	if px.Channels != 3 || px.Width != 1 || px.Height != 2 || len(px.Data) != 6 {
		t.Fatalf("Decode() = %+v", px)
	}
	// the bottom row comes first
	if px.Data[0] != 0 || px.Data[2] != 255 || px.Data[3] != 255 {
		t.Errorf("rows not flipped: %v", px.Data)
	}

	translucent := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	translucent.Set(0, 0, color.NRGBA{G: 255, A: 128})
	px, err = ImageDecoder{KeepOrientation: true}.Decode(writePNG(t, translucent))
	if err != nil {
		t.Fatal(err)
	}
	if px.Channels != 4 || len(px.Data) != 8 || px.Data[3] != 128 {
		t.Errorf("Decode() = %+v", px)
	}

	gray := image.NewGray(image.Rect(0, 0, 3, 3))
	px, err = ImageDecoder{}.Decode(writePNG(t, gray))
	if err != nil {
		t.Fatal(err)
	}
	if px.Channels != 1 {
		t.Errorf("gray Channels = %d, want 1", px.Channels)
	}

	if _, err := (ImageDecoder{}).Decode(filepath.Join(t.TempDir(), "none.png")); err == nil {
		t.Error("Decode() of missing file returned no error")
	}
}

func TestGrayImageIsRejected(t *testing.T) {
	gl := gltest.New()
	g := NewGenerator(gl, nil, NewUnitAllocator(0))
	tex, err := g.Gen(writePNG(t, image.NewGray(image.Rect(0, 0, 2, 2))), nil, nil, Kind2D)
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(tex.Status(), ErrIncorrectType) {
		t.Errorf("Status() = %v, want %v", tex.Status(), ErrIncorrectType)
	}
	if len(gl.TexImages) != 0 {
		t.Error("gray image uploaded")
	}
}
