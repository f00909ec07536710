package texture

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Pixels is tightly packed 8-bit image data, Channels bytes per pixel.
type Pixels struct {
	Data     []byte
	Width    int
	Height   int
	Channels int
}

type Decoder interface {
	Decode(path string) (Pixels, error)
}

// ImageDecoder decodes the formats registered with the image package (PNG,
// JPEG, BMP, TIFF and WebP here). Rows are flipped so the first row is the
// bottom of the picture, matching GL texture coordinates.
type ImageDecoder struct {
	KeepOrientation bool
}

func (d ImageDecoder) Decode(path string) (Pixels, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pixels{}, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Pixels{}, fmt.Errorf("decode %s: %w", path, err)
	}
	channels := channelsOf(img)
	if format == "png" {
		if n, ok := pngChannels(data); ok {
			channels = n
		}
	}
	return pack(img, channels, !d.KeepOrientation), nil
}

// pack copies img into tightly packed rows of the given channel count.
func pack(img image.Image, channels int, flip bool) Pixels {
	b := img.Bounds()
	px := Pixels{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Channels: channels,
	}
	px.Data = make([]byte, 0, px.Width*px.Height*px.Channels)

	for row := 0; row < px.Height; row++ {
		y := b.Min.Y + row
		if flip {
			y = b.Max.Y - 1 - row
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.At(x, y)
			switch px.Channels {
			case 1:
				px.Data = append(px.Data, color.GrayModel.Convert(c).(color.Gray).Y)
			case 2:
				n := color.NRGBAModel.Convert(c).(color.NRGBA)
				g := color.GrayModel.Convert(color.NRGBA{R: n.R, G: n.G, B: n.B, A: 0xff}).(color.Gray)
				px.Data = append(px.Data, g.Y, n.A)
			default:
				n := color.NRGBAModel.Convert(c).(color.NRGBA)
				px.Data = append(px.Data, n.R, n.G, n.B)
				if px.Channels == 4 {
					px.Data = append(px.Data, n.A)
				}
			}
		}
	}
	return px
}

// channelsOf guesses the channel count from the decoded image. Formats
// whose header says more are handled by the decoder.
func channelsOf(img image.Image) int {
	switch m := img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	case *image.YCbCr, *image.CMYK:
		return 3
	case *image.Paletted:
		for _, c := range m.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return 4
			}
		}
		return 3
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return 3
	}
	return 4
}

// PNG colour types from the IHDR chunk.
const (
	pngGray      = 0
	pngRGB       = 2
	pngPalette   = 3
	pngGrayAlpha = 4
	pngRGBA      = 6
)

// pngChannels reads the channel count stored in a PNG stream. A tRNS chunk
// adds an alpha channel to gray, RGB and palette images.
func pngChannels(data []byte) (int, bool) {
	const sigLen = 8
	// signature, then IHDR: length, type, width, height, depth, colour type
	if len(data) < sigLen+8+13 || string(data[sigLen+4:sigLen+8]) != "IHDR" {
		return 0, false
	}
	colorType := data[sigLen+8+9]

	var channels int
	switch colorType {
	case pngGray:
		channels = 1
	case pngGrayAlpha:
		return 2, true
	case pngRGB, pngPalette:
		channels = 3
	case pngRGBA:
		return 4, true
	default:
		return 0, false
	}

	for off := sigLen; off+8 <= len(data); {
		n := int(binary.BigEndian.Uint32(data[off:]))
		switch string(data[off+4 : off+8]) {
		case "tRNS":
			return channels + 1, true
		case "IDAT", "IEND":
			return channels, true
		}
		// length, type, body, crc
		off += 12 + n
	}
	return channels, true
}
