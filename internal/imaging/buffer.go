package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ErrInvalidInput reports a malformed buffer: empty, wrong channel count, or
// a shape that does not match the other operands of a call. It is always
// recoverable by supplying a corrected buffer.
var ErrInvalidInput = errors.New("invalid input")

// Buffer is an 8-bit raster with an explicit channel count.
//
// Samples are stored row-major and interleaved: the sample for channel c of
// pixel (x, y) lives at Pix[(y*Width+x)*Channels+c]. Color buffers use RGB
// order. Pipeline stages treat their input buffers as read-only and always
// return a freshly allocated Buffer.
type Buffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewBuffer allocates a zeroed buffer of the given shape.
func NewBuffer(width, height, channels int) *Buffer {
	return &Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
}

// NewGray allocates a zeroed single-channel buffer.
func NewGray(width, height int) *Buffer {
	return NewBuffer(width, height, 1)
}

// NewRGB allocates a zeroed three-channel buffer.
func NewRGB(width, height int) *Buffer {
	return NewBuffer(width, height, 3)
}

// Validate checks that the buffer is non-empty, that its channel count is 1
// or 3, and that Pix holds exactly Width*Height*Channels samples.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidInput)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: empty buffer (%dx%d)", ErrInvalidInput, b.Width, b.Height)
	}
	if b.Channels != 1 && b.Channels != 3 {
		return fmt.Errorf("%w: unsupported channel count %d", ErrInvalidInput, b.Channels)
	}
	if len(b.Pix) != b.Width*b.Height*b.Channels {
		return fmt.Errorf("%w: pixel data length %d does not match %dx%dx%d",
			ErrInvalidInput, len(b.Pix), b.Width, b.Height, b.Channels)
	}
	return nil
}

// RequireChannels validates the buffer and checks its channel count.
func (b *Buffer) RequireChannels(channels int) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if b.Channels != channels {
		return fmt.Errorf("%w: expected %d channel(s), got %d", ErrInvalidInput, channels, b.Channels)
	}
	return nil
}

// SameSize reports whether both buffers have identical width and height.
func (b *Buffer) SameSize(other *Buffer) bool {
	return b.Width == other.Width && b.Height == other.Height
}

// Offset returns the index of channel 0 of pixel (x, y) in Pix.
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * b.Channels
}

// At returns the sample of channel c at (x, y).
func (b *Buffer) At(x, y, c int) uint8 {
	return b.Pix[b.Offset(x, y)+c]
}

// Set writes the sample of channel c at (x, y).
func (b *Buffer) Set(x, y, c int, v uint8) {
	b.Pix[b.Offset(x, y)+c] = v
}

// RGBAt returns the color at (x, y). Single-channel buffers report the
// intensity in all three components.
func (b *Buffer) RGBAt(x, y int) RGBColor {
	i := b.Offset(x, y)
	if b.Channels == 1 {
		v := b.Pix[i]
		return RGBColor{R: v, G: v, B: v}
	}
	return RGBColor{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2]}
}

// SetRGB writes a color at (x, y) of a three-channel buffer.
func (b *Buffer) SetRGB(x, y int, c RGBColor) {
	i := b.Offset(x, y)
	b.Pix[i] = c.R
	b.Pix[i+1] = c.G
	b.Pix[i+2] = c.B
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	out := NewBuffer(b.Width, b.Height, b.Channels)
	copy(out.Pix, b.Pix)
	return out
}

// Gray converts the buffer to a single-channel intensity buffer.
//
// Color buffers are reduced with the ITU-R BT.601 luma weights
// (0.299*R + 0.587*G + 0.114*B) using rounded integer math, which matches the
// RGB-to-gray conversion of common vision libraries. Single-channel buffers
// are copied.
func (b *Buffer) Gray() *Buffer {
	if b.Channels == 1 {
		return b.Clone()
	}
	out := NewGray(b.Width, b.Height)
	for i, j := 0, 0; j < len(out.Pix); i, j = i+b.Channels, j+1 {
		lum := (299*int(b.Pix[i]) + 587*int(b.Pix[i+1]) + 114*int(b.Pix[i+2]) + 500) / 1000
		if lum > 255 {
			lum = 255
		}
		out.Pix[j] = uint8(lum)
	}
	return out
}

// RGB expands the buffer to three channels. Color buffers are copied.
func (b *Buffer) RGB() *Buffer {
	if b.Channels == 3 {
		return b.Clone()
	}
	out := NewRGB(b.Width, b.Height)
	for i, v := range b.Pix {
		out.Pix[3*i] = v
		out.Pix[3*i+1] = v
		out.Pix[3*i+2] = v
	}
	return out
}

// Invert returns the photographic negative (255 - v for every sample).
func (b *Buffer) Invert() *Buffer {
	return fromNRGBA(imaging.Invert(b.Image()), b.Channels)
}

// Image converts the buffer to a standard library image: *image.Gray for a
// single channel and an opaque *image.RGBA for color.
func (b *Buffer) Image() image.Image {
	rect := image.Rect(0, 0, b.Width, b.Height)
	if b.Channels == 1 {
		img := image.NewGray(rect)
		for y := 0; y < b.Height; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+b.Width], b.Pix[y*b.Width:(y+1)*b.Width])
		}
		return img
	}

	img := image.NewRGBA(rect)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			c := b.RGBAt(x, y)
			img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
	return img
}

// FromImage converts any image to a three-channel RGB buffer. The result
// always starts at (0, 0) regardless of the source bounds. Alpha is dropped
// without premultiplying, so a transparent pixel keeps its stored color.
func FromImage(img image.Image) *Buffer {
	return fromNRGBA(imaging.Clone(img), 3)
}

// GrayFromImage converts any image to a single-channel intensity buffer.
func GrayFromImage(img image.Image) *Buffer {
	if g, ok := img.(*image.Gray); ok {
		bounds := g.Bounds()
		out := NewGray(bounds.Dx(), bounds.Dy())
		for y := 0; y < out.Height; y++ {
			start := (y+bounds.Min.Y-g.Rect.Min.Y)*g.Stride + (bounds.Min.X - g.Rect.Min.X)
			copy(out.Pix[y*out.Width:(y+1)*out.Width], g.Pix[start:start+out.Width])
		}
		return out
	}
	return FromImage(img).Gray()
}

// fromNRGBA copies an NRGBA image into a buffer with the given channel count,
// taking the red component for single-channel output.
func fromNRGBA(img *image.NRGBA, channels int) *Buffer {
	bounds := img.Bounds()
	out := NewBuffer(bounds.Dx(), bounds.Dy(), channels)
	for y := 0; y < out.Height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < out.Width; x++ {
			i := out.Offset(x, y)
			if channels == 1 {
				out.Pix[i] = row[4*x]
				continue
			}
			copy(out.Pix[i:i+3], row[4*x:4*x+3])
		}
	}
	return out
}
