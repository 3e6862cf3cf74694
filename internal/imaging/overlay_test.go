package imaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidRGB(width, height int, c RGBColor) *Buffer {
	b := NewRGB(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b.SetRGB(x, y, c)
		}
	}
	return b
}

func TestPaintMask(t *testing.T) {
	src := solidRGB(3, 2, RGBColor{R: 10, G: 20, B: 30})
	mask := NewGray(3, 2)
	mask.Set(1, 0, 0, 255)
	mask.Set(2, 1, 0, 1) // any nonzero value paints

	out, err := PaintMask(src, mask, Red)
	require.NoError(t, err)

	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			want := RGBColor{R: 10, G: 20, B: 30}
			if mask.At(x, y, 0) != 0 {
				want = Red
			}
			assert.Equal(t, want, out.RGBAt(x, y), "pixel (%d,%d)", x, y)
		}
	}

	// Inputs untouched.
	assert.Equal(t, RGBColor{R: 10, G: 20, B: 30}, src.RGBAt(1, 0))
}

func TestPaintMask_EmptyMaskIsIdentity(t *testing.T) {
	src := solidRGB(4, 4, RGBColor{R: 1, G: 2, B: 3})
	out, err := PaintMask(src, NewGray(4, 4), Black)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestBlendOverlay(t *testing.T) {
	src := NewRGB(4, 1)
	src.SetRGB(0, 0, RGBColor{R: 100, G: 50, B: 25})
	src.SetRGB(1, 0, RGBColor{R: 100, G: 50, B: 25})
	src.SetRGB(2, 0, RGBColor{R: 250, G: 0, B: 0})
	src.SetRGB(3, 0, RGBColor{R: 3, G: 3, B: 3})

	mask := NewGray(4, 1)
	mask.Pix = []uint8{0, 100, 255, 1}

	out, err := BlendOverlay(src, mask, DefaultPrimaryWeight, DefaultTintWeight)
	require.NoError(t, err)

	tests := []struct {
		x    int
		want RGBColor
	}{
		{0, RGBColor{R: 100, G: 50, B: 25}}, // zero mask leaves pixel unchanged
		{1, RGBColor{R: 180, G: 50, B: 25}}, // 100 + 0.8*100
		{2, RGBColor{R: 255, G: 0, B: 0}},   // 250 + 204 saturates
		{3, RGBColor{R: 4, G: 3, B: 3}},     // 3 + 0.8 rounds to 4
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, out.RGBAt(tt.x, 0), "pixel %d", tt.x)
	}
}

func TestBlendOverlay_Weights(t *testing.T) {
	src := solidRGB(1, 1, RGBColor{R: 200, G: 200, B: 200})
	mask := NewGray(1, 1)
	mask.Pix[0] = 200

	out, err := BlendOverlay(src, mask, 0.5, 0.25)
	require.NoError(t, err)
	assert.Equal(t, RGBColor{R: 150, G: 100, B: 100}, out.RGBAt(0, 0))

	out, err = BlendOverlay(src, mask, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, Black, out.RGBAt(0, 0))
}

func TestOverlay_InvalidOperands(t *testing.T) {
	tests := []struct {
		name  string
		color *Buffer
		mask  *Buffer
	}{
		{"size mismatch", NewRGB(4, 4), NewGray(4, 3)},
		{"gray color", NewGray(4, 4), NewGray(4, 4)},
		{"rgb mask", NewRGB(4, 4), NewRGB(4, 4)},
		{"empty color", NewRGB(0, 0), NewGray(0, 0)},
		{"nil mask", NewRGB(2, 2), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BlendOverlay(tt.color, tt.mask, 1, 0.8)
			assert.ErrorIs(t, err, ErrInvalidInput)

			_, err = PaintMask(tt.color, tt.mask, Red)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestSaturate(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{-3, 0},
		{0.4, 0},
		{0.5, 1},
		{254.6, 255},
		{1e6, 255},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, saturate(tt.in), "saturate(%v)", tt.in)
	}
}
