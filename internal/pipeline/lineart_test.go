package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/edge-tools-mcp/internal/detection"
	"github.com/ironsheep/edge-tools-mcp/internal/imaging"
)

func TestRenderLineArt_Plain(t *testing.T) {
	img := squareRGB(32, 8)
	art, err := DrawLineArt(img, 100, 200, LineArtOptions{})
	require.NoError(t, err)

	out := art.Image
	require.Equal(t, 3, out.Channels)
	require.True(t, out.SameSize(img))
	assert.Nil(t, art.Regions)
	assert.Nil(t, art.Colors)

	black := 0
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			c := out.RGBAt(x, y)
			require.True(t, c == imaging.Black || c == imaging.White, "pixel (%d,%d) = %+v", x, y, c)
			isEdge := art.Edges.At(x, y, 0) != 0
			assert.Equal(t, isEdge, c == imaging.Black, "pixel (%d,%d)", x, y)
			if isEdge {
				black++
			}
		}
	}
	assert.Positive(t, black, "square outline should be drawn")

	plain, err := RenderLineArt(img, 100, 200, LineArtOptions{})
	require.NoError(t, err)
	assert.Equal(t, out.Pix, plain.Pix)
}

func TestRenderLineArt_UsesSoftenedEdges(t *testing.T) {
	img := squareRGB(24, 6)
	art, err := DrawLineArt(img, 100, 200, LineArtOptions{})
	require.NoError(t, err)

	want, err := detection.DetectEdges(softenGray(img.Gray()), 100, 200)
	require.NoError(t, err)
	assert.Equal(t, want.Pix, art.Edges.Pix)
}

func TestRenderLineArt_UniformIsBlankPaper(t *testing.T) {
	img := imaging.NewRGB(9, 7)
	for i := range img.Pix {
		img.Pix[i] = 90
	}

	for _, styled := range []bool{false, true} {
		out, err := RenderLineArt(img, 100, 200, LineArtOptions{Styled: styled})
		require.NoError(t, err)
		if !styled {
			for _, v := range out.Pix {
				require.Equal(t, uint8(255), v)
			}
			continue
		}
		// One region covering everything, filled with a single color.
		first := out.RGBAt(0, 0)
		for y := 0; y < 7; y++ {
			for x := 0; x < 9; x++ {
				require.Equal(t, first, out.RGBAt(x, y))
			}
		}
	}
}

func TestRenderLineArt_Styled(t *testing.T) {
	img := squareRGB(32, 8)
	art, err := DrawLineArt(img, 100, 200, LineArtOptions{Styled: true, Rand: detection.NewRand(11)})
	require.NoError(t, err)

	require.NotNil(t, art.Regions)
	require.NotNil(t, art.Colors)
	assert.Equal(t, art.Regions.Count, art.Colors.Len())
	assert.GreaterOrEqual(t, art.Regions.Count, 1)

	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			c := art.Image.RGBAt(x, y)
			if art.Edges.At(x, y, 0) != 0 {
				assert.Equal(t, imaging.Black, c, "edge pixel (%d,%d) must be black", x, y)
				continue
			}
			// Region colors never go below 40 per channel, so nothing else is black.
			want, ok := art.Colors.Color(art.Regions.At(x, y))
			require.True(t, ok, "non-edge pixel (%d,%d) has no region", x, y)
			assert.Equal(t, want, c)
		}
	}
}

func TestRenderLineArt_Deterministic(t *testing.T) {
	img := squareRGB(28, 7)

	a, err := RenderLineArt(img, 100, 200, LineArtOptions{Styled: true})
	require.NoError(t, err)
	b, err := RenderLineArt(img, 100, 200, LineArtOptions{Styled: true})
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix, "default seed should give identical output")

	c, err := RenderLineArt(img, 100, 200, LineArtOptions{Styled: true, Rand: detection.NewRand(detection.DefaultSeed)})
	require.NoError(t, err)
	assert.Equal(t, a.Pix, c.Pix)
}

func TestRenderLineArt_DoesNotModifyInput(t *testing.T) {
	img := squareRGB(16, 4)
	before := img.Clone()
	_, err := RenderLineArt(img, 100, 200, LineArtOptions{Styled: true})
	require.NoError(t, err)
	assert.Equal(t, before.Pix, img.Pix)
}

func TestRenderLineArt_InvalidInput(t *testing.T) {
	_, err := RenderLineArt(imaging.NewRGB(0, 0), 100, 200, LineArtOptions{})
	assert.ErrorIs(t, err, imaging.ErrInvalidInput)
}

func TestSoftenGray(t *testing.T) {
	flat := imaging.NewGray(5, 5)
	for i := range flat.Pix {
		flat.Pix[i] = 77
	}
	out := softenGray(flat)
	require.Equal(t, 1, out.Channels)
	assert.Equal(t, flat.Pix, out.Pix, "blur keeps flat areas, borders included")

	dot := imaging.NewGray(5, 5)
	dot.Set(2, 2, 0, 160)
	out = softenGray(dot)
	assert.Equal(t, uint8(40), out.At(2, 2, 0)) // 160 * 4/16
	assert.Equal(t, uint8(20), out.At(1, 2, 0)) // 160 * 2/16
	assert.Equal(t, uint8(10), out.At(1, 1, 0)) // 160 * 1/16
	assert.Equal(t, uint8(0), out.At(0, 0, 0))
}
