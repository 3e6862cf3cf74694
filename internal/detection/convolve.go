package detection

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"
	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/edge-tools-mcp/internal/imaging"
)

// kernel is a square correlation kernel with odd side length. Weights are
// applied as written (no flipping), so sobelX responds positively to
// intensity increasing to the right.
type kernel [][]float64

var (
	sobelX = kernel{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = kernel{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
	laplacian4 = kernel{
		{0, 1, 0},
		{1, -4, 1},
		{0, 1, 0},
	}
	// gaussian5 approximates a Gaussian with sigma ≈ 1.4. The weights are
	// integers; smooth divides by gaussian5Sum once per pixel.
	gaussian5 = kernel{
		{1, 4, 7, 4, 1},
		{4, 16, 26, 16, 4},
		{7, 26, 41, 26, 7},
		{4, 16, 26, 16, 4},
		{1, 4, 7, 4, 1},
	}
)

const gaussian5Sum = 273

// toPlane converts a single-channel buffer to a float plane
// (rows = height, cols = width).
func toPlane(b *imaging.Buffer) *mat.Dense {
	data := make([]float64, len(b.Pix))
	for i, v := range b.Pix {
		data[i] = float64(v)
	}
	return mat.NewDense(b.Height, b.Width, data)
}

// convolve applies k to src. Out-of-range taps read the nearest valid
// pixel (edge replication).
func convolve(src *mat.Dense, k kernel) *mat.Dense {
	height, width := src.Dims()
	in := src.RawMatrix()
	dst := mat.NewDense(height, width, nil)
	out := dst.RawMatrix()
	half := len(k) / 2

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				var sum float64
				for ky := -half; ky <= half; ky++ {
					row := clamp(y+ky, 0, height-1) * in.Stride
					for kx := -half; kx <= half; kx++ {
						w := k[ky+half][kx+half]
						if w == 0 {
							continue
						}
						sum += in.Data[row+clamp(x+kx, 0, width-1)] * w
					}
				}
				out.Data[y*out.Stride+x] = sum
			}
		}
	})
	return dst
}

// smooth blurs src with gaussian5. Integer taps over 8-bit samples sum
// exactly, so a constant plane stays exactly constant and carries no
// round-off gradient into the detector.
func smooth(src *mat.Dense) *mat.Dense {
	dst := convolve(src, gaussian5)
	dst.Apply(func(_, _ int, v float64) float64 {
		return v / gaussian5Sum
	}, dst)
	return dst
}

// reduceAbs converts a float plane to 8-bit by taking the absolute value,
// rounding, and saturating at 255.
func reduceAbs(plane *mat.Dense) *imaging.Buffer {
	height, width := plane.Dims()
	raw := plane.RawMatrix()
	out := imaging.NewGray(width, height)

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				out.Pix[y*width+x] = saturateAbs(raw.Data[y*raw.Stride+x])
			}
		}
	})
	return out
}

func saturateAbs(v float64) uint8 {
	v = math.Round(math.Abs(v))
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
