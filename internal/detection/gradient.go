package detection

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/edge-tools-mcp/internal/imaging"
)

// GradientField holds the horizontal and vertical first derivatives of an
// intensity image. Both planes have rows = image height and cols = image
// width and keep the signed, unclamped responses.
type GradientField struct {
	X *mat.Dense
	Y *mat.Dense
}

// Magnitude returns the per-pixel Euclidean norm sqrt(gx² + gy²).
func (g *GradientField) Magnitude() *mat.Dense {
	height, width := g.X.Dims()
	gx, gy := g.X.RawMatrix(), g.Y.RawMatrix()
	mag := mat.NewDense(height, width, nil)
	out := mag.RawMatrix()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			a := gx.Data[y*gx.Stride+x]
			b := gy.Data[y*gy.Stride+x]
			out.Data[y*out.Stride+x] = math.Hypot(a, b)
		}
	}
	return mag
}

// ComputeGradient applies the 3x3 Sobel kernels to a single-channel image.
//
// The horizontal kernel is
//
//	-1  0  1
//	-2  0  2
//	-1  0  1
//
// and the vertical kernel is its transpose. Border pixels replicate the
// nearest edge value.
//
// Returns ErrInvalidInput if the image is empty or has more than one channel.
func ComputeGradient(gray *imaging.Buffer) (*GradientField, error) {
	if err := gray.RequireChannels(1); err != nil {
		return nil, err
	}
	return gradientOf(toPlane(gray)), nil
}

func gradientOf(plane *mat.Dense) *GradientField {
	return &GradientField{
		X: convolve(plane, sobelX),
		Y: convolve(plane, sobelY),
	}
}

// GradientMagnitude computes the Sobel gradient magnitude of a single-channel
// image and reduces it to 8 bits: each value is rounded and clamped to
// [0, 255]. Uniform images produce an all-zero result.
func GradientMagnitude(gray *imaging.Buffer) (*imaging.Buffer, error) {
	field, err := ComputeGradient(gray)
	if err != nil {
		return nil, err
	}
	return reduceAbs(field.Magnitude()), nil
}
