package detection

import "github.com/ironsheep/edge-tools-mcp/internal/imaging"

// Laplacian computes the absolute second derivative of a single-channel image
// with the 4-neighbour kernel
//
//	0  1  0
//	1 -4  1
//	0  1  0
//
// using the same border replication as ComputeGradient. The signed response
// is reduced to 8 bits by absolute value, rounding and clamping. No
// thresholding is applied.
func Laplacian(gray *imaging.Buffer) (*imaging.Buffer, error) {
	if err := gray.RequireChannels(1); err != nil {
		return nil, err
	}
	return reduceAbs(convolve(toPlane(gray), laplacian4)), nil
}
