package detection

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/edge-tools-mcp/internal/imaging"
)

// Thresholds is the hysteresis threshold pair of the edge detector, in units
// of Sobel gradient magnitude computed on 8-bit intensities.
type Thresholds struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// Normalize clamps both values to [0, 255] and swaps them if Low > High.
// Threshold values are never rejected.
func (t Thresholds) Normalize() Thresholds {
	low := clamp(t.Low, 0, 255)
	high := clamp(t.High, 0, 255)
	if low > high {
		low, high = high, low
	}
	return Thresholds{Low: low, High: high}
}

// EdgeStages exposes the intermediate planes of one detector run.
type EdgeStages struct {
	// Thresholds are the normalized thresholds actually applied.
	Thresholds Thresholds

	// Smoothed is the blurred intensity plane.
	Smoothed *mat.Dense

	// Gradient holds the Sobel derivatives of Smoothed.
	Gradient *GradientField

	// Magnitude is the L2 gradient magnitude.
	Magnitude *mat.Dense

	// Suppressed is Magnitude with non-maxima zeroed.
	Suppressed *mat.Dense

	// Edges is the final binary mask (0 or 255).
	Edges *imaging.Buffer
}

// DetectEdges performs Canny-style edge detection on a single-channel image.
//
// Parameters:
//   - gray: Single-channel intensity image.
//   - low: Weak-edge threshold. Suppressed magnitudes below it are discarded.
//   - high: Strong-edge threshold. Suppressed magnitudes at or above it are
//     always edges.
//
// The thresholds are normalized first (see Thresholds.Normalize), so
// DetectEdges(img, a, b) and DetectEdges(img, b, a) return the same mask.
//
// Returns:
//   - *imaging.Buffer: Single-channel mask where every pixel is 0 or 255.
//   - error: ErrInvalidInput if the image is empty or not single-channel.
//
// # Algorithm
//
//  1. Smooth: 5x5 Gaussian blur (sigma ≈ 1.4), replicated border
//
//  2. Gradient: Sobel derivatives of the smoothed plane,
//     magnitude = sqrt(Gx² + Gy²), direction = atan2(Gy, Gx)
//
//  3. Non-maximum suppression: the direction is quantized to 0°, 45°, 90° or
//     135° and a pixel survives only if its magnitude is strictly greater
//     than the neighbour behind it and at least the neighbour ahead of it.
//     The asymmetric comparison keeps flat ridges one pixel wide. Neighbours
//     outside the image count as zero.
//
//  4. Hysteresis: surviving pixels with magnitude >= high seed the edge set,
//     which then grows through 8-connected pixels with magnitude >= low.
//     Zero-magnitude pixels never become edges, even with zero thresholds.
func DetectEdges(gray *imaging.Buffer, low, high int) (*imaging.Buffer, error) {
	stages, err := DetectEdgesWithStages(gray, low, high)
	if err != nil {
		return nil, err
	}
	return stages.Edges, nil
}

// DetectEdgesWithStages runs DetectEdges and returns every intermediate plane.
func DetectEdgesWithStages(gray *imaging.Buffer, low, high int) (*EdgeStages, error) {
	if err := gray.RequireChannels(1); err != nil {
		return nil, err
	}

	th := Thresholds{Low: low, High: high}.Normalize()

	smoothed := smooth(toPlane(gray))
	field := gradientOf(smoothed)
	magnitude := field.Magnitude()
	suppressed := suppressNonMaxima(magnitude, field)
	edges := hysteresis(suppressed, float64(th.Low), float64(th.High))

	return &EdgeStages{
		Thresholds: th,
		Smoothed:   smoothed,
		Gradient:   field,
		Magnitude:  magnitude,
		Suppressed: suppressed,
		Edges:      edges,
	}, nil
}

// suppressNonMaxima thins the magnitude plane along the gradient direction.
func suppressNonMaxima(magnitude *mat.Dense, field *GradientField) *mat.Dense {
	height, width := magnitude.Dims()
	mag := magnitude.RawMatrix()
	gx, gy := field.X.RawMatrix(), field.Y.RawMatrix()

	suppressed := mat.NewDense(height, width, nil)
	out := suppressed.RawMatrix()

	at := func(x, y int) float64 {
		if x < 0 || x >= width || y < 0 || y >= height {
			return 0
		}
		return mag.Data[y*mag.Stride+x]
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m := mag.Data[y*mag.Stride+x]
			if m == 0 {
				continue
			}

			dx, dy := directionStep(gx.Data[y*gx.Stride+x], gy.Data[y*gy.Stride+x])
			behind := at(x-dx, y-dy)
			ahead := at(x+dx, y+dy)

			if m > behind && m >= ahead {
				out.Data[y*out.Stride+x] = m
			}
		}
	}
	return suppressed
}

// directionStep quantizes a gradient direction to one of four axes and
// returns the unit pixel step along it. Y grows downward.
func directionStep(gx, gy float64) (dx, dy int) {
	angle := math.Atan2(gy, gx) * 180 / math.Pi
	if angle < 0 {
		angle += 180
	}

	switch {
	case angle < 22.5 || angle >= 157.5:
		return 1, 0
	case angle < 67.5:
		return 1, 1
	case angle < 112.5:
		return 0, 1
	default:
		return -1, 1
	}
}

// hysteresis classifies suppressed magnitudes with the double threshold and
// keeps weak pixels that are 8-connected, directly or through other weak
// pixels, to a strong pixel.
//
// Uses an explicit stack rather than recursion so that long edges cannot
// overflow the goroutine stack.
func hysteresis(suppressed *mat.Dense, low, high float64) *imaging.Buffer {
	height, width := suppressed.Dims()
	raw := suppressed.RawMatrix()
	edges := imaging.NewGray(width, height)

	value := func(x, y int) float64 {
		return raw.Data[y*raw.Stride+x]
	}

	stack := make([]int, 0, 64)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if v := value(x, y); v > 0 && v >= high {
				edges.Pix[y*width+x] = 255
				stack = append(stack, y*width+x)
			}
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		px, py := i%width, i/width

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := px+dx, py+dy
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				j := ny*width + nx
				if edges.Pix[j] != 0 {
					continue
				}
				if v := value(nx, ny); v > 0 && v >= low {
					edges.Pix[j] = 255
					stack = append(stack, j)
				}
			}
		}
	}

	return edges
}
