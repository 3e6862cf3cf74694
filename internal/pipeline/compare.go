package pipeline

import (
	"fmt"

	"github.com/ironsheep/edge-tools-mcp/internal/detection"
	"github.com/ironsheep/edge-tools-mcp/internal/imaging"
)

// Operator names one of the three edge operators.
type Operator int

const (
	OperatorGradient Operator = iota
	OperatorLaplacian
	OperatorEdges
)

func (o Operator) String() string {
	switch o {
	case OperatorGradient:
		return "gradient"
	case OperatorLaplacian:
		return "laplacian"
	case OperatorEdges:
		return "edges"
	}
	return fmt.Sprintf("operator(%d)", int(o))
}

// ViewOptions controls how an operator result is presented.
type ViewOptions struct {
	// Overlay composites the result onto the source image. When false the
	// raw single-channel mask is returned.
	Overlay bool

	// PrimaryWeight and TintWeight are the blend weights for continuous
	// masks (gradient and Laplacian).
	PrimaryWeight float64
	TintWeight    float64

	// Tint is the paint color for binary masks (detector output).
	Tint imaging.RGBColor
}

// DefaultViewOptions overlays with weights 1.0 / 0.8 and paints detector
// edges red.
func DefaultViewOptions() ViewOptions {
	return ViewOptions{
		Overlay:       true,
		PrimaryWeight: imaging.DefaultPrimaryWeight,
		TintWeight:    imaging.DefaultTintWeight,
		Tint:          imaging.Red,
	}
}

// Render runs one operator on a color image and presents the result.
//
// Gradient and Laplacian magnitudes are continuous, so in overlay mode they
// are alpha-blended into the red channel. The detector mask is binary and is
// painted with opts.Tint instead. The thresholds only apply to OperatorEdges.
func Render(color *imaging.Buffer, op Operator, low, high int, opts ViewOptions) (*imaging.Buffer, error) {
	if err := color.RequireChannels(3); err != nil {
		return nil, err
	}
	gray := color.Gray()

	var (
		mask *imaging.Buffer
		err  error
	)
	switch op {
	case OperatorGradient:
		mask, err = detection.GradientMagnitude(gray)
	case OperatorLaplacian:
		mask, err = detection.Laplacian(gray)
	case OperatorEdges:
		mask, err = detection.DetectEdges(gray, low, high)
	default:
		return nil, fmt.Errorf("unknown operator %d", int(op))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !opts.Overlay {
		return mask, nil
	}
	if op == OperatorEdges {
		return imaging.PaintMask(color, mask, opts.Tint)
	}
	return imaging.BlendOverlay(color, mask, opts.PrimaryWeight, opts.TintWeight)
}

// Comparison holds the source image next to all three operator views.
type Comparison struct {
	Original   *imaging.Buffer
	Gradient   *imaging.Buffer
	Laplacian  *imaging.Buffer
	Edges      *imaging.Buffer
	Thresholds detection.Thresholds
	Overlay    bool
}

// Compare renders the gradient, Laplacian and detector views of one image
// with the same presentation options.
func Compare(color *imaging.Buffer, low, high int, opts ViewOptions) (*Comparison, error) {
	if err := color.RequireChannels(3); err != nil {
		return nil, err
	}

	cmp := &Comparison{
		Original:   color.Clone(),
		Thresholds: detection.Thresholds{Low: low, High: high}.Normalize(),
		Overlay:    opts.Overlay,
	}

	views := []struct {
		op  Operator
		dst **imaging.Buffer
	}{
		{OperatorGradient, &cmp.Gradient},
		{OperatorLaplacian, &cmp.Laplacian},
		{OperatorEdges, &cmp.Edges},
	}
	for _, v := range views {
		out, err := Render(color, v.op, low, high, opts)
		if err != nil {
			return nil, err
		}
		*v.dst = out
	}
	return cmp, nil
}
