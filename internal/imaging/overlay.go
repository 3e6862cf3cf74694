package imaging

import (
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// TintChannel is the channel of the tint image that receives the mask in
// BlendOverlay. Channel 0 is red in RGB order.
const TintChannel = 0

// Default blend weights: the source image at full strength plus the tinted
// mask at 80%. The weights intentionally do not sum to 1 so that edges
// brighten the source rather than fade it.
const (
	DefaultPrimaryWeight = 1.0
	DefaultTintWeight    = 0.8
)

// BlendOverlay alpha-blends an edge mask onto a color image.
//
// The mask is painted into channel TintChannel of an otherwise black image,
// which is then combined with the source:
//
//	result = saturate(round(color*primaryWeight + tint*tintWeight))
//
// Parameters:
//   - color: Three-channel source image.
//   - mask: Single-channel mask with the same width and height. Continuous
//     masks (gradient or Laplacian magnitude) blend proportionally.
//   - primaryWeight: Weight applied to the source image.
//   - tintWeight: Weight applied to the tinted mask.
//
// Returns:
//   - *Buffer: New three-channel image; inputs are not modified.
//   - error: ErrInvalidInput on empty buffers, wrong channel counts or
//     mismatched sizes.
func BlendOverlay(color, mask *Buffer, primaryWeight, tintWeight float64) (*Buffer, error) {
	if err := checkOverlayOperands(color, mask); err != nil {
		return nil, err
	}

	out := NewRGB(color.Width, color.Height)
	parallel.Line(color.Height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < color.Width; x++ {
				m := float64(mask.Pix[y*mask.Width+x])
				i := color.Offset(x, y)
				for c := 0; c < 3; c++ {
					v := float64(color.Pix[i+c]) * primaryWeight
					if c == TintChannel {
						v += m * tintWeight
					}
					out.Pix[i+c] = saturate(v)
				}
			}
		}
	})
	return out, nil
}

// PaintMask overwrites every pixel where mask is nonzero with tint, in a copy
// of color. Pixels where the mask is zero are left untouched. This is the
// compositing mode for binary masks such as detector output.
func PaintMask(color, mask *Buffer, tint RGBColor) (*Buffer, error) {
	if err := checkOverlayOperands(color, mask); err != nil {
		return nil, err
	}

	out := color.Clone()
	parallel.Line(color.Height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < color.Width; x++ {
				if mask.Pix[y*mask.Width+x] != 0 {
					out.SetRGB(x, y, tint)
				}
			}
		}
	})
	return out, nil
}

func checkOverlayOperands(color, mask *Buffer) error {
	if err := color.RequireChannels(3); err != nil {
		return fmt.Errorf("color image: %w", err)
	}
	if err := mask.RequireChannels(1); err != nil {
		return fmt.Errorf("mask: %w", err)
	}
	if !color.SameSize(mask) {
		return fmt.Errorf("%w: mask %dx%d does not match image %dx%d",
			ErrInvalidInput, mask.Width, mask.Height, color.Width, color.Height)
	}
	return nil
}

// saturate rounds v to the nearest integer and clamps it to [0, 255].
func saturate(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
