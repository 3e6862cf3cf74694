package imaging

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Common colors used by the compositing stages.
var (
	Black = RGBColor{R: 0, G: 0, B: 0}
	White = RGBColor{R: 255, G: 255, B: 255}
	Red   = RGBColor{R: 255, G: 0, B: 0}
)

// Hex returns the color in "#RRGGBB" form (lowercase).
func (c RGBColor) Hex() string {
	return c.colorful().Hex()
}

func (c RGBColor) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// ParseHexColor parses a hex color string like "#FF0000", "FF0000" or "#F00".
//
// Returns:
//   - RGBColor: The parsed color.
//   - error: Non-nil if the string is empty or not a valid hex color.
func ParseHexColor(hex string) (RGBColor, error) {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return RGBColor{}, fmt.Errorf("empty color string")
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if len(hex) != 7 && len(hex) != 4 {
		return RGBColor{}, fmt.Errorf("invalid color %q: expected #RRGGBB or #RGB", hex)
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return RGBColor{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return RGBColor{R: r, G: g, B: b}, nil
}
