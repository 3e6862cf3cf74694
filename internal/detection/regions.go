package detection

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/edge-tools-mcp/internal/imaging"
)

// Polarity tells LabelRegions which pixels of a mask are lines.
type Polarity int

const (
	// LinesDark treats low values (< 128) as lines and high values as
	// background, like ink on paper.
	LinesDark Polarity = iota

	// LinesBright treats high values (>= 128) as lines and low values as
	// background, like raw detector output.
	LinesBright
)

func (p Polarity) String() string {
	if p == LinesBright {
		return "bright"
	}
	return "dark"
}

// ParsePolarity accepts "dark" or "bright" (case-insensitive).
func ParsePolarity(s string) (Polarity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dark", "":
		return LinesDark, nil
	case "bright":
		return LinesBright, nil
	}
	return LinesDark, fmt.Errorf("unknown polarity %q (want \"dark\" or \"bright\")", s)
}

func (p Polarity) isBackground(v uint8) bool {
	if p == LinesBright {
		return v < 128
	}
	return v >= 128
}

// LabelMap assigns every pixel of a mask a region identity. Label 0 marks
// line pixels; background pixels carry labels 1..Count.
type LabelMap struct {
	Width  int
	Height int
	Labels []int
	Count  int
}

// At returns the label of pixel (x, y).
func (m *LabelMap) At(x, y int) int {
	return m.Labels[y*m.Width+x]
}

// Sizes returns the pixel count of every region, indexed by label-1.
func (m *LabelMap) Sizes() []int {
	sizes := make([]int, m.Count)
	for _, l := range m.Labels {
		if l > 0 {
			sizes[l-1]++
		}
	}
	return sizes
}

// LabelRegions labels the 4-connected background regions of a single-channel
// line mask.
//
// Pixels are scanned left to right, top to bottom. The first unlabeled
// background pixel found starts a new region with the next unused label,
// which is then spread breadth-first over the 4-neighbourhood without
// crossing line pixels. Line pixels always keep label 0.
//
// Returns ErrInvalidInput if the mask is empty or not single-channel.
func LabelRegions(mask *imaging.Buffer, polarity Polarity) (*LabelMap, error) {
	if err := mask.RequireChannels(1); err != nil {
		return nil, err
	}

	width, height := mask.Width, mask.Height
	labels := &LabelMap{
		Width:  width,
		Height: height,
		Labels: make([]int, width*height),
	}

	queue := make([]int, 0, 64)
	for start, v := range mask.Pix {
		if labels.Labels[start] != 0 || !polarity.isBackground(v) {
			continue
		}

		labels.Count++
		label := labels.Count
		labels.Labels[start] = label
		queue = append(queue[:0], start)

		for head := 0; head < len(queue); head++ {
			i := queue[head]
			x, y := i%width, i/width

			for _, n := range [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}} {
				nx, ny := n[0], n[1]
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				j := ny*width + nx
				if labels.Labels[j] != 0 || !polarity.isBackground(mask.Pix[j]) {
					continue
				}
				labels.Labels[j] = label
				queue = append(queue, j)
			}
		}
	}

	return labels, nil
}

// Region colors avoid near-black so that redrawn lines stay visible.
const (
	minRegionChannel = 40
	maxRegionChannel = 255
)

// DefaultSeed seeds the region color generator when the caller does not
// supply a random source.
const DefaultSeed uint64 = 1

// NewRand returns a deterministic random source for region coloring.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// ColorEntry is one row of a ColorTable.
type ColorEntry struct {
	Label int              `json:"label"`
	Hex   string           `json:"hex"`
	RGB   imaging.RGBColor `json:"rgb"`
}

// ColorTable maps positive region labels to colors.
type ColorTable struct {
	colors []imaging.RGBColor
}

// NewColorTable draws one color per label 1..count from rng. Every channel
// is drawn uniformly from [40, 255]. A nil rng uses NewRand(DefaultSeed).
func NewColorTable(count int, rng *rand.Rand) *ColorTable {
	if rng == nil {
		rng = NewRand(DefaultSeed)
	}
	span := maxRegionChannel - minRegionChannel + 1

	colors := make([]imaging.RGBColor, count)
	for i := range colors {
		colors[i] = imaging.RGBColor{
			R: uint8(minRegionChannel + rng.IntN(span)),
			G: uint8(minRegionChannel + rng.IntN(span)),
			B: uint8(minRegionChannel + rng.IntN(span)),
		}
	}
	return &ColorTable{colors: colors}
}

// Len returns the number of labels covered by the table.
func (t *ColorTable) Len() int {
	return len(t.colors)
}

// Color returns the color of a label. Label 0 and labels beyond the table
// report false.
func (t *ColorTable) Color(label int) (imaging.RGBColor, bool) {
	if label <= 0 || label > len(t.colors) {
		return imaging.RGBColor{}, false
	}
	return t.colors[label-1], true
}

// Entries lists the table in label order.
func (t *ColorTable) Entries() []ColorEntry {
	entries := make([]ColorEntry, len(t.colors))
	for i, c := range t.colors {
		entries[i] = ColorEntry{Label: i + 1, Hex: c.Hex(), RGB: c}
	}
	return entries
}

// FillRegions paints every labeled pixel with its region color on a white
// three-channel canvas. Label-0 (line) pixels stay white so the caller can
// redraw the lines on top.
//
// Returns ErrInvalidInput for an empty or malformed label map, a nil table,
// or a table that does not cover every label.
func FillRegions(labels *LabelMap, table *ColorTable) (*imaging.Buffer, error) {
	if labels == nil || labels.Width <= 0 || labels.Height <= 0 {
		return nil, fmt.Errorf("%w: empty label map", imaging.ErrInvalidInput)
	}
	if len(labels.Labels) != labels.Width*labels.Height {
		return nil, fmt.Errorf("%w: label map has %d labels for %dx%d pixels",
			imaging.ErrInvalidInput, len(labels.Labels), labels.Width, labels.Height)
	}
	if table == nil {
		return nil, fmt.Errorf("%w: nil color table", imaging.ErrInvalidInput)
	}
	if table.Len() < labels.Count {
		return nil, fmt.Errorf("%w: color table has %d entries for %d regions",
			imaging.ErrInvalidInput, table.Len(), labels.Count)
	}

	canvas := imaging.NewRGB(labels.Width, labels.Height)
	for i := range canvas.Pix {
		canvas.Pix[i] = 255
	}

	parallel.Line(labels.Height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < labels.Width; x++ {
				if c, ok := table.Color(labels.At(x, y)); ok {
					canvas.SetRGB(x, y, c)
				}
			}
		}
	})
	return canvas, nil
}

// SegmentRegions labels the background regions of a line mask and draws a
// fresh color table for them.
func SegmentRegions(mask *imaging.Buffer, polarity Polarity, rng *rand.Rand) (*LabelMap, *ColorTable, error) {
	labels, err := LabelRegions(mask, polarity)
	if err != nil {
		return nil, nil, err
	}
	return labels, NewColorTable(labels.Count, rng), nil
}
