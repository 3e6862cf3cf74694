package detection

import (
	"github.com/ironsheep/edge-tools-mcp/internal/imaging"
)

// grayFromRows builds a single-channel buffer from row-major values.
func grayFromRows(rows [][]uint8) *imaging.Buffer {
	b := imaging.NewGray(len(rows[0]), len(rows))
	for y, row := range rows {
		copy(b.Pix[y*b.Width:], row)
	}
	return b
}

// uniformGray returns a width x height buffer filled with v.
func uniformGray(width, height int, v uint8) *imaging.Buffer {
	b := imaging.NewGray(width, height)
	for i := range b.Pix {
		b.Pix[i] = v
	}
	return b
}

// verticalStep returns an image that is lo left of column split and hi from
// it onward.
func verticalStep(width, height, split int, lo, hi uint8) *imaging.Buffer {
	b := imaging.NewGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := lo
			if x >= split {
				v = hi
			}
			b.Pix[y*width+x] = v
		}
	}
	return b
}

// rowOf returns row y of a single-channel buffer.
func rowOf(b *imaging.Buffer, y int) []uint8 {
	return b.Pix[y*b.Width : (y+1)*b.Width]
}

func countNonZero(b *imaging.Buffer) int {
	n := 0
	for _, v := range b.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}
