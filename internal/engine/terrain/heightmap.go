package terrain

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/surfmesh/pkg/formats"
)

// Flat returns a constant height field.
func Flat(h float32) HeightFunc {
	return func(x, z float32) float32 {
		return h
	}
}

// Heightmap samples a height table stretched over the [-1, 1]^2 domain.
type Heightmap struct {
	Table *formats.HeightTable
	Scale float32 // multiplier applied to table values
}

// NewHeightmap wraps a height table. The table needs at least one sample
// and a Heights slice matching its size.
func NewHeightmap(table *formats.HeightTable, scale float32) (*Heightmap, error) {
	if table == nil || table.Width == 0 || table.Depth == 0 {
		return nil, ErrEmptyTable
	}
	if len(table.Heights) != int(table.Width)*int(table.Depth) {
		return nil, fmt.Errorf("%w: %d heights for %dx%d", ErrEmptyTable, len(table.Heights), table.Width, table.Depth)
	}
	return &Heightmap{Table: table, Scale: scale}, nil
}

// Height returns the bilinearly interpolated height at a domain position.
// Positions outside the domain take the nearest edge value.
func (h *Heightmap) Height(x, z float32) float32 {
	w := int(h.Table.Width)
	d := int(h.Table.Depth)

	// Domain to table sample coordinates
	fx := (x + 1) * 0.5 * float32(w-1)
	fz := (z + 1) * 0.5 * float32(d-1)

	cellX := clampCell(int(math32.Floor(fx)), w)
	cellZ := clampCell(int(math32.Floor(fz)), d)

	fracX := clampf(fx-float32(cellX), 0, 1)
	fracZ := clampf(fz-float32(cellZ), 0, 1)

	// Lerp along X on both Z edges, then along Z
	near := h.Table.At(cellX, cellZ)*(1-fracX) + h.Table.At(cellX+1, cellZ)*fracX
	far := h.Table.At(cellX, cellZ+1)*(1-fracX) + h.Table.At(cellX+1, cellZ+1)*fracX

	return (near*(1-fracZ) + far*fracZ) * h.Scale
}

// Func returns h.Height as a HeightFunc.
func (h *Heightmap) Func() HeightFunc {
	return h.Height
}

// clampCell keeps a cell's lower corner in [0, n-2] so that its upper
// corner exists; single-sample axes collapse to 0.
func clampCell(c, n int) int {
	if c > n-2 {
		c = n - 2
	}
	if c < 0 {
		c = 0
	}
	return c
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
