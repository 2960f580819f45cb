package terrain

import (
	gomath "math"
)

// Coord addresses one grid sample.
type Coord struct {
	X, Z int
}

// Grid describes an XRes x ZRes lattice of samples over [-1, 1]^2.
type Grid struct {
	XRes int
	ZRes int
}

// NewGrid validates the resolution and returns the grid.
func NewGrid(xRes, zRes int) (Grid, error) {
	if xRes < MinResolution || zRes < MinResolution {
		return Grid{}, &ResolutionError{XRes: xRes, ZRes: zRes, Reason: "both axes need at least 2 samples"}
	}
	if uint64(xRes)*uint64(zRes) > gomath.MaxUint32 {
		return Grid{}, &ResolutionError{XRes: xRes, ZRes: zRes, Reason: "sample count exceeds 32-bit index range"}
	}
	return Grid{XRes: xRes, ZRes: zRes}, nil
}

// At returns the coordinate for (ix, iz), or false when it lies outside
// the grid. Every neighbour lookup goes through here.
func (g Grid) At(ix, iz int) (Coord, bool) {
	if ix < 0 || iz < 0 || ix >= g.XRes || iz >= g.ZRes {
		return Coord{}, false
	}
	return Coord{X: ix, Z: iz}, true
}

// Offset returns the flat buffer slot of c.
func (g Grid) Offset(c Coord) int {
	return c.X*g.ZRes + c.Z
}

// Len returns the number of samples.
func (g Grid) Len() int {
	return g.XRes * g.ZRes
}

// QuadCount returns the number of grid cells between samples.
func (g Grid) QuadCount() int {
	return (g.XRes - 1) * (g.ZRes - 1)
}

// Domain maps a sample index to its domain coordinates.
// The upper edge of [-1, 1] is never reached: ix = XRes-1 maps to 1 - 2/XRes.
func (g Grid) Domain(ix, iz int) (fx, fz float32) {
	fx = float32(ix)*2/float32(g.XRes) - 1
	fz = float32(iz)*2/float32(g.ZRes) - 1
	return fx, fz
}
