// Package terrain builds regular-grid meshes from scalar height fields.
package terrain

import (
	"errors"
	"fmt"

	"github.com/Faultbox/surfmesh/pkg/math"
)

// Height field meshing errors.
var (
	ErrInvalidResolution = errors.New("invalid grid resolution")
	ErrNilHeightFunc     = errors.New("height function is nil")
	ErrNoCandidates      = errors.New("grid sample has no in-bounds triangles")
	ErrEmptyTable        = errors.New("height table has no samples")
)

// MinResolution is the smallest resolution along either axis. A grid one
// sample wide has samples with no surrounding triangle.
const MinResolution = 2

// HeightFunc samples a height field at domain coordinates in [-1, 1].
type HeightFunc func(x, z float32) float32

// ResolutionError reports a rejected grid size.
type ResolutionError struct {
	XRes, ZRes int
	Reason     string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%v: %dx%d: %s", ErrInvalidResolution, e.XRes, e.ZRes, e.Reason)
}

func (e *ResolutionError) Unwrap() error {
	return ErrInvalidResolution
}

// Buffers holds one generated grid: positions and normals at
// Grid.Offset, and a flat triangle index list.
type Buffers struct {
	Grid      Grid
	Positions []float32 // 3 per sample
	Normals   []float32 // 3 per sample
	Indices   []uint32  // 3 per triangle
}

// Position returns the sampled position at (ix, iz).
func (b *Buffers) Position(ix, iz int) math.Vec3 {
	return vec3At(b.Positions, b.Grid.Offset(Coord{ix, iz}))
}

// Normal returns the vertex normal at (ix, iz).
func (b *Buffers) Normal(ix, iz int) math.Vec3 {
	return vec3At(b.Normals, b.Grid.Offset(Coord{ix, iz}))
}

// TriangleCount returns the number of triangles in Indices.
func (b *Buffers) TriangleCount() int {
	return len(b.Indices) / 3
}

func vec3At(buf []float32, offset int) math.Vec3 {
	i := offset * 3
	return math.Vec3{X: buf[i], Y: buf[i+1], Z: buf[i+2]}
}

func putVec3(buf []float32, offset int, v math.Vec3) {
	i := offset * 3
	buf[i] = v.X
	buf[i+1] = v.Y
	buf[i+2] = v.Z
}
