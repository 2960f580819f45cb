// Package model derives per-vertex normals for static triangle meshes.
package model

import (
	"errors"
	"fmt"

	"github.com/Faultbox/surfmesh/pkg/math"
)

// Mesh validation errors.
var (
	ErrInvalidIndex   = errors.New("triangle index out of range")
	ErrDuplicateIndex = errors.New("triangle repeats a vertex")
	ErrEmptyMesh      = errors.New("mesh has no triangles")
)

// Vertex is a static mesh vertex. Normal is an output of ComputeNormals.
type Vertex struct {
	Position    math.Vec3
	Normal      math.Vec3
	TexCoord    math.Vec2
	HasTexCoord bool
}

// Triangle references three vertices of its mesh. The order of V is the
// winding and fixes the face normal's sign.
type Triangle struct {
	V [3]uint32
}

// Mesh owns an ordered vertex list and the triangles indexing into it.
// A vertex's identity is its position in Vertices.
type Mesh struct {
	Vertices  []Vertex
	Triangles []Triangle
}

// IndexError reports a triangle that breaks the mesh index invariant.
type IndexError struct {
	Triangle    int
	Corner      int
	Index       uint32
	NumVertices int
	Err         error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("triangle %d corner %d: index %d (vertices: %d): %v",
		e.Triangle, e.Corner, e.Index, e.NumVertices, e.Err)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Stats summarizes a mesh for diagnostics.
type Stats struct {
	Vertices   int
	Triangles  int
	Isolated   int // vertices referenced by no triangle
	Degenerate int // triangles whose face normal is zero
	Bounds     Bounds
}

// Buffers is the flat layout a renderer binds directly.
type Buffers struct {
	Positions []float32 // 3 per vertex
	Normals   []float32 // 3 per vertex
	TexCoords []float32 // 2 per vertex, nil when no vertex has one
	Indices   []uint32  // 3 per triangle
}
