package formats

import (
	"errors"
	"fmt"
	"io"
	gomath "math"
	"os"
	"strings"

	"github.com/g3n/engine/loader/obj"

	"github.com/Faultbox/surfmesh/pkg/math"
)

// OBJ format errors.
var (
	ErrMalformedOBJ = errors.New("malformed OBJ data")
	ErrEmptyOBJ     = errors.New("OBJ contains no faces")
)

// NoTexCoord marks a face corner without a texture coordinate.
const NoTexCoord = -1

// OBJFace is one polygon of an OBJ file.
// Indices are zero-based; TexCoords entries are NoTexCoord when the corner has none.
type OBJFace struct {
	Vertices  []int
	TexCoords []int
}

// OBJ represents the geometry subset of a Wavefront OBJ file.
// Normals ("vn") are not kept since they are derived from the faces.
// Faces of all objects and groups are merged in file order.
type OBJ struct {
	Positions []math.Vec3
	TexCoords []math.Vec2
	Faces     []OBJFace
	Warnings  []string
}

// ParseOBJ decodes OBJ text from r. Material libraries are not read.
func ParseOBJ(r io.Reader) (*OBJ, error) {
	dec, err := obj.DecodeReader(r, strings.NewReader(""))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOBJ, err)
	}
	return fromDecoder(dec)
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OBJ file: %w", err)
	}
	defer f.Close()
	return ParseOBJ(f)
}

// TriangleCount returns the number of triangles after fan triangulation.
func (o *OBJ) TriangleCount() int {
	n := 0
	for _, f := range o.Faces {
		n += len(f.Vertices) - 2
	}
	return n
}

func fromDecoder(dec *obj.Decoder) (*OBJ, error) {
	o := &OBJ{
		Positions: make([]math.Vec3, len(dec.Vertices)/3),
		TexCoords: make([]math.Vec2, len(dec.Uvs)/2),
		Warnings:  append([]string(nil), dec.Warnings...),
	}
	for i := range o.Positions {
		o.Positions[i] = math.Vec3{X: dec.Vertices[i*3], Y: dec.Vertices[i*3+1], Z: dec.Vertices[i*3+2]}
	}
	for i := range o.TexCoords {
		o.TexCoords[i] = math.Vec2{X: dec.Uvs[i*2], Y: dec.Uvs[i*2+1]}
	}

	for oi := range dec.Objects {
		object := &dec.Objects[oi]
		for fi, f := range object.Faces {
			face, err := o.convertFace(f)
			if err != nil {
				return nil, fmt.Errorf("%w: object %q face %d: %v", ErrMalformedOBJ, object.Name, fi, err)
			}
			o.Faces = append(o.Faces, face)
		}
	}

	if len(o.Faces) == 0 {
		return nil, ErrEmptyOBJ
	}
	return o, nil
}

// convertFace range-checks the decoder's zero-based indices, which it
// does not verify itself.
func (o *OBJ) convertFace(f obj.Face) (OBJFace, error) {
	if len(f.Vertices) < 3 {
		return OBJFace{}, fmt.Errorf("face needs at least 3 vertices, got %d", len(f.Vertices))
	}

	face := OBJFace{
		Vertices:  make([]int, len(f.Vertices)),
		TexCoords: make([]int, len(f.Vertices)),
	}
	for i, vi := range f.Vertices {
		if vi < 0 || vi >= len(o.Positions) {
			return OBJFace{}, fmt.Errorf("vertex index %d out of range (have %d)", vi, len(o.Positions))
		}
		face.Vertices[i] = vi

		face.TexCoords[i] = NoTexCoord
		if i >= len(f.Uvs) {
			continue
		}
		ti := f.Uvs[i]
		switch {
		case ti >= 0 && ti < len(o.TexCoords):
			face.TexCoords[i] = ti
		case ti == -1 || ti >= gomath.MaxInt32:
			// no texture coordinate on this corner
		default:
			return OBJFace{}, fmt.Errorf("texture coordinate index %d out of range (have %d)", ti, len(o.TexCoords))
		}
	}
	return face, nil
}
