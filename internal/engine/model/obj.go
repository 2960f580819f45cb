package model

import (
	"github.com/Faultbox/surfmesh/pkg/formats"
)

// FromOBJ builds a mesh from parsed OBJ geometry.
//
// Vertices keep their OBJ order. A vertex takes the texture coordinate of
// the first face corner that references it. Polygons are split into a fan
// around their first corner.
func FromOBJ(obj *formats.OBJ) (*Mesh, error) {
	if len(obj.Faces) == 0 {
		return nil, ErrEmptyMesh
	}

	m := &Mesh{
		Vertices:  make([]Vertex, len(obj.Positions)),
		Triangles: make([]Triangle, 0, obj.TriangleCount()),
	}
	for i, p := range obj.Positions {
		m.Vertices[i].Position = p
	}

	for _, face := range obj.Faces {
		for c, vi := range face.Vertices {
			ti := face.TexCoords[c]
			if ti >= 0 && !m.Vertices[vi].HasTexCoord {
				m.Vertices[vi].TexCoord = obj.TexCoords[ti]
				m.Vertices[vi].HasTexCoord = true
			}
		}

		for k := 1; k+1 < len(face.Vertices); k++ {
			m.Triangles = append(m.Triangles, Triangle{V: [3]uint32{
				uint32(face.Vertices[0]),
				uint32(face.Vertices[k]),
				uint32(face.Vertices[k+1]),
			}})
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
