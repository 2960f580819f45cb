package model

import (
	"github.com/Faultbox/surfmesh/pkg/math"
)

// Validate checks that every triangle index is in range and that no
// triangle repeats a vertex.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	for ti, tri := range m.Triangles {
		for c, idx := range tri.V {
			if int(idx) >= n {
				return &IndexError{Triangle: ti, Corner: c, Index: idx, NumVertices: n, Err: ErrInvalidIndex}
			}
		}
		for c := 1; c < 3; c++ {
			for p := 0; p < c; p++ {
				if tri.V[c] == tri.V[p] {
					return &IndexError{Triangle: ti, Corner: c, Index: tri.V[c], NumVertices: n, Err: ErrDuplicateIndex}
				}
			}
		}
	}
	return nil
}

// FaceNormal returns the unit normal of triangle t.
func (m *Mesh) FaceNormal(t Triangle) math.Vec3 {
	return math.FaceNormal(
		m.Vertices[t.V[0]].Position,
		m.Vertices[t.V[1]].Position,
		m.Vertices[t.V[2]].Position,
	)
}

// ComputeNormals sets every vertex normal to the arithmetic mean of the
// unit face normals of its incident triangles.
//
// The mean is not renormalized, so vertices whose faces disagree end up
// shorter than unit length. Vertices with no incident triangle get the
// zero vector. The mesh is validated first and left untouched on error.
func ComputeNormals(m *Mesh) error {
	if err := m.Validate(); err != nil {
		return err
	}

	counts := make([]int, len(m.Vertices))
	for i := range m.Vertices {
		m.Vertices[i].Normal = math.Vec3{}
	}

	for _, tri := range m.Triangles {
		n := m.FaceNormal(tri)
		for _, idx := range tri.V {
			m.Vertices[idx].Normal = m.Vertices[idx].Normal.Add(n)
			counts[idx]++
		}
	}

	for i, c := range counts {
		if c != 0 {
			m.Vertices[i].Normal = m.Vertices[i].Normal.Div(float32(c))
		}
	}
	return nil
}

// Stats returns incidence and degeneracy counts plus the bounding box.
func (m *Mesh) Stats() Stats {
	s := Stats{
		Vertices:  len(m.Vertices),
		Triangles: len(m.Triangles),
	}

	used := make([]bool, len(m.Vertices))
	for _, tri := range m.Triangles {
		inRange := true
		for _, idx := range tri.V {
			if int(idx) < len(used) {
				used[idx] = true
			} else {
				inRange = false
			}
		}
		if inRange && m.FaceNormal(tri).IsZero() {
			s.Degenerate++
		}
	}
	for _, u := range used {
		if !u {
			s.Isolated++
		}
	}

	for i, v := range m.Vertices {
		if i == 0 {
			s.Bounds = Bounds{Min: v.Position, Max: v.Position}
			continue
		}
		s.Bounds.Min = s.Bounds.Min.Min(v.Position)
		s.Bounds.Max = s.Bounds.Max.Max(v.Position)
	}
	return s
}

// Buffers flattens the mesh into freshly allocated render buffers.
func (m *Mesh) Buffers() *Buffers {
	b := &Buffers{
		Positions: make([]float32, 0, len(m.Vertices)*3),
		Normals:   make([]float32, 0, len(m.Vertices)*3),
		Indices:   make([]uint32, 0, len(m.Triangles)*3),
	}

	hasTex := false
	for _, v := range m.Vertices {
		b.Positions = append(b.Positions, v.Position.X, v.Position.Y, v.Position.Z)
		b.Normals = append(b.Normals, v.Normal.X, v.Normal.Y, v.Normal.Z)
		hasTex = hasTex || v.HasTexCoord
	}

	if hasTex {
		b.TexCoords = make([]float32, 0, len(m.Vertices)*2)
		for _, v := range m.Vertices {
			b.TexCoords = append(b.TexCoords, v.TexCoord.X, v.TexCoord.Y)
		}
	}

	for _, tri := range m.Triangles {
		b.Indices = append(b.Indices, tri.V[0], tri.V[1], tri.V[2])
	}
	return b
}
