package terrain

import (
	"github.com/Faultbox/surfmesh/pkg/math"
)

// neighbourhood lists, relative to a sample, the six triangles whose face
// normals are averaged into that sample's vertex normal. Each quad around
// the sample is split along a fixed diagonal; the split does not follow
// the index buffer.
var neighbourhood = [6][3][2]int{
	{{-1, -1}, {-1, 0}, {0, 0}}, // lower-left, split A
	{{-1, -1}, {0, 0}, {0, -1}}, // lower-left, split B
	{{0, -1}, {0, 0}, {1, 0}},   // lower-right
	{{-1, 0}, {0, 1}, {0, 0}},   // upper-left
	{{0, 0}, {0, 1}, {1, 1}},    // upper-right, split A
	{{0, 0}, {1, 1}, {1, 0}},    // upper-right, split B
}

// Generate samples fn on an xRes x zRes grid and returns positions,
// smooth normals and a triangle index buffer. It runs on the calling
// goroutine; see Mesher for the row-parallel variant.
func Generate(fn HeightFunc, xRes, zRes int) (*Buffers, error) {
	return NewMesher(Options{}).Generate(fn, xRes, zRes)
}

// sampleRows writes positions for rows [from, to).
func sampleRows(g Grid, fn HeightFunc, positions []float32, from, to int) {
	for ix := from; ix < to; ix++ {
		for iz := 0; iz < g.ZRes; iz++ {
			fx, fz := g.Domain(ix, iz)
			fy := fn(fx, fz)
			putVec3(positions, g.Offset(Coord{ix, iz}), math.Vec3{X: fx, Y: fy, Z: fz})
		}
	}
}

// normalRows writes vertex normals for rows [from, to). All positions
// must already be sampled.
func normalRows(g Grid, positions, normals []float32, from, to int) error {
	for ix := from; ix < to; ix++ {
		for iz := 0; iz < g.ZRes; iz++ {
			n, err := vertexNormal(g, positions, ix, iz)
			if err != nil {
				return err
			}
			putVec3(normals, g.Offset(Coord{ix, iz}), n)
		}
	}
	return nil
}

// vertexNormal averages the in-bounds neighbourhood face normals at
// (ix, iz) and negates the mean, which turns it to face up for the
// winding of the neighbourhood triangles.
func vertexNormal(g Grid, positions []float32, ix, iz int) (math.Vec3, error) {
	var total math.Vec3
	count := 0

	for _, tri := range neighbourhood {
		var corners [3]math.Vec3
		inBounds := true
		for k, d := range tri {
			c, ok := g.At(ix+d[0], iz+d[1])
			if !ok {
				inBounds = false
				break
			}
			corners[k] = vec3At(positions, g.Offset(c))
		}
		if !inBounds {
			continue
		}
		total = total.Add(math.FaceNormal(corners[0], corners[1], corners[2]))
		count++
	}

	if count == 0 {
		return math.Vec3{}, ErrNoCandidates
	}
	return total.Div(float32(count)).Negate(), nil
}

// buildIndices emits two triangles per quad: first every
// (ix,iz)-(ix,iz+1)-(ix+1,iz), then every (ix,iz)-(ix,iz-1)-(ix-1,iz).
func buildIndices(g Grid) []uint32 {
	indices := make([]uint32, 0, g.QuadCount()*6)
	zRes := uint32(g.ZRes)

	for ix := uint32(0); ix < uint32(g.XRes-1); ix++ {
		for iz := uint32(0); iz < zRes-1; iz++ {
			indices = append(indices,
				ix*zRes+iz,
				ix*zRes+iz+1,
				(ix+1)*zRes+iz,
			)
		}
	}

	for ix := uint32(1); ix < uint32(g.XRes); ix++ {
		for iz := uint32(1); iz < zRes; iz++ {
			indices = append(indices,
				ix*zRes+iz,
				ix*zRes+iz-1,
				(ix-1)*zRes+iz,
			)
		}
	}
	return indices
}
