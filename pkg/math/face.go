package math

// FaceNormal returns the unit normal of triangle (a, b, c).
//
// The edges are taken around the middle vertex, cross(a-b, c-b), so the
// winding of (a, b, c) fixes the sign. Collinear or coincident corners
// give the zero vector.
func FaceNormal(a, b, c Vec3) Vec3 {
	e1 := a.Sub(b)
	e2 := c.Sub(b)
	return e1.Cross(e2).Normalize()
}
