// Package scene bakes object placements into generated geometry buffers.
package scene

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/surfmesh/pkg/math"
)

// Placement errors.
var (
	ErrSingularPlacement = errors.New("placement matrix is not invertible")
	ErrBufferLength      = errors.New("buffer length is not a multiple of 3")
)

// Placement positions an object in the world: scale first, then rotate
// about Axis by Angle radians, then translate.
type Placement struct {
	Position math.Vec3
	Axis     math.Vec3
	Angle    float32
	Scale    math.Vec3
}

// Identity returns a placement that leaves geometry unchanged.
func Identity() Placement {
	return Placement{Scale: math.Vec3{X: 1, Y: 1, Z: 1}}
}

// IsIdentity reports whether p leaves geometry unchanged.
func (p Placement) IsIdentity() bool {
	return p.Position.IsZero() && (p.Angle == 0 || p.Axis.IsZero()) &&
		p.Scale == math.Vec3{X: 1, Y: 1, Z: 1}
}

// Matrix returns the model matrix T * R * S.
func (p Placement) Matrix() mgl32.Mat4 {
	result := mgl32.Translate3D(p.Position.X, p.Position.Y, p.Position.Z)

	if p.Angle != 0 && !p.Axis.IsZero() {
		result = result.Mul4(mgl32.HomogRotate3D(p.Angle, p.Axis.Mgl().Normalize()))
	}

	return result.Mul4(mgl32.Scale3D(p.Scale.X, p.Scale.Y, p.Scale.Z))
}

// NormalMatrix returns the inverse transpose of the matrix's upper 3x3.
func (p Placement) NormalMatrix() (mgl32.Mat3, error) {
	m := p.Matrix().Mat3()
	if math32.Abs(m.Det()) < 1e-12 {
		return mgl32.Mat3{}, fmt.Errorf("%w: scale %v", ErrSingularPlacement, p.Scale)
	}
	return m.Inv().Transpose(), nil
}

// Bake returns transformed copies of a flat position buffer and its
// normal buffer. Normals keep their input length, so zero normals stay
// zero and shortened averages stay short.
func (p Placement) Bake(positions, normals []float32) ([]float32, []float32, error) {
	if len(positions)%3 != 0 || len(normals)%3 != 0 {
		return nil, nil, ErrBufferLength
	}

	nm, err := p.NormalMatrix()
	if err != nil {
		return nil, nil, err
	}
	model := p.Matrix()

	outPos := make([]float32, len(positions))
	for i := 0; i < len(positions); i += 3 {
		v := mgl32.Vec4{positions[i], positions[i+1], positions[i+2], 1}
		w := model.Mul4x1(v)
		outPos[i], outPos[i+1], outPos[i+2] = w[0], w[1], w[2]
	}

	outNorm := make([]float32, len(normals))
	for i := 0; i < len(normals); i += 3 {
		n := mgl32.Vec3{normals[i], normals[i+1], normals[i+2]}
		l := n.Len()
		if l == 0 {
			continue
		}
		t := nm.Mul3x1(n)
		tl := t.Len()
		if tl == 0 {
			continue
		}
		t = t.Mul(l / tl)
		outNorm[i], outNorm[i+1], outNorm[i+2] = t[0], t[1], t[2]
	}

	return outPos, outNorm, nil
}
