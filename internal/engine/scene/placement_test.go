package scene

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/surfmesh/pkg/math"
)

func TestIdentity(t *testing.T) {
	p := Identity()
	assert.True(t, p.IsIdentity())

	pos := []float32{1, 2, 3, -4, 5, -6}
	nrm := []float32{0, 1, 0, 0.5, 0.5, 0}

	outPos, outNorm, err := p.Bake(pos, nrm)
	require.NoError(t, err)
	assert.InDeltaSlice(t, pos, outPos, 1e-6)
	assert.InDeltaSlice(t, nrm, outNorm, 1e-6)

	// Copies, not aliases.
	outPos[0] = 100
	assert.Equal(t, float32(1), pos[0])
}

func TestBake_TranslateScale(t *testing.T) {
	p := Placement{
		Position: math.Vec3{X: 10, Y: 0, Z: -2},
		Scale:    math.Vec3{X: 2, Y: 4, Z: 1},
	}
	assert.False(t, p.IsIdentity())

	outPos, outNorm, err := p.Bake([]float32{1, 1, 1}, []float32{0, 1, 0})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{12, 4, -1}, outPos, 1e-6)
	// Non-uniform scale leaves a pure Y normal pointing along Y.
	assert.InDeltaSlice(t, []float32{0, 1, 0}, outNorm, 1e-6)
}

func TestBake_NonUniformScaleNormal(t *testing.T) {
	// Plane x + y = 0 stretched 2x along X: the surface normal tilts
	// towards Y, not X.
	p := Placement{Scale: math.Vec3{X: 2, Y: 1, Z: 1}}
	s := float32(1 / gomath.Sqrt2)

	_, outNorm, err := p.Bake([]float32{0, 0, 0}, []float32{s, s, 0})
	require.NoError(t, err)

	n := math.Vec3{X: outNorm[0], Y: outNorm[1], Z: outNorm[2]}
	assert.InDelta(t, 1, n.Length(), 1e-5)
	assert.Less(t, n.X, n.Y)
}

func TestBake_Rotation(t *testing.T) {
	p := Placement{
		Axis:  math.Vec3{X: 0, Y: 0, Z: 1},
		Angle: gomath.Pi / 2,
		Scale: math.Vec3{X: 1, Y: 1, Z: 1},
	}

	outPos, outNorm, err := p.Bake([]float32{1, 0, 0}, []float32{0, 1, 0})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0, 1, 0}, outPos, 1e-6)
	assert.InDeltaSlice(t, []float32{-1, 0, 0}, outNorm, 1e-6)
}

func TestBake_PreservesNormalLength(t *testing.T) {
	p := Placement{Angle: 0.7, Axis: math.Vec3{X: 1, Y: 1, Z: 0}, Scale: math.Vec3{X: 3, Y: 3, Z: 3}}

	_, outNorm, err := p.Bake([]float32{0, 0, 0, 0, 0, 0}, []float32{0, 0, 0, 0, 0.5, 0})
	require.NoError(t, err)

	assert.Equal(t, []float32{0, 0, 0}, outNorm[:3])
	n := math.Vec3{X: outNorm[3], Y: outNorm[4], Z: outNorm[5]}
	assert.InDelta(t, 0.5, n.Length(), 1e-5)
}

func TestBake_Errors(t *testing.T) {
	_, _, err := Identity().Bake([]float32{1, 2}, nil)
	assert.ErrorIs(t, err, ErrBufferLength)

	flat := Placement{Scale: math.Vec3{X: 1, Y: 0, Z: 1}}
	_, _, err = flat.Bake([]float32{1, 2, 3}, []float32{0, 1, 0})
	assert.ErrorIs(t, err, ErrSingularPlacement)
}
