package formats

import (
	"errors"
	"strings"
	"testing"

	"github.com/Faultbox/surfmesh/pkg/math"
)

const cubeFaceOBJ = `# one quad and one triangle
mtllib scene.mtl
o patch
v 0 0 0
v 1 0 0
v 1 0 1
v 0 0 1
vt 0 0
vt 1 0
vt 1 1
vn 0 1 0
f 1/1/1 2/2/1 3/3/1 4//1
f -4 -2 -1
`

func TestParseOBJ_Basic(t *testing.T) {
	obj, err := ParseOBJ(strings.NewReader(cubeFaceOBJ))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	if len(obj.Positions) != 4 {
		t.Errorf("expected 4 positions, got %d", len(obj.Positions))
	}
	if len(obj.TexCoords) != 3 {
		t.Errorf("expected 3 texcoords, got %d", len(obj.TexCoords))
	}
	if len(obj.Faces) != 2 {
		t.Fatalf("expected 2 faces, got %d", len(obj.Faces))
	}
	if obj.TriangleCount() != 3 {
		t.Errorf("expected 3 triangles, got %d", obj.TriangleCount())
	}

	if got := obj.Positions[2]; got != (math.Vec3{X: 1, Y: 0, Z: 1}) {
		t.Errorf("position 2 = %v", got)
	}

	quad := obj.Faces[0]
	wantVerts := []int{0, 1, 2, 3}
	wantTex := []int{0, 1, 2, -1}
	for i := range wantVerts {
		if quad.Vertices[i] != wantVerts[i] {
			t.Errorf("quad vertex %d = %d, want %d", i, quad.Vertices[i], wantVerts[i])
		}
		if quad.TexCoords[i] != wantTex[i] {
			t.Errorf("quad texcoord %d = %d, want %d", i, quad.TexCoords[i], wantTex[i])
		}
	}

	// Negative indices are relative to the end of the list.
	tri := obj.Faces[1]
	if tri.Vertices[0] != 0 || tri.Vertices[1] != 2 || tri.Vertices[2] != 3 {
		t.Errorf("relative face = %v, want [0 2 3]", tri.Vertices)
	}
}

func TestParseOBJ_Warnings(t *testing.T) {
	obj, err := ParseOBJ(strings.NewReader("v 0 0 0\nv 1 0 0\nv 0 1 0\nbogus 1 2\nf 1 2 3\n"))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if len(obj.Warnings) == 0 {
		t.Error("expected a warning for the unsupported statement")
	}
	if obj.TriangleCount() != 1 {
		t.Errorf("expected 1 triangle, got %d", obj.TriangleCount())
	}
}

func TestParseOBJ_ObjectsMerged(t *testing.T) {
	input := `o first
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
o second
v 0 0 1
f 1 2 4
`
	obj, err := ParseOBJ(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if len(obj.Faces) != 2 {
		t.Fatalf("expected 2 faces, got %d", len(obj.Faces))
	}
	// Indices stay global across objects
	if got := obj.Faces[1].Vertices; got[0] != 0 || got[1] != 1 || got[2] != 3 {
		t.Errorf("second face = %v, want [0 1 3]", got)
	}
	for i, ti := range obj.Faces[1].TexCoords {
		if ti != NoTexCoord {
			t.Errorf("corner %d texcoord = %d, want none", i, ti)
		}
	}
}

func TestParseOBJ_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"no faces", "v 0 0 0\nv 1 0 0\n", ErrEmptyOBJ},
		{"short vertex", "v 0 0\n", ErrMalformedOBJ},
		{"bad float", "v 0 x 0\n", ErrMalformedOBJ},
		{"face out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n", ErrMalformedOBJ},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", ErrMalformedOBJ},
		{"two corner face", "v 0 0 0\nv 1 0 0\nf 1 2\n", ErrMalformedOBJ},
		{"texcoord out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1 2/1 3/1\n", ErrMalformedOBJ},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseOBJFile(t *testing.T) {
	if _, err := ParseOBJFile("testdata/does_not_exist.obj"); err == nil {
		t.Error("expected error for missing file")
	}
}
