package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/surfmesh/internal/config"
	"github.com/Faultbox/surfmesh/pkg/formats"
)

const tetraOBJ = `# unit tetrahedron
v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
f 1 3 2
f 1 2 4
f 1 4 3
f 2 3 4
`

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Heightfield.XRes = 4
	cfg.Heightfield.ZRes = 3
	cfg.Heightfield.Workers = 2
	return cfg
}

func TestPlacementDegrees(t *testing.T) {
	p := placement(config.PlacementConfig{
		Position: [3]float32{1, 2, 3},
		Axis:     [3]float32{0, 1, 0},
		AngleDeg: 180,
		Scale:    [3]float32{1, 1, 1},
	})
	assert.InDelta(t, 3.14159265, p.Angle, 1e-6)
	assert.Equal(t, float32(2), p.Position.Y)
	assert.False(t, p.IsIdentity())

	assert.True(t, placement(config.Default().Placement).IsIdentity())
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "models/rock.mbuf", outputPath("models/rock.obj"))
	assert.Equal(t, "hills.mbuf", outputPath("hills.htbl"))
	assert.Equal(t, "noext.mbuf", outputPath("noext"))
}

func TestHeightSource(t *testing.T) {
	cfg := testConfig()

	cfg.Heightfield.Source = config.SourceFlat
	cfg.Heightfield.FlatHeight = 1.5
	fn, surface, err := newApp(cfg).heightSource()
	require.NoError(t, err)
	assert.Nil(t, surface)
	assert.Equal(t, float32(1.5), fn(0.3, -0.2))

	cfg.Heightfield.Source = config.SourceWaves
	_, surface, err = newApp(cfg).heightSource()
	require.NoError(t, err)
	assert.NotNil(t, surface)

	cfg.Heightfield.Source = config.SourceTable
	cfg.Table.Path = filepath.Join(t.TempDir(), "missing.htbl")
	_, _, err = newApp(cfg).heightSource()
	assert.Error(t, err)
}

func TestWriteOBJNormals(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tetra.obj")
	require.NoError(t, os.WriteFile(in, []byte(tetraOBJ), 0644))

	a := newApp(testConfig())
	out := outputPath(in)
	stats, err := a.writeOBJNormals(in, out)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Vertices)
	assert.Equal(t, 4, stats.Triangles)
	assert.Zero(t, stats.Isolated)

	mb, err := formats.ParseMeshBuffersFile(out)
	require.NoError(t, err)
	assert.Equal(t, 4, mb.VertexCount())
	assert.Equal(t, 4, mb.TriangleCount())

	// The origin corner averages the three axis-aligned faces
	n := mb.Normal(0)
	third := float32(1.0 / 3.0)
	assert.InDelta(t, third, n.X, 1e-6)
	assert.InDelta(t, third, n.Y, 1e-6)
	assert.InDelta(t, third, n.Z, 1e-6)
}

func TestWriteOBJNormalsInvalid(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bad.obj")
	require.NoError(t, os.WriteFile(in, []byte("v 0 0 0\nv 1 0 0\nf 1 2 2\n"), 0644))

	_, err := newApp(testConfig()).writeOBJNormals(in, filepath.Join(dir, "bad.mbuf"))
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "bad.mbuf"))
}

func TestWriteTerrainWithPlacement(t *testing.T) {
	cfg := testConfig()
	cfg.Heightfield.Source = config.SourceFlat
	cfg.Placement.Position = [3]float32{0, 10, 0}

	out := filepath.Join(t.TempDir(), "flat.mbuf")
	require.NoError(t, newApp(cfg).writeTerrain(out))

	mb, err := formats.ParseMeshBuffersFile(out)
	require.NoError(t, err)
	assert.Equal(t, 12, mb.VertexCount())
	assert.Equal(t, 2*3*2, mb.TriangleCount())
	for i := 0; i < mb.VertexCount(); i++ {
		assert.InDelta(t, 10, mb.Positions[i*3+1], 1e-6)
		n := mb.Normal(i)
		assert.InDelta(t, 1, n.Y, 1e-6)
	}
}

func writeTable(t *testing.T, path string, h float32) {
	t.Helper()
	table := formats.NewHeightTable(3, 3)
	for i := range table.Heights {
		table.Heights[i] = h
	}
	var buf bytes.Buffer
	require.NoError(t, table.Encode(&buf))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestRegenerateHeightTable(t *testing.T) {
	dir := t.TempDir()
	configured := filepath.Join(dir, "a.htbl")
	other := filepath.Join(dir, "b.htbl")
	writeTable(t, configured, 1)
	writeTable(t, other, 7)

	cfg := testConfig()
	cfg.Heightfield.Source = config.SourceTable
	cfg.Table.Path = configured
	a := newApp(cfg)

	// Each table rebuilds its own output from its own heights
	require.NoError(t, a.regenerate(other))
	require.NoError(t, a.regenerate(configured))

	for path, want := range map[string]float32{configured: 1, other: 7} {
		mb, err := formats.ParseMeshBuffersFile(outputPath(path))
		require.NoError(t, err, path)
		assert.Equal(t, 12, mb.VertexCount())
		for i := 0; i < mb.VertexCount(); i++ {
			assert.InDelta(t, want, mb.Positions[i*3+1], 1e-6, "%s vertex %d", path, i)
		}
	}

	// The configured source does not matter when a table is named directly
	cfg.Heightfield.Source = config.SourceFlat
	require.NoError(t, os.Remove(outputPath(other)))
	require.NoError(t, newApp(cfg).regenerate(other))
	assert.FileExists(t, outputPath(other))
}

func TestRegenerateEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.htbl")
	var buf bytes.Buffer
	require.NoError(t, formats.NewHeightTable(0, 0).Encode(&buf))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	assert.Error(t, newApp(testConfig()).regenerate(path))
	assert.NoFileExists(t, outputPath(path))
}

func TestWatchable(t *testing.T) {
	assert.True(t, watchable("models/rock.obj"))
	assert.True(t, watchable("hills.htbl"))
	assert.False(t, watchable("terrain.mbuf"))
	assert.False(t, watchable("notes.txt"))

	assert.Error(t, newApp(testConfig()).regenerate("terrain.mbuf"))
}

func TestCmdWatchRejectsOutputs(t *testing.T) {
	err := newApp(testConfig()).cmdWatch([]string{filepath.Join(t.TempDir(), "terrain.mbuf")})
	assert.ErrorContains(t, err, "cannot watch")
}

func TestWriteOBJNormalsKeepsTexCoords(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "quad.obj")
	obj := "v 0 0 0\nv 1 0 0\nv 1 0 1\nv 0 0 1\nvt 0 0\nvt 1 0\nvt 1 1\nvt 0 1\nf 1/1 4/4 3/3 2/2\n"
	require.NoError(t, os.WriteFile(in, []byte(obj), 0644))

	_, err := newApp(testConfig()).writeOBJNormals(in, outputPath(in))
	require.NoError(t, err)

	mb, err := formats.ParseMeshBuffersFile(outputPath(in))
	require.NoError(t, err)
	require.True(t, mb.HasTexCoords())
	assert.Equal(t, []float32{0, 0, 1, 0, 1, 1, 0, 1}, mb.TexCoords)
}
