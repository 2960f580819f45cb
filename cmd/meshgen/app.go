package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/surfmesh/internal/assets"
	"github.com/Faultbox/surfmesh/internal/config"
	"github.com/Faultbox/surfmesh/internal/engine/model"
	"github.com/Faultbox/surfmesh/internal/engine/scene"
	"github.com/Faultbox/surfmesh/internal/engine/terrain"
	"github.com/Faultbox/surfmesh/internal/engine/water"
	"github.com/Faultbox/surfmesh/internal/logger"
	"github.com/Faultbox/surfmesh/pkg/formats"
	"github.com/Faultbox/surfmesh/pkg/math"
)

// app carries the shared state of one meshgen invocation.
type app struct {
	cfg    *config.Config
	loader *assets.Loader
	mesher *terrain.Mesher
	log    *zap.Logger
}

func newApp(cfg *config.Config) *app {
	return &app{
		cfg:    cfg,
		loader: assets.NewLoader(),
		mesher: terrain.NewMesher(terrain.Options{
			Workers: cfg.Heightfield.Workers,
			Logger:  logger.Named("terrain"),
		}),
		log: logger.Named("meshgen"),
	}
}

// placement converts the configured placement, with the angle in degrees.
func placement(c config.PlacementConfig) scene.Placement {
	return scene.Placement{
		Position: vec3(c.Position),
		Axis:     vec3(c.Axis),
		Angle:    c.AngleDeg * math32.Pi / 180,
		Scale:    vec3(c.Scale),
	}
}

func vec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// heightSource builds the configured height function. The water surface
// is returned separately so callers can animate it.
func (a *app) heightSource() (terrain.HeightFunc, *water.Surface, error) {
	hf := a.cfg.Heightfield
	switch hf.Source {
	case config.SourceFlat:
		return terrain.Flat(hf.FlatHeight), nil, nil
	case config.SourceWaves:
		s := water.NewSurface(a.cfg.Waves...)
		return s.Height, s, nil
	case config.SourceTable:
		fn, err := a.tableSource(a.cfg.Table.Path)
		return fn, nil, err
	default:
		return nil, nil, fmt.Errorf("%w: unknown height source %q", config.ErrInvalidConfig, hf.Source)
	}
}

// tableSource samples the height table at path with the configured scale.
func (a *app) tableSource(path string) (terrain.HeightFunc, error) {
	table, err := a.loader.LoadHeightTable(path)
	if err != nil {
		return nil, err
	}
	hm, err := terrain.NewHeightmap(table, a.cfg.Table.Scale)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return hm.Func(), nil
}

// bake applies the configured placement to flat position and normal buffers.
func (a *app) bake(positions, normals []float32) ([]float32, []float32, error) {
	p := placement(a.cfg.Placement)
	if p.IsIdentity() {
		return positions, normals, nil
	}
	return p.Bake(positions, normals)
}

// meshOBJ loads an OBJ file and derives its vertex normals.
func (a *app) meshOBJ(path string) (*model.Mesh, error) {
	obj, err := a.loader.LoadOBJ(path)
	if err != nil {
		return nil, err
	}
	for _, w := range obj.Warnings {
		a.log.Warn("obj", zap.String("path", path), zap.String("warning", w))
	}

	mesh, err := model.FromOBJ(obj)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := model.ComputeNormals(mesh); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mesh, nil
}

// writeOBJNormals runs the normals pipeline for one OBJ file.
func (a *app) writeOBJNormals(in, out string) (model.Stats, error) {
	start := time.Now()
	mesh, err := a.meshOBJ(in)
	if err != nil {
		return model.Stats{}, err
	}

	b := mesh.Buffers()
	positions, normals, err := a.bake(b.Positions, b.Normals)
	if err != nil {
		return model.Stats{}, err
	}

	mb := &formats.MeshBuffers{Positions: positions, Normals: normals, TexCoords: b.TexCoords, Indices: b.Indices}
	if err := formats.WriteMeshBuffersFile(out, mb); err != nil {
		return model.Stats{}, err
	}

	stats := mesh.Stats()
	a.log.Info("normals written",
		zap.String("in", in),
		zap.String("out", out),
		zap.Int("vertices", stats.Vertices),
		zap.Int("triangles", stats.Triangles),
		zap.Int("isolated", stats.Isolated),
		zap.Int("degenerate", stats.Degenerate),
		zap.Duration("elapsed", time.Since(start)),
	)
	return stats, nil
}

// terrainBuffers meshes a height function and applies the placement.
func (a *app) terrainBuffers(fn terrain.HeightFunc) (*formats.MeshBuffers, error) {
	hf := a.cfg.Heightfield
	b, err := a.mesher.Generate(fn, hf.XRes, hf.ZRes)
	if err != nil {
		return nil, err
	}
	return a.packTerrain(b)
}

func (a *app) packTerrain(b *terrain.Buffers) (*formats.MeshBuffers, error) {
	positions, normals, err := a.bake(b.Positions, b.Normals)
	if err != nil {
		return nil, err
	}
	return &formats.MeshBuffers{Positions: positions, Normals: normals, Indices: b.Indices}, nil
}

// writeTerrain runs the height field pipeline once.
func (a *app) writeTerrain(out string) error {
	fn, _, err := a.heightSource()
	if err != nil {
		return err
	}
	return a.writeHeightField(fn, a.cfg.Heightfield.Source, out)
}

// writeTableTerrain meshes the height table at path, whatever the
// configured source.
func (a *app) writeTableTerrain(path, out string) error {
	fn, err := a.tableSource(path)
	if err != nil {
		return err
	}
	return a.writeHeightField(fn, path, out)
}

func (a *app) writeHeightField(fn terrain.HeightFunc, source, out string) error {
	mb, err := a.terrainBuffers(fn)
	if err != nil {
		return err
	}
	if err := formats.WriteMeshBuffersFile(out, mb); err != nil {
		return err
	}

	a.log.Info("terrain written",
		zap.String("source", source),
		zap.String("out", out),
		zap.Int("vertices", mb.VertexCount()),
		zap.Int("triangles", mb.TriangleCount()),
	)
	return nil
}

// outputPath replaces the extension of in with .mbuf.
func outputPath(in string) string {
	return strings.TrimSuffix(in, filepath.Ext(in)) + ".mbuf"
}
