package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/surfmesh/internal/assets"
	"github.com/Faultbox/surfmesh/internal/config"
	"github.com/Faultbox/surfmesh/internal/engine/terrain"
	"github.com/Faultbox/surfmesh/pkg/formats"
)

var errUsage = errors.New("invalid arguments")

func (a *app) cmdNormals(args []string) error {
	fs := flag.NewFlagSet("normals", flag.ExitOnError)
	out := fs.String("o", "", "Output file (default: input with .mbuf extension)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshgen normals [-o out.mbuf] <in.obj>")
		return errUsage
	}

	in := fs.Arg(0)
	dst := *out
	if dst == "" {
		dst = outputPath(in)
	}

	stats, err := a.writeOBJNormals(in, dst)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s: %d vertices, %d triangles", dst, stats.Vertices, stats.Triangles)
	if stats.Isolated > 0 || stats.Degenerate > 0 {
		fmt.Printf(" (%d isolated, %d degenerate)", stats.Isolated, stats.Degenerate)
	}
	fmt.Println()
	return nil
}

func (a *app) cmdTerrain(args []string) error {
	fs := flag.NewFlagSet("terrain", flag.ExitOnError)
	out := fs.String("o", "terrain.mbuf", "Output file")
	fs.Parse(args)

	if err := a.writeTerrain(*out); err != nil {
		return err
	}

	hf := a.cfg.Heightfield
	fmt.Printf("Wrote %s: %dx%d grid from %s source\n", *out, hf.XRes, hf.ZRes, hf.Source)
	return nil
}

func (a *app) cmdAnimate(args []string) error {
	fs := flag.NewFlagSet("animate", flag.ExitOnError)
	out := fs.String("o", "frames", "Output directory")
	fs.Parse(args)

	_, surface, err := a.heightSource()
	if err != nil {
		return err
	}
	if surface == nil {
		return fmt.Errorf("animate needs the %q height source, got %q", config.SourceWaves, a.cfg.Heightfield.Source)
	}
	if err := os.MkdirAll(*out, 0755); err != nil {
		return err
	}

	hf := a.cfg.Heightfield
	anim, err := terrain.NewAnimator(a.mesher, surface, hf.XRes, hf.ZRes, a.cfg.Animation.FrameRate)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	written := 0
	err = anim.Run(ctx, a.cfg.Animation.Frames, func(f terrain.Frame) error {
		mb, err := a.packTerrain(f.Buffers)
		if err != nil {
			return err
		}
		path := filepath.Join(*out, fmt.Sprintf("frame_%04d.mbuf", f.Index))
		if err := formats.WriteMeshBuffersFile(path, mb); err != nil {
			return err
		}
		written++
		a.log.Debug("frame written", zap.Int("frame", f.Index), zap.Float32("time", f.Time))
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %d frames to %s\n", written, *out)
	return nil
}

func (a *app) cmdWatch(args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshgen watch <file>...")
		return errUsage
	}

	debounce := time.Duration(a.cfg.Watch.DebounceMS) * time.Millisecond
	w, err := assets.NewWatcher(a.loader, debounce, a.log.Named("watch"))
	if err != nil {
		return err
	}
	defer w.Close()

	for _, path := range args {
		if !watchable(path) {
			return fmt.Errorf("cannot watch %s: only .obj and .htbl inputs are rebuilt", path)
		}
		if err := w.Add(path); err != nil {
			return err
		}
		// Produce outputs once up front so they exist before the first change
		if err := a.regenerate(path); err != nil {
			a.log.Warn("initial build failed", zap.String("path", path), zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.log.Info("watching", zap.Strings("files", w.Files()))
	err = w.Run(ctx, a.regenerate)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchable reports whether regenerate can rebuild an output from path.
func watchable(path string) bool {
	switch assets.KindOf(path) {
	case assets.KindOBJ, assets.KindHeightTable:
		return true
	default:
		return false
	}
}

// regenerate rebuilds the output that depends on path: OBJ normals, or
// the terrain meshed from that height table.
func (a *app) regenerate(path string) error {
	switch assets.KindOf(path) {
	case assets.KindOBJ:
		_, err := a.writeOBJNormals(path, outputPath(path))
		return err
	case assets.KindHeightTable:
		return a.writeTableTerrain(path, outputPath(path))
	default:
		return fmt.Errorf("no output is built from %s", path)
	}
}

func (a *app) cmdInfo(args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshgen info <file>")
		return errUsage
	}
	path := args[0]

	switch assets.KindOf(path) {
	case assets.KindOBJ:
		obj, err := a.loader.LoadOBJ(path)
		if err != nil {
			return err
		}
		mesh, err := a.meshOBJ(path)
		if err != nil {
			return err
		}
		s := mesh.Stats()
		fmt.Printf("File:       %s\n", path)
		fmt.Printf("Vertices:   %d\n", s.Vertices)
		fmt.Printf("Triangles:  %d (%d faces)\n", s.Triangles, len(obj.Faces))
		fmt.Printf("Isolated:   %d\n", s.Isolated)
		fmt.Printf("Degenerate: %d\n", s.Degenerate)
		fmt.Printf("Bounds:     (%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)\n",
			s.Bounds.Min.X, s.Bounds.Min.Y, s.Bounds.Min.Z,
			s.Bounds.Max.X, s.Bounds.Max.Y, s.Bounds.Max.Z)
		for _, w := range obj.Warnings {
			fmt.Printf("Warning:    %s\n", w)
		}

	case assets.KindHeightTable:
		t, err := a.loader.LoadHeightTable(path)
		if err != nil {
			return err
		}
		lo, hi := t.Range()
		fmt.Printf("File:    %s\n", path)
		fmt.Printf("Version: %s\n", t.Version)
		fmt.Printf("Size:    %dx%d samples\n", t.Width, t.Depth)
		fmt.Printf("Heights: %.3f to %.3f\n", lo, hi)

	case assets.KindMeshBuffers:
		mb, err := a.loader.LoadMeshBuffers(path)
		if err != nil {
			return err
		}
		fmt.Printf("File:      %s\n", path)
		fmt.Printf("Version:   %s\n", mb.Version)
		fmt.Printf("Vertices:  %d\n", mb.VertexCount())
		fmt.Printf("Triangles: %d\n", mb.TriangleCount())
		fmt.Printf("TexCoords: %t\n", mb.HasTexCoords())

	default:
		return fmt.Errorf("unsupported file type: %s", path)
	}
	return nil
}

func (a *app) cmdConfig(args []string) error {
	if len(args) < 1 {
		return a.cfg.Save()
	}
	if err := a.cfg.SaveTo(args[0]); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", args[0])
	return nil
}
