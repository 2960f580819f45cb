// meshgen derives vertex normals for static meshes and generates
// normal-mapped grid meshes from height fields.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/surfmesh/internal/config"
	"github.com/Faultbox/surfmesh/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	app := newApp(cfg)

	switch command {
	case "normals", "n":
		err = app.cmdNormals(args)
	case "terrain", "t":
		err = app.cmdTerrain(args)
	case "animate", "a":
		err = app.cmdAnimate(args)
	case "watch", "w":
		err = app.cmdWatch(args)
	case "info", "i":
		err = app.cmdInfo(args)
	case "config":
		err = app.cmdConfig(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshgen - mesh normal and height field geometry tool

Usage:
  meshgen [flags] <command> [options]

Commands:
  normals [-o out.mbuf] <in.obj>     Compute per-vertex normals for an OBJ mesh
  terrain [-o out.mbuf]              Mesh the configured height source
  animate [-o dir]                   Write one mesh per frame of the wave surface
  watch <file>...                    Regenerate outputs when inputs change
  info <file>                        Show OBJ, HTBL or MBUF statistics
  config [path]                      Write the effective configuration

Flags:
  -config <path>   Config file (.yaml or .toml)
  -debug           Enable debug logging
  -log-file <path> Also write logs to a rotating file
  -xres, -zres     Grid resolution
  -workers <n>     Row-parallel meshing workers
  -source <name>   Height source: flat, waves or table
  -table <path>    Height table file (implies -source table)
  -frames <n>      Animation frame count
  -fps <rate>      Animation frame rate

Examples:
  meshgen normals -o rock.mbuf models/rock.obj
  meshgen -xres 256 -zres 256 -workers 8 terrain -o ocean.mbuf
  meshgen -table hills.htbl terrain
  meshgen -frames 120 animate -o frames/
  meshgen -table hills.htbl watch hills.htbl models/rock.obj`)
}
