// Package main is the entry point for the cube world editor. It builds a
// world from the config, applies an edit script and extracts the mesh.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/cubeworld/internal/config"
	"github.com/Faultbox/cubeworld/internal/engine/camera"
	"github.com/Faultbox/cubeworld/internal/engine/debug"
	"github.com/Faultbox/cubeworld/internal/logger"
	"github.com/Faultbox/cubeworld/internal/world/cube"
	"github.com/Faultbox/cubeworld/internal/world/edit"
	"github.com/Faultbox/cubeworld/internal/world/mesh"
	"github.com/Faultbox/cubeworld/internal/world/octree"
	"github.com/Faultbox/cubeworld/pkg/math"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

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

	logger.Info("=== Cube World Editor ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("editor error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

// Nominal viewport used to aim the camera and the center pick.
const (
	viewportWidth  = 1280
	viewportHeight = 720
)

func run(ctx context.Context, cfg *config.Config) error {
	world, err := newWorld(cfg)
	if err != nil {
		return err
	}

	if cfg.Edit.Script != "" {
		script, err := edit.LoadScript(cfg.Edit.Script)
		if err != nil {
			return err
		}
		n, err := world.Run(script)
		if err != nil {
			return fmt.Errorf("edit script %s: %w", cfg.Edit.Script, err)
		}
		logger.Info("edit script applied", zap.String("path", cfg.Edit.Script), zap.Int("commands", n))
	}

	workers := 1
	if cfg.Mesh.Parallel {
		workers = cfg.Mesh.Workers // 0 = GOMAXPROCS
	}

	cam := camera.NewOrbitCamera()
	transforms := mesh.DefaultTransforms()
	err = world.View(func(tree *octree.Tree) error {
		cam.FitToBounds(tree.Bounds())
		logger.Debug("cell wireframe", zap.Int("vertices", len(debug.CellWireframe(tree))/3))
		return nil
	})
	if err != nil {
		return err
	}
	transforms.Camera = cam.ViewProjection(float32(viewportWidth) / viewportHeight)

	start := time.Now()
	frame, err := world.Frame(ctx, workers, transforms)
	if err != nil {
		return fmt.Errorf("extract mesh: %w", err)
	}

	stats := world.Stats()
	logger.Info("mesh extracted",
		zap.Int("leaves", stats.Leaves),
		zap.Int("internal", stats.Internal),
		zap.Int("max_depth", stats.MaxDepth),
		zap.Int("vertices", len(frame.Mesh.Vertices)),
		zap.Int("triangles", frame.Mesh.Triangles()),
		zap.Any("bounds_min", frame.Mesh.Bounds.Min),
		zap.Any("bounds_max", frame.Mesh.Bounds.Max),
		zap.Duration("elapsed", time.Since(start)),
	)

	hit, err := world.Pick(viewportWidth/2, viewportHeight/2, viewportWidth, viewportHeight, frame.Transforms)
	switch {
	case err == nil:
		logger.Info("screen center pick",
			zap.Int("depth", hit.Node.Depth()),
			zap.Any("point", hit.Point),
			zap.Float32("distance", hit.Distance),
		)
	case errors.Is(err, octree.ErrNoHit):
		logger.Info("screen center pick missed")
	default:
		return fmt.Errorf("pick: %w", err)
	}
	return nil
}

func newWorld(cfg *config.Config) (*edit.World, error) {
	palette, err := cube.ParsePalette(cfg.World.BaseColor)
	if err != nil {
		return nil, err
	}

	c := cfg.World.Center
	tree, err := octree.New(
		math.Vec3{X: c[0], Y: c[1], Z: c[2]},
		cfg.World.HalfExtent,
		octree.WithMaxDepth(cfg.World.MaxDepth),
		octree.WithPalette(palette),
		octree.WithLogger(logger.Named("octree")),
	)
	if err != nil {
		return nil, err
	}
	return edit.NewWorld(tree, logger.Named("edit")), nil
}
