package config

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/cubeworld/internal/world/octree"
)

// Validate reports every problem with the config at once.
func (c *Config) Validate() error {
	var err error

	w := c.World
	if !(w.HalfExtent > 0) || math32.IsInf(w.HalfExtent, 0) {
		err = multierr.Append(err, fmt.Errorf("world.half_extent must be positive, got %v", w.HalfExtent))
	}
	for i, v := range w.Center {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			err = multierr.Append(err, fmt.Errorf("world.center[%d] must be finite, got %v", i, v))
		}
	}
	if w.MaxDepth < 0 || w.MaxDepth > octree.MaxSupportedDepth {
		err = multierr.Append(err, fmt.Errorf("world.max_depth must be in [0, %d], got %d", octree.MaxSupportedDepth, w.MaxDepth))
	}
	if _, cerr := colorful.Hex(w.BaseColor); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("world.base_color: %w", cerr))
	}

	if c.Mesh.Workers < 0 {
		err = multierr.Append(err, fmt.Errorf("mesh.workers must not be negative, got %d", c.Mesh.Workers))
	}

	if _, lerr := zapcore.ParseLevel(c.Logging.Level); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("logging.level: %w", lerr))
	}

	return err
}
