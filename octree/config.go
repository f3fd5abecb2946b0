package octree

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"go.viam.com/sceneindex/spatialmath"
)

// Config describes the fixed world volume indexed by an octree.
type Config struct {
	// Size is the edge length of the cubical world.
	Size float64 `json:"size"`
	// Depth is the number of subdivision levels below the root cell.
	Depth int `json:"depth"`
	// Center of the world cube. Defaults to the origin.
	Center r3.Vector `json:"center"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	var errs error
	if cfg.Size <= 0 {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path,
			errors.Errorf("size must be greater than zero, got %v", cfg.Size)))
	}
	if cfg.Depth <= 0 {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path,
			errors.Errorf("depth must be greater than zero, got %d", cfg.Depth)))
	}
	return errs
}

// Bounds returns the world cube described by the config.
func (cfg *Config) Bounds() spatialmath.AABB {
	half := cfg.Size / 2
	return spatialmath.NewAABBFromCenter(cfg.Center, r3.Vector{X: half, Y: half, Z: half})
}
