// Package camera provides a perspective camera that satisfies the octree's frustum query
// contract.
package camera

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"go.viam.com/sceneindex/spatialmath"
)

// Config describes a perspective camera.
type Config struct {
	Position   r3.Vector `json:"position"`
	Target     r3.Vector `json:"target"`
	Up         r3.Vector `json:"up"`
	FOVDegrees float64   `json:"fov_degrees"`
	Aspect     float64   `json:"aspect"`
	Near       float64   `json:"near"`
	Far        float64   `json:"far"`
}

// DefaultConfig returns a camera at +Z looking at the origin.
func DefaultConfig() Config {
	return Config{
		Position:   r3.Vector{Z: 100},
		Up:         r3.Vector{Y: 1},
		FOVDegrees: 60,
		Aspect:     16. / 9.,
		Near:       0.1,
		Far:        1000,
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	var errs error
	if cfg.FOVDegrees <= 0 || cfg.FOVDegrees >= 180 {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path,
			errors.Errorf("fov_degrees must be in (0, 180), got %v", cfg.FOVDegrees)))
	}
	if cfg.Aspect <= 0 {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path,
			errors.Errorf("aspect must be greater than zero, got %v", cfg.Aspect)))
	}
	if cfg.Near <= 0 || cfg.Far <= cfg.Near {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path,
			errors.Errorf("need 0 < near < far, got near=%v far=%v", cfg.Near, cfg.Far)))
	}
	if cfg.Up.Norm2() == 0 {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path,
			errors.New("up must be non-zero")))
	}
	dir := cfg.Target.Sub(cfg.Position)
	if dir.Norm2() == 0 {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path,
			errors.New("position and target must differ")))
	} else if cfg.Up.Norm2() != 0 && parallel(dir, cfg.Up) {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path,
			errors.Errorf("up %v must not be parallel to the view direction %v", cfg.Up, dir)))
	}
	return errs
}

// parallel reports whether two non-zero vectors point along the same line, within a relative
// tolerance. A view direction along up leaves the camera's roll undefined.
func parallel(a, b r3.Vector) bool {
	return a.Cross(b).Norm2() <= 1e-12*a.Norm2()*b.Norm2()
}

// Camera is a perspective camera. Its frustum is recomputed whenever it moves.
type Camera struct {
	cfg        Config
	projection mgl64.Mat4
	view       mgl64.Mat4
	frustum    spatialmath.Frustum
}

// New returns a camera for a valid config.
func New(cfg Config) (*Camera, error) {
	if err := cfg.Validate("camera"); err != nil {
		return nil, errors.Wrap(err, "invalid camera config")
	}
	c := &Camera{
		cfg:        cfg,
		projection: mgl64.Perspective(mgl64.DegToRad(cfg.FOVDegrees), cfg.Aspect, cfg.Near, cfg.Far),
	}
	c.update()
	return c, nil
}

// Move places the camera at position looking at target. A target equal to position, or one
// straight along the up vector, keeps the previous viewing direction.
func (c *Camera) Move(position, target r3.Vector) {
	if dir := target.Sub(position); dir.Norm2() == 0 || parallel(dir, c.cfg.Up) {
		target = position.Add(c.cfg.Target.Sub(c.cfg.Position))
	}
	c.cfg.Position = position
	c.cfg.Target = target
	c.update()
}

func (c *Camera) update() {
	c.view = mgl64.LookAtV(toVec3(c.cfg.Position), toVec3(c.cfg.Target), toVec3(c.cfg.Up))
	c.frustum = spatialmath.NewFrustumFromMatrix(c.ViewProjection())
}

// Position returns the eye position.
func (c *Camera) Position() r3.Vector {
	return c.cfg.Position
}

// Target returns the point the camera looks at.
func (c *Camera) Target() r3.Vector {
	return c.cfg.Target
}

// ClassifyBox classifies box against the camera's view volume.
func (c *Camera) ClassifyBox(box spatialmath.AABB) spatialmath.Classification {
	return c.frustum.ClassifyBox(box)
}

// Frustum returns the current view volume.
func (c *Camera) Frustum() spatialmath.Frustum {
	return c.frustum
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.projection.Mul4(c.view)
}

func toVec3(v r3.Vector) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}
