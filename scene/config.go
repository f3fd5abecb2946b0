package scene

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"go.viam.com/sceneindex/camera"
	"go.viam.com/sceneindex/logging"
	"go.viam.com/sceneindex/octree"
)

// Config describes a simulated scene: its index, camera, population and frame timing.
type Config struct {
	Octree octree.Config `json:"octree"`
	Camera camera.Config `json:"camera"`

	Objects int `json:"objects"`
	// CleanEvery runs a clean pass every CleanEvery frames. Zero disables periodic cleaning.
	CleanEvery    int     `json:"clean_every"`
	FrameRateHz   float64 `json:"frame_rate_hz"`
	Seed          int64   `json:"seed"`
	MaxSpeed      float64 `json:"max_speed"`
	MaxHalfExtent float64 `json:"max_half_extent"`

	// LogLevel is the level the simulator logs at, written as a name such as "debug".
	LogLevel logging.Level `json:"log_level"`
}

// DefaultConfig returns the config used for anything a config file leaves out.
func DefaultConfig() Config {
	cam := camera.DefaultConfig()
	cam.Position.Z = 150
	return Config{
		Octree:        octree.Config{Size: 200, Depth: 5},
		Camera:        cam,
		Objects:       500,
		CleanEvery:    10,
		FrameRateHz:   60,
		Seed:          1,
		MaxSpeed:      20,
		MaxHalfExtent: 2,
		LogLevel:      logging.INFO,
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	var errs error
	errs = multierr.Append(errs, cfg.Octree.Validate(path+".octree"))
	errs = multierr.Append(errs, cfg.Camera.Validate(path+".camera"))
	if cfg.Objects < 0 {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path,
			errors.Errorf("objects must not be negative, got %d", cfg.Objects)))
	}
	if cfg.CleanEvery < 0 {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path,
			errors.Errorf("clean_every must not be negative, got %d", cfg.CleanEvery)))
	}
	if _, err := FramePeriod(cfg.FrameRateHz); err != nil {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path,
			errors.Wrap(err, "invalid frame_rate_hz")))
	}
	if cfg.LogLevel < logging.DEBUG || cfg.LogLevel > logging.ERROR {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path,
			errors.Errorf("unknown log_level %d", cfg.LogLevel)))
	}
	if cfg.MaxSpeed < 0 {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path,
			errors.Errorf("max_speed must not be negative, got %v", cfg.MaxSpeed)))
	}
	if cfg.MaxHalfExtent <= 0 {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path,
			errors.Errorf("max_half_extent must be greater than zero, got %v", cfg.MaxHalfExtent)))
	}
	return errs
}

// ReadConfig reads a JSON5 scene config from disk, filling in defaults, and validates it.
func ReadConfig(path string) (*Config, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open scene config %q", path)
	}
	defer goutils.UncheckedErrorFunc(f.Close)
	return FromReader(f)
}

// FromReader decodes a JSON5 scene config over the defaults and validates it. Comments and
// trailing commas are allowed.
func FromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read scene config")
	}
	cfg := DefaultConfig()
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode scene config from json")
	}
	if err := cfg.Validate("scene"); err != nil {
		return nil, err
	}
	return &cfg, nil
}
