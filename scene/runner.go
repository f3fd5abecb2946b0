package scene

import (
	"context"
	"math"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"go.viam.com/sceneindex/logging"
)

// FrameFunc is called once per frame with the zero based frame number and the time elapsed since
// the previous frame.
type FrameFunc func(frame int, dt time.Duration) error

// Runner calls a FrameFunc on every tick of a fixed rate ticker. Frames never overlap.
type Runner struct {
	clock  clock.Clock
	period time.Duration
	logger logging.Logger
}

// FramePeriod returns the time between frames at frameRateHz. Rates so high that the period
// truncates to zero are rejected, since a ticker cannot run at them.
func FramePeriod(frameRateHz float64) (time.Duration, error) {
	if math.IsNaN(frameRateHz) || frameRateHz <= 0 {
		return 0, errors.Errorf("frame rate must be greater than zero, got %v", frameRateHz)
	}
	period := time.Duration(float64(time.Second) / frameRateHz)
	if period <= 0 {
		return 0, errors.Errorf("frame rate %v is too high, its period is under a nanosecond", frameRateHz)
	}
	return period, nil
}

// NewRunner returns a runner ticking frameRateHz times per second on clk.
func NewRunner(clk clock.Clock, frameRateHz float64, logger logging.Logger) (*Runner, error) {
	period, err := FramePeriod(frameRateHz)
	if err != nil {
		return nil, err
	}
	return &Runner{
		clock:  clk,
		period: period,
		logger: logger,
	}, nil
}

// Period returns the time between frames.
func (r *Runner) Period() time.Duration {
	return r.period
}

// Run calls fn once per tick until frames frames have run, fn fails, or ctx is done. A
// non-positive frames runs until ctx is done.
func (r *Runner) Run(ctx context.Context, frames int, fn FrameFunc) error {
	last := r.clock.Now()
	ticker := r.clock.Ticker(r.period)
	defer ticker.Stop()

	for frame := 0; frames <= 0 || frame < frames; frame++ {
		select {
		case <-ctx.Done():
			r.logger.Debugw("frame loop stopped", "frames", frame)
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if err := fn(frame, dt); err != nil {
				return errors.Wrapf(err, "frame %d", frame)
			}
		}
	}
	return nil
}
