package cli

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	goutils "go.viam.com/utils"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/natefinch/lumberjack.v2"

	"go.viam.com/sceneindex/camera"
	"go.viam.com/sceneindex/logging"
	"go.viam.com/sceneindex/octree"
	"go.viam.com/sceneindex/scene"
)

// SimulateAction runs a simulated scene and prints a summary of index behaviour.
func SimulateAction(c *cli.Context) error {
	cfg, err := simulationConfig(c)
	if err != nil {
		return err
	}

	logger, closeLogger, err := newLogger(c, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLogger()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	sim, err := newSimulation(*cfg, logger)
	if err != nil {
		return err
	}

	frames := c.Int(framesFlag)
	if c.Bool(realtimeFlag) {
		runner, err := scene.NewRunner(clock.New(), cfg.FrameRateHz, logger)
		if err != nil {
			return err
		}
		err = runner.Run(ctx, frames, sim.frame)
		if err != nil && ctx.Err() == nil {
			return err
		}
	} else {
		period, err := scene.FramePeriod(cfg.FrameRateHz)
		if err != nil {
			return err
		}
		for frame := 0; frame < frames && ctx.Err() == nil; frame++ {
			if err := sim.frame(frame, period); err != nil {
				return err
			}
		}
	}

	printf(c.App.Writer, "%s", sim.summary().String())
	if c.Bool(cellsFlag) {
		printf(c.App.Writer, "%s", cellTable(sim.scene.Index()))
	}
	if path := c.String(plotFlag); path != "" {
		if err := savePlot(sim, path); err != nil {
			return err
		}
		logger.Infow("saved plot", "path", path)
	}
	return nil
}

// newLogger returns a logger writing to the app's error writer and, when requested, to a size
// rotated log file. It logs at level unless --log-level or --debug says otherwise. The returned
// func syncs and closes it.
func newLogger(c *cli.Context, level logging.Level) (logging.Logger, func(), error) {
	if name := c.String(logLevelFlag); name != "" {
		parsed, err := logging.LevelFromString(name)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "invalid --%s", logLevelFlag)
		}
		level = parsed
	}
	if c.Bool(debugFlag) {
		level = logging.DEBUG
	}

	logger := logging.NewBlankLogger("sceneindex")
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	logger.SetLevel(level)

	var file *lumberjack.Logger
	if path := c.String(logFileFlag); path != "" {
		file = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    64,
			MaxBackups: 2,
			Compress:   true,
		}
		logger.AddAppender(logging.NewWriterAppender(file))
	}
	return logger, func() {
		goutils.UncheckedError(logger.Sync())
		if file != nil {
			goutils.UncheckedError(file.Close())
		}
	}, nil
}

func simulationConfig(c *cli.Context) (*scene.Config, error) {
	cfg := scene.DefaultConfig()
	if path := c.String(configFlag); path != "" {
		read, err := scene.ReadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = *read
	}
	if c.IsSet(objectsFlag) {
		cfg.Objects = c.Int(objectsFlag)
	}
	if c.IsSet(sizeFlag) {
		cfg.Octree.Size = c.Float64(sizeFlag)
	}
	if c.IsSet(depthFlag) {
		cfg.Octree.Depth = c.Int(depthFlag)
	}
	if c.IsSet(cleanEveryFlag) {
		cfg.CleanEvery = c.Int(cleanEveryFlag)
	}
	if c.IsSet(seedFlag) {
		cfg.Seed = c.Int64(seedFlag)
	}
	if err := cfg.Validate("scene"); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// simulation orbits a camera around a scene of bouncing objects and records per frame query
// measurements.
type simulation struct {
	logger  logging.Logger
	scene   *scene.Scene
	camera  *camera.Camera
	objects []*scene.Object
	orbit   float64

	queryMicros []float64
	visible     []float64
	picked      []float64
}

func newSimulation(cfg scene.Config, logger logging.Logger) (*simulation, error) {
	s, err := scene.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	cam, err := camera.New(cfg.Camera)
	if err != nil {
		return nil, err
	}

	//nolint:gosec
	rng := rand.New(rand.NewSource(cfg.Seed))
	objects := scene.RandomObjects(rng, cfg.Objects, s.Index().Bounds(), cfg.MaxHalfExtent, cfg.MaxSpeed)
	for _, obj := range objects {
		if err := s.Add(obj); err != nil {
			return nil, err
		}
	}
	logger.Infow("scene ready", "objects", s.Len(), "size", cfg.Octree.Size, "depth", cfg.Octree.Depth)

	return &simulation{
		logger:  logger,
		scene:   s,
		camera:  cam,
		objects: objects,
		orbit:   cfg.Camera.Position.Sub(cfg.Camera.Target).Norm(),
	}, nil
}

// frame advances the scene by dt and runs one frustum query and one pick query.
func (sim *simulation) frame(frame int, dt time.Duration) error {
	bounds := sim.scene.Index().Bounds()
	scene.Animate(sim.objects, dt.Seconds(), bounds)
	sim.scene.Step()

	angle := float64(frame) * dt.Seconds() * 0.5
	center := bounds.Center()
	sim.camera.Move(center.Add(r3.Vector{
		X: sim.orbit * math.Sin(angle),
		Z: sim.orbit * math.Cos(angle),
	}), center)

	start := time.Now()
	visible := sim.scene.Visible(sim.camera)
	sim.queryMicros = append(sim.queryMicros, float64(time.Since(start).Microseconds()))
	sim.visible = append(sim.visible, float64(len(visible)))

	if len(sim.objects) > 0 {
		target := sim.objects[frame%len(sim.objects)]
		sim.picked = append(sim.picked, float64(len(sim.scene.Pick(target.AABB()))))
	}
	sim.logger.Debugw("frame", "frame", frame, "visible", len(visible))
	return nil
}

type summary struct {
	frames      int
	objects     int
	meanQuery   float64
	stdDevQuery float64
	p95Query    float64
	meanVisible float64
	meanPicked  float64
	index       octree.Stats
}

func (sim *simulation) summary() summary {
	sum := summary{
		frames:  len(sim.visible),
		objects: sim.scene.Len(),
		index:   sim.scene.Index().Stats(),
	}
	if len(sim.queryMicros) > 1 {
		sum.meanQuery, sum.stdDevQuery = stat.MeanStdDev(sim.queryMicros, nil)
		sorted := append([]float64(nil), sim.queryMicros...)
		sort.Float64s(sorted)
		sum.p95Query = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	}
	if len(sim.visible) > 0 {
		sum.meanVisible = stat.Mean(sim.visible, nil)
	}
	if len(sim.picked) > 0 {
		sum.meanPicked = stat.Mean(sim.picked, nil)
	}
	return sum
}

// String renders the summary as a two column table.
func (sum summary) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"frames", sum.frames},
		{"objects", sum.objects},
		{"frustum query mean (us)", fmt.Sprintf("%.1f", sum.meanQuery)},
		{"frustum query stddev (us)", fmt.Sprintf("%.1f", sum.stdDevQuery)},
		{"frustum query p95 (us)", fmt.Sprintf("%.1f", sum.p95Query)},
		{"visible objects mean", fmt.Sprintf("%.1f", sum.meanVisible)},
		{"picked objects mean", fmt.Sprintf("%.1f", sum.meanPicked)},
		{"cells", sum.index.Cells},
		{"stored references", sum.index.StoredRefs},
		{"max depth used", sum.index.MaxDepthUsed},
		{"occupancy mean", fmt.Sprintf("%.2f", sum.index.MeanOccupancy)},
		{"occupancy stddev", fmt.Sprintf("%.2f", sum.index.StdDevOccupancy)},
	})
	return t.Render()
}

// cellTable renders every live cell of tree in walk order.
func cellTable(tree *octree.Octree) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Cell", "Parent", "Depth", "Center", "Size", "Nodes", "Children"})
	tree.Walk(func(info octree.CellInfo) bool {
		t.AppendRow(table.Row{
			info.ID,
			info.Parent,
			info.Depth,
			fmt.Sprintf("X:%.2f, Y:%.2f, Z:%.2f", info.Center.X, info.Center.Y, info.Center.Z),
			fmt.Sprintf("%.2f", info.Size),
			info.Nodes,
			info.NumChildren,
		})
		return true
	})
	return t.Render()
}
