package cli

import (
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// savePlot draws per frame frustum query time and visible object counts. The image format
// follows the extension of path.
func savePlot(sim *simulation, path string) error {
	p := plot.New()
	p.Title.Text = "frustum queries"
	p.X.Label.Text = "frame"

	if err := plotutil.AddLines(p,
		"query time (us)", series(sim.queryMicros),
		"visible objects", series(sim.visible),
	); err != nil {
		return errors.Wrap(err, "cannot build plot")
	}
	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "cannot save plot to %q", path)
	}
	return nil
}

func series(values []float64) plotter.XYs {
	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	return pts
}
