// Package debug writes optional, opt-in diagnostic artifacts describing
// a digitization run — currently, per-lead plots of the extracted
// signal, useful for spotting extraction artifacts that the numeric
// export alone wouldn't surface.
package debug

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"ecgdigitize/internal/core"
	"ecgdigitize/internal/pipeline"
)

// WriteGridDiagnostics renders one line-plot PNG per successfully
// digitized lead into dir, named lead-<id>.png. Leads that failed
// digitization are skipped, not an error.
func WriteGridDiagnostics(dir string, results map[core.LeadId]pipeline.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for id, r := range results {
		if r.Err != nil {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("lead-%s.png", id.String()))
		if err := plotSignal(path, id.String(), r.Signal); err != nil {
			return fmt.Errorf("plotting lead %s: %w", id, err)
		}
	}

	return nil
}

func plotSignal(path, title string, s core.Signal) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "sample"
	p.Y.Label.Text = "microvolts"

	points := make(plotter.XYs, 0, len(s))
	for i, v := range s {
		if math.IsNaN(v) {
			continue
		}
		points = append(points, plotter.XY{X: float64(i), Y: v})
	}

	line, err := plotter.NewLine(points)
	if err != nil {
		return err
	}
	p.Add(line)

	return p.Save(8*vg.Inch, 3*vg.Inch, path)
}
