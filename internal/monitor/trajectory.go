package monitor

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/norvegicus-data/behavior.report/internal/behavior"
)

// PlotTrajectory writes a PNG of the nose path with the arena's horizontal
// band boundaries overlaid. Frames without a nose position are skipped.
// Coordinates are image coordinates (y grows downward).
func PlotTrajectory(results []behavior.FrameResult, arena behavior.ArenaCalibration, path string) error {
	pts := make(plotter.XYs, 0, len(results))
	for _, r := range results {
		if math.IsNaN(r.NoseX) || math.IsNaN(r.NoseY) {
			continue
		}
		pts = append(pts, plotter.XY{X: r.NoseX, Y: r.NoseY})
	}
	if len(pts) == 0 {
		return fmt.Errorf("no valid nose positions to plot")
	}

	p := plot.New()
	p.Title.Text = "Nose Trajectory"
	p.X.Label.Text = "X (px)"
	p.Y.Label.Text = "Y (px, image coordinates)"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	line.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	p.Add(line)
	p.Legend.Add("nose", line)

	if arena.Valid() {
		for i := 1; i < 4; i++ {
			y := arena.TopLeft.Y + float64(i)/4*arena.Height()
			boundary, err := plotter.NewLine(plotter.XYs{
				{X: arena.TopLeft.X, Y: y},
				{X: arena.BottomRight.X, Y: y},
			})
			if err != nil {
				return err
			}
			boundary.Color = color.RGBA{R: 128, G: 128, B: 128, A: 255}
			boundary.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
			p.Add(boundary)
		}
		// Frame the whole arena even when the path hugs one band.
		p.X.Min, p.X.Max = arena.TopLeft.X, arena.BottomRight.X
		p.Y.Min, p.Y.Max = arena.TopLeft.Y, arena.BottomRight.Y
	}

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}
