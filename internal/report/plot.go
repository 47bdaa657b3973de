package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/vovakirdan/flaptrain/internal/optimize"
)

var (
	fitnessColor = color.RGBA{R: 40, G: 110, B: 200, A: 255}
	averageColor = color.RGBA{R: 220, G: 80, B: 40, A: 255}
)

// Chart builds a fitness-per-generation plot with the trailing moving
// average drawn dashed on top.
func Chart(title string, history []optimize.Generation) (*plot.Plot, error) {
	if len(history) == 0 {
		return nil, ErrEmptyHistory
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Fitness"

	fitPts := make(plotter.XYs, len(history))
	avgPts := make(plotter.XYs, len(history))
	for i, g := range history {
		fitPts[i].X = float64(g.Index)
		fitPts[i].Y = g.Fitness
		avgPts[i].X = float64(g.Index)
		avgPts[i].Y = g.MovingAverage
	}

	fitLine, err := plotter.NewLine(fitPts)
	if err != nil {
		return nil, fmt.Errorf("report: fitness line: %w", err)
	}
	fitLine.LineStyle.Color = fitnessColor
	fitLine.LineStyle.Width = vg.Points(1)

	avgLine, err := plotter.NewLine(avgPts)
	if err != nil {
		return nil, fmt.Errorf("report: average line: %w", err)
	}
	avgLine.LineStyle.Color = averageColor
	avgLine.LineStyle.Width = vg.Points(1.5)
	avgLine.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}

	p.Add(plotter.NewGrid(), fitLine, avgLine)
	p.Legend.Add("fitness", fitLine)
	p.Legend.Add(fmt.Sprintf("moving avg (%d)", optimize.MovingWindow), avgLine)
	p.Legend.Top = true
	p.Legend.Left = true

	return p, nil
}

// SavePlot renders the chart to an image file. The format follows the
// extension (png, svg, pdf).
func SavePlot(path, title string, history []optimize.Generation) error {
	p, err := Chart(title, history)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report: creating directory: %w", err)
	}
	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("report: saving plot: %w", err)
	}
	return nil
}
