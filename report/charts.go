package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/destake/go-destake/sim"
)

// chartSize is the PNG canvas of every evolution chart.
const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 4 * vg.Inch
)

type series struct {
	name   string
	yLabel string
	color  color.RGBA
	values []float64
}

// runSeries lays out the four observables of a result in file order.
func runSeries(r *sim.Result) []series {
	nakamoto := make([]float64, len(r.Nakamoto))
	for i, v := range r.Nakamoto {
		nakamoto[i] = float64(v)
	}
	peers := make([]float64, len(r.PeerCount))
	for i, v := range r.PeerCount {
		peers[i] = float64(v)
	}
	return []series{
		{"gini", "Gini coefficient", color.RGBA{R: 31, G: 119, B: 180, A: 255}, r.Gini},
		{"nakamoto", "Nakamoto coefficient", color.RGBA{R: 255, G: 127, B: 14, A: 255}, nakamoto},
		{"hhi", "HHI", color.RGBA{R: 44, G: 160, B: 44, A: 255}, r.HHI},
		{"peers", "Peer count", color.RGBA{R: 214, G: 39, B: 40, A: 255}, peers},
	}
}

// WriteEvolutionCharts renders one PNG per observable (gini, nakamoto,
// hhi, peers over epochs) into dir and returns the written paths. A
// non-empty prefix is prepended to each file name.
func WriteEvolutionCharts(dir, prefix string, r *sim.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var paths []string
	for _, s := range runSeries(r) {
		name := s.name + ".png"
		if prefix != "" {
			name = fmt.Sprintf("%s_%s.png", prefix, s.name)
		}
		path := filepath.Join(dir, name)
		if err := writeLineChart(path, s); err != nil {
			return paths, fmt.Errorf("chart %s: %w", s.name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writeLineChart renders a single observable over epochs.
func writeLineChart(path string, s series) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s evolution", s.yLabel)
	p.X.Label.Text = "epoch"
	p.Y.Label.Text = s.yLabel
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(s.values))
	for i, v := range s.values {
		xys[i].X = float64(i)
		xys[i].Y = v
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	line.Color = s.color
	p.Add(line)

	return p.Save(chartWidth, chartHeight, path)
}
