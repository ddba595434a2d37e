// Package visualization renders the diagnostic charts of a regression
// run: observed-vs-predicted scatter, residual distribution, and
// permutation feature importances. Charts are written as PNG files.
package visualization

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	qdErrors "github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/pkg/errors"
)

// ObservedPredicted renders the observed and predicted test values of a
// target as two scatter series indexed by sample position.
func ObservedPredicted(observed, predicted []float64, target, path string) error {
	if len(observed) != len(predicted) {
		return qdErrors.NewDimensionError("visualization.ObservedPredicted",
			len(observed), len(predicted), 0)
	}
	if len(observed) == 0 {
		return qdErrors.NewValueError("visualization.ObservedPredicted", "no samples to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: observed vs predicted", target)
	p.X.Label.Text = "Sample index"
	p.Y.Label.Text = target

	obsPts := make(plotter.XYs, len(observed))
	predPts := make(plotter.XYs, len(predicted))
	for i := range observed {
		obsPts[i].X = float64(i)
		obsPts[i].Y = observed[i]
		predPts[i].X = float64(i)
		predPts[i].Y = predicted[i]
	}

	obsScatter, err := plotter.NewScatter(obsPts)
	if err != nil {
		return qdErrors.Wrap(err, "creating observed scatter")
	}
	obsScatter.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(obsScatter)
	p.Legend.Add("Observed", obsScatter)

	predScatter, err := plotter.NewScatter(predPts)
	if err != nil {
		return qdErrors.Wrap(err, "creating predicted scatter")
	}
	predScatter.GlyphStyle.Shape = draw.CrossGlyph{}
	predScatter.GlyphStyle.Color = plotter.DefaultLineStyle.Color
	p.Add(predScatter)
	p.Legend.Add("Predicted", predScatter)

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return qdErrors.Wrap(err, "saving observed/predicted plot")
	}
	return nil
}

// ResidualHist renders a histogram of test residuals with a Gaussian
// kernel density overlay. The KDE bandwidth follows Silverman's rule of
// thumb.
func ResidualHist(residuals []float64, target, path string) error {
	if len(residuals) == 0 {
		return qdErrors.NewValueError("visualization.ResidualHist", "no residuals to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: residual distribution", target)
	p.X.Label.Text = "Residual"
	p.Y.Label.Text = "Density"

	values := make(plotter.Values, len(residuals))
	copy(values, residuals)

	bins := int(math.Ceil(math.Sqrt(float64(len(residuals)))))
	hist, err := plotter.NewHist(values, bins)
	if err != nil {
		return qdErrors.Wrap(err, "creating residual histogram")
	}
	hist.Normalize(1)
	p.Add(hist)

	kdePts, err := kdeCurve(residuals, 100)
	if err == nil {
		line, lineErr := plotter.NewLine(kdePts)
		if lineErr != nil {
			return qdErrors.Wrap(lineErr, "creating KDE line")
		}
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add("Gaussian KDE", line)
	}

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return qdErrors.Wrap(err, "saving residual plot")
	}
	return nil
}

// ImportanceBar renders permutation importances as a bar chart with one
// labeled bar per feature.
func ImportanceBar(names []string, scores []float64, target, path string) error {
	if len(names) != len(scores) {
		return qdErrors.NewDimensionError("visualization.ImportanceBar",
			len(names), len(scores), 0)
	}
	if len(names) == 0 {
		return qdErrors.NewValueError("visualization.ImportanceBar", "no features to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: permutation importance", target)
	p.Y.Label.Text = "Mean R² drop"

	values := make(plotter.Values, len(scores))
	copy(values, scores)

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return qdErrors.Wrap(err, "creating importance bars")
	}
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = -1
	p.X.Tick.Label.YAlign = -0.5

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return qdErrors.Wrap(err, "saving importance plot")
	}
	return nil
}

// kdeCurve evaluates a Gaussian kernel density estimate of the samples on
// a uniform grid spanning the data range padded by two bandwidths.
func kdeCurve(samples []float64, gridSize int) (plotter.XYs, error) {
	n := float64(len(samples))

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= n

	variance := 0.0
	for _, v := range samples {
		d := v - mean
		variance += d * d
	}
	variance /= n
	std := math.Sqrt(variance)
	if std <= 0 {
		return nil, qdErrors.NewValueError("visualization.kdeCurve", "zero-variance residuals")
	}

	// Silverman's rule of thumb.
	bandwidth := 1.06 * std * math.Pow(n, -0.2)

	lo, hi := samples[0], samples[0]
	for _, v := range samples {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	lo -= 2 * bandwidth
	hi += 2 * bandwidth

	pts := make(plotter.XYs, gridSize)
	step := (hi - lo) / float64(gridSize-1)
	norm := 1.0 / (n * bandwidth * math.Sqrt(2*math.Pi))
	for i := 0; i < gridSize; i++ {
		x := lo + float64(i)*step
		density := 0.0
		for _, v := range samples {
			z := (x - v) / bandwidth
			density += math.Exp(-0.5 * z * z)
		}
		pts[i].X = x
		pts[i].Y = density * norm
	}
	return pts, nil
}
