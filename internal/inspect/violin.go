package inspect

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
)

const (
	violinPoints    = 64
	violinHalfWidth = 0.4
)

func violinCell(name string, classes []string, values map[string][]float64, _ GridOptions) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = name

	var names []string
	for i, class := range classes {
		vs := values[class]
		if len(vs) == 0 {
			continue
		}
		poly, err := plotter.NewPolygon(ViolinOutline(vs, float64(len(names)), violinHalfWidth))
		if err != nil {
			return nil, err
		}
		poly.Color = classColor(i)
		poly.LineStyle.Width = 0
		p.Add(poly)
		names = append(names, "label "+class)
	}
	if len(names) > 0 {
		p.NominalX(names...)
	}
	return p, nil
}

// ViolinOutline returns the closed outline of a Gaussian KDE of vs, mirrored
// around x = center and scaled so the widest point spans halfWidth.
func ViolinOutline(vs []float64, center, halfWidth float64) plotter.XYs {
	sorted := append([]float64(nil), vs...)
	sort.Float64s(sorted)

	bw := SilvermanBandwidth(sorted)
	lo, hi := sorted[0]-bw, sorted[len(sorted)-1]+bw

	ys := make([]float64, violinPoints)
	dens := make([]float64, violinPoints)
	floats.Span(ys, lo, hi)
	for i, y := range ys {
		dens[i] = gaussianKDE(sorted, bw, y)
	}
	peak := floats.Max(dens)
	if peak == 0 {
		peak = 1
	}

	outline := make(plotter.XYs, 0, 2*violinPoints)
	for i, y := range ys {
		outline = append(outline, plotter.XY{X: center + dens[i]/peak*halfWidth, Y: y})
	}
	for i := len(ys) - 1; i >= 0; i-- {
		outline = append(outline, plotter.XY{X: center - dens[i]/peak*halfWidth, Y: ys[i]})
	}
	return outline
}

// SilvermanBandwidth applies Silverman's rule of thumb to sorted values.
// Degenerate samples get a bandwidth scaled to their magnitude.
func SilvermanBandwidth(sorted []float64) float64 {
	n := float64(len(sorted))
	sd := 0.0
	if len(sorted) > 1 {
		sd = stat.StdDev(sorted, nil)
	}
	iqr := stat.Quantile(0.75, stat.Empirical, sorted, nil) - stat.Quantile(0.25, stat.Empirical, sorted, nil)

	spread := sd
	if iqr > 0 && iqr/1.34 < spread {
		spread = iqr / 1.34
	}
	bw := 0.9 * spread * math.Pow(n, -0.2)
	if bw > 0 && !math.IsNaN(bw) {
		return bw
	}
	return 0.1 * math.Max(math.Abs(sorted[0]), 1)
}

func gaussianKDE(sorted []float64, bw, y float64) float64 {
	var sum float64
	for _, v := range sorted {
		z := (y - v) / bw
		sum += math.Exp(-0.5 * z * z)
	}
	return sum / (float64(len(sorted)) * bw * math.Sqrt(2*math.Pi))
}
