package inspect

import (
	"image/color"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"propensity/pkg/errors"
)

// GridOptions controls the layout of a rendered grid.
type GridOptions struct {
	// Columns is the number of subplots per row.
	Columns    int
	CellWidth  vg.Length
	CellHeight vg.Length
	// Bins is the histogram bin count.
	Bins int
}

// DefaultGridOptions returns a six-column layout.
func DefaultGridOptions() GridOptions {
	return GridOptions{
		Columns:    6,
		CellWidth:  3 * vg.Inch,
		CellHeight: 2.5 * vg.Inch,
		Bins:       20,
	}
}

func (o GridOptions) withDefaults() GridOptions {
	d := DefaultGridOptions()
	if o.Columns <= 0 {
		o.Columns = d.Columns
	}
	if o.CellWidth <= 0 {
		o.CellWidth = d.CellWidth
	}
	if o.CellHeight <= 0 {
		o.CellHeight = d.CellHeight
	}
	if o.Bins <= 0 {
		o.Bins = d.Bins
	}
	return o
}

const titleHeight = 0.5 * vg.Inch

var classColors = []color.NRGBA{
	{R: 31, G: 119, B: 180, A: 150},
	{R: 255, G: 127, B: 14, A: 150},
	{R: 44, G: 160, B: 44, A: 150},
	{R: 214, G: 39, B: 40, A: 150},
}

func classColor(i int) color.NRGBA {
	return classColors[i%len(classColors)]
}

// cellFunc builds the subplot for one feature column.
type cellFunc func(name string, classes []string, values map[string][]float64, opts GridOptions) (*plot.Plot, error)

// RenderHistogramGrid writes a PNG grid with one normalized histogram per
// feature column, overlaid by label.
func RenderHistogramGrid(w io.Writer, d *Dataset, title string, opts GridOptions) error {
	return renderGrid(w, d, title, opts, histogramCell)
}

// RenderViolinGrid writes a PNG grid with one violin per label for every
// feature column.
func RenderViolinGrid(w io.Writer, d *Dataset, title string, opts GridOptions) error {
	return renderGrid(w, d, title, opts, violinCell)
}

// GridShape returns the rows and columns needed for n subplots.
func GridShape(n, columns int) (int, int) {
	if n == 0 || columns <= 0 {
		return 0, 0
	}
	if n < columns {
		return 1, n
	}
	return (n + columns - 1) / columns, columns
}

func renderGrid(w io.Writer, d *Dataset, title string, opts GridOptions, cell cellFunc) (err error) {
	defer errors.RecoverPanic(&err, errors.ErrCodeRenderFailed, "Plot rendering failed")

	opts = opts.withDefaults()
	if err := d.Validate(); err != nil {
		return err
	}

	features := d.FeatureColumns()
	if len(features) == 0 || len(d.Rows) == 0 {
		return errors.New(errors.ErrCodeEmptyDataset, "dataset has no feature rows to plot").
			WithContext("columns", len(d.Columns)).
			WithContext("rows", len(d.Rows))
	}

	rows, cols := GridShape(len(features), opts.Columns)
	plots := make([][]*plot.Plot, rows)
	for r := range plots {
		plots[r] = make([]*plot.Plot, cols)
	}

	classes := d.Labels()
	for i, col := range features {
		p, err := cell(d.Columns[col], classes, d.ByLabel(col), opts)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeRenderFailed, "Failed to build subplot").
				WithContext("column", d.Columns[col])
		}
		plots[i/cols][i%cols] = p
	}
	for r := range plots {
		for c := range plots[r] {
			if plots[r][c] == nil {
				blank := plot.New()
				blank.HideAxes()
				plots[r][c] = blank
			}
		}
	}

	width := vg.Length(cols) * opts.CellWidth
	height := vg.Length(rows)*opts.CellHeight + titleHeight
	img := vgimg.New(width, height)
	dc := draw.New(img)

	if title != "" {
		sty := plot.New().Title.TextStyle
		sty.Font.Size = vg.Points(16)
		dc.FillText(sty, vg.Point{X: width / 2, Y: height - titleHeight/4}, title)
	}

	tiles := draw.Tiles{
		Rows:      rows,
		Cols:      cols,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter,
		PadTop:    titleHeight,
		PadBottom: vg.Millimeter,
		PadLeft:   vg.Millimeter,
		PadRight:  vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, dc)
	for r := range plots {
		for c := range plots[r] {
			plots[r][c].Draw(canvases[r][c])
		}
	}

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(w); err != nil {
		return errors.Wrap(err, errors.ErrCodeRenderFailed, "Failed to encode PNG")
	}
	return nil
}

func histogramCell(name string, classes []string, values map[string][]float64, opts GridOptions) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = name
	p.Y.Label.Text = "density"
	p.Legend.Top = true

	for i, class := range classes {
		vs := values[class]
		if len(vs) == 0 {
			continue
		}
		h, err := newHist(vs, opts.Bins)
		if err != nil {
			return nil, err
		}
		h.Normalize(1)
		h.FillColor = classColor(i)
		h.LineStyle.Width = 0
		p.Add(h)
		p.Legend.Add("label "+class, h)
	}
	return p, nil
}

// newHist bins vs, placing constant columns in one unit-wide bin.
func newHist(vs []float64, bins int) (*plotter.Histogram, error) {
	lo, hi := floats.Min(vs), floats.Max(vs)
	if lo != hi {
		return plotter.NewHist(plotter.Values(vs), bins)
	}
	return &plotter.Histogram{
		Bins:      []plotter.HistogramBin{{Min: lo - 0.5, Max: lo + 0.5, Weight: float64(len(vs))}},
		Width:     1,
		LineStyle: plotter.DefaultLineStyle,
	}, nil
}
