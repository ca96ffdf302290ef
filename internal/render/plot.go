package render

import (
	"image/color"
	"math"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	apperrors "github.com/saucynandhu/femicideKEanalysis/internal/errors"
)

// Chart sizes in inches, one per chart kind.
var (
	lineSize      = size{10, 5}
	barSize       = size{10, 6}
	verdictSize   = size{8, 5}
	histogramSize = size{10, 5}
	cloudSize     = size{12, 6}
	timelineSize  = size{12, 5}
)

type size struct{ w, h float64 }

func (s size) lengths() (vg.Length, vg.Length) {
	return vg.Length(s.w) * vg.Inch, vg.Length(s.h) * vg.Inch
}

// PlotRenderer renders charts with gonum/plot.
type PlotRenderer struct {
	// MinFontSize and MaxFontSize bound word cloud font sizes, in points.
	MinFontSize float64
	MaxFontSize float64
}

// NewPlotRenderer creates a renderer with default word cloud font sizes.
func NewPlotRenderer() *PlotRenderer {
	return &PlotRenderer{MinFontSize: 8, MaxFontSize: 60}
}

var _ Renderer = (*PlotRenderer)(nil)

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

func save(p *plot.Plot, s size, path string) error {
	w, h := s.lengths()
	if err := p.Save(w, h, path); err != nil {
		return renderErr(path, err)
	}
	return nil
}

func renderErr(path string, err error) error {
	return apperrors.NewRenderError(filepath.Base(path), err).WithContext("path", path)
}

// LineChart draws a line with point markers and a background grid.
func (r *PlotRenderer) LineChart(path string, c LineChart) error {
	p := newPlot(c.Title, c.XLabel, c.YLabel)
	p.Add(plotter.NewGrid())

	n := len(c.X)
	if len(c.Y) < n {
		n = len(c.Y)
	}
	if n > 0 {
		xys := make(plotter.XYs, n)
		for i := 0; i < n; i++ {
			xys[i].X, xys[i].Y = c.X[i], c.Y[i]
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return renderErr(path, err)
		}
		line.Color = Blue
		points.Color = Blue
		points.Shape = draw.CircleGlyph{}
		p.Add(line, points)
		p.X.Tick.Marker = integerTicks{}
	}
	return save(p, lineSize, path)
}

// BarChart draws horizontal or vertical bars with category labels.
func (r *PlotRenderer) BarChart(path string, c BarChart) error {
	p := newPlot(c.Title, c.XLabel, c.YLabel)

	n := len(c.Labels)
	if len(c.Values) < n {
		n = len(c.Values)
	}
	s := barSize
	if !c.Horizontal {
		s = verdictSize
	}
	if n == 0 {
		return save(p, s, path)
	}

	values := make(plotter.Values, n)
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		values[i] = c.Values[i]
		labels[i] = c.Labels[i]
	}
	if c.Horizontal {
		// Bars are drawn bottom up; reverse so the first label sits on top.
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			values[i], values[j] = values[j], values[i]
			labels[i], labels[j] = labels[j], labels[i]
		}
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return renderErr(path, err)
	}
	bars.Horizontal = c.Horizontal
	bars.Color = c.Color
	if bars.Color == nil {
		bars.Color = Red
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	if c.Horizontal {
		p.NominalY(labels...)
		p.X.Min = 0
	} else {
		p.NominalX(labels...)
		p.Y.Min = 0
		if c.RotateLabels {
			p.X.Tick.Label.Rotation = math.Pi / 4
			p.X.Tick.Label.XAlign = draw.XRight
			p.X.Tick.Label.YAlign = draw.YCenter
		}
	}
	return save(p, s, path)
}

// Histogram draws an equal-width histogram. An empty distribution produces
// a chart with axes only.
func (r *PlotRenderer) Histogram(path string, c Histogram) error {
	p := newPlot(c.Title, c.XLabel, c.YLabel)
	if len(c.Values) > 0 {
		bins := c.Bins
		if bins <= 0 {
			bins = 10
		}
		h, err := plotter.NewHist(plotter.Values(c.Values), bins)
		if err != nil {
			return renderErr(path, err)
		}
		h.FillColor = c.Color
		if h.FillColor == nil {
			h.FillColor = Orange
		}
		h.LineStyle.Color = color.Black
		p.Add(h)
	}
	return save(p, histogramSize, path)
}

// WordCloud lays words out on a spiral and draws them with sizes scaled by
// weight. Axes are hidden.
func (r *PlotRenderer) WordCloud(path string, c WordCloud) error {
	p := newPlot(c.Title, "", "")
	p.HideAxes()
	p.X.Padding, p.Y.Padding = 0, 0

	w, h := cloudSize.lengths()
	width, height := w.Points(), h.Points()*0.9

	measure := func(txt string, pt float64) (float64, float64) {
		sty := text.Style{Font: font.From(plotter.DefaultFont, vg.Points(pt)), Handler: plot.DefaultTextHandler}
		return sty.Width(txt).Points(), sty.Height(txt).Points()
	}

	placed := layoutWords(c.Words, width, height, r.MinFontSize, r.MaxFontSize, measure)
	if len(placed) > 0 {
		xys := make(plotter.XYs, len(placed))
		labels := make([]string, len(placed))
		for i, pw := range placed {
			xys[i].X, xys[i].Y = pw.X, pw.Y
			labels[i] = pw.Text
		}
		l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return renderErr(path, err)
		}
		for i, pw := range placed {
			l.TextStyle[i].Font.Size = vg.Points(pw.Size)
			l.TextStyle[i].XAlign = draw.XCenter
			l.TextStyle[i].YAlign = draw.YCenter
			l.TextStyle[i].Color = cloudColor(i)
		}
		p.Add(l)
	}

	p.X.Min, p.X.Max = 0, width
	p.Y.Min, p.Y.Max = 0, height
	return save(p, cloudSize, path)
}

func cloudColor(i int) color.Color {
	palette := []color.Color{Red, Purple, Green, Blue, Orange}
	return palette[i%len(palette)]
}

// Timeline plots dates on a time axis against their position in the slice.
func (r *PlotRenderer) Timeline(path string, c Timeline) error {
	p := newPlot(c.Title, c.XLabel, c.YLabel)
	p.Add(plotter.NewGrid())

	if len(c.Dates) > 0 {
		xys := make(plotter.XYs, len(c.Dates))
		for i, d := range c.Dates {
			xys[i].X = float64(d.Unix())
			xys[i].Y = float64(i)
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return renderErr(path, err)
		}
		line.Color = Blue
		points.Color = Blue
		points.Shape = draw.CircleGlyph{}
		p.Add(line, points)
		p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	}
	return save(p, timelineSize, path)
}

// integerTicks labels only whole numbers, for year axes.
type integerTicks struct{}

func (integerTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	if math.IsInf(min, 0) || math.IsInf(max, 0) || max < min {
		return ticks
	}
	step := math.Max(1, math.Ceil((max-min)/10))
	for v := math.Ceil(min); v <= max; v += step {
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', 0, 64)})
	}
	return ticks
}
