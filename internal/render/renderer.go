package render

import (
	"image/color"
	"time"
)

// Renderer draws chart specs into image files. The output format follows the
// file extension of path.
type Renderer interface {
	LineChart(path string, chart LineChart) error
	BarChart(path string, chart BarChart) error
	Histogram(path string, chart Histogram) error
	WordCloud(path string, chart WordCloud) error
	Timeline(path string, chart Timeline) error
}

// LineChart plots Y against X with point markers.
type LineChart struct {
	Title  string
	XLabel string
	YLabel string
	X      []float64
	Y      []float64
}

// BarChart draws one bar per label. Horizontal charts list labels top down in
// the given order.
type BarChart struct {
	Title      string
	XLabel     string
	YLabel     string
	Labels     []string
	Values     []float64
	Horizontal bool
	Color      color.Color
	// RotateLabels slants category labels on vertical charts.
	RotateLabels bool
}

// Histogram bins Values into Bins equal-width buckets.
type Histogram struct {
	Title  string
	XLabel string
	YLabel string
	Values []float64
	Bins   int
	Color  color.Color
}

// Word is a term with its weight in a word cloud.
type Word struct {
	Text   string
	Weight float64
}

// WordCloud draws words sized by weight, heaviest first.
type WordCloud struct {
	Title string
	Words []Word
}

// Timeline plots each date against its index in the slice.
type Timeline struct {
	Title  string
	XLabel string
	YLabel string
	Dates  []time.Time
}

// Palette colors, one per chart family.
var (
	Red    = color.RGBA{R: 0xa5, G: 0x1c, B: 0x1c, A: 0xff}
	Purple = color.RGBA{R: 0x5e, G: 0x3c, B: 0x99, A: 0xff}
	Green  = color.RGBA{R: 0x31, G: 0x8c, B: 0x4a, A: 0xff}
	Orange = color.RGBA{R: 0xff, G: 0xa5, B: 0x00, A: 0xff}
	Blue   = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
)
