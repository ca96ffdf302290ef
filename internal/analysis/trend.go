package analysis

import (
	"sort"

	"github.com/saucynandhu/femicideKEanalysis/internal/dataset"
)

// YearCount is the number of cases in one calendar year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// Trend holds cases per year in ascending year order. Rows without a year
// are counted separately and never assigned a year.
type Trend struct {
	Years   []YearCount `json:"years"`
	Missing int         `json:"missing"`
}

// YearlyTrend counts a derived year column.
func YearlyTrend(years []dataset.Value) Trend {
	counts := make(map[int]int)
	var trend Trend
	for _, v := range years {
		y, ok := v.AsNumber()
		if !ok {
			trend.Missing++
			continue
		}
		counts[int(y)]++
	}

	trend.Years = make([]YearCount, 0, len(counts))
	for y, c := range counts {
		trend.Years = append(trend.Years, YearCount{Year: y, Count: c})
	}
	sort.Slice(trend.Years, func(i, j int) bool { return trend.Years[i].Year < trend.Years[j].Year })
	return trend
}

// Total returns the number of rows with a year.
func (t Trend) Total() int {
	total := 0
	for _, yc := range t.Years {
		total += yc.Count
	}
	return total
}

// AsMap returns year to count.
func (t Trend) AsMap() map[int]int {
	out := make(map[int]int, len(t.Years))
	for _, yc := range t.Years {
		out[yc.Year] = yc.Count
	}
	return out
}
