package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/saucynandhu/femicideKEanalysis/internal/dataset"
)

// CoerceNumeric converts a column to numbers. Numeric text is parsed; any
// other non-missing value becomes missing and is counted.
func CoerceNumeric(values []dataset.Value) ([]dataset.Value, int) {
	out := make([]dataset.Value, len(values))
	coerced := 0
	for i, v := range values {
		switch v.Kind() {
		case dataset.KindNumber, dataset.KindMissing:
			out[i] = v
		case dataset.KindText:
			text, _ := v.AsText()
			if f, ok := dataset.ParseNumber(text); ok {
				out[i] = dataset.Number(f)
				continue
			}
			if text != "" {
				coerced++
			}
			out[i] = dataset.Missing()
		default:
			out[i] = dataset.Missing()
			coerced++
		}
	}
	return out, coerced
}

// NumericDistribution returns the numeric values of a column in row order,
// after coercion. Non-numeric and missing entries are excluded.
func NumericDistribution(values []dataset.Value) []float64 {
	coerced, _ := CoerceNumeric(values)
	var out []float64
	for _, v := range coerced {
		if f, ok := v.AsNumber(); ok {
			out = append(out, f)
		}
	}
	return out
}

// Summary describes a numeric distribution.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// Summarize computes descriptive statistics. An empty input gives a zero Summary.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s := Summary{
		Count:  len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   stat.Mean(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	return s
}
