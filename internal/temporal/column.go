package temporal

import (
	"github.com/saucynandhu/femicideKEanalysis/internal/dataset"
)

const maxCoercedSamples = 5

// ColumnStats summarizes one ParseColumn call.
type ColumnStats struct {
	Parsed  int
	Missing int
	// Coerced counts values that were present but could not be read as a date.
	Coerced int
	Samples []string
}

// ParseColumn parses every value of a column. It never fails: unreadable
// values become missing and are counted in the returned stats.
func (p *Parser) ParseColumn(values []dataset.Value) ([]dataset.Value, ColumnStats) {
	out := make([]dataset.Value, len(values))
	var stats ColumnStats

	for i, v := range values {
		parsed, ok := p.Parse(v)
		out[i] = parsed
		switch {
		case !ok:
			stats.Coerced++
			stats.Missing++
			if len(stats.Samples) < maxCoercedSamples {
				stats.Samples = append(stats.Samples, v.String())
			}
		case parsed.IsMissing():
			stats.Missing++
		default:
			stats.Parsed++
		}
	}
	return out, stats
}

// DeriveYear extracts the calendar year of each date. Anything that is not a
// date yields missing, never a zero year.
func DeriveYear(dates []dataset.Value) []dataset.Value {
	out := make([]dataset.Value, len(dates))
	for i, v := range dates {
		t, ok := v.AsDate()
		if !ok {
			out[i] = dataset.Missing()
			continue
		}
		out[i] = dataset.Number(float64(t.Year()))
	}
	return out
}
