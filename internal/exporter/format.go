package exporter

import (
	"github.com/saucynandhu/femicideKEanalysis/internal/analysis"
	"github.com/saucynandhu/femicideKEanalysis/internal/dataset"
)

// FrequencyTable renders a frequency table as a two-column sheet.
func FrequencyTable(sheet, labelHeader string, table analysis.FrequencyTable) Table {
	rows := make([][]interface{}, len(table))
	for i, e := range table {
		rows[i] = []interface{}{e.Label, e.Count}
	}
	return Table{Sheet: sheet, Headers: []string{labelHeader, "count"}, Rows: rows}
}

// TrendTable renders the yearly trend. Rows without a year get a trailing
// "missing" row when there are any.
func TrendTable(sheet string, trend analysis.Trend) Table {
	rows := make([][]interface{}, 0, len(trend.Years)+1)
	for _, yc := range trend.Years {
		rows = append(rows, []interface{}{yc.Year, yc.Count})
	}
	if trend.Missing > 0 {
		rows = append(rows, []interface{}{"missing", trend.Missing})
	}
	return Table{Sheet: sheet, Headers: []string{"year", "count"}, Rows: rows}
}

// SummaryStatsTable renders descriptive statistics as name/value pairs.
func SummaryStatsTable(sheet string, s analysis.Summary) Table {
	return Table{
		Sheet:   sheet,
		Headers: []string{"statistic", "value"},
		Rows: [][]interface{}{
			{"count", s.Count},
			{"min", s.Min},
			{"max", s.Max},
			{"mean", s.Mean},
			{"median", s.Median},
			{"std_dev", s.StdDev},
		},
	}
}

// HighProfileTable renders the high-profile cases with ISO dates.
func HighProfileTable(sheet string, cases []analysis.HighProfileCase) Table {
	rows := make([][]interface{}, len(cases))
	for i, c := range cases {
		rows[i] = []interface{}{c.Date.Format(dataset.DateLayout), c.Victim, c.Location}
	}
	return Table{Sheet: sheet, Headers: []string{"date of murder", "name of victim", "location"}, Rows: rows}
}
