package temporal

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saucynandhu/femicideKEanalysis/internal/dataset"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParser_ParseText(t *testing.T) {
	p := NewParser(false)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"iso", "2016-01-01", day(2016, time.January, 1)},
		{"iso with time", "2016-01-01 14:30:00", time.Date(2016, time.January, 1, 14, 30, 0, 0, time.UTC)},
		{"slashed iso", "2018/07/09", day(2018, time.July, 9)},
		{"month first", "3/4/2017", day(2017, time.March, 4)},
		{"two digit year", "01-02-18", day(2018, time.January, 2)},
		{"long month", "January 5, 2019", day(2019, time.January, 5)},
		{"ordinal suffix", "5th March 2020", day(2020, time.March, 5)},
		{"ordinal with comma", "March 22nd, 2021", day(2021, time.March, 22)},
		{"lower case month", "12 june 2016", day(2016, time.June, 12)},
		{"short month", "2-Feb-2017", day(2017, time.February, 2)},
		{"month and year only", "April 2018", day(2018, time.April, 1)},
		{"extra whitespace", "  2016-06-01  ", day(2016, time.June, 1)},
		{"year and month", "2016-03", day(2016, time.March, 1)},
		{"year only", "2016", day(2016, time.January, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.ParseText(tt.input)
			require.True(t, ok, tt.input)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestParser_Malformed(t *testing.T) {
	p := NewParser(false)

	for _, input := range []string{"", "   ", "unknown", "not a date", "2016-13-45", "32/01/2016", "sometime in 2016"} {
		t.Run(input, func(t *testing.T) {
			_, ok := p.ParseText(input)
			assert.False(t, ok)

			v, ok := p.Parse(dataset.Text(input))
			assert.False(t, ok)
			assert.True(t, v.IsMissing())
		})
	}
}

func TestParser_DayFirst(t *testing.T) {
	tests := []struct {
		name     string
		dayFirst bool
		input    string
		want     time.Time
	}{
		{"ambiguous month first", false, "03/04/2017", day(2017, time.March, 4)},
		{"ambiguous day first", true, "03/04/2017", day(2017, time.April, 3)},
		{"day over twelve falls back to day first", false, "14/03/2016", day(2016, time.March, 14)},
		{"day over twelve falls back to month first", true, "03/14/2016", day(2016, time.March, 14)},
		{"two digit year falls back", false, "25-12-16", day(2016, time.December, 25)},
		// ISO layouts are tried before either numeric order.
		{"iso with day first", true, "2017-03-04", day(2017, time.March, 4)},
		{"year and month", false, "2016-03", day(2016, time.March, 1)},
		{"year and month day first", true, "2016-03", day(2016, time.March, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NewParser(tt.dayFirst).ParseText(tt.input)
			require.True(t, ok, tt.input)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestParser_LayoutOrder(t *testing.T) {
	layouts := NewParser(true).Layouts()
	require.NotEmpty(t, layouts)
	assert.Equal(t, "2006-01-02", layouts[0])
	assert.Less(t, slices.Index(layouts, "2/1/2006"), slices.Index(layouts, "1/2/2006"))
	assert.Less(t, slices.Index(layouts, "2006-01"), slices.Index(layouts, "2/1/2006"))
	assert.Equal(t, "Jan 2006", layouts[len(layouts)-1])

	layouts = NewParser(false).Layouts()
	assert.Less(t, slices.Index(layouts, "1/2/2006"), slices.Index(layouts, "2/1/2006"))
}

func TestParser_YearOnly(t *testing.T) {
	p := NewParser(false)
	want := day(2016, time.January, 1)

	tests := []struct {
		name  string
		input dataset.Value
	}{
		{"inferred from csv text", dataset.InferValue("2016")},
		{"text cell", dataset.Text("2016")},
		{"numeric cell", dataset.Number(2016)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := p.Parse(tt.input)
			require.True(t, ok)
			got, isDate := v.AsDate()
			require.True(t, isDate)
			assert.True(t, want.Equal(got), "want %s, got %s", want, got)
		})
	}

	// Fractional values are still serials.
	v, ok := p.Parse(dataset.Number(2016.5))
	require.True(t, ok)
	got, _ := v.AsDate()
	assert.Equal(t, 1905, got.Year())
}

func TestParser_ParseValues(t *testing.T) {
	p := NewParser(false)
	when := day(2016, time.March, 14)

	v, ok := p.Parse(dataset.Date(when))
	assert.True(t, ok)
	assert.Equal(t, dataset.Date(when), v)

	v, ok = p.Parse(dataset.Missing())
	assert.True(t, ok)
	assert.True(t, v.IsMissing())

	// 42443 is 2016-03-14 in the 1900 date system.
	v, ok = p.Parse(dataset.Number(42443))
	require.True(t, ok)
	got, isDate := v.AsDate()
	require.True(t, isDate)
	assert.Equal(t, "2016-03-14", got.Format(dataset.DateLayout))

	v, ok = p.Parse(dataset.Number(-4))
	assert.False(t, ok)
	assert.True(t, v.IsMissing())
}

func TestFromExcelSerial(t *testing.T) {
	got, ok := FromExcelSerial(43101)
	require.True(t, ok)
	assert.Equal(t, "2018-01-01", got.Format(dataset.DateLayout))

	_, ok = FromExcelSerial(0)
	assert.False(t, ok)
	_, ok = FromExcelSerial(3e6)
	assert.False(t, ok)
}

func TestParseColumn(t *testing.T) {
	p := NewParser(false)

	out, stats := p.ParseColumn([]dataset.Value{
		dataset.Text("2016-01-01"),
		dataset.Text("garbage"),
		dataset.Missing(),
		dataset.Number(42443),
	})

	require.Len(t, out, 4)
	assert.Equal(t, 2, stats.Parsed)
	assert.Equal(t, 2, stats.Missing)
	assert.Equal(t, 1, stats.Coerced)
	assert.Equal(t, []string{"garbage"}, stats.Samples)
	assert.True(t, out[1].IsMissing())
}

func TestDeriveYear(t *testing.T) {
	p := NewParser(false)
	dates, _ := p.ParseColumn([]dataset.Value{
		dataset.Text("2016-01-01"),
		dataset.Text("not a date"),
		dataset.Missing(),
		dataset.Text("2017-03-01"),
	})

	years := DeriveYear(dates)
	require.Len(t, years, 4)
	assert.Equal(t, dataset.Number(2016), years[0])
	assert.True(t, years[1].IsMissing(), "malformed date yields missing year")
	assert.True(t, years[2].IsMissing())
	assert.Equal(t, dataset.Number(2017), years[3])
}
