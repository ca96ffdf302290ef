package temporal

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/saucynandhu/femicideKEanalysis/internal/dataset"
)

// Excel serial range accepted as a date: 1900-01-01 through 9999-12-31.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// Whole numbers in this range are calendar years, not serials.
const (
	minYear = 1000
	maxYear = 9999
)

var ordinalSuffix = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)

var isoLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"2006.01.02",
	"2006-01",
	"2006",
}

var monthFirstLayouts = []string{
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1-2-2006",
	"1.2.2006",
	"1/2/06",
	"01-02-06",
}

var dayFirstLayouts = []string{
	"2/1/2006",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"2-1-2006",
	"2.1.2006",
	"2/1/06",
	"02-01-06",
}

var namedMonthLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"2 January 2006",
	"2 January, 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"2-Jan-2006",
	"02-Jan-06",
	"Monday, January 2, 2006",
	"Monday, 2 January 2006",
	"Mon, Jan 2, 2006",
	"January 2006",
	"Jan 2006",
}

// Parser converts heterogeneous date cells into date values. Text is tried
// against ISO layouts first, then numeric layouts in the configured order,
// then the other numeric order, then layouts with month names.
type Parser struct {
	layouts []string
}

// NewParser creates a parser. dayFirst selects day/month/year for ambiguous
// numeric dates; otherwise month/day/year is assumed. A numeric date that is
// invalid in the preferred order ("14/03/2016" read month first) is retried
// in the other order.
func NewParser(dayFirst bool) *Parser {
	preferred, fallback := monthFirstLayouts, dayFirstLayouts
	if dayFirst {
		preferred, fallback = dayFirstLayouts, monthFirstLayouts
	}
	layouts := make([]string, 0, len(isoLayouts)+len(preferred)+len(fallback)+len(namedMonthLayouts))
	layouts = append(layouts, isoLayouts...)
	layouts = append(layouts, preferred...)
	layouts = append(layouts, fallback...)
	layouts = append(layouts, namedMonthLayouts...)
	return &Parser{layouts: layouts}
}

// Layouts returns the ordered layout list.
func (p *Parser) Layouts() []string {
	out := make([]string, len(p.layouts))
	copy(out, p.layouts)
	return out
}

// Parse converts one value. Dates pass through, whole numbers from 1000 to
// 9999 are years (January 1st), other numbers are read as Excel serial dates
// and text is matched against the layout list. Anything that cannot be read
// becomes missing and ok is false.
func (p *Parser) Parse(v dataset.Value) (dataset.Value, bool) {
	switch v.Kind() {
	case dataset.KindMissing:
		return v, true
	case dataset.KindDate:
		return v, true
	case dataset.KindNumber:
		n, _ := v.AsNumber()
		if n == math.Trunc(n) && n >= minYear && n <= maxYear {
			return dataset.Date(time.Date(int(n), time.January, 1, 0, 0, 0, 0, time.UTC)), true
		}
		t, ok := FromExcelSerial(n)
		if !ok {
			return dataset.Missing(), false
		}
		return dataset.Date(t), true
	default:
		text, _ := v.AsText()
		t, ok := p.ParseText(text)
		if !ok {
			return dataset.Missing(), false
		}
		return dataset.Date(t), true
	}
}

// ParseText parses a textual date. Surrounding whitespace, repeated spaces and
// ordinal suffixes ("1st", "22nd") are removed before matching.
func (p *Parser) ParseText(s string) (time.Time, bool) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return time.Time{}, false
	}
	s = ordinalSuffix.ReplaceAllString(s, "$1")

	for _, layout := range p.layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FromExcelSerial converts an Excel 1900-system serial date.
func FromExcelSerial(serial float64) (time.Time, bool) {
	if serial < minExcelSerial || serial > maxExcelSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
