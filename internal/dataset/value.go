package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind classifies a cell value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindText
	KindNumber
	KindDate
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "missing"
	}
}

// Value is a single cell: text, number, date or missing.
// The zero Value is missing.
type Value struct {
	kind   Kind
	text   string
	number float64
	date   time.Time
}

// Missing returns the missing marker.
func Missing() Value { return Value{} }

// Text wraps a string value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number wraps a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, number: f} }

// Date wraps a date value.
func Date(t time.Time) Value { return Value{kind: KindDate, date: t} }

// Kind reports the kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether v is the missing marker.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// AsText returns the text of a text value.
func (v Value) AsText() (string, bool) {
	return v.text, v.kind == KindText
}

// AsNumber returns the number of a numeric value.
func (v Value) AsNumber() (float64, bool) {
	return v.number, v.kind == KindNumber
}

// AsDate returns the time of a date value.
func (v Value) AsDate() (time.Time, bool) {
	return v.date, v.kind == KindDate
}

// String renders v the way the cleaned export writes it: missing is empty,
// numbers use the shortest representation, dates are ISO formatted with the
// clock appended only when it is not midnight.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	case KindDate:
		if v.date.Hour() == 0 && v.date.Minute() == 0 && v.date.Second() == 0 && v.date.Nanosecond() == 0 {
			return v.date.Format(DateLayout)
		}
		return v.date.Format(DateTimeLayout)
	default:
		return ""
	}
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.number == o.number
	case KindDate:
		return v.date.Equal(o.date)
	default:
		return true
	}
}

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// InferValue classifies a raw cell string. The empty string is missing,
// anything that parses as a finite float is a number, everything else is
// text kept verbatim ("nan" and "inf" stay text).
func InferValue(raw string) Value {
	if raw == "" {
		return Missing()
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		if f, ok := ParseNumber(trimmed); ok {
			return Number(f)
		}
	}
	return Text(raw)
}

// ParseNumber parses s as a finite float after trimming whitespace.
func ParseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
