package analysis

import (
	"sort"
	"strings"
	"time"

	"github.com/saucynandhu/femicideKEanalysis/internal/dataset"
)

// HighProfileCase is one reported case in the high-profile timeline.
type HighProfileCase struct {
	Date     time.Time `json:"date"`
	Victim   string    `json:"victim"`
	Location string    `json:"location"`
}

// HighProfileColumns are the columns HighProfile reads, aligned by row.
type HighProfileColumns struct {
	Medium   []dataset.Value
	Date     []dataset.Value
	Victim   []dataset.Value
	Location []dataset.Value
}

// HighProfile selects cases whose medium mentions one of the outlets
// (case-insensitive substring), keeps date, victim and location, drops rows
// with any of them missing, sorts by date and removes exact duplicates,
// keeping the first.
func HighProfile(cols HighProfileColumns, outlets []string) []HighProfileCase {
	needles := make([]string, 0, len(outlets))
	for _, o := range outlets {
		if o = strings.ToLower(strings.TrimSpace(o)); o != "" {
			needles = append(needles, o)
		}
	}

	var cases []HighProfileCase
	for i := range cols.Medium {
		if !mentionsOutlet(cols.Medium[i], needles) {
			continue
		}
		date, ok := at(cols.Date, i).AsDate()
		if !ok {
			continue
		}
		victim, location := at(cols.Victim, i), at(cols.Location, i)
		if victim.IsMissing() || location.IsMissing() {
			continue
		}
		cases = append(cases, HighProfileCase{Date: date, Victim: victim.String(), Location: location.String()})
	}

	sort.SliceStable(cases, func(i, j int) bool { return cases[i].Date.Before(cases[j].Date) })

	seen := make(map[HighProfileCase]struct{}, len(cases))
	out := cases[:0]
	for _, c := range cases {
		key := HighProfileCase{Date: c.Date.UTC(), Victim: c.Victim, Location: c.Location}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

func mentionsOutlet(medium dataset.Value, needles []string) bool {
	if medium.IsMissing() {
		return false
	}
	text := strings.ToLower(medium.String())
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func at(values []dataset.Value, i int) dataset.Value {
	if i < 0 || i >= len(values) {
		return dataset.Missing()
	}
	return values[i]
}
