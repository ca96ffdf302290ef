package analysis

import (
	"sort"

	"github.com/saucynandhu/femicideKEanalysis/internal/dataset"
)

// Entry is one row of a frequency table.
type Entry struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// FrequencyTable maps categories to occurrence counts, ordered.
type FrequencyTable []Entry

// Frequencies counts non-missing values by their rendered text, sorted by
// count descending. Equal counts keep the order in which each label was
// first seen.
func Frequencies(values []dataset.Value) FrequencyTable {
	index := make(map[string]int)
	var table FrequencyTable
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		label := v.String()
		if i, ok := index[label]; ok {
			table[i].Count++
			continue
		}
		index[label] = len(table)
		table = append(table, Entry{Label: label, Count: 1})
	}
	table.SortByCountDesc()
	return table
}

// SortByCountDesc sorts in place, keeping the relative order of ties.
func (t FrequencyTable) SortByCountDesc() {
	sort.SliceStable(t, func(i, j int) bool { return t[i].Count > t[j].Count })
}

// Top returns the first n entries, or the whole table when n <= 0 or n exceeds it.
func (t FrequencyTable) Top(n int) FrequencyTable {
	if n <= 0 || n >= len(t) {
		return t
	}
	return t[:n]
}

// Total sums all counts.
func (t FrequencyTable) Total() int {
	total := 0
	for _, e := range t {
		total += e.Count
	}
	return total
}

// Labels returns the labels in table order.
func (t FrequencyTable) Labels() []string {
	out := make([]string, len(t))
	for i, e := range t {
		out[i] = e.Label
	}
	return out
}

// Counts returns the counts in table order.
func (t FrequencyTable) Counts() []float64 {
	out := make([]float64, len(t))
	for i, e := range t {
		out[i] = float64(e.Count)
	}
	return out
}
