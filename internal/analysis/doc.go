// Package analysis computes the descriptive summaries of a cleaned case
// dataset: frequency tables, the yearly trend, numeric distributions, word
// frequencies of free text and the high-profile case subset.
//
// Every function is pure. Inputs are dataset columns, outputs are plain
// values that the renderer and exporters consume.
//
// # Ordering
//
// Frequency tables are sorted by count descending with a stable sort, so
// labels with equal counts stay in the order they first appear in the data:
//
//	table := analysis.Frequencies(column).Top(10)
//
// The yearly trend is sorted by year ascending and carries the number of rows
// without a year separately.
package analysis
