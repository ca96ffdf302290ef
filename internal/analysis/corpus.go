package analysis

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/saucynandhu/femicideKEanalysis/internal/dataset"
)

// stopWords is a common English stop-word list, close to the one word-cloud
// generators ship with.
var stopWords = toSet(
	"a", "about", "above", "after", "again", "against", "all", "also", "am", "an", "and",
	"any", "are", "as", "at", "be", "because", "been", "before", "being", "below",
	"between", "both", "but", "by", "can", "could", "did", "do", "does", "doing",
	"down", "during", "each", "else", "ever", "few", "for", "from", "further", "get",
	"had", "has", "have", "having", "he", "her", "here", "hers", "herself", "him",
	"himself", "his", "how", "however", "i", "if", "in", "into", "is", "it", "its",
	"itself", "just", "me", "more", "most", "my", "myself", "no", "nor", "not", "of",
	"off", "on", "once", "only", "or", "other", "otherwise", "ought", "our", "ours",
	"ourselves", "out", "over", "own", "same", "shall", "she", "should", "since", "so",
	"some", "such", "than", "that", "the", "their", "theirs", "them", "themselves",
	"then", "there", "these", "they", "this", "those", "through", "to", "too", "under",
	"until", "up", "very", "was", "we", "were", "what", "when", "where", "which",
	"while", "who", "whom", "why", "with", "would", "you", "your", "yours",
	"yourself", "yourselves", "s", "t", "r", "k", "www", "http", "com",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// IsStopWord reports whether w is ignored when counting words.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

// Corpus joins the non-missing values of a column with single spaces.
func Corpus(values []dataset.Value) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		parts = append(parts, v.String())
	}
	return strings.Join(parts, " ")
}

// WordFrequencies splits text into lowercase words and counts them, skipping
// stop words, single letters and pure numbers. The result is sorted by count
// descending, ties alphabetically, and cut to maxWords when positive.
func WordFrequencies(text string, maxWords int) FrequencyTable {
	lower := cases.Lower(language.English).String(text)
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	counts := make(map[string]int)
	for _, w := range words {
		w = strings.Trim(w, "'")
		w = strings.TrimSuffix(w, "'s")
		if len([]rune(w)) < 2 || IsStopWord(w) || isNumber(w) {
			continue
		}
		counts[w]++
	}

	table := make(FrequencyTable, 0, len(counts))
	for w, c := range counts {
		table = append(table, Entry{Label: w, Count: c})
	}
	sort.Slice(table, func(i, j int) bool {
		if table[i].Count != table[j].Count {
			return table[i].Count > table[j].Count
		}
		return table[i].Label < table[j].Label
	})
	return table.Top(maxWords)
}

func isNumber(w string) bool {
	for _, r := range w {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
