package cleaning

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/saucynandhu/femicideKEanalysis/internal/dataset"
)

// Normalizer lowercases, trims and canonicalizes free-text categorical values.
type Normalizer struct {
	rules *RuleSet
	lower cases.Caser
}

// NewNormalizer creates a normalizer applying rules after case folding.
func NewNormalizer(rules *RuleSet) *Normalizer {
	return &Normalizer{
		rules: rules,
		lower: cases.Lower(language.Und),
	}
}

// NormalizeText returns s NFKC-normalized, trimmed, lowercased and rewritten
// by the rule set.
func (n *Normalizer) NormalizeText(s string) string {
	s = norm.NFKC.String(s)
	s = strings.TrimSpace(s)
	s = n.lower.String(s)
	if n.rules != nil {
		s = n.rules.Apply(s)
	}
	return s
}

// NormalizeColumn returns a new column with every text value normalized.
// Numbers, dates and missing values pass through. The second result counts
// values whose text changed.
func (n *Normalizer) NormalizeColumn(values []dataset.Value) ([]dataset.Value, int) {
	out := make([]dataset.Value, len(values))
	changed := 0
	for i, v := range values {
		text, ok := v.AsText()
		if !ok {
			out[i] = v
			continue
		}
		normalized := n.NormalizeText(text)
		if normalized != text {
			changed++
		}
		out[i] = dataset.Text(normalized)
	}
	return out, changed
}
