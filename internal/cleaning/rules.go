package cleaning

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/saucynandhu/femicideKEanalysis/internal/config"
	apperrors "github.com/saucynandhu/femicideKEanalysis/internal/errors"
)

// Rule collapses a group of synonym phrases into one canonical label.
type Rule struct {
	Canonical string
	Synonyms  []string
}

type compiledRule struct {
	canonical string
	// phrases sorted longest first so "known to victim" wins over "known".
	phrases []string
}

// RuleSet is an ordered, validated list of rules.
type RuleSet struct {
	rules []compiledRule
}

// NewRuleSet validates and compiles rules. It fails when a rule has no
// canonical label or no synonyms, when a phrase belongs to two rules, or when
// one rule's phrases would match inside another rule's canonical label.
func NewRuleSet(rules []Rule) (*RuleSet, error) {
	rs := &RuleSet{rules: make([]compiledRule, 0, len(rules))}
	owner := make(map[string]string)

	for i, r := range rules {
		canonical := strings.ToLower(strings.TrimSpace(r.Canonical))
		if canonical == "" {
			return nil, apperrors.NewValidationError(fmt.Sprintf("synonym rule %d has an empty canonical label", i))
		}

		var phrases []string
		for _, s := range r.Synonyms {
			p := strings.ToLower(strings.TrimSpace(s))
			if p == "" {
				continue
			}
			if prev, dup := owner[p]; dup {
				if prev == canonical {
					continue
				}
				return nil, apperrors.NewValidationError(fmt.Sprintf("synonym %q is claimed by both %q and %q", p, prev, canonical))
			}
			owner[p] = canonical
			phrases = append(phrases, p)
		}
		if len(phrases) == 0 {
			return nil, apperrors.NewValidationError(fmt.Sprintf("synonym rule %q has no synonyms", canonical))
		}

		sort.SliceStable(phrases, func(a, b int) bool { return len(phrases[a]) > len(phrases[b]) })
		rs.rules = append(rs.rules, compiledRule{canonical: canonical, phrases: phrases})
	}

	for i, target := range rs.rules {
		for j, other := range rs.rules {
			if i == j {
				continue
			}
			if phrase, ok := other.firstMatch(target.canonical); ok {
				return nil, apperrors.NewValidationError(fmt.Sprintf(
					"canonical label %q would be rewritten by rule %q (phrase %q)",
					target.canonical, other.canonical, phrase))
			}
		}
	}

	return rs, nil
}

// RulesFromConfig converts configured synonym rules.
func RulesFromConfig(rules []config.SynonymRule) []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		synonyms := make([]string, len(r.Synonyms))
		copy(synonyms, r.Synonyms)
		out[i] = Rule{Canonical: r.Canonical, Synonyms: synonyms}
	}
	return out
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Apply rewrites every whole-phrase synonym match in s to its canonical
// label, one rule after another. Text outside matches is kept as is.
func (rs *RuleSet) Apply(s string) string {
	for _, r := range rs.rules {
		s = r.replace(s)
	}
	return s
}

func (r compiledRule) replace(s string) string {
	var b strings.Builder
	changed := false
	i := 0
	for i < len(s) {
		if n := r.matchAt(s, i); n > 0 {
			if !changed {
				b.Grow(len(s))
				b.WriteString(s[:i])
				changed = true
			}
			b.WriteString(r.canonical)
			i += n
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		if changed {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	if !changed {
		return s
	}
	return b.String()
}

func (r compiledRule) firstMatch(s string) (string, bool) {
	for i := 0; i < len(s); {
		if n := r.matchAt(s, i); n > 0 {
			return s[i : i+n], true
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return "", false
}

// matchAt returns the byte length of the longest phrase matching s at i as a
// whole phrase, or 0.
func (r compiledRule) matchAt(s string, i int) int {
	if i > 0 {
		prev, _ := utf8.DecodeLastRuneInString(s[:i])
		if unicode.IsLetter(prev) {
			return 0
		}
	}
	for _, p := range r.phrases {
		end := i + len(p)
		if end > len(s) || !strings.EqualFold(s[i:end], p) {
			continue
		}
		if end < len(s) {
			next, _ := utf8.DecodeRuneInString(s[end:])
			if unicode.IsLetter(next) {
				continue
			}
		}
		return len(p)
	}
	return 0
}
