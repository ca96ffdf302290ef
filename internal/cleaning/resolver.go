package cleaning

import (
	"strings"

	"github.com/saucynandhu/femicideKEanalysis/internal/dataset"
)

// MissingResolver replaces missing and placeholder categorical values with a
// single sentinel label. The reason a value was missing is not kept.
type MissingResolver struct {
	sentinel     string
	placeholders map[string]struct{}
}

// NewMissingResolver creates a resolver. Placeholders are compared
// case-insensitively after trimming.
func NewMissingResolver(sentinel string, placeholders []string) *MissingResolver {
	set := make(map[string]struct{}, len(placeholders))
	for _, p := range placeholders {
		set[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
	}
	return &MissingResolver{sentinel: sentinel, placeholders: set}
}

// Sentinel returns the label substituted for missing values.
func (r *MissingResolver) Sentinel() string {
	return r.sentinel
}

// IsPlaceholder reports whether v should become the sentinel.
func (r *MissingResolver) IsPlaceholder(v dataset.Value) bool {
	if v.IsMissing() {
		return true
	}
	text, ok := v.AsText()
	if !ok {
		return false
	}
	_, hit := r.placeholders[strings.ToLower(strings.TrimSpace(text))]
	return hit
}

// ResolveColumn returns a new column with placeholders replaced by the
// sentinel and the number of replacements. Applying it twice changes nothing
// the second time.
func (r *MissingResolver) ResolveColumn(values []dataset.Value) ([]dataset.Value, int) {
	out := make([]dataset.Value, len(values))
	resolved := 0
	for i, v := range values {
		if r.IsPlaceholder(v) {
			out[i] = dataset.Text(r.sentinel)
			resolved++
			continue
		}
		out[i] = v
	}
	return out, resolved
}
