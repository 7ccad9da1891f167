package mood

import (
	"fmt"
	"strings"
)

// Mood is the closed set of labels that drives recommendation filtering.
type Mood string

const (
	Happy Mood = "happy"
	Sad   Mood = "sad"
	Calm  Mood = "calm"
	Cozy  Mood = "cozy"
)

var all = []Mood{Happy, Sad, Calm, Cozy}

// All returns every mood in display order.
func All() []Mood {
	out := make([]Mood, len(all))
	copy(out, all)
	return out
}

// Valid reports whether m belongs to the enumeration.
func (m Mood) Valid() bool {
	for _, candidate := range all {
		if m == candidate {
			return true
		}
	}
	return false
}

// Parse normalizes raw input into a Mood.
func Parse(raw string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(raw)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown mood %q", raw)
	}
	return m, nil
}

type rule struct {
	keywords []string
	mood     Mood
}

// Evaluated top to bottom, first match wins. A condition that mentions several
// keywords (e.g. "sun and rain") resolves to the earliest rule.
var rules = []rule{
	{keywords: []string{"sun", "clear"}, mood: Happy},
	{keywords: []string{"rain", "drizzle"}, mood: Sad},
	{keywords: []string{"cloud"}, mood: Calm},
	{keywords: []string{"snow"}, mood: Cozy},
}

// FromCondition maps a weather condition to a mood. Unmatched conditions are calm.
func FromCondition(condition string) Mood {
	normalized := strings.ToLower(condition)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(normalized, kw) {
				return r.mood
			}
		}
	}
	return Calm
}
