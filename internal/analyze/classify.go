// Package analyze derives study material from raw note text: per-line
// importance classification, key-point extraction and summarization.
// All functions are pure; the same input always produces the same output.
package analyze

import (
	"regexp"
	"strings"

	"github.com/studydeck/studydeck/internal/domain"
)

// The high-importance patterns, checked before any casing or markup cues.
var (
	definitionShape  = regexp.MustCompile(`^[\w\s]*:`)
	emphasisKeywords = regexp.MustCompile(`(?i)\b(important|key|main|primary|essential|critical|fundamental)\b`)
	conceptKeywords  = regexp.MustCompile(`(?i)\b(definition|concept|theory|principle|rule|law)\b`)
	calloutKeywords  = regexp.MustCompile(`(?i)\b(remember|note|attention|warning|caution)\b`)
)

// rule pairs a predicate with the importance it assigns.
type rule struct {
	match      func(line string) bool
	importance domain.Importance
}

// Rules are evaluated top-down, first match wins. The ordering is
// load-bearing: keyword and definition-shape checks must run before the
// casing/markup checks, so "IMPORTANT NOTES" classifies high, not medium.
var rules = []rule{
	{func(l string) bool { return definitionShape.MatchString(l) }, domain.ImportanceHigh},
	{func(l string) bool { return emphasisKeywords.MatchString(l) }, domain.ImportanceHigh},
	{func(l string) bool { return conceptKeywords.MatchString(l) }, domain.ImportanceHigh},
	{func(l string) bool { return calloutKeywords.MatchString(l) }, domain.ImportanceHigh},
	{func(l string) bool { return strings.Contains(l, "*") }, domain.ImportanceMedium},
	{func(l string) bool { return strings.ToUpper(l) == l }, domain.ImportanceMedium},
}

// Classify labels a single trimmed line of note text with an importance tier.
func Classify(line string) domain.Importance {
	for _, r := range rules {
		if r.match(line) {
			return r.importance
		}
	}
	return domain.ImportanceLow
}
