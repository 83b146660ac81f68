// Package synth turns key points into question/answer flashcards using a
// small decision tree over the shape of each point's text.
package synth

import (
	"strings"
	"unicode/utf8"

	"github.com/studydeck/studydeck/internal/domain"
)

const (
	// Points at or under this length never become cards. This gate is
	// independent of the extractor's shorter noise filter, so points of
	// length 16-20 are extracted but produce no flashcard.
	minCardTextLen = 20
	// Prefix length for the fallback "Explain:" question.
	explainPrefixLen = 50
)

// Synthesize builds one flashcard per qualifying key point. Every card
// starts with zero mastery and no review timestamp.
func Synthesize(noteID string, keyPoints []domain.KeyPoint, ids domain.IDGenerator) []domain.Flashcard {
	var cards []domain.Flashcard
	for _, point := range keyPoints {
		if utf8.RuneCountInString(point.Text) <= minCardTextLen {
			continue
		}
		question, answer := deriveQA(point.Text)
		cards = append(cards, domain.Flashcard{
			ID:       ids.NewID(),
			NoteID:   noteID,
			Question: question,
			Answer:   answer,
			Mastery:  0,
		})
	}
	return cards
}

// deriveQA applies the question rules in order, first match wins:
// colon-split definition, "define" phrasing, then a generic explain prompt.
func deriveQA(text string) (question, answer string) {
	if strings.Contains(text, ":") {
		left, right, _ := strings.Cut(text, ":")
		return "What is " + strings.TrimSpace(left) + "?", strings.TrimSpace(right)
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "define") || strings.Contains(lower, "definition") {
		fields := strings.Fields(text)
		if len(fields) > 3 {
			fields = fields[:3]
		}
		return "Define: " + strings.Join(fields, " "), text
	}

	r := []rune(text)
	if len(r) > explainPrefixLen {
		r = r[:explainPrefixLen]
	}
	return "Explain: " + string(r) + "...", text
}
