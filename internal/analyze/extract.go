package analyze

import (
	"strings"
	"unicode/utf8"

	"github.com/studydeck/studydeck/internal/domain"
)

const (
	// Lines at or under this trimmed length are noise, not key points.
	minKeyPointLen = 15
	// A note keeps at most this many key points; the rest are dropped.
	maxKeyPoints = 8
)

// ExtractKeyPoints segments note content into lines, filters trivial lines,
// classifies the survivors and returns at most eight key points in source
// order. Empty content, or content with no line over the length gate,
// yields an empty slice.
func ExtractKeyPoints(content string, ids domain.IDGenerator) []domain.KeyPoint {
	var points []domain.KeyPoint
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if utf8.RuneCountInString(trimmed) <= minKeyPointLen {
			continue
		}
		importance := Classify(trimmed)
		points = append(points, domain.KeyPoint{
			ID:          ids.NewID(),
			Text:        trimmed,
			Importance:  importance,
			Highlighted: importance == domain.ImportanceHigh,
		})
	}
	if len(points) > maxKeyPoints {
		points = points[:maxKeyPoints]
	}
	return points
}
