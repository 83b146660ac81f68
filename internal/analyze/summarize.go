package analyze

import "strings"

const (
	// Only the opening lines of a document feed the summary.
	summaryWindow = 5
	// Lines at or under this trimmed length are skipped.
	minSummaryLen = 20
	// Longer lines are cut here and given a trailing ellipsis.
	summaryLineCap = 80
)

// Summarize selects a short digest from the opening of the note: among the
// first five non-blank lines, the ones longer than twenty characters, each
// capped at eighty characters. Selection is purely positional, unlike key
// point extraction which scans the whole document for importance cues.
func Summarize(content string) string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > summaryWindow {
		lines = lines[:summaryWindow]
	}

	var topics []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		r := []rune(trimmed)
		if len(r) <= minSummaryLen {
			continue
		}
		if len(r) > summaryLineCap {
			trimmed = string(r[:summaryLineCap]) + "..."
		}
		topics = append(topics, trimmed)
	}
	return strings.Join(topics, "\n• ")
}
