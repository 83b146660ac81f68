package study

import (
	"sort"
	"time"

	"github.com/studydeck/studydeck/internal/domain"
)

// ComputeStreak counts consecutive calendar days with at least one
// completed study session, walking backward from the day of now.
// Sessions still in progress (nil EndTime) are ignored. A second session
// on an already-counted day is skipped; a gap day ends the walk.
func ComputeStreak(sessions []domain.StudySession, now time.Time) int {
	completed := make([]domain.StudySession, 0, len(sessions))
	for _, s := range sessions {
		if s.EndTime != nil {
			completed = append(completed, s)
		}
	}
	sort.Slice(completed, func(i, j int) bool {
		return completed[i].StartTime.After(completed[j].StartTime)
	})

	today := dayOf(now)
	streak := 0
	for _, s := range completed {
		daysDiff := daysBetween(dayOf(s.StartTime), today)
		switch {
		case daysDiff == streak:
			streak++
		case daysDiff > streak:
			return streak
		}
		// daysDiff < streak: duplicate session on a counted day, skip.
	}
	return streak
}

// dayOf strips the time-of-day, keeping the session's location.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween returns whole days from a to b (both day-truncated).
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
