package study

import (
	"math/rand"
	"time"

	"github.com/studydeck/studydeck/internal/domain"
)

// The fixed spaced-repetition offsets, in days from today.
var reviewIntervals = []int{1, 3, 7, 14, 30}

const (
	minCardEstimate  = 5
	cardEstimateSpan = 10 // estimates land in [5,14]
)

// Scheduler proposes future review slots at fixed spaced-repetition
// intervals. The card-count estimate draws from the injected rng so
// output is reproducible under a seeded source.
type Scheduler struct {
	rng *rand.Rand
}

// NewScheduler creates a Scheduler around the given random source.
// A nil rng falls back to a time-seeded one.
func NewScheduler(rng *rand.Rand) *Scheduler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Scheduler{rng: rng}
}

// ProposeReviews returns exactly one proposal per interval: five entries
// at day offsets 1, 3, 7, 14 and 30 from today, with priority falling as
// the offset grows. Proposals carry id zero; persistence assigns ids.
func (s *Scheduler) ProposeReviews(today time.Time) []domain.CalendarEvent {
	day := dayOf(today)
	events := make([]domain.CalendarEvent, 0, len(reviewIntervals))
	for _, interval := range reviewIntervals {
		events = append(events, domain.CalendarEvent{
			Date:      day.AddDate(0, 0, interval),
			Title:     "Review session",
			Priority:  intervalPriority(interval),
			CardCount: minCardEstimate + s.rng.Intn(cardEstimateSpan),
		})
	}
	return events
}

func intervalPriority(interval int) domain.Priority {
	switch {
	case interval <= 3:
		return domain.PriorityHigh
	case interval <= 14:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}
