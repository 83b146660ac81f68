// Package study holds the scheduling side of the pipeline: the mastery
// update rule, the day-streak calculator and the spaced-repetition
// review scheduler.
package study

const (
	masteryGain  = 0.2
	masteryDecay = 0.1
)

// UpdateMastery applies a recall outcome to a mastery score, clamped to
// [0,1]. The step sizes are asymmetric on purpose: failures decay mastery
// more slowly than successes build it, so the score drifts upward over
// repeated exposure. Callers set the card's LastReviewed timestamp on
// every change.
func UpdateMastery(current float64, correct bool) float64 {
	if correct {
		next := current + masteryGain
		if next > 1 {
			return 1
		}
		return next
	}
	next := current - masteryDecay
	if next < 0 {
		return 0
	}
	return next
}
