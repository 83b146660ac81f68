package study

import "github.com/studydeck/studydeck/internal/domain"

// RecordAnswer bumps a session's counters for one answered flashcard.
// It pairs with UpdateMastery on the card; the service applies both
// through storage in a single transaction.
func RecordAnswer(session domain.StudySession, correct bool) domain.StudySession {
	session.CardsReviewed++
	if correct {
		session.CorrectAnswers++
	}
	return session
}
