package analysis

import (
	"strings"

	"concurso-backend/internal/models"
)

// ScoreAttempt computes the session-end score as a percentage in [0,100].
// Flashcards are excluded from both numerator and denominator; a session with
// no gradable questions scores 100 (treated as fully complete, not zero).
//
// The comparison here uppercases both sides without the punctuation stripping
// that the aggregation engine applies. The asymmetry is deliberate: this is an
// immediate estimate shown when the session ends, while Aggregate recomputes
// the authoritative numbers from the stored attempts. An unanswered gradable
// question counts as wrong here.
func ScoreAttempt(questions []models.Question, answers map[string]string) float64 {
	gradable := 0
	correct := 0
	for _, q := range questions {
		if q.Type == models.QuestionFlashcard {
			continue
		}
		gradable++
		if strings.ToUpper(answers[q.ID]) == strings.ToUpper(q.CorrectOptionID) {
			correct++
		}
	}

	if gradable == 0 {
		return 100
	}
	return float64(correct) / float64(gradable) * 100
}
