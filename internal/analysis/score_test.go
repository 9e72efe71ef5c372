package analysis

import (
	"testing"

	"concurso-backend/internal/models"
)

func TestScoreAttempt_AllCorrect(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Type: models.QuestionMultiple, CorrectOptionID: "A"},
		{ID: "q2", Type: models.QuestionBoolean, CorrectOptionID: "E"},
	}
	answers := map[string]string{"q1": "a", "q2": "e"}

	if got := ScoreAttempt(questions, answers); got != 100 {
		t.Errorf("expected 100, got %v", got)
	}
}

func TestScoreAttempt_HalfCorrect(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Type: models.QuestionMultiple, CorrectOptionID: "A"},
		{ID: "q2", Type: models.QuestionMultiple, CorrectOptionID: "B"},
	}
	answers := map[string]string{"q1": "A", "q2": "C"}

	if got := ScoreAttempt(questions, answers); got != 50 {
		t.Errorf("expected 50, got %v", got)
	}
}

func TestScoreAttempt_FlashcardsExcluded(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Type: models.QuestionFlashcard},
		{ID: "q2", Type: models.QuestionMultiple, CorrectOptionID: "A"},
	}
	answers := map[string]string{"q2": "A"}

	if got := ScoreAttempt(questions, answers); got != 100 {
		t.Errorf("expected 100 with flashcard excluded, got %v", got)
	}
}

func TestScoreAttempt_NoGradableQuestionsScores100(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Type: models.QuestionFlashcard},
		{ID: "q2", Type: models.QuestionFlashcard},
	}

	if got := ScoreAttempt(questions, nil); got != 100 {
		t.Errorf("flashcard-only session should score 100, got %v", got)
	}
	if got := ScoreAttempt(nil, nil); got != 100 {
		t.Errorf("empty session should score 100, got %v", got)
	}
}

func TestScoreAttempt_UnansweredCountsAsWrong(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Type: models.QuestionMultiple, CorrectOptionID: "A"},
		{ID: "q2", Type: models.QuestionMultiple, CorrectOptionID: "B"},
	}
	answers := map[string]string{"q1": "A"}

	if got := ScoreAttempt(questions, answers); got != 50 {
		t.Errorf("expected unanswered q2 to count against score, got %v", got)
	}
}

// The scorer deliberately uses a looser comparison than the aggregation
// engine: it uppercases only, without stripping punctuation. "b)" therefore
// fails here against correct "B" but matches in Aggregate. Both behaviors are
// kept distinct; this test pins the divergence.
func TestScoreAttempt_DivergesFromAggregateOnPunctuation(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Type: models.QuestionMultiple, Subject: "Math", CorrectOptionID: "B"},
	}
	answers := map[string]string{"q1": "b)"}

	if got := ScoreAttempt(questions, answers); got != 0 {
		t.Errorf("scorer should reject punctuated answer, got score %v", got)
	}

	perf := Aggregate([]models.Attempt{{
		ID:        "a1",
		ProjectID: "p1",
		Questions: questions,
		Answers:   answers,
	}})
	if perf.OverallAccuracy != 1.0 {
		t.Errorf("aggregation engine should accept punctuated answer, got accuracy %v", perf.OverallAccuracy)
	}
}
