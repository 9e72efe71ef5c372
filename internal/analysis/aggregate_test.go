package analysis

import (
	"testing"

	"concurso-backend/internal/models"
)

func TestAggregate_MultiAttemptScenario(t *testing.T) {
	a1 := models.Attempt{
		ID:        "a1",
		ProjectID: "P1",
		Questions: []models.Question{
			{ID: "q1", Type: models.QuestionMultiple, Subject: "Math", CorrectOptionID: "A"},
			{ID: "q2", Type: models.QuestionMultiple, Subject: "Math", CorrectOptionID: "B"},
		},
		Answers: map[string]string{"q1": "A", "q2": "b)"},
	}
	a2 := models.Attempt{
		ID:        "a2",
		ProjectID: "P1",
		Questions: []models.Question{
			{ID: "q3", Type: models.QuestionBoolean, Subject: "Math", CorrectOptionID: "E"},
		},
		Answers: map[string]string{"q3": "e"},
	}
	other := models.Attempt{
		ID:        "a3",
		ProjectID: "P2",
		Questions: []models.Question{
			{ID: "q4", Type: models.QuestionMultiple, Subject: "Law", CorrectOptionID: "C"},
		},
		Answers: map[string]string{"q4": "D"},
	}

	filtered := FilterAttempts([]models.Attempt{a1, a2, other}, "P1")
	if len(filtered) != 2 {
		t.Fatalf("expected 2 attempts for P1, got %d", len(filtered))
	}

	perf := Aggregate(filtered)

	if perf.TotalQuestionsAnswered != 3 {
		t.Errorf("totalQuestionsAnswered = %d, want 3", perf.TotalQuestionsAnswered)
	}
	if perf.OverallAccuracy != 1.0 {
		t.Errorf("overallAccuracy = %v, want 1.0", perf.OverallAccuracy)
	}
	if len(perf.Subjects) != 1 {
		t.Fatalf("expected 1 subject, got %d", len(perf.Subjects))
	}
	math := perf.Subjects[0]
	if math.Name != "Math" || math.TotalQuestions != 3 || math.CorrectAnswers != 3 || math.Accuracy != 1.0 {
		t.Errorf("unexpected Math stats: %+v", math)
	}
}

func TestAggregate_FlashcardOnlyAttempt(t *testing.T) {
	attempt := models.Attempt{
		ID:        "a1",
		ProjectID: "p1",
		Questions: []models.Question{
			{ID: "q1", Type: models.QuestionFlashcard, Subject: "História"},
		},
		Answers: map[string]string{},
	}

	perf := Aggregate([]models.Attempt{attempt})

	if perf.TotalQuestionsAnswered != 1 {
		t.Errorf("totalQuestionsAnswered = %d, want 1", perf.TotalQuestionsAnswered)
	}
	if perf.OverallAccuracy != 0 {
		t.Errorf("overallAccuracy = %v, want 0", perf.OverallAccuracy)
	}
	// The subject entry is created by encounter, but stays at zero stats.
	if len(perf.Subjects) != 1 {
		t.Fatalf("expected 1 subject entry, got %d", len(perf.Subjects))
	}
	s := perf.Subjects[0]
	if s.TotalQuestions != 0 || s.CorrectAnswers != 0 || s.WrongAnswers != 0 || s.Accuracy != 0 {
		t.Errorf("flashcard must not feed subject accounting: %+v", s)
	}
}

func TestAggregate_UnansweredQuestionIsUngraded(t *testing.T) {
	attempt := models.Attempt{
		ID:        "a1",
		ProjectID: "p1",
		Questions: []models.Question{
			{ID: "q1", Type: models.QuestionMultiple, Subject: "Português", CorrectOptionID: "A"},
		},
		Answers: map[string]string{}, // left unset
	}

	perf := Aggregate([]models.Attempt{attempt})

	if perf.TotalQuestionsAnswered != 1 {
		t.Errorf("totalQuestionsAnswered = %d, want 1", perf.TotalQuestionsAnswered)
	}
	if perf.Subjects[0].TotalQuestions != 0 {
		t.Errorf("ungraded question must not enter subject totals: %+v", perf.Subjects[0])
	}
	if perf.OverallAccuracy != 0 {
		t.Errorf("overallAccuracy = %v, want 0", perf.OverallAccuracy)
	}
}

func TestAggregate_MissingCorrectAnswerIsUngraded(t *testing.T) {
	attempt := models.Attempt{
		ID:        "a1",
		ProjectID: "p1",
		Questions: []models.Question{
			{ID: "q1", Type: models.QuestionMultiple, Subject: "X"}, // no answer key
		},
		Answers: map[string]string{"q1": "A"},
	}

	perf := Aggregate([]models.Attempt{attempt})
	if perf.Subjects[0].TotalQuestions != 0 || perf.OverallAccuracy != 0 {
		t.Errorf("question without answer key must be excluded: %+v", perf)
	}
}

func TestAggregate_BlankSubjectFallsBackToGeral(t *testing.T) {
	attempt := models.Attempt{
		ID:        "a1",
		ProjectID: "p1",
		Questions: []models.Question{
			{ID: "q1", Type: models.QuestionMultiple, Subject: "   ", CorrectOptionID: "A"},
		},
		Answers: map[string]string{"q1": "A"},
	}

	perf := Aggregate([]models.Attempt{attempt})
	if len(perf.Subjects) != 1 || perf.Subjects[0].Name != FallbackSubject {
		t.Errorf("expected fallback subject %q, got %+v", FallbackSubject, perf.Subjects)
	}
}

func TestAggregate_SubjectInvariants(t *testing.T) {
	attempts := []models.Attempt{
		{
			ID: "a1", ProjectID: "p1",
			Questions: []models.Question{
				{ID: "q1", Type: models.QuestionMultiple, Subject: "A", CorrectOptionID: "A"},
				{ID: "q2", Type: models.QuestionMultiple, Subject: "A", CorrectOptionID: "B"},
				{ID: "q3", Type: models.QuestionBoolean, Subject: "B", CorrectOptionID: "C"},
				{ID: "q4", Type: models.QuestionFlashcard, Subject: "B"},
				{ID: "q5", Type: models.QuestionMultiple, Subject: "C", CorrectOptionID: "D"},
			},
			Answers: map[string]string{"q1": "a", "q2": "c)", "q3": "E."},
		},
	}

	perf := Aggregate(attempts)

	if perf.OverallAccuracy < 0 || perf.OverallAccuracy > 1 {
		t.Errorf("overallAccuracy out of [0,1]: %v", perf.OverallAccuracy)
	}
	sumTotals := 0
	for _, s := range perf.Subjects {
		if s.CorrectAnswers+s.WrongAnswers != s.TotalQuestions {
			t.Errorf("subject %q: correct+wrong != total (%+v)", s.Name, s)
		}
		if s.Accuracy < 0 || s.Accuracy > 1 {
			t.Errorf("subject %q accuracy out of range: %v", s.Name, s.Accuracy)
		}
		sumTotals += s.TotalQuestions
	}
	if perf.TotalQuestionsAnswered < sumTotals {
		t.Errorf("absolute counter %d below sum of subject totals %d", perf.TotalQuestionsAnswered, sumTotals)
	}
}

func TestAggregate_SubjectsSortedByTotalDescending(t *testing.T) {
	attempts := []models.Attempt{
		{
			ID: "a1", ProjectID: "p1",
			Questions: []models.Question{
				{ID: "q1", Type: models.QuestionMultiple, Subject: "Small", CorrectOptionID: "A"},
				{ID: "q2", Type: models.QuestionMultiple, Subject: "Big", CorrectOptionID: "A"},
				{ID: "q3", Type: models.QuestionMultiple, Subject: "Big", CorrectOptionID: "A"},
				{ID: "q4", Type: models.QuestionMultiple, Subject: "Tie1", CorrectOptionID: "A"},
				{ID: "q5", Type: models.QuestionMultiple, Subject: "Tie2", CorrectOptionID: "A"},
			},
			Answers: map[string]string{"q1": "A", "q2": "A", "q3": "B", "q4": "A", "q5": "A"},
		},
	}

	perf := Aggregate(attempts)

	if perf.Subjects[0].Name != "Big" {
		t.Errorf("expected Big first, got %q", perf.Subjects[0].Name)
	}
	// Small, Tie1, Tie2 all have 1 question; encounter order must be kept.
	wantTail := []string{"Small", "Tie1", "Tie2"}
	for i, want := range wantTail {
		if got := perf.Subjects[i+1].Name; got != want {
			t.Errorf("position %d: expected %q, got %q", i+1, want, got)
		}
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	perf := Aggregate(nil)
	if perf.OverallAccuracy != 0 || perf.TotalQuestionsAnswered != 0 || len(perf.Subjects) != 0 {
		t.Errorf("empty input should yield zero report, got %+v", perf)
	}
}
