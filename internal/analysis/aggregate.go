package analysis

import (
	"sort"
	"strings"

	"concurso-backend/internal/models"
)

// FallbackSubject groups questions whose subject field is empty or blank.
const FallbackSubject = "Geral"

// Performance is the numeric half of a report: the authoritative counters
// recomputed from scratch over the full filtered attempt history.
type Performance struct {
	OverallAccuracy        float64
	TotalQuestionsAnswered int
	Subjects               []models.SubjectAnalysis
}

// Aggregate folds the attempts into per-subject and overall statistics.
//
// Every question increments the absolute counter and materializes a subject
// entry (zeroed) for its trimmed subject name. Flashcards contribute nothing
// further. A question whose user answer or correct answer normalizes to empty
// is ungraded and also contributes nothing further. Evaluated questions feed
// the subject's totals and, on a normalized exact match, its correct count.
//
// Subjects are sorted descending by total evaluated questions; ties keep the
// order subjects were first encountered in. Accuracies are fractions in [0,1]
// and are 0, never NaN, when nothing was evaluated.
func Aggregate(attempts []models.Attempt) Performance {
	type entry struct {
		stats models.SubjectAnalysis
		order int
	}
	subjects := make(map[string]*entry)

	absolute := 0
	evaluated := 0
	correct := 0

	for _, attempt := range attempts {
		for _, q := range attempt.Questions {
			absolute++

			name := strings.TrimSpace(q.Subject)
			if name == "" {
				name = FallbackSubject
			}
			e, ok := subjects[name]
			if !ok {
				e = &entry{stats: models.SubjectAnalysis{Name: name}, order: len(subjects)}
				subjects[name] = e
			}

			if q.Type == models.QuestionFlashcard {
				continue
			}

			userAns := NormalizeAnswer(attempt.Answers[q.ID])
			correctAns := NormalizeAnswer(q.CorrectOptionID)
			if userAns == "" || correctAns == "" {
				continue // not evaluable
			}

			evaluated++
			e.stats.TotalQuestions++
			if userAns == correctAns {
				correct++
				e.stats.CorrectAnswers++
			} else {
				e.stats.WrongAnswers++
			}
		}
	}

	ordered := make([]*entry, 0, len(subjects))
	for _, e := range subjects {
		if e.stats.TotalQuestions > 0 {
			e.stats.Accuracy = float64(e.stats.CorrectAnswers) / float64(e.stats.TotalQuestions)
		}
		ordered = append(ordered, e)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].stats.TotalQuestions != ordered[j].stats.TotalQuestions {
			return ordered[i].stats.TotalQuestions > ordered[j].stats.TotalQuestions
		}
		return ordered[i].order < ordered[j].order
	})

	perf := Performance{TotalQuestionsAnswered: absolute}
	if evaluated > 0 {
		perf.OverallAccuracy = float64(correct) / float64(evaluated)
	}
	for _, e := range ordered {
		perf.Subjects = append(perf.Subjects, e.stats)
	}
	return perf
}
