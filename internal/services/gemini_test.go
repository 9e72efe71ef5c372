package services

import (
	"strings"
	"testing"

	"concurso-backend/internal/models"
)

func TestStripJSONFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `[{"a":1}]`, `[{"a":1}]`},
		{"json fence", "```json\n[{\"a\":1}]\n```", `[{"a":1}]`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n[]\n```\n ", "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripJSONFence(tt.input); got != tt.want {
				t.Errorf("stripJSONFence(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSliceJSONArray(t *testing.T) {
	raw := "Aqui está o resultado:\n[{\"name\":\"Analista\"}]\nEspero que ajude!"
	if got := sliceJSONArray(raw); got != `[{"name":"Analista"}]` {
		t.Errorf("sliceJSONArray() = %q", got)
	}
	if got := sliceJSONArray("sem json nenhum"); got != "" {
		t.Errorf("expected empty slice for prose, got %q", got)
	}
}

func TestSliceJSONObject(t *testing.T) {
	raw := "prefácio {\"topics\": []} posfácio"
	if got := sliceJSONObject(raw); got != `{"topics": []}` {
		t.Errorf("sliceJSONObject() = %q", got)
	}
}

func TestValidateQuestions_Multiple(t *testing.T) {
	input := []models.Question{
		{Statement: "Qual é o prazo?", Options: []models.QuestionOption{{ID: "A", Text: "10 dias"}}, CorrectOptionID: "A"},
		{Statement: "   "}, // no statement
		{Statement: "Sem opções"},
	}

	got := validateQuestions(input, "Direito Administrativo", models.QuestionMultiple)
	if len(got) != 1 {
		t.Fatalf("expected 1 valid question, got %d", len(got))
	}
	q := got[0]
	if q.Subject != "Direito Administrativo" {
		t.Errorf("subject not overridden: %q", q.Subject)
	}
	if q.Type != models.QuestionMultiple {
		t.Errorf("type not overridden: %q", q.Type)
	}
	if q.ID == "" {
		t.Error("missing id must be filled in")
	}
}

func TestValidateQuestions_Boolean(t *testing.T) {
	input := []models.Question{
		{Statement: "O ato é válido.", CorrectOptionID: " c "},
		{Statement: "O prazo é de 30 dias.", CorrectOptionID: "E", Options: []models.QuestionOption{{ID: "X"}}},
		{Statement: "Julgue o item.", CorrectOptionID: "A"},
	}

	got := validateQuestions(input, "Português", models.QuestionBoolean)
	if len(got) != 2 {
		t.Fatalf("expected 2 valid questions, got %d", len(got))
	}
	if got[0].CorrectOptionID != "C" {
		t.Errorf("expected normalized C, got %q", got[0].CorrectOptionID)
	}
	if got[1].Options != nil {
		t.Error("boolean questions must not carry options")
	}
}

func TestValidateQuestions_Flashcard(t *testing.T) {
	input := []models.Question{
		{Statement: "Princípios da administração pública", CorrectOptionID: "A", Options: []models.QuestionOption{{ID: "A"}}, Explanation: "LIMPE"},
	}

	got := validateQuestions(input, "Direito", models.QuestionFlashcard)
	if len(got) != 1 {
		t.Fatalf("expected 1 valid question, got %d", len(got))
	}
	if got[0].CorrectOptionID != "" || got[0].Options != nil {
		t.Error("flashcards must have no answer key")
	}
	if got[0].Explanation != "LIMPE" {
		t.Errorf("explanation must survive: %q", got[0].Explanation)
	}
}

func TestBuildRecommendationsPrompt(t *testing.T) {
	subjects := []models.SubjectAnalysis{
		{Name: "Português", TotalQuestions: 40, CorrectAnswers: 22, WrongAnswers: 18, Accuracy: 0.55},
	}

	prompt := buildRecommendationsPrompt(subjects)
	if !strings.Contains(prompt, "Português") {
		t.Error("prompt must embed the subject name")
	}
	if !strings.Contains(prompt, "40") {
		t.Error("prompt must embed the question totals")
	}
}
