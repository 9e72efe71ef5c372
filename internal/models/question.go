package models

// Question types. Flashcards have no answer key and are never graded.
const (
	QuestionMultiple  = "multiple"
	QuestionBoolean   = "boolean"
	QuestionFlashcard = "flashcard"
)

type QuestionOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is owned by the attempt that contains it and is immutable once
// generated. For boolean questions CorrectOptionID is the literal "C" or "E";
// for flashcards it is empty and Explanation holds the answer side of the card.
type GenerateQuestionsRequest struct {
	FileID  string `json:"fileId"`
	Subject string `json:"subject"`
	Mode    string `json:"mode"`
	Count   int    `json:"count"`
}

type Question struct {
	ID              string           `json:"id"`
	Type            string           `json:"type"`
	Subject         string           `json:"subject"`
	Topic           string           `json:"topic"`
	Statement       string           `json:"statement"`
	Options         []QuestionOption `json:"options,omitempty"`
	CorrectOptionID string           `json:"correctOptionId,omitempty"`
	Explanation     string           `json:"explanation"`
}
