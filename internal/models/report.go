package models

// SubjectAnalysis is a derived aggregate, recomputed from scratch on every
// relevant change and never persisted. correctAnswers + wrongAnswers always
// equals totalQuestions; accuracy is correctAnswers/totalQuestions with 0 when
// totalQuestions is 0.
type SubjectAnalysis struct {
	Name           string  `json:"name"`
	TotalQuestions int     `json:"totalQuestions"`
	CorrectAnswers int     `json:"correctAnswers"`
	WrongAnswers   int     `json:"wrongAnswers"`
	Accuracy       float64 `json:"accuracy"`
}

// Narrative states for the AI recommendation text.
const (
	RecommendationPending = "pending"
	RecommendationReady   = "ready"
)

// PerformanceReport combines the synchronous numeric aggregation with the
// asynchronously obtained narrative. OverallAccuracy is a fraction in [0,1],
// not a percentage like the attempt score.
type PerformanceReport struct {
	OverallAccuracy        float64           `json:"overallAccuracy"`
	TotalQuestionsAnswered int               `json:"totalQuestionsAnswered"`
	Subjects               []SubjectAnalysis `json:"subjects"`
	AIRecommendations      string            `json:"aiRecommendations"`
	RecommendationStatus   string            `json:"recommendationStatus"`
}
