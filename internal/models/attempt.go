package models

// Attempt is one completed quiz session. Created atomically when the session
// finishes, never mutated afterward, deleted only via project cascade.
// Answers maps question id to the raw answer token the user entered; coverage
// may be partial for abandoned sessions.
type Attempt struct {
	ID        string            `json:"id"`
	ProjectID string            `json:"projectId"`
	Timestamp int64             `json:"timestamp"` // unix milliseconds
	Questions []Question        `json:"questions"`
	Answers   map[string]string `json:"answers"`
	Score     float64           `json:"score"` // session-end estimate, 0-100
	Mode      string            `json:"mode"`
}

type FinishAttemptRequest struct {
	Questions []Question        `json:"questions"`
	Answers   map[string]string `json:"answers"`
	Mode      string            `json:"mode"`
}
