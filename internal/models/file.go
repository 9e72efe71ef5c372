package models

// Study file types: an exam announcement or a past exam paper.
const (
	FileEdital = "edital"
	FileProva  = "prova"
)

// File statuses during async analysis.
const (
	FileStatusPending    = "pending"
	FileStatusNeedsCargo = "needs_cargo" // edital yielded several roles, user must pick
	FileStatusReady      = "ready"
	FileStatusFailed     = "failed"
)

// StudyTopic is one weighted subject extracted from an announcement or exam.
// RelevanceScore is the subject's share of the total exam score (0-100).
type StudyTopic struct {
	Subject          string   `json:"subject"`
	Subtopics        []string `json:"subtopics"`
	RelevanceScore   int      `json:"relevanceScore"`
	IsParetoPriority bool     `json:"isParetoPriority"`
	QuestionCount    int      `json:"questionCount,omitempty"`
	KnowledgeType    string   `json:"knowledgeType,omitempty"` // "Geral" | "Específico"
}

// CargoData groups the topics of one role (cargo) found in an announcement.
type CargoData struct {
	Name   string       `json:"name"`
	Topics []StudyTopic `json:"topics"`
}

type ExamProfile struct {
	Difficulty          string   `json:"difficulty"`
	StyleDescription    string   `json:"styleDescription"`
	PredominantSubjects []string `json:"predominantSubjects"`
}

// StudyFile is an uploaded PDF plus the analysis the AI extracted from it.
// The blob lives in the same row; deletion by project is list-filter-delete,
// never assumed atomic.
type StudyFile struct {
	ID                string       `json:"id"`
	ProjectID         string       `json:"projectId"`
	Name              string       `json:"name"`
	Type              string       `json:"type"` // "edital" | "prova"
	Status            string       `json:"status"`
	Data              []byte       `json:"-"`
	PageCount         int          `json:"pageCount"`
	AvailableCargos   []CargoData  `json:"availableCargos,omitempty"`
	SelectedCargoName string       `json:"selectedCargoName,omitempty"`
	ParsedTopics      []StudyTopic `json:"parsedTopics,omitempty"`
	ExamProfile       *ExamProfile `json:"examProfile,omitempty"`
}

type SelectCargoRequest struct {
	Name string `json:"name"`
}
