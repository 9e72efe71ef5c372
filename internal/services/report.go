package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"concurso-backend/internal/analysis"
	"concurso-backend/internal/models"
)

// Narrative texts. The placeholder shows until the first recommendation
// arrives; the no-data text replaces it when the project has no attempts.
const (
	PlaceholderNarrative = "Analisando seu histórico..."
	NoDataNarrative      = "Finalize seu primeiro simulado para receber mentoria personalizada da IA!"
)

var errNotReady = fmt.Errorf("report service not ready: initial load has not completed")

// RecommendationConfig is the payload of a queued recommendation job.
// Seq lets a late-arriving response be discarded when a newer request has
// since been issued.
type RecommendationConfig struct {
	ProjectID string                   `json:"project_id"`
	Seq       uint64                   `json:"seq"`
	Subjects  []models.SubjectAnalysis `json:"subjects"`
}

type jobQueuer interface {
	QueueJob(ctx context.Context, jobType, referenceID string, config interface{}) (*models.Job, error)
}

type attemptLister interface {
	ListAll(ctx context.Context) ([]models.Attempt, error)
}

type narrativeState struct {
	text        string
	status      string
	seq         uint64
	fingerprint string
}

// ReportService assembles performance reports: the numeric half is computed
// synchronously from scratch on every call, the narrative half is fetched
// asynchronously and cached per project. The numeric fields never wait on the
// narrative and never fail because of it.
type ReportService struct {
	attemptRepo attemptLister
	queuer      jobQueuer

	ready atomic.Bool

	mu         sync.Mutex
	narratives map[string]*narrativeState
}

func NewReportService(attemptRepo attemptLister, queuer jobQueuer) *ReportService {
	return &ReportService{
		attemptRepo: attemptRepo,
		queuer:      queuer,
		narratives:  make(map[string]*narrativeState),
	}
}

// SetReady unblocks report building. Called once the startup load has
// completed (or failed); aggregation must not run before that.
func (s *ReportService) SetReady() {
	s.ready.Store(true)
}

// BuildReport recomputes the full report for the active project. There is no
// incremental path: attempt volumes are small and correctness wins. When the
// filtered attempt set is non-empty and has changed since the last build, a
// recommendation request is queued with a fresh sequence number.
func (s *ReportService) BuildReport(ctx context.Context, activeProjectID string) (*models.PerformanceReport, error) {
	if !s.ready.Load() {
		return nil, errNotReady
	}

	attempts, err := s.attemptRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}
	filtered := analysis.FilterAttempts(attempts, activeProjectID)
	perf := analysis.Aggregate(filtered)

	narrative, status := s.refreshNarrative(ctx, strings.TrimSpace(activeProjectID), filtered, perf.Subjects)

	return &models.PerformanceReport{
		OverallAccuracy:        perf.OverallAccuracy,
		TotalQuestionsAnswered: perf.TotalQuestionsAnswered,
		Subjects:               perf.Subjects,
		AIRecommendations:      narrative,
		RecommendationStatus:   status,
	}, nil
}

func (s *ReportService) refreshNarrative(ctx context.Context, projectID string, filtered []models.Attempt, subjects []models.SubjectAnalysis) (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.narratives[projectID]
	if !ok {
		st = &narrativeState{text: PlaceholderNarrative, status: models.RecommendationPending}
		s.narratives[projectID] = st
	}

	if len(filtered) == 0 {
		st.text = NoDataNarrative
		st.status = models.RecommendationReady
		st.fingerprint = ""
		return st.text, st.status
	}

	// Newest attempt first; count plus newest id identifies the set.
	fingerprint := fmt.Sprintf("%d:%s", len(filtered), filtered[0].ID)
	if fingerprint != st.fingerprint {
		st.fingerprint = fingerprint
		st.seq++
		cfg := RecommendationConfig{ProjectID: projectID, Seq: st.seq, Subjects: subjects}
		if _, err := s.queuer.QueueJob(ctx, models.JobRecommendation, projectID, cfg); err != nil {
			// Silent degradation: the previous narrative stays in place.
			log.Printf("WARNING: failed to queue recommendation request for project %s: %v", projectID, err)
		}
	}

	return st.text, st.status
}

// ApplyRecommendation installs narrative text produced by the worker.
// A response whose sequence number is no longer current is discarded, so a
// slow request can never overwrite a newer answer.
func (s *ReportService) ApplyRecommendation(projectID string, seq uint64, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.narratives[strings.TrimSpace(projectID)]
	if !ok || seq != st.seq {
		log.Printf("Discarding stale recommendation for project %s (seq %d)", projectID, seq)
		return false
	}

	st.text = text
	st.status = models.RecommendationReady
	return true
}

var leadingBulletRe = regexp.MustCompile(`^[•#\-*0-9.\s]+`)

// SplitRecommendations is the presentation transform for the narrative:
// non-empty trimmed lines, noise lines of five characters or fewer dropped,
// leading bullet/numbering punctuation stripped. Purely cosmetic; the
// authoritative narrative is the raw text.
func SplitRecommendations(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len([]rune(line)) <= 5 {
			continue
		}
		lines = append(lines, leadingBulletRe.ReplaceAllString(line, ""))
	}
	return lines
}
