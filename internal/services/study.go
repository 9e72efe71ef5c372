package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"concurso-backend/internal/analysis"
	"concurso-backend/internal/ids"
	"concurso-backend/internal/models"
	"concurso-backend/internal/repository"
)

// StudyService owns the project, file and attempt collections. Every
// mutation performs its persistence write as part of the same call; the
// aggregation path never reads shared state directly and instead receives
// the attempt list from the read-only queries here.
type StudyService struct {
	projectRepo *repository.ProjectRepo
	attemptRepo *repository.AttemptRepo
	fileRepo    *repository.FileRepo
	jobRepo     *repository.JobRepo
	prefRepo    *repository.PrefRepo
	redis       *redis.Client
}

func NewStudyService(
	projectRepo *repository.ProjectRepo,
	attemptRepo *repository.AttemptRepo,
	fileRepo *repository.FileRepo,
	jobRepo *repository.JobRepo,
	prefRepo *repository.PrefRepo,
	redisClient *redis.Client,
) *StudyService {
	return &StudyService{
		projectRepo: projectRepo,
		attemptRepo: attemptRepo,
		fileRepo:    fileRepo,
		jobRepo:     jobRepo,
		prefRepo:    prefRepo,
		redis:       redisClient,
	}
}

// Init runs the startup load: seeds the default project on an empty
// installation and makes sure an active project is selected when any
// project exists. The server does not report itself ready until this
// returns.
func (s *StudyService) Init(ctx context.Context) error {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}

	if len(projects) == 0 {
		seed := &models.Project{
			ID:    models.DefaultProjectID,
			Name:  models.DefaultProjectName,
			Color: models.ProjectPalette[0],
		}
		if err := s.projectRepo.Create(ctx, seed); err != nil {
			return fmt.Errorf("failed to seed default project: %w", err)
		}
		projects = []models.Project{*seed}
	}

	active, err := s.prefRepo.ActiveProjectID(ctx)
	if err != nil {
		return fmt.Errorf("failed to load active project preference: %w", err)
	}
	if active == "" {
		if err := s.prefRepo.SetActiveProjectID(ctx, projects[0].ID); err != nil {
			return fmt.Errorf("failed to select initial project: %w", err)
		}
	}

	return nil
}

// Projects

func (s *StudyService) Projects(ctx context.Context) ([]models.Project, error) {
	return s.projectRepo.List(ctx)
}

func (s *StudyService) ActiveProjectID(ctx context.Context) (string, error) {
	return s.prefRepo.ActiveProjectID(ctx)
}

func (s *StudyService) SetActiveProject(ctx context.Context, id string) error {
	if _, err := s.projectRepo.GetByID(ctx, id); err != nil {
		return &NotFoundError{Message: "Project not found"}
	}
	return s.prefRepo.SetActiveProjectID(ctx, id)
}

// CreateProject assigns a color from the fixed palette keyed by the current
// project count, and makes the new project active.
func (s *StudyService) CreateProject(ctx context.Context, name, description string) (*models.Project, error) {
	count, err := s.projectRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	p := &models.Project{
		ID:          ids.New(),
		Name:        name,
		Color:       models.ProjectPalette[count%len(models.ProjectPalette)],
		Description: description,
	}
	if err := s.projectRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	if err := s.prefRepo.SetActiveProjectID(ctx, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *StudyService) RenameProject(ctx context.Context, id, name string) error {
	if err := s.projectRepo.Rename(ctx, id, name); err != nil {
		return &NotFoundError{Message: "Project not found"}
	}
	return nil
}

// DeleteProject cascades: the project row, its attempts and its files are
// all removed. Blob deletes are list-filter-delete-each and a failure there
// is logged but never blocks removal of the authoritative references. If the
// deleted project was active, the first remaining project (list order)
// becomes active, or none.
func (s *StudyService) DeleteProject(ctx context.Context, id string) error {
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if err := s.attemptRepo.DeleteByProject(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project attempts: %w", err)
	}

	files, err := s.fileRepo.List(ctx)
	if err != nil {
		log.Printf("WARNING: could not list files while deleting project %s: %v", id, err)
		files = nil
	}
	for _, f := range analysis.FilterFiles(files, id) {
		if err := s.fileRepo.Delete(ctx, f.ID); err != nil {
			log.Printf("WARNING: failed to delete file %s of project %s: %v", f.ID, id, err)
		}
	}

	active, err := s.prefRepo.ActiveProjectID(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(active) == strings.TrimSpace(id) {
		remaining, err := s.projectRepo.List(ctx)
		if err != nil {
			return err
		}
		if len(remaining) > 0 {
			return s.prefRepo.SetActiveProjectID(ctx, remaining[0].ID)
		}
		return s.prefRepo.ClearActiveProjectID(ctx)
	}
	return nil
}

// Files

func (s *StudyService) Files(ctx context.Context) ([]models.StudyFile, error) {
	files, err := s.fileRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.prefRepo.ActiveProjectID(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.FilterFiles(files, active), nil
}

// AddFile stores the uploaded PDF under the active project and queues the
// matching analysis job (edital or prova).
func (s *StudyService) AddFile(ctx context.Context, name, fileType string, data []byte) (*models.StudyFile, *models.Job, error) {
	pages, err := PDFPageCount(data)
	if err != nil {
		return nil, nil, &ValidationError{Fields: map[string]string{"file": "File must be a readable PDF"}}
	}

	active, err := s.prefRepo.ActiveProjectID(ctx)
	if err != nil {
		return nil, nil, err
	}
	projectID := strings.TrimSpace(active)
	if projectID == "" {
		projectID = models.DefaultProjectID
	}

	f := &models.StudyFile{
		ID:        ids.New(),
		ProjectID: projectID,
		Name:      name,
		Type:      fileType,
		Status:    models.FileStatusPending,
		Data:      data,
		PageCount: pages,
	}
	if err := s.fileRepo.Put(ctx, f); err != nil {
		return nil, nil, fmt.Errorf("failed to store file: %w", err)
	}

	jobType := models.JobEditalAnalysis
	if fileType == models.FileProva {
		jobType = models.JobExamAnalysis
	}
	job, err := s.QueueJob(ctx, jobType, f.ID, nil)
	if err != nil {
		return nil, nil, err
	}
	return f, job, nil
}

// SelectCargo resolves a multi-role announcement: the chosen cargo's topics
// become the file's study plan.
func (s *StudyService) SelectCargo(ctx context.Context, fileID, cargoName string) (*models.StudyFile, error) {
	f, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, &NotFoundError{Message: "File not found"}
	}

	for _, cargo := range f.AvailableCargos {
		if cargo.Name == cargoName {
			f.SelectedCargoName = cargo.Name
			f.ParsedTopics = cargo.Topics
			f.Status = models.FileStatusReady
			if err := s.fileRepo.UpdateAnalysis(ctx, f); err != nil {
				return nil, err
			}
			return f, nil
		}
	}
	return nil, &NotFoundError{Message: fmt.Sprintf("Cargo %q not found in file", cargoName)}
}

func (s *StudyService) DeleteFile(ctx context.Context, id string) error {
	return s.fileRepo.Delete(ctx, id)
}

// Attempts

func (s *StudyService) Attempts(ctx context.Context) ([]models.Attempt, error) {
	attempts, err := s.attemptRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.prefRepo.ActiveProjectID(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.FilterAttempts(attempts, active), nil
}

// FinishAttempt scores and stores a completed quiz session atomically.
// The score recorded here is the session-end estimate; the aggregation
// engine recomputes the authoritative numbers from the stored questions
// and answers.
func (s *StudyService) FinishAttempt(ctx context.Context, req *models.FinishAttemptRequest) (*models.Attempt, error) {
	if len(req.Questions) == 0 {
		return nil, &ValidationError{Fields: map[string]string{"questions": "An attempt needs at least one question"}}
	}

	active, err := s.prefRepo.ActiveProjectID(ctx)
	if err != nil {
		return nil, err
	}
	projectID := strings.TrimSpace(active)
	if projectID == "" {
		projectID = models.DefaultProjectID
	}

	attempt := &models.Attempt{
		ID:        ids.New(),
		ProjectID: projectID,
		Timestamp: time.Now().UnixMilli(),
		Questions: req.Questions,
		Answers:   req.Answers,
		Score:     analysis.ScoreAttempt(req.Questions, req.Answers),
		Mode:      req.Mode,
	}
	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to store attempt: %w", err)
	}
	return attempt, nil
}

// Preferences

func (s *StudyService) CurrentTab(ctx context.Context) (string, error) {
	return s.prefRepo.CurrentTab(ctx)
}

func (s *StudyService) SetCurrentTab(ctx context.Context, tab string) error {
	return s.prefRepo.SetCurrentTab(ctx, tab)
}

// QueueJob creates a job record and pushes it onto the matching Redis queue.
func (s *StudyService) QueueJob(ctx context.Context, jobType, referenceID string, config interface{}) (*models.Job, error) {
	job := &models.Job{
		Type:        jobType,
		ReferenceID: referenceID,
	}
	if config != nil {
		configBytes, err := json.Marshal(config)
		if err != nil {
			return nil, err
		}
		job.ConfigJSON = configBytes
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	jobBytes, _ := json.Marshal(job)
	if err := s.redis.LPush(ctx, "queue:"+jobType, string(jobBytes)).Err(); err != nil {
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}
	return job, nil
}
